package wf

import (
	"time"

	"docflow/bizerror"
	"docflow/common"
	"docflow/domain"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

func (e *Engine) CreateWorkflow(c *WorkflowCreation) (*domain.Workflow, error) {
	if c == nil || c.Name == "" {
		return nil, bizerror.ErrInvalidArguments
	}

	workflow := &domain.Workflow{
		ID:          common.NextId(e.idWorker),
		Name:        c.Name,
		InitStateID: c.InitStateID,
		LayoutData:  c.LayoutData,
		CreateTime:  time.Now().Round(time.Millisecond),
	}

	db := e.dataSource.GormDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if c.InitStateID != 0 {
			initState := domain.WorkflowState{}
			if err := tx.Where(&domain.WorkflowState{ID: c.InitStateID}).First(&initState).Error; err != nil {
				return err
			}
		}
		return tx.Create(workflow).Error
	})
	if err != nil {
		return nil, err
	}
	return workflow, nil
}

func (e *Engine) Workflow(id types.ID) (*domain.Workflow, error) {
	workflow := domain.Workflow{}
	if err := e.dataSource.GormDB().Where(&domain.Workflow{ID: id}).First(&workflow).Error; err != nil {
		return nil, err
	}
	return &workflow, nil
}

func (e *Engine) DetailWorkflow(id types.ID) (*WorkflowDetail, error) {
	workflow, err := e.Workflow(id)
	if err != nil {
		return nil, err
	}
	transitions, err := e.WorkflowTransitions(id)
	if err != nil {
		return nil, err
	}
	states, err := e.WorkflowStates(id)
	if err != nil {
		return nil, err
	}
	return &WorkflowDetail{Workflow: *workflow, States: states, Transitions: transitions}, nil
}

func (e *Engine) RenameWorkflow(id types.ID, name string) error {
	if name == "" {
		return bizerror.ErrInvalidArguments
	}
	return e.updateWorkflowColumn(id, "name", name)
}

func (e *Engine) SetWorkflowInitState(id types.ID, stateID types.ID) error {
	if stateID == 0 {
		return bizerror.ErrInvalidArguments
	}
	state := domain.WorkflowState{}
	if err := e.dataSource.GormDB().Where(&domain.WorkflowState{ID: stateID}).First(&state).Error; err != nil {
		return err
	}
	return e.updateWorkflowColumn(id, "init_state_id", stateID)
}

// SetWorkflowLayoutData stores the opaque graph rendering blob unmodified.
func (e *Engine) SetWorkflowLayoutData(id types.ID, layoutData string) error {
	return e.updateWorkflowColumn(id, "layout_data", layoutData)
}

func (e *Engine) updateWorkflowColumn(id types.ID, column string, value interface{}) error {
	db := e.dataSource.GormDB().Model(&domain.Workflow{}).
		Where(&domain.Workflow{ID: id}).Update(column, value)
	if db.Error != nil {
		return db.Error
	}
	if db.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// WorkflowIsUsed reports whether any document version is assigned to the workflow.
func (e *Engine) WorkflowIsUsed(id types.ID) (bool, error) {
	return workflowIsUsed(e.dataSource.GormDB(), id)
}

func workflowIsUsed(db *gorm.DB, id types.ID) (bool, error) {
	count := 0
	if err := db.Model(&domain.DocumentWorkflow{}).
		Where(&domain.DocumentWorkflow{WorkflowID: id}).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// RemoveWorkflow deletes the workflow, its transitions and their grant rows,
// and any mandatory-workflow associations, atomically. It refuses while any
// document still references the workflow.
func (e *Engine) RemoveWorkflow(id types.ID) error {
	var transitionIDs []types.ID
	db := e.dataSource.GormDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		workflow := domain.Workflow{}
		if err := tx.Where(&domain.Workflow{ID: id}).First(&workflow).Error; err != nil {
			return err
		}

		used, err := workflowIsUsed(tx, id)
		if err != nil {
			return err
		}
		if used {
			return bizerror.ErrStillInUse
		}

		var records []domain.WorkflowTransition
		if err := tx.Where(&domain.WorkflowTransition{WorkflowID: id}).Find(&records).Error; err != nil {
			return err
		}
		for _, record := range records {
			transitionIDs = append(transitionIDs, record.ID)
		}

		if len(transitionIDs) > 0 {
			if err := tx.Where("transition_id IN (?)", transitionIDs).
				Delete(&domain.TransitionUser{}).Error; err != nil {
				return err
			}
			if err := tx.Where("transition_id IN (?)", transitionIDs).
				Delete(&domain.TransitionGroup{}).Error; err != nil {
				return err
			}
			if err := tx.Where("workflow_id = ?", id).
				Delete(&domain.WorkflowTransition{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("workflow_id = ?", id).
			Delete(&domain.MandatoryWorkflow{}).Error; err != nil {
			return err
		}

		return tx.Delete(&domain.Workflow{ID: id}).Error
	})
	if err != nil {
		return err
	}

	e.invalidateWorkflowTransitions(id)
	for _, transitionID := range transitionIDs {
		e.invalidateTransitionGrants(transitionID)
	}
	return nil
}

// WorkflowTransitions returns the workflow's transition set, serving the
// cached set when present. A query failure is reported as an error, never as
// an empty set.
func (e *Engine) WorkflowTransitions(workflowID types.ID) ([]TransitionDetail, error) {
	if cached, found := e.caches.Get(transitionsCacheKey(workflowID)); found {
		return cached.([]TransitionDetail), nil
	}

	db := e.dataSource.GormDB()
	var records []domain.WorkflowTransition
	if err := db.Where(&domain.WorkflowTransition{WorkflowID: workflowID}).
		Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	transitions, err := hydrateTransitions(db, records)
	if err != nil {
		return nil, err
	}

	e.caches.SetDefault(transitionsCacheKey(workflowID), transitions)
	return transitions, nil
}

// WorkflowStates computes the set of distinct states visited as either
// endpoint across all transitions. Reachability is discovered by scanning, a
// state never touched by a transition does not appear.
func (e *Engine) WorkflowStates(workflowID types.ID) ([]domain.WorkflowState, error) {
	transitions, err := e.WorkflowTransitions(workflowID)
	if err != nil {
		return nil, err
	}

	seen := map[types.ID]bool{}
	var states []domain.WorkflowState
	for _, t := range transitions {
		if !seen[t.From.ID] {
			seen[t.From.ID] = true
			states = append(states, t.From)
		}
		if !seen[t.To.ID] {
			seen[t.To.ID] = true
			states = append(states, t.To)
		}
	}
	return states, nil
}

// WorkflowTransition looks a transition up by id within the cached set.
func (e *Engine) WorkflowTransition(workflowID types.ID, transitionID types.ID) (*TransitionDetail, error) {
	transitions, err := e.WorkflowTransitions(workflowID)
	if err != nil {
		return nil, err
	}
	for i := range transitions {
		if transitions[i].ID == transitionID {
			return &transitions[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// NextTransitions returns the transitions that can be triggered while being in
// the given state. The lookup goes to storage directly, not the cached set.
func (e *Engine) NextTransitions(workflowID types.ID, stateID types.ID) ([]TransitionDetail, error) {
	if stateID == 0 {
		return nil, bizerror.ErrInvalidArguments
	}
	db := e.dataSource.GormDB()
	var records []domain.WorkflowTransition
	if err := db.Where(&domain.WorkflowTransition{WorkflowID: workflowID, FromStateID: stateID}).
		Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return hydrateTransitions(db, records)
}

// PreviousTransitions returns the transitions leading into the given state.
func (e *Engine) PreviousTransitions(workflowID types.ID, stateID types.ID) ([]TransitionDetail, error) {
	if stateID == 0 {
		return nil, bizerror.ErrInvalidArguments
	}
	db := e.dataSource.GormDB()
	var records []domain.WorkflowTransition
	if err := db.Where(&domain.WorkflowTransition{WorkflowID: workflowID, ToStateID: stateID}).
		Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return hydrateTransitions(db, records)
}

// TransitionsBetween returns every transition from one state into another,
// parallel edges included.
func (e *Engine) TransitionsBetween(workflowID types.ID, fromStateID types.ID, toStateID types.ID) ([]TransitionDetail, error) {
	if fromStateID == 0 || toStateID == 0 {
		return nil, bizerror.ErrInvalidArguments
	}
	db := e.dataSource.GormDB()
	var records []domain.WorkflowTransition
	if err := db.Where(&domain.WorkflowTransition{WorkflowID: workflowID, FromStateID: fromStateID, ToStateID: toStateID}).
		Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return hydrateTransitions(db, records)
}

// AddTransition inserts a transition with its grant rows as one transaction.
// Any single insert failure rolls the whole operation back, leaving neither
// the transition nor any grant row behind.
func (e *Engine) AddTransition(workflowID types.ID, c *TransitionCreation) (*TransitionDetail, error) {
	if c == nil || c.FromStateID == 0 || c.ActionID == 0 || c.ToStateID == 0 {
		return nil, bizerror.ErrInvalidArguments
	}

	var detail *TransitionDetail
	db := e.dataSource.GormDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		workflow := domain.Workflow{}
		if err := tx.Where(&domain.Workflow{ID: workflowID}).First(&workflow).Error; err != nil {
			return err
		}

		record := &domain.WorkflowTransition{
			ID:          common.NextId(e.idWorker),
			WorkflowID:  workflowID,
			FromStateID: c.FromStateID,
			ActionID:    c.ActionID,
			ToStateID:   c.ToStateID,
			MaxTime:     c.MaxTime,
			CreateTime:  time.Now().Round(time.Millisecond),
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		// re-read the persisted row so grants reference what storage holds,
		// not what was handed in
		persisted := domain.WorkflowTransition{}
		if err := tx.Where(&domain.WorkflowTransition{ID: record.ID}).First(&persisted).Error; err != nil {
			return err
		}
		hydrated, err := hydrateTransitions(tx, []domain.WorkflowTransition{persisted})
		if err != nil {
			return err
		}

		for _, userID := range c.UserIDs {
			grant := &domain.TransitionUser{
				ID: common.NextId(e.idWorker), TransitionID: persisted.ID, UserID: userID,
			}
			if err := tx.Create(grant).Error; err != nil {
				return err
			}
		}
		for _, group := range c.Groups {
			minUsers := group.MinUsers
			if minUsers < 1 {
				minUsers = 1
			}
			grant := &domain.TransitionGroup{
				ID: common.NextId(e.idWorker), TransitionID: persisted.ID, GroupID: group.GroupID, MinUsers: minUsers,
			}
			if err := tx.Create(grant).Error; err != nil {
				return err
			}
		}

		detail = &hydrated[0]
		return nil
	})
	if err != nil {
		return nil, err
	}

	// the cached set predates this insert, drop it so the next read reloads
	e.invalidateWorkflowTransitions(workflowID)
	return detail, nil
}

// RemoveWorkflowTransition delegates to RemoveTransition. Kept for callers
// that still address removal through the workflow.
func (e *Engine) RemoveWorkflowTransition(transitionID types.ID) error {
	return e.RemoveTransition(transitionID)
}

// hydrateTransitions resolves the state and action endpoints of each record.
// A dangling reference surfaces as gorm.ErrRecordNotFound.
func hydrateTransitions(db *gorm.DB, records []domain.WorkflowTransition) ([]TransitionDetail, error) {
	states := map[types.ID]domain.WorkflowState{}
	actions := map[types.ID]domain.WorkflowAction{}

	loadState := func(id types.ID) (domain.WorkflowState, error) {
		if state, found := states[id]; found {
			return state, nil
		}
		state := domain.WorkflowState{}
		if err := db.Where(&domain.WorkflowState{ID: id}).First(&state).Error; err != nil {
			return state, err
		}
		states[id] = state
		return state, nil
	}

	transitions := []TransitionDetail{}
	for _, record := range records {
		from, err := loadState(record.FromStateID)
		if err != nil {
			return nil, err
		}
		to, err := loadState(record.ToStateID)
		if err != nil {
			return nil, err
		}

		action, found := actions[record.ActionID]
		if !found {
			if err := db.Where(&domain.WorkflowAction{ID: record.ActionID}).First(&action).Error; err != nil {
				return nil, err
			}
			actions[record.ActionID] = action
		}

		transitions = append(transitions, TransitionDetail{
			WorkflowTransition: record, From: from, Action: action, To: to,
		})
	}
	return transitions, nil
}
