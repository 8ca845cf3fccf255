package wf

import (
	"docflow/bizerror"
	"docflow/common"
	"docflow/domain"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

func (e *Engine) Transition(id types.ID) (*TransitionDetail, error) {
	db := e.dataSource.GormDB()
	record := domain.WorkflowTransition{}
	if err := db.Where(&domain.WorkflowTransition{ID: id}).First(&record).Error; err != nil {
		return nil, err
	}
	hydrated, err := hydrateTransitions(db, []domain.WorkflowTransition{record})
	if err != nil {
		return nil, err
	}
	return &hydrated[0], nil
}

func (e *Engine) SetTransitionMaxTime(id types.ID, maxTime int) error {
	record, err := e.updateTransitionColumn(id, "max_time", maxTime)
	if err != nil {
		return err
	}
	e.invalidateWorkflowTransitions(record.WorkflowID)
	return nil
}

func (e *Engine) SetTransitionFromState(id types.ID, stateID types.ID) error {
	if err := e.requireState(stateID); err != nil {
		return err
	}
	record, err := e.updateTransitionColumn(id, "from_state_id", stateID)
	if err != nil {
		return err
	}
	e.invalidateWorkflowTransitions(record.WorkflowID)
	return nil
}

func (e *Engine) SetTransitionToState(id types.ID, stateID types.ID) error {
	if err := e.requireState(stateID); err != nil {
		return err
	}
	record, err := e.updateTransitionColumn(id, "to_state_id", stateID)
	if err != nil {
		return err
	}
	e.invalidateWorkflowTransitions(record.WorkflowID)
	return nil
}

func (e *Engine) SetTransitionAction(id types.ID, actionID types.ID) error {
	if actionID == 0 {
		return bizerror.ErrInvalidArguments
	}
	action := domain.WorkflowAction{}
	if err := e.dataSource.GormDB().Where(&domain.WorkflowAction{ID: actionID}).First(&action).Error; err != nil {
		return err
	}
	record, err := e.updateTransitionColumn(id, "action_id", actionID)
	if err != nil {
		return err
	}
	e.invalidateWorkflowTransitions(record.WorkflowID)
	return nil
}

// SetTransitionWorkflow moves the edge into another workflow. Both the old and
// the new workflow's cached sets go stale.
func (e *Engine) SetTransitionWorkflow(id types.ID, workflowID types.ID) error {
	if workflowID == 0 {
		return bizerror.ErrInvalidArguments
	}
	workflow := domain.Workflow{}
	if err := e.dataSource.GormDB().Where(&domain.Workflow{ID: workflowID}).First(&workflow).Error; err != nil {
		return err
	}
	record, err := e.updateTransitionColumn(id, "workflow_id", workflowID)
	if err != nil {
		return err
	}
	e.invalidateWorkflowTransitions(record.WorkflowID)
	e.invalidateWorkflowTransitions(workflowID)
	return nil
}

func (e *Engine) requireState(stateID types.ID) error {
	if stateID == 0 {
		return bizerror.ErrInvalidArguments
	}
	state := domain.WorkflowState{}
	return e.dataSource.GormDB().Where(&domain.WorkflowState{ID: stateID}).First(&state).Error
}

// updateTransitionColumn persists one field and returns the row as it was
// before the update, so callers know which workflow's cache to drop.
func (e *Engine) updateTransitionColumn(id types.ID, column string, value interface{}) (*domain.WorkflowTransition, error) {
	db := e.dataSource.GormDB()
	record := domain.WorkflowTransition{}
	if err := db.Where(&domain.WorkflowTransition{ID: id}).First(&record).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.WorkflowTransition{}).
		Where(&domain.WorkflowTransition{ID: id}).Update(column, value).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// TransitionUsers resolves the users permitted to trigger the transition,
// folded through the registered user filters in registration order. The result
// is cached only after the full chain ran; a hard deny is never cached.
func (e *Engine) TransitionUsers(transitionID types.ID) ([]UserGrant, error) {
	if cached, found := e.caches.Get(transitionUsersCacheKey(transitionID)); found {
		return cached.([]UserGrant), nil
	}

	transition, err := e.Transition(transitionID)
	if err != nil {
		return nil, err
	}

	var records []domain.TransitionUser
	if err := e.dataSource.GormDB().Where(&domain.TransitionUser{TransitionID: transitionID}).
		Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	grants := []UserGrant{}
	for _, record := range records {
		user, err := e.identities.ResolveUser(record.UserID)
		if err != nil {
			return nil, err
		}
		grants = append(grants, UserGrant{TransitionUser: record, User: *user})
	}

	grants, denied := e.filters.filterUsers(*transition, grants)
	if denied {
		return nil, bizerror.ErrTransitionDenied
	}

	e.caches.SetDefault(transitionUsersCacheKey(transitionID), grants)
	return grants, nil
}

// TransitionGroups resolves the (group, minUsers) grants of the transition,
// folded through the registered group filters. The quorum is exposed as
// configured, whether it is met is decided elsewhere.
func (e *Engine) TransitionGroups(transitionID types.ID) ([]GroupGrantDetail, error) {
	if cached, found := e.caches.Get(transitionGroupsCacheKey(transitionID)); found {
		return cached.([]GroupGrantDetail), nil
	}

	transition, err := e.Transition(transitionID)
	if err != nil {
		return nil, err
	}

	var records []domain.TransitionGroup
	if err := e.dataSource.GormDB().Where(&domain.TransitionGroup{TransitionID: transitionID}).
		Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	grants := []GroupGrantDetail{}
	for _, record := range records {
		group, err := e.identities.ResolveGroup(record.GroupID)
		if err != nil {
			return nil, err
		}
		grants = append(grants, GroupGrantDetail{TransitionGroup: record, Group: *group})
	}

	grants, denied := e.filters.filterGroups(*transition, grants)
	if denied {
		return nil, bizerror.ErrTransitionDenied
	}

	e.caches.SetDefault(transitionGroupsCacheKey(transitionID), grants)
	return grants, nil
}

func (e *Engine) AddTransitionUser(transitionID types.ID, userID types.ID) (*domain.TransitionUser, error) {
	if userID == 0 {
		return nil, bizerror.ErrInvalidArguments
	}
	if _, err := e.Transition(transitionID); err != nil {
		return nil, err
	}
	grant := &domain.TransitionUser{
		ID: common.NextId(e.idWorker), TransitionID: transitionID, UserID: userID,
	}
	if err := e.dataSource.GormDB().Create(grant).Error; err != nil {
		return nil, err
	}
	e.invalidateTransitionGrants(transitionID)
	return grant, nil
}

func (e *Engine) AddTransitionGroup(transitionID types.ID, g GroupGrant) (*domain.TransitionGroup, error) {
	if g.GroupID == 0 {
		return nil, bizerror.ErrInvalidArguments
	}
	if _, err := e.Transition(transitionID); err != nil {
		return nil, err
	}
	minUsers := g.MinUsers
	if minUsers < 1 {
		minUsers = 1
	}
	grant := &domain.TransitionGroup{
		ID: common.NextId(e.idWorker), TransitionID: transitionID, GroupID: g.GroupID, MinUsers: minUsers,
	}
	if err := e.dataSource.GormDB().Create(grant).Error; err != nil {
		return nil, err
	}
	e.invalidateTransitionGrants(transitionID)
	return grant, nil
}

// RemoveTransition deletes the transition together with its grant rows. Grant
// rows belong to exactly one transition, leaving them orphaned would let a
// re-used id inherit stale authorizations.
func (e *Engine) RemoveTransition(id types.ID) error {
	db := e.dataSource.GormDB()
	record := domain.WorkflowTransition{}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&domain.WorkflowTransition{ID: id}).First(&record).Error; err != nil {
			return err
		}
		if err := tx.Where("transition_id = ?", id).Delete(&domain.TransitionUser{}).Error; err != nil {
			return err
		}
		if err := tx.Where("transition_id = ?", id).Delete(&domain.TransitionGroup{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.WorkflowTransition{ID: id}).Error
	})
	if err != nil {
		return err
	}

	e.invalidateWorkflowTransitions(record.WorkflowID)
	e.invalidateTransitionGrants(id)
	return nil
}
