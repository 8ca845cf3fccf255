package wf

import (
	"time"

	"docflow/bizerror"
	"docflow/common"
	"docflow/domain"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

func (e *Engine) CreateState(c *StateCreation) (*domain.WorkflowState, error) {
	if c == nil || c.Name == "" {
		return nil, bizerror.ErrInvalidArguments
	}
	state := &domain.WorkflowState{
		ID:             common.NextId(e.idWorker),
		Name:           c.Name,
		MaxTime:        c.MaxTime,
		Precondition:   c.Precondition,
		DocumentStatus: c.DocumentStatus,
		CreateTime:     time.Now().Round(time.Millisecond),
	}
	if err := e.dataSource.GormDB().Create(state).Error; err != nil {
		return nil, err
	}
	return state, nil
}

func (e *Engine) State(id types.ID) (*domain.WorkflowState, error) {
	state := domain.WorkflowState{}
	if err := e.dataSource.GormDB().Where(&domain.WorkflowState{ID: id}).First(&state).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

func (e *Engine) RenameState(id types.ID, name string) error {
	if name == "" {
		return bizerror.ErrInvalidArguments
	}
	return e.updateStateColumn(id, "name", name)
}

func (e *Engine) SetStateMaxTime(id types.ID, maxTime int) error {
	return e.updateStateColumn(id, "max_time", maxTime)
}

func (e *Engine) SetStatePrecondition(id types.ID, precondition string) error {
	return e.updateStateColumn(id, "precondition", precondition)
}

func (e *Engine) SetStateDocumentStatus(id types.ID, status domain.DocStatus) error {
	return e.updateStateColumn(id, "document_status", status)
}

func (e *Engine) updateStateColumn(id types.ID, column string, value interface{}) error {
	db := e.dataSource.GormDB().Model(&domain.WorkflowState{}).
		Where(&domain.WorkflowState{ID: id}).Update(column, value)
	if db.Error != nil {
		return db.Error
	}
	if db.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// StateIsUsed reports whether any transition references the state as either endpoint.
func (e *Engine) StateIsUsed(id types.ID) (bool, error) {
	return stateIsUsed(e.dataSource.GormDB(), id)
}

func stateIsUsed(db *gorm.DB, id types.ID) (bool, error) {
	count := 0
	if err := db.Model(&domain.WorkflowTransition{}).
		Where("from_state_id = ? OR to_state_id = ?", id, id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// StateTransitions returns every transition touching the state, hydrated.
func (e *Engine) StateTransitions(id types.ID) ([]TransitionDetail, error) {
	db := e.dataSource.GormDB()
	var records []domain.WorkflowTransition
	if err := db.Where("from_state_id = ? OR to_state_id = ?", id, id).
		Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return hydrateTransitions(db, records)
}

// RemoveState deletes the state unless a transition still references it.
func (e *Engine) RemoveState(id types.ID) error {
	return e.dataSource.GormDB().Transaction(func(tx *gorm.DB) error {
		state := domain.WorkflowState{}
		if err := tx.Where(&domain.WorkflowState{ID: id}).First(&state).Error; err != nil {
			return err
		}

		used, err := stateIsUsed(tx, id)
		if err != nil {
			return err
		}
		if used {
			return bizerror.ErrStillInUse
		}

		return tx.Delete(&domain.WorkflowState{ID: id}).Error
	})
}
