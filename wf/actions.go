package wf

import (
	"time"

	"docflow/bizerror"
	"docflow/common"
	"docflow/domain"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

func (e *Engine) CreateAction(c *ActionCreation) (*domain.WorkflowAction, error) {
	if c == nil || c.Name == "" {
		return nil, bizerror.ErrInvalidArguments
	}
	action := &domain.WorkflowAction{
		ID:         common.NextId(e.idWorker),
		Name:       c.Name,
		CreateTime: time.Now().Round(time.Millisecond),
	}
	if err := e.dataSource.GormDB().Create(action).Error; err != nil {
		return nil, err
	}
	return action, nil
}

func (e *Engine) Action(id types.ID) (*domain.WorkflowAction, error) {
	action := domain.WorkflowAction{}
	if err := e.dataSource.GormDB().Where(&domain.WorkflowAction{ID: id}).First(&action).Error; err != nil {
		return nil, err
	}
	return &action, nil
}

func (e *Engine) RenameAction(id types.ID, name string) error {
	if name == "" {
		return bizerror.ErrInvalidArguments
	}
	db := e.dataSource.GormDB().Model(&domain.WorkflowAction{}).
		Where(&domain.WorkflowAction{ID: id}).Update("name", name)
	if db.Error != nil {
		return db.Error
	}
	if db.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ActionIsUsed reports whether any transition is labeled with the action.
func (e *Engine) ActionIsUsed(id types.ID) (bool, error) {
	return actionIsUsed(e.dataSource.GormDB(), id)
}

func actionIsUsed(db *gorm.DB, id types.ID) (bool, error) {
	count := 0
	if err := db.Model(&domain.WorkflowTransition{}).
		Where(&domain.WorkflowTransition{ActionID: id}).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ActionTransitions returns every transition labeled with the action, hydrated.
func (e *Engine) ActionTransitions(id types.ID) ([]TransitionDetail, error) {
	db := e.dataSource.GormDB()
	var records []domain.WorkflowTransition
	if err := db.Where(&domain.WorkflowTransition{ActionID: id}).
		Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return hydrateTransitions(db, records)
}

// RemoveAction deletes the action unless a transition still references it.
func (e *Engine) RemoveAction(id types.ID) error {
	return e.dataSource.GormDB().Transaction(func(tx *gorm.DB) error {
		action := domain.WorkflowAction{}
		if err := tx.Where(&domain.WorkflowAction{ID: id}).First(&action).Error; err != nil {
			return err
		}

		used, err := actionIsUsed(tx, id)
		if err != nil {
			return err
		}
		if used {
			return bizerror.ErrStillInUse
		}

		return tx.Delete(&domain.WorkflowAction{ID: id}).Error
	})
}
