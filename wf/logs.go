package wf

import (
	"time"

	"docflow/bizerror"
	"docflow/common"
	"docflow/domain"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

// RecordTransition appends one workflow log entry. It is called by the
// execution component at the moment a transition is actually carried out.
// Entries are never updated or deleted.
func (e *Engine) RecordTransition(c *WorkflowLogCreation) (*domain.WorkflowLog, error) {
	if c == nil || c.DocumentID == 0 || c.WorkflowID == 0 || c.UserID == 0 || c.TransitionID == 0 {
		return nil, bizerror.ErrInvalidArguments
	}

	entry := &domain.WorkflowLog{
		ID:           common.NextId(e.idWorker),
		DocumentID:   c.DocumentID,
		Version:      c.Version,
		WorkflowID:   c.WorkflowID,
		UserID:       c.UserID,
		TransitionID: c.TransitionID,
		CreateTime:   time.Now().Round(time.Millisecond),
		Comment:      c.Comment,
	}
	if err := e.dataSource.GormDB().Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// WorkflowLogs returns the log entries of one document version in execution
// order, hydrated with the acting user and the executed transition.
func (e *Engine) WorkflowLogs(documentID types.ID, version int) ([]WorkflowLogDetail, error) {
	if documentID == 0 {
		return nil, bizerror.ErrInvalidArguments
	}

	var records []domain.WorkflowLog
	if err := e.dataSource.GormDB().
		Where(&domain.WorkflowLog{DocumentID: documentID, Version: version}).
		Order("create_time ASC, id ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	details := []WorkflowLogDetail{}
	for _, record := range records {
		detail, err := e.hydrateLog(record)
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, nil
}

// LastWorkflowLog returns the latest entry of one document version within one
// workflow, or nil when nothing was executed yet.
func (e *Engine) LastWorkflowLog(documentID types.ID, version int, workflowID types.ID) (*WorkflowLogDetail, error) {
	if documentID == 0 || workflowID == 0 {
		return nil, bizerror.ErrInvalidArguments
	}

	record := domain.WorkflowLog{}
	err := e.dataSource.GormDB().
		Where(&domain.WorkflowLog{DocumentID: documentID, Version: version, WorkflowID: workflowID}).
		Order("create_time DESC, id DESC").First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e.hydrateLog(record)
}

func (e *Engine) hydrateLog(record domain.WorkflowLog) (*WorkflowLogDetail, error) {
	user, err := e.identities.ResolveUser(record.UserID)
	if err != nil {
		return nil, err
	}
	transition, err := e.Transition(record.TransitionID)
	if err != nil {
		return nil, err
	}
	return &WorkflowLogDetail{WorkflowLog: record, User: *user, Transition: *transition}, nil
}
