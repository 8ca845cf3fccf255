package domain

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

// WorkflowLog records one executed transition against one document version.
// Rows are append-only: the engine writes them on behalf of the execution
// component and never updates or deletes them.
type WorkflowLog struct {
	ID types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`

	DocumentID types.ID `json:"documentId" gorm:"index:idx_log_document"`
	Version    int      `json:"version"`

	WorkflowID   types.ID `json:"workflowId"`
	UserID       types.ID `json:"userId"`
	TransitionID types.ID `json:"transitionId"`

	CreateTime time.Time `json:"createTime" sql:"type:DATETIME NOT NULL"`
	Comment    string    `json:"comment" sql:"type:TEXT"`
}
