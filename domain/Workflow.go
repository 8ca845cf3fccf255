package domain

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

type Workflow struct {
	ID   types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Name string   `json:"name"`

	InitStateID types.ID  `json:"initStateId"`
	LayoutData  string    `json:"layoutData" sql:"type:TEXT"`
	CreateTime  time.Time `json:"createTime" sql:"type:DATETIME NOT NULL"`
}

type WorkflowState struct {
	ID   types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Name string   `json:"name"`

	// MaxTime is the maximum dwell time in seconds, 0 means unbounded.
	// Enforcement of the budget is up to an external scheduler.
	MaxTime int `json:"maxTime"`

	// Precondition names an externally evaluated predicate, opaque here.
	Precondition string `json:"precondition"`

	DocumentStatus DocStatus `json:"documentStatus"`
	CreateTime     time.Time `json:"createTime" sql:"type:DATETIME NOT NULL"`
}

type WorkflowAction struct {
	ID   types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Name string   `json:"name"`

	CreateTime time.Time `json:"createTime" sql:"type:DATETIME NOT NULL"`
}

// WorkflowTransition is a directed edge (fromState, action, toState) within one
// workflow. (workflow, fromState, action) is intentionally not unique: parallel
// edges to different target states are legal and must all show up in queries.
type WorkflowTransition struct {
	ID         types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	WorkflowID types.ID `json:"workflowId" gorm:"index:idx_transition_workflow"`

	FromStateID types.ID `json:"fromStateId"`
	ActionID    types.ID `json:"actionId"`
	ToStateID   types.ID `json:"toStateId"`

	MaxTime    int       `json:"maxTime"`
	CreateTime time.Time `json:"createTime" sql:"type:DATETIME NOT NULL"`
}

// TransitionUser declares a single user as sufficient to trigger a transition.
type TransitionUser struct {
	ID           types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	TransitionID types.ID `json:"transitionId" gorm:"index:idx_grant_user_transition"`
	UserID       types.ID `json:"userId"`
}

// TransitionGroup declares that MinUsers distinct members of a group must
// collectively approve. The quorum is stored and exposed only, never evaluated
// by this core.
type TransitionGroup struct {
	ID           types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	TransitionID types.ID `json:"transitionId" gorm:"index:idx_grant_group_transition"`
	GroupID      types.ID `json:"groupId"`
	MinUsers     int      `json:"minUsers"`
}

// DocumentWorkflow assigns a workflow to one document version. Rows are written
// by the document component; the engine only reads them for usage checks.
type DocumentWorkflow struct {
	DocumentID types.ID `json:"documentId" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Version    int      `json:"version" gorm:"primary_key"`
	WorkflowID types.ID `json:"workflowId" gorm:"index:idx_document_workflow"`
	StateID    types.ID `json:"stateId"`
}

// MandatoryWorkflow marks a workflow as the default for documents of a user.
type MandatoryWorkflow struct {
	UserID     types.ID `json:"userId" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	WorkflowID types.ID `json:"workflowId" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
}
