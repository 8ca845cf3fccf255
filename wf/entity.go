package wf

import (
	"docflow/domain"
	"docflow/identity"

	"github.com/fundwit/go-commons/types"
)

type WorkflowCreation struct {
	Name        string   `json:"name" binding:"required"`
	InitStateID types.ID `json:"initStateId"`
	LayoutData  string   `json:"layoutData"`
}

type StateCreation struct {
	Name           string           `json:"name" binding:"required"`
	MaxTime        int              `json:"maxTime"`
	Precondition   string           `json:"precondition"`
	DocumentStatus domain.DocStatus `json:"documentStatus"`
}

type ActionCreation struct {
	Name string `json:"name" binding:"required"`
}

// GroupGrant is the caller-facing shape of a group authorization. A MinUsers
// of zero falls back to the baseline quorum of one.
type GroupGrant struct {
	GroupID  types.ID `json:"groupId" binding:"required"`
	MinUsers int      `json:"minUsers"`
}

type TransitionCreation struct {
	FromStateID types.ID `json:"fromStateId" binding:"required"`
	ActionID    types.ID `json:"actionId" binding:"required"`
	ToStateID   types.ID `json:"toStateId" binding:"required"`
	MaxTime     int      `json:"maxTime"`

	UserIDs []types.ID   `json:"userIds"`
	Groups  []GroupGrant `json:"groups"`
}

// TransitionDetail is a transition row hydrated with its resolved endpoints.
type TransitionDetail struct {
	domain.WorkflowTransition

	From   domain.WorkflowState  `json:"from"`
	Action domain.WorkflowAction `json:"action"`
	To     domain.WorkflowState  `json:"to"`
}

type WorkflowDetail struct {
	domain.Workflow

	States      []domain.WorkflowState `json:"states"`
	Transitions []TransitionDetail     `json:"transitions"`
}

type UserGrant struct {
	domain.TransitionUser

	User identity.User `json:"user"`
}

type GroupGrantDetail struct {
	domain.TransitionGroup

	Group identity.Group `json:"group"`
}

type WorkflowLogCreation struct {
	DocumentID   types.ID `json:"documentId" binding:"required"`
	Version      int      `json:"version" binding:"required"`
	WorkflowID   types.ID `json:"workflowId" binding:"required"`
	UserID       types.ID `json:"userId" binding:"required"`
	TransitionID types.ID `json:"transitionId" binding:"required"`
	Comment      string   `json:"comment"`
}

type WorkflowLogDetail struct {
	domain.WorkflowLog

	User       identity.User    `json:"user"`
	Transition TransitionDetail `json:"transition"`
}
