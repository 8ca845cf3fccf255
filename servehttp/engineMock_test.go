package servehttp_test

import (
	"docflow/domain"
	"docflow/wf"

	"github.com/fundwit/go-commons/types"
)

type engineMock struct {
	CreateWorkflowFunc        func(c *wf.WorkflowCreation) (*domain.Workflow, error)
	DetailWorkflowFunc        func(id types.ID) (*wf.WorkflowDetail, error)
	RenameWorkflowFunc        func(id types.ID, name string) error
	SetWorkflowInitStateFunc  func(id types.ID, stateID types.ID) error
	SetWorkflowLayoutDataFunc func(id types.ID, layoutData string) error
	RemoveWorkflowFunc        func(id types.ID) error

	WorkflowTransitionsFunc func(workflowID types.ID) ([]wf.TransitionDetail, error)
	NextTransitionsFunc     func(workflowID types.ID, stateID types.ID) ([]wf.TransitionDetail, error)
	PreviousTransitionsFunc func(workflowID types.ID, stateID types.ID) ([]wf.TransitionDetail, error)
	TransitionsBetweenFunc  func(workflowID types.ID, fromStateID types.ID, toStateID types.ID) ([]wf.TransitionDetail, error)
	AddTransitionFunc       func(workflowID types.ID, c *wf.TransitionCreation) (*wf.TransitionDetail, error)
	RemoveTransitionFunc    func(id types.ID) error
	CheckForCyclesFunc      func(workflowID types.ID) ([]domain.WorkflowState, error)

	CreateStateFunc  func(c *wf.StateCreation) (*domain.WorkflowState, error)
	RenameStateFunc  func(id types.ID, name string) error
	RemoveStateFunc  func(id types.ID) error
	CreateActionFunc func(c *wf.ActionCreation) (*domain.WorkflowAction, error)
	RenameActionFunc func(id types.ID, name string) error
	RemoveActionFunc func(id types.ID) error

	TransitionUsersFunc  func(transitionID types.ID) ([]wf.UserGrant, error)
	TransitionGroupsFunc func(transitionID types.ID) ([]wf.GroupGrantDetail, error)

	RecordTransitionFunc func(c *wf.WorkflowLogCreation) (*domain.WorkflowLog, error)
	WorkflowLogsFunc     func(documentID types.ID, version int) ([]wf.WorkflowLogDetail, error)
}

func (m *engineMock) CreateWorkflow(c *wf.WorkflowCreation) (*domain.Workflow, error) {
	return m.CreateWorkflowFunc(c)
}
func (m *engineMock) DetailWorkflow(id types.ID) (*wf.WorkflowDetail, error) {
	return m.DetailWorkflowFunc(id)
}
func (m *engineMock) RenameWorkflow(id types.ID, name string) error {
	return m.RenameWorkflowFunc(id, name)
}
func (m *engineMock) SetWorkflowInitState(id types.ID, stateID types.ID) error {
	return m.SetWorkflowInitStateFunc(id, stateID)
}
func (m *engineMock) SetWorkflowLayoutData(id types.ID, layoutData string) error {
	return m.SetWorkflowLayoutDataFunc(id, layoutData)
}
func (m *engineMock) RemoveWorkflow(id types.ID) error {
	return m.RemoveWorkflowFunc(id)
}
func (m *engineMock) WorkflowTransitions(workflowID types.ID) ([]wf.TransitionDetail, error) {
	return m.WorkflowTransitionsFunc(workflowID)
}
func (m *engineMock) NextTransitions(workflowID types.ID, stateID types.ID) ([]wf.TransitionDetail, error) {
	return m.NextTransitionsFunc(workflowID, stateID)
}
func (m *engineMock) PreviousTransitions(workflowID types.ID, stateID types.ID) ([]wf.TransitionDetail, error) {
	return m.PreviousTransitionsFunc(workflowID, stateID)
}
func (m *engineMock) TransitionsBetween(workflowID types.ID, fromStateID types.ID, toStateID types.ID) ([]wf.TransitionDetail, error) {
	return m.TransitionsBetweenFunc(workflowID, fromStateID, toStateID)
}
func (m *engineMock) AddTransition(workflowID types.ID, c *wf.TransitionCreation) (*wf.TransitionDetail, error) {
	return m.AddTransitionFunc(workflowID, c)
}
func (m *engineMock) RemoveTransition(id types.ID) error {
	return m.RemoveTransitionFunc(id)
}
func (m *engineMock) CheckForCycles(workflowID types.ID) ([]domain.WorkflowState, error) {
	return m.CheckForCyclesFunc(workflowID)
}
func (m *engineMock) CreateState(c *wf.StateCreation) (*domain.WorkflowState, error) {
	return m.CreateStateFunc(c)
}
func (m *engineMock) RenameState(id types.ID, name string) error {
	return m.RenameStateFunc(id, name)
}
func (m *engineMock) RemoveState(id types.ID) error {
	return m.RemoveStateFunc(id)
}
func (m *engineMock) CreateAction(c *wf.ActionCreation) (*domain.WorkflowAction, error) {
	return m.CreateActionFunc(c)
}
func (m *engineMock) RenameAction(id types.ID, name string) error {
	return m.RenameActionFunc(id, name)
}
func (m *engineMock) RemoveAction(id types.ID) error {
	return m.RemoveActionFunc(id)
}
func (m *engineMock) TransitionUsers(transitionID types.ID) ([]wf.UserGrant, error) {
	return m.TransitionUsersFunc(transitionID)
}
func (m *engineMock) TransitionGroups(transitionID types.ID) ([]wf.GroupGrantDetail, error) {
	return m.TransitionGroupsFunc(transitionID)
}
func (m *engineMock) RecordTransition(c *wf.WorkflowLogCreation) (*domain.WorkflowLog, error) {
	return m.RecordTransitionFunc(c)
}
func (m *engineMock) WorkflowLogs(documentID types.ID, version int) ([]wf.WorkflowLogDetail, error) {
	return m.WorkflowLogsFunc(documentID, version)
}
