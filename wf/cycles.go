package wf

import (
	"docflow/bizerror"
	"docflow/domain"

	"github.com/fundwit/go-commons/types"
)

type cycleFrame struct {
	out  []TransitionDetail
	next int
}

// CheckForCycles walks the transition graph depth-first from the workflow's
// initial state and returns the first cycle found as the visited path, with
// the repeated state appended so that the first and last entry share an id.
// An acyclic workflow yields a nil path. Outgoing edges are explored in the
// order storage returns them, so which of several independent cycles is
// reported depends on that order.
//
// The walk is iterative with an explicit frame stack. The repeated-state check
// bounds every path at the number of distinct states plus one, which also
// bounds the stack.
func (e *Engine) CheckForCycles(workflowID types.ID) ([]domain.WorkflowState, error) {
	workflow, err := e.Workflow(workflowID)
	if err != nil {
		return nil, err
	}
	if workflow.InitStateID == 0 {
		return nil, bizerror.ErrInitStateUnset
	}
	initState, err := e.State(workflow.InitStateID)
	if err != nil {
		return nil, err
	}

	out, err := e.NextTransitions(workflowID, initState.ID)
	if err != nil {
		return nil, err
	}

	path := []domain.WorkflowState{*initState}
	stack := []cycleFrame{{out: out}}

	for len(stack) > 0 {
		frame := &stack[len(stack)-1]
		if frame.next >= len(frame.out) {
			// dead end, backtrack
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
			continue
		}

		transition := frame.out[frame.next]
		frame.next++

		nextState := transition.To
		for _, visited := range path {
			if visited.ID == nextState.ID {
				return append(path, nextState), nil
			}
		}

		out, err := e.NextTransitions(workflowID, nextState.ID)
		if err != nil {
			return nil, err
		}
		path = append(path, nextState)
		stack = append(stack, cycleFrame{out: out})
	}

	return nil, nil
}
