package bizerror

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidArguments is returned when a required entity reference is
	// missing, e.g. a graph query called with a zero state id.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrStillInUse blocks removal of a workflow, state or action that is
	// still referenced by transitions or document assignments.
	ErrStillInUse = errors.New("entity is still in use")

	// ErrTransitionDenied is the hard-deny outcome of a grant filter chain.
	// It is an authoritative negative result, distinct from an empty grant set.
	ErrTransitionDenied = errors.New("transition grants denied")

	ErrInitStateUnset = errors.New("workflow has no initial state")
)

type BizError interface {
	Respond() *BizErrorDetail
}

type BizErrorDetail struct {
	Status  int
	Code    string
	Message string

	Data  interface{}
	Cause error
}

type ErrBadParam struct {
	Cause error
}

func (e *ErrBadParam) Unwrap() error {
	return e.Cause
}
func (e *ErrBadParam) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "common.bad_param"
}
func (e *ErrBadParam) Respond() *BizErrorDetail {
	message := "common.bad_param"
	if e.Cause != nil {
		message = e.Cause.Error()
	}
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.bad_param", Message: message, Data: nil}
}
