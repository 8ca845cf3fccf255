package servehttp

import (
	"errors"
	"net/http"

	"docflow/bizerror"
	"docflow/wf"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type WorkflowNameUpdating struct {
	Name string `json:"name" binding:"required"`
}

type WorkflowInitStateUpdating struct {
	StateID types.ID `json:"stateId" binding:"required"`
}

type WorkflowLayoutUpdating struct {
	LayoutData string `json:"layoutData"`
}

type TransitionQuery struct {
	FromState types.ID `form:"fromState"`
	ToState   types.ID `form:"toState"`
}

func RegisterWorkflowHandler(r *gin.Engine, engine wf.EngineTraits, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/workflows", middleWares...)

	handler := &workflowHandler{
		engine:    engine,
		validator: validator.New(),
	}

	g.POST("", handler.handleCreateWorkflow)
	g.GET(":workflowId", handler.handleDetailWorkflow)
	g.PUT(":workflowId/name", handler.handleRenameWorkflow)
	g.PUT(":workflowId/init-state", handler.handleUpdateInitState)
	g.PUT(":workflowId/layout", handler.handleUpdateLayout)
	g.DELETE(":workflowId", handler.handleDeleteWorkflow)

	g.GET(":workflowId/transitions", handler.handleQueryTransitions)
	g.POST(":workflowId/transitions", handler.handleCreateTransition)
	g.GET(":workflowId/cycle-check", handler.handleCheckForCycles)
}

type workflowHandler struct {
	engine    wf.EngineTraits
	validator *validator.Validate
}

func (h *workflowHandler) handleCreateWorkflow(c *gin.Context) {
	creation := wf.WorkflowCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	workflow, err := h.engine.CreateWorkflow(&creation)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, workflow)
}

func (h *workflowHandler) handleDetailWorkflow(c *gin.Context) {
	id := parseID(c, "workflowId")
	detail, err := h.engine.DetailWorkflow(id)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}

func (h *workflowHandler) handleRenameWorkflow(c *gin.Context) {
	id := parseID(c, "workflowId")
	updating := WorkflowNameUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.engine.RenameWorkflow(id, updating.Name); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}

func (h *workflowHandler) handleUpdateInitState(c *gin.Context) {
	id := parseID(c, "workflowId")
	updating := WorkflowInitStateUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.engine.SetWorkflowInitState(id, updating.StateID); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}

func (h *workflowHandler) handleUpdateLayout(c *gin.Context) {
	id := parseID(c, "workflowId")
	updating := WorkflowLayoutUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.engine.SetWorkflowLayoutData(id, updating.LayoutData); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}

func (h *workflowHandler) handleDeleteWorkflow(c *gin.Context) {
	id := parseID(c, "workflowId")
	if err := h.engine.RemoveWorkflow(id); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}

func (h *workflowHandler) handleQueryTransitions(c *gin.Context) {
	id := parseID(c, "workflowId")
	query := TransitionQuery{}
	_ = c.MustBindWith(&query, binding.Query)

	var transitions []wf.TransitionDetail
	var err error
	switch {
	case query.FromState != 0 && query.ToState != 0:
		transitions, err = h.engine.TransitionsBetween(id, query.FromState, query.ToState)
	case query.FromState != 0:
		transitions, err = h.engine.NextTransitions(id, query.FromState)
	case query.ToState != 0:
		transitions, err = h.engine.PreviousTransitions(id, query.ToState)
	default:
		transitions, err = h.engine.WorkflowTransitions(id)
	}
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, transitions)
}

func (h *workflowHandler) handleCreateTransition(c *gin.Context) {
	id := parseID(c, "workflowId")
	creation := wf.TransitionCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	transition, err := h.engine.AddTransition(id, &creation)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, transition)
}

func (h *workflowHandler) handleCheckForCycles(c *gin.Context) {
	id := parseID(c, "workflowId")
	cycle, err := h.engine.CheckForCycles(id)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, gin.H{"cycle": cycle})
}

func parseID(c *gin.Context, param string) types.ID {
	id, err := types.ParseID(c.Param(param))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param(param) + "'")})
	}
	return id
}
