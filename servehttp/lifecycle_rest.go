package servehttp

import (
	"net/http"
	"strconv"

	"docflow/bizerror"
	"docflow/wf"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type NameUpdating struct {
	Name string `json:"name" binding:"required"`
}

// RegisterLifecycleHandler exposes the state/action/transition lifecycle and
// the workflow log surface.
func RegisterLifecycleHandler(r *gin.Engine, engine wf.EngineTraits, middleWares ...gin.HandlerFunc) {
	handler := &lifecycleHandler{
		engine:    engine,
		validator: validator.New(),
	}

	states := r.Group("/v1/workflow-states", middleWares...)
	states.POST("", handler.handleCreateState)
	states.PUT(":stateId/name", handler.handleRenameState)
	states.DELETE(":stateId", handler.handleDeleteState)

	actions := r.Group("/v1/workflow-actions", middleWares...)
	actions.POST("", handler.handleCreateAction)
	actions.PUT(":actionId/name", handler.handleRenameAction)
	actions.DELETE(":actionId", handler.handleDeleteAction)

	transitions := r.Group("/v1/transitions", middleWares...)
	transitions.DELETE(":transitionId", handler.handleDeleteTransition)
	transitions.GET(":transitionId/users", handler.handleTransitionUsers)
	transitions.GET(":transitionId/groups", handler.handleTransitionGroups)

	logs := r.Group("/v1/workflow-logs", middleWares...)
	logs.POST("", handler.handleRecordTransition)
	r.GET("/v1/documents/:documentId/versions/:version/workflow-logs", append(middleWares, handler.handleQueryWorkflowLogs)...)
}

type lifecycleHandler struct {
	engine    wf.EngineTraits
	validator *validator.Validate
}

func (h *lifecycleHandler) handleCreateState(c *gin.Context) {
	creation := wf.StateCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	state, err := h.engine.CreateState(&creation)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, state)
}

func (h *lifecycleHandler) handleRenameState(c *gin.Context) {
	id := parseID(c, "stateId")
	updating := NameUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.engine.RenameState(id, updating.Name); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}

func (h *lifecycleHandler) handleDeleteState(c *gin.Context) {
	id := parseID(c, "stateId")
	if err := h.engine.RemoveState(id); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}

func (h *lifecycleHandler) handleCreateAction(c *gin.Context) {
	creation := wf.ActionCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	action, err := h.engine.CreateAction(&creation)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, action)
}

func (h *lifecycleHandler) handleRenameAction(c *gin.Context) {
	id := parseID(c, "actionId")
	updating := NameUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.engine.RenameAction(id, updating.Name); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}

func (h *lifecycleHandler) handleDeleteAction(c *gin.Context) {
	id := parseID(c, "actionId")
	if err := h.engine.RemoveAction(id); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}

func (h *lifecycleHandler) handleDeleteTransition(c *gin.Context) {
	id := parseID(c, "transitionId")
	if err := h.engine.RemoveTransition(id); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}

func (h *lifecycleHandler) handleTransitionUsers(c *gin.Context) {
	id := parseID(c, "transitionId")
	users, err := h.engine.TransitionUsers(id)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, users)
}

func (h *lifecycleHandler) handleTransitionGroups(c *gin.Context) {
	id := parseID(c, "transitionId")
	groups, err := h.engine.TransitionGroups(id)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, groups)
}

func (h *lifecycleHandler) handleRecordTransition(c *gin.Context) {
	creation := wf.WorkflowLogCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	entry, err := h.engine.RecordTransition(&creation)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *lifecycleHandler) handleQueryWorkflowLogs(c *gin.Context) {
	documentID := parseID(c, "documentId")
	version, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	logs, err := h.engine.WorkflowLogs(documentID, version)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, logs)
}
