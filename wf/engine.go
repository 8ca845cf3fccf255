package wf

import (
	"strconv"
	"time"

	"docflow/common"
	"docflow/domain"
	"docflow/identity"
	"docflow/persistence"

	"github.com/fundwit/go-commons/types"
	"github.com/patrickmn/go-cache"
	"github.com/sony/sonyflake"
)

// Engine is the authoritative registry for workflow entities. All entities
// reference each other by id and are resolved through the engine on demand;
// loaded transition sets and resolved grant sets live in one canonical cache
// so that any mutation invalidates a single point.
type Engine struct {
	dataSource *persistence.DataSourceManager
	identities identity.Resolver
	filters    *GrantFilters

	caches   *cache.Cache
	idWorker *sonyflake.Sonyflake
}

func NewEngine(ds *persistence.DataSourceManager, identities identity.Resolver, filters *GrantFilters) *Engine {
	if filters == nil {
		filters = NewGrantFilters()
	}
	return &Engine{
		dataSource: ds,
		identities: identities,
		filters:    filters,
		caches:     cache.New(cache.NoExpiration, 10*time.Minute),
		idWorker:   common.NewIdWorker(),
	}
}

func (e *Engine) Filters() *GrantFilters {
	return e.filters
}

func transitionsCacheKey(workflowID types.ID) string {
	return "workflow-transitions/" + strconv.FormatUint(uint64(workflowID), 10)
}

func transitionUsersCacheKey(transitionID types.ID) string {
	return "transition-users/" + strconv.FormatUint(uint64(transitionID), 10)
}

func transitionGroupsCacheKey(transitionID types.ID) string {
	return "transition-groups/" + strconv.FormatUint(uint64(transitionID), 10)
}

func (e *Engine) invalidateWorkflowTransitions(workflowID types.ID) {
	e.caches.Delete(transitionsCacheKey(workflowID))
}

func (e *Engine) invalidateTransitionGrants(transitionID types.ID) {
	e.caches.Delete(transitionUsersCacheKey(transitionID))
	e.caches.Delete(transitionGroupsCacheKey(transitionID))
}

// EngineTraits is the surface consumed by the REST layer.
type EngineTraits interface {
	CreateWorkflow(c *WorkflowCreation) (*domain.Workflow, error)
	DetailWorkflow(id types.ID) (*WorkflowDetail, error)
	RenameWorkflow(id types.ID, name string) error
	SetWorkflowInitState(id types.ID, stateID types.ID) error
	SetWorkflowLayoutData(id types.ID, layoutData string) error
	RemoveWorkflow(id types.ID) error

	WorkflowTransitions(workflowID types.ID) ([]TransitionDetail, error)
	NextTransitions(workflowID types.ID, stateID types.ID) ([]TransitionDetail, error)
	PreviousTransitions(workflowID types.ID, stateID types.ID) ([]TransitionDetail, error)
	TransitionsBetween(workflowID types.ID, fromStateID types.ID, toStateID types.ID) ([]TransitionDetail, error)
	AddTransition(workflowID types.ID, c *TransitionCreation) (*TransitionDetail, error)
	RemoveTransition(id types.ID) error
	CheckForCycles(workflowID types.ID) ([]domain.WorkflowState, error)

	CreateState(c *StateCreation) (*domain.WorkflowState, error)
	RenameState(id types.ID, name string) error
	RemoveState(id types.ID) error
	CreateAction(c *ActionCreation) (*domain.WorkflowAction, error)
	RenameAction(id types.ID, name string) error
	RemoveAction(id types.ID) error

	TransitionUsers(transitionID types.ID) ([]UserGrant, error)
	TransitionGroups(transitionID types.ID) ([]GroupGrantDetail, error)

	RecordTransition(c *WorkflowLogCreation) (*domain.WorkflowLog, error)
	WorkflowLogs(documentID types.ID, version int) ([]WorkflowLogDetail, error)
}
