package wf

// Grant filters are applied whenever a transition's grant sets are resolved.
// Each filter receives the transition and the current set and returns a
// replacement set, or denied=true to veto the transition outright. A deny
// short-circuits the chain and is surfaced to the caller as
// bizerror.ErrTransitionDenied, never as an empty grant set.

type UserGrantFilter func(transition TransitionDetail, grants []UserGrant) (filtered []UserGrant, denied bool)

type GroupGrantFilter func(transition TransitionDetail, grants []GroupGrantDetail) (filtered []GroupGrantDetail, denied bool)

// GrantFilters dispatches registered filters in registration order. It is
// handed to NewEngine explicitly, there is no process-wide registry.
type GrantFilters struct {
	userFilters  []UserGrantFilter
	groupFilters []GroupGrantFilter
}

func NewGrantFilters() *GrantFilters {
	return &GrantFilters{}
}

func (f *GrantFilters) RegisterUserFilter(filter UserGrantFilter) {
	f.userFilters = append(f.userFilters, filter)
}

func (f *GrantFilters) RegisterGroupFilter(filter GroupGrantFilter) {
	f.groupFilters = append(f.groupFilters, filter)
}

func (f *GrantFilters) filterUsers(transition TransitionDetail, grants []UserGrant) ([]UserGrant, bool) {
	for _, filter := range f.userFilters {
		filtered, denied := filter(transition, grants)
		if denied {
			return nil, true
		}
		grants = filtered
	}
	return grants, false
}

func (f *GrantFilters) filterGroups(transition TransitionDetail, grants []GroupGrantDetail) ([]GroupGrantDetail, bool) {
	for _, filter := range f.groupFilters {
		filtered, denied := filter(transition, grants)
		if denied {
			return nil, true
		}
		grants = filtered
	}
	return grants, false
}
