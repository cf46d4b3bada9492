package ai

import "fmt"

// Registry indexes Planners by domain ID.
//
// Invariant: each domain ID is registered at most once.
type Registry struct {
	planners map[string]*Planner
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{planners: make(map[string]*Planner)}
}

// Register creates and stores a Planner for domain whose preconditions run in scope.
//
// Precondition: domain and caller must not be nil.
// Postcondition: returns error on domain ID collision.
func (r *Registry) Register(domain *Domain, caller ScriptCaller, scope string) error {
	if _, exists := r.planners[domain.ID]; exists {
		return fmt.Errorf("ai.Registry: domain %q already registered", domain.ID)
	}
	r.planners[domain.ID] = NewPlanner(domain, caller, scope)
	return nil
}

// PlannerFor returns the Planner for domainID, or false if not registered.
func (r *Registry) PlannerFor(domainID string) (*Planner, bool) {
	p, ok := r.planners[domainID]
	return p, ok
}

// LoadRegistry loads every domain in dir and registers each with caller.
//
// Postcondition: returns error if dir holds no domains.
func LoadRegistry(dir string, caller ScriptCaller, scope string) (*Registry, error) {
	domains, err := LoadDomains(dir)
	if err != nil {
		return nil, err
	}
	if len(domains) == 0 {
		return nil, fmt.Errorf("ai.LoadRegistry: no domains in %q", dir)
	}
	r := NewRegistry()
	for _, d := range domains {
		if err := r.Register(d, caller, scope); err != nil {
			return nil, err
		}
	}
	return r, nil
}
