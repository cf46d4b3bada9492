package ai

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/botbattle/internal/scripting"
)

// ScriptCaller is the interface required by the Planner to evaluate Lua preconditions.
type ScriptCaller interface {
	// CallHook calls a named Lua function in the given scope's VM.
	// Returns (LNil, nil) if the function is not defined.
	CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error)
}

// StateBinder is implemented by callers whose hooks read battle state through
// the engine.* module. scripting.Manager satisfies it.
type StateBinder interface {
	Bind(p scripting.StateProvider)
}

// PlannedAction is one primitive step produced by the planner.
type PlannedAction struct {
	Operator string
	Slot     int
	// Token is the operator's target token.
	Token string
	// Target is the resolved roster index, or -1 for no target.
	Target int
	// Resolved is false when the operator's target token named no unit.
	Resolved bool
}

// Planner evaluates an HTN domain for the acting unit and produces an ordered
// list of candidate steps, most preferred first.
//
// Invariant: domain and caller must not be nil.
type Planner struct {
	domain *Domain
	caller ScriptCaller
	scope  string
}

// NewPlanner constructs a Planner.
//
// Precondition: domain and caller must not be nil.
func NewPlanner(domain *Domain, caller ScriptCaller, scope string) *Planner {
	if domain == nil {
		panic("ai.NewPlanner: domain must not be nil")
	}
	if caller == nil {
		panic("ai.NewPlanner: caller must not be nil")
	}
	return &Planner{domain: domain, caller: caller, scope: scope}
}

// Domain returns the planner's domain.
func (p *Planner) Domain() *Domain { return p.domain }

// Plan evaluates the HTN domain against state and returns an ordered plan.
//
// Precondition: state and state.Self must not be nil.
// Postcondition: returns non-nil slice (may be empty); never returns error for Lua failures
// (they are treated as precondition-false).
func (p *Planner) Plan(state *WorldState) ([]PlannedAction, error) {
	if state == nil || state.Self == nil {
		return nil, fmt.Errorf("ai.Planner.Plan: state and state.Self must not be nil")
	}
	if binder, ok := p.caller.(StateBinder); ok {
		binder.Bind(scriptView{ws: state})
		defer binder.Bind(nil)
	}

	taskQueue := []string{RootTask}
	result := []PlannedAction{}

	const maxSteps = 64 // guards against recursive decompositions
	steps := 0

	for len(taskQueue) > 0 && steps < maxSteps {
		steps++
		current := taskQueue[0]
		taskQueue = taskQueue[1:]

		if op, ok := p.domain.OperatorByID(current); ok {
			target, resolved := state.ResolveTarget(op.Target)
			result = append(result, PlannedAction{Operator: op.ID, Slot: op.Slot, Token: op.Target, Target: target, Resolved: resolved})
			continue
		}

		method := p.findApplicableMethod(current, state)
		if method == nil {
			continue
		}
		taskQueue = append(append([]string{}, method.Subtasks...), taskQueue...)
	}
	return result, nil
}

// findApplicableMethod returns the first Method for taskID whose precondition passes,
// or nil if none applies.
//
// Methods are tried in declaration order. An empty Precondition always passes.
func (p *Planner) findApplicableMethod(taskID string, state *WorldState) *Method {
	for _, m := range p.domain.MethodsForTask(taskID) {
		if m.Precondition == "" {
			return m
		}
		val, _ := p.caller.CallHook(p.scope, m.Precondition, lua.LNumber(state.Self.Index))
		if val == lua.LTrue {
			return m
		}
	}
	return nil
}
