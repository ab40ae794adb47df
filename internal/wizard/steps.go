package wizard

import (
	"context"

	"smartgrid/wattson/internal/schema"
)

// HandlerResult is a step handler's output. Exactly one of NextStep or
// completion (IsComplete/FinalConfig) must be set, never both and never
// neither.
type HandlerResult struct {
	NextStep       string
	Options        map[string]any
	Context        map[string]any
	SessionUpdates map[string]any
	FinalConfig    map[string]any
	IsComplete     bool
}

// Handler executes one wizard step's business logic. payload is the typed
// struct the step schema validated; sessionData is the session's private
// accumulated state and must be treated as read-only, updates go through
// HandlerResult.SessionUpdates.
type Handler func(ctx context.Context, payload any, sessionData map[string]any) (*HandlerResult, error)

// Step pairs a payload schema with its handler
type Step struct {
	Schema  *schema.Schema
	Handler Handler
}

// Graph is the declared step graph of one vendor's wizard. Start names the
// entry step; no step exists outside Steps.
type Graph struct {
	Start string
	Steps map[string]Step
}

// Step resolves a named step in the graph
func (g *Graph) Step(name string) (Step, bool) {
	step, ok := g.Steps[name]
	return step, ok
}
