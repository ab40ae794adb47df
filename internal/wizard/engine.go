package wizard

import (
	"context"
	"errors"
	"fmt"

	"smartgrid/wattson/internal/constants"
	"smartgrid/wattson/internal/logging"
	"smartgrid/wattson/internal/providers"
	"smartgrid/wattson/internal/schema"
)

const sessionIDKey = constants.WizardSessionIDContextKey

// StepResponse is the envelope RunStep returns. Exactly one of Step (with
// Schema/Options) or FinalConfig is meaningful, selected by IsComplete.
type StepResponse struct {
	Vendor      providers.Vendor `json:"vendor"`
	Step        string           `json:"step,omitempty"`
	Schema      map[string]any   `json:"schema,omitempty"`
	Options     map[string]any   `json:"options"`
	Context     map[string]any   `json:"context"`
	IsComplete  bool             `json:"is_complete"`
	FinalConfig map[string]any   `json:"final_config,omitempty"`
}

// Engine coordinates provider wizard execution.
//
// Contract: the returned envelope's Step is the step the user must fill
// NOW, with the schema and options for that step.
type Engine struct {
	definitions map[providers.Vendor]providers.Definition
	graphs      map[providers.Vendor]*Graph
	store       *SessionStore
}

// NewEngine builds an engine over the registry table, the vendor step
// graphs and a session store. All three are injected so tests can run
// isolated instances.
func NewEngine(
	definitions map[providers.Vendor]providers.Definition,
	graphs map[providers.Vendor]*Graph,
	store *SessionStore,
) *Engine {
	return &Engine{
		definitions: definitions,
		graphs:      graphs,
		store:       store,
	}
}

// Store exposes the engine's session store
func (e *Engine) Store() *SessionStore {
	return e.store
}

// RunStep executes a single wizard step: resolves the vendor's graph and
// the named step, resolves or bootstraps the session, validates the
// payload, invokes the handler, merges its updates into the session and
// returns the envelope for the next action.
//
// A failed step leaves the session exactly as it was, so the caller can
// safely resubmit.
func (e *Engine) RunStep(
	ctx context.Context,
	vendor providers.Vendor,
	stepName string,
	payload map[string]any,
	reqContext map[string]any,
) (*StepResponse, error) {
	logging.Info("Wizard step start",
		"vendor", string(vendor),
		"step", stepName,
	)

	def, hasDef := e.definitions[vendor]
	graph, hasGraph := e.graphs[vendor]
	if !hasDef || !hasGraph || graph == nil {
		return nil, NewNotConfiguredError(
			fmt.Sprintf("No wizard declared for provider %s", vendor),
		)
	}

	step, ok := graph.Step(stepName)
	if !ok {
		return nil, NewStepNotFoundError(
			fmt.Sprintf("Step '%s' is not available for provider %s", stepName, vendor),
		)
	}

	session, err := e.resolveSession(vendor, graph, stepName, reqContext)
	if err != nil {
		return nil, err
	}

	validated, err := e.validatePayload(step.Schema, payload)
	if err != nil {
		return nil, err
	}

	result, err := step.Handler(ctx, validated, session.Data)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = &HandlerResult{}
	}

	// Merge updates only after the handler fully succeeded
	for k, v := range result.SessionUpdates {
		session.Data[k] = v
	}
	for k, v := range result.Context {
		session.Context[k] = v
	}
	session.Context[sessionIDKey] = session.ID
	session.LastStep = stepName
	e.store.Persist(session)

	isComplete := result.IsComplete || result.FinalConfig != nil

	if isComplete {
		if result.NextStep != "" {
			return nil, NewResultError("Wizard cannot report completion while next_step is set")
		}

		finalConfig := result.FinalConfig
		if finalConfig != nil && def.ConfigSchema != nil {
			normalized, err := def.ConfigSchema.Normalize(finalConfig)
			if err != nil {
				var verr *schema.ValidationError
				if errors.As(err, &verr) {
					return nil, providers.NewConfigError(
						"Final wizard configuration failed validation",
						map[string]any{"errors": verr.Fields},
						err,
					)
				}
				return nil, err
			}
			finalConfig = normalized
		}

		logging.Info("Wizard completed",
			"vendor", string(vendor),
			"step", stepName,
			"session_id", session.ID,
		)

		return &StepResponse{
			Vendor:      vendor,
			Options:     map[string]any{},
			Context:     copyMap(session.Context),
			IsComplete:  true,
			FinalConfig: finalConfig,
		}, nil
	}

	if result.NextStep == "" {
		return nil, NewResultError("Wizard step must define next_step or set is_complete")
	}

	nextStep, ok := graph.Step(result.NextStep)
	if !ok {
		return nil, NewStepNotFoundError(
			fmt.Sprintf("Next step '%s' not found for provider %s", result.NextStep, vendor),
		)
	}

	logging.Info("Wizard step completed",
		"vendor", string(vendor),
		"step", stepName,
		"next_step", result.NextStep,
	)

	options := result.Options
	if options == nil {
		options = map[string]any{}
	}

	return &StepResponse{
		Vendor:     vendor,
		Step:       result.NextStep,
		Schema:     nextStep.Schema.Describe(),
		Options:    options,
		Context:    copyMap(session.Context),
		IsComplete: false,
	}, nil
}

// resolveSession fetches the session named in the request context, or
// bootstraps a new one when the caller is starting the flow's entry step
func (e *Engine) resolveSession(
	vendor providers.Vendor,
	graph *Graph,
	stepName string,
	reqContext map[string]any,
) (*Session, error) {
	var sessionID string
	if reqContext != nil {
		if raw, ok := reqContext[sessionIDKey]; ok {
			sessionID = fmt.Sprintf("%v", raw)
		}
	}

	if sessionID == "" {
		if stepName == graph.Start {
			return e.store.Create(vendor), nil
		}
		return nil, NewSessionExpiredError("wizard_session_id is required for this step")
	}

	session := e.store.Get(sessionID)
	if session == nil {
		return nil, NewSessionExpiredError("Wizard session has expired, start again")
	}
	if session.Vendor != vendor {
		return nil, NewNotConfiguredError("Wizard session vendor mismatch")
	}
	return session, nil
}

func (e *Engine) validatePayload(s *schema.Schema, payload map[string]any) (any, error) {
	if payload == nil {
		payload = map[string]any{}
	}

	validated, err := s.Validate(payload)
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			logging.Warn("Wizard payload validation failed", "errors", verr.Fields)
			return nil, NewSessionStateError(
				"Invalid payload for wizard step",
				map[string]any{"errors": verr.Fields},
			)
		}
		return nil, err
	}
	return validated, nil
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
