package dtos

// WizardStepRequest is the body of a wizard step call. Context threads the
// wizard session id across calls via context.wizard_session_id.
type WizardStepRequest struct {
	Payload map[string]any `json:"payload"`
	Context map[string]any `json:"context"`
}

// ProviderCreateRequest creates a provider from an already-known
// configuration (vendors without a wizard, or a completed wizard's output)
type ProviderCreateRequest struct {
	Vendor string         `json:"vendor"`
	Name   string         `json:"name"`
	Config map[string]any `json:"config"`
}
