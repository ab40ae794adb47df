package dtos

import "time"

// APIResponse is the generic response envelope
type APIResponse[T any] struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Data      *T        `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	Code      string    `json:"code,omitempty"`
}

// ProviderDescription is the read-only registry metadata surface exposed
// for discovery and listing
type ProviderDescription struct {
	Vendor         string         `json:"vendor"`
	Label          string         `json:"label"`
	ProviderType   string         `json:"provider_type"`
	Kind           string         `json:"kind"`
	DefaultUnit    string         `json:"default_unit"`
	RequiresWizard bool           `json:"requires_wizard"`
	WizardStart    string         `json:"wizard_start,omitempty"`
	SensorType     string         `json:"sensor_type,omitempty"`
	ConfigSchema   map[string]any `json:"config_schema,omitempty"`
}

// ProviderCreated reports a persisted provider configuration
type ProviderCreated struct {
	UUID   string         `json:"uuid"`
	Vendor string         `json:"vendor"`
	Name   string         `json:"name"`
	Config map[string]any `json:"config"`
}

// ServiceStatus is one dependency's health probe result
type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

// HealthCheckResponse aggregates dependency health
type HealthCheckResponse struct {
	Status   string                   `json:"status"`
	Uptime   string                   `json:"uptime"`
	Services map[string]ServiceStatus `json:"services"`
}
