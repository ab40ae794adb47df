package providers

import (
	"context"
	"time"
)

// Credentials carries the caller-supplied secrets for an adapter,
// e.g. username/password or API tokens
type Credentials map[string]string

// AdapterSettings is the explicit construction contract shared by all
// adapter implementations. Known transport settings live in named fields;
// Extra carries vendor-specific overrides for implementations that accept
// arbitrary named settings.
type AdapterSettings struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	Extra      map[string]any
}

// Merge returns a copy of s with caller overrides applied. The keys
// base_url, timeout (seconds) and max_retries map onto the named fields;
// everything else is collected into Extra.
func (s AdapterSettings) Merge(overrides map[string]any) AdapterSettings {
	merged := s
	merged.Extra = map[string]any{}
	for k, v := range s.Extra {
		merged.Extra[k] = v
	}

	for key, value := range overrides {
		switch key {
		case "base_url":
			if v, ok := value.(string); ok {
				merged.BaseURL = v
			}
		case "timeout":
			switch v := value.(type) {
			case time.Duration:
				merged.Timeout = v
			case float64:
				merged.Timeout = time.Duration(v * float64(time.Second))
			case int:
				merged.Timeout = time.Duration(v) * time.Second
			}
		case "max_retries":
			switch v := value.(type) {
			case int:
				merged.MaxRetries = v
			case float64:
				merged.MaxRetries = int(v)
			}
		default:
			merged.Extra[key] = value
		}
	}
	return merged
}

// Station is the canonical shape of a vendor plant/station. Raw preserves
// the original payload for diagnostics only.
type Station struct {
	Code       string         `json:"station_code"`
	Name       string         `json:"name"`
	CapacityKW float64        `json:"capacity_kw"`
	Raw        map[string]any `json:"raw"`
}

// Device is the canonical shape of a vendor device
type Device struct {
	ID          string         `json:"device_id"`
	Name        string         `json:"name"`
	StationCode string         `json:"station_code"`
	TypeID      int            `json:"type"`
	Raw         map[string]any `json:"raw"`
}

// VendorAdapter is the capability surface every vendor integration
// implements. Implementations own their authentication lifecycle: any call
// may trigger a login or re-login under the covers.
type VendorAdapter interface {
	// Connect verifies the adapter can authenticate against the vendor
	Connect(ctx context.Context) error

	// ListStations returns the stations visible to the credentials
	ListStations(ctx context.Context) ([]Station, error)

	// ListDevices returns the devices belonging to a station
	ListDevices(ctx context.Context, stationCode string) ([]Device, error)

	// ReadValue reads the current live measurement of a device
	ReadValue(ctx context.Context, deviceID string) (float64, error)
}

// AdapterConstructor builds a live adapter from credentials and settings
type AdapterConstructor func(creds Credentials, settings AdapterSettings) (VendorAdapter, error)
