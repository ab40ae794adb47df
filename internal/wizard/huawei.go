package wizard

import (
	"context"

	"smartgrid/wattson/internal/providers"
	"smartgrid/wattson/internal/schema"
)

// Huawei onboarding flow: auth -> station -> device.
// Handlers are the only place adapter calls happen during the wizard.

// HuaweiAuthPayload starts the flow with FusionSolar portal credentials
type HuaweiAuthPayload struct {
	Username string `json:"username" validate:"required,min=1" desc:"FusionSolar user login"`
	Password string `json:"password" validate:"required,min=1" desc:"FusionSolar password"`
}

// HuaweiStationPayload selects one of the stations offered by the auth step
type HuaweiStationPayload struct {
	StationCode string `json:"station_code" validate:"required" desc:"Selected station identifier"`
}

// HuaweiDevicePayload selects the device and finishes the flow
type HuaweiDevicePayload struct {
	StationCode string `json:"station_code" validate:"required" desc:"Station identifier (hidden)"`
	DeviceID    string `json:"device_id" validate:"required" desc:"Device identifier selected by user"`
}

// NewHuaweiGraph builds the Huawei step graph over the given adapter
// factory
func NewHuaweiGraph(factory *providers.AdapterFactory) *Graph {
	return &Graph{
		Start: "auth",
		Steps: map[string]Step{
			"auth": {
				Schema:  schema.Of[HuaweiAuthPayload](),
				Handler: huaweiAuthStep(factory),
			},
			"station": {
				Schema:  schema.Of[HuaweiStationPayload](),
				Handler: huaweiStationStep(factory),
			},
			"device": {
				Schema:  schema.Of[HuaweiDevicePayload](),
				Handler: huaweiDeviceStep,
			},
		},
	}
}

// Graphs returns the step graph table for every vendor declaring a wizard
func Graphs(factory *providers.AdapterFactory) map[providers.Vendor]*Graph {
	return map[providers.Vendor]*Graph{
		providers.VendorHuawei: NewHuaweiGraph(factory),
	}
}

func huaweiAuthStep(factory *providers.AdapterFactory) Handler {
	return func(ctx context.Context, payload any, sessionData map[string]any) (*HandlerResult, error) {
		p := payload.(*HuaweiAuthPayload)

		creds := providers.Credentials{
			"username": p.Username,
			"password": p.Password,
		}

		adapter, err := factory.Create(providers.VendorHuawei, creds, p.Username, nil)
		if err != nil {
			return nil, err
		}

		stations, err := adapter.ListStations(ctx)
		if err != nil {
			return nil, err
		}

		options := make([]map[string]any, 0, len(stations))
		for _, station := range stations {
			options = append(options, map[string]any{
				"value": station.Code,
				"label": station.Name,
			})
		}

		return &HandlerResult{
			NextStep: "station",
			Options:  map[string]any{"stations": options},
			SessionUpdates: map[string]any{
				"credentials": map[string]string{
					"username": p.Username,
					"password": p.Password,
				},
			},
		}, nil
	}
}

func huaweiStationStep(factory *providers.AdapterFactory) Handler {
	return func(ctx context.Context, payload any, sessionData map[string]any) (*HandlerResult, error) {
		p := payload.(*HuaweiStationPayload)

		adapter, err := resolveHuaweiAdapter(factory, sessionData)
		if err != nil {
			return nil, err
		}

		devices, err := adapter.ListDevices(ctx, p.StationCode)
		if err != nil {
			return nil, err
		}

		options := make([]map[string]any, 0, len(devices))
		for _, device := range devices {
			options = append(options, map[string]any{
				"value": device.ID,
				"label": device.Name,
			})
		}

		return &HandlerResult{
			NextStep:       "device",
			Options:        map[string]any{"devices": options},
			SessionUpdates: map[string]any{"station_code": p.StationCode},
			Context:        map[string]any{"station_code": p.StationCode},
		}, nil
	}
}

func huaweiDeviceStep(ctx context.Context, payload any, sessionData map[string]any) (*HandlerResult, error) {
	p := payload.(*HuaweiDevicePayload)

	if _, ok := sessionData["credentials"]; !ok {
		return nil, NewSessionStateError("Missing Huawei credentials in wizard session", nil)
	}

	stationCode := p.StationCode
	if stationCode == "" {
		stationCode, _ = sessionData["station_code"].(string)
	}
	if stationCode == "" {
		return nil, NewSessionStateError("Missing station_code in wizard session", nil)
	}

	return &HandlerResult{
		IsComplete: true,
		FinalConfig: map[string]any{
			"station_code": stationCode,
			"device_id":    p.DeviceID,
			"max_power_kw": 20.0,
			"min_power_kw": 0.0,
		},
		SessionUpdates: map[string]any{"device_id": p.DeviceID},
		Context:        map[string]any{"device_id": p.DeviceID},
	}, nil
}

// resolveHuaweiAdapter rebuilds the adapter from credentials cached in the
// session by the auth step
func resolveHuaweiAdapter(factory *providers.AdapterFactory, sessionData map[string]any) (providers.VendorAdapter, error) {
	rawCreds, ok := sessionData["credentials"]
	if !ok {
		return nil, NewSessionStateError("Missing Huawei credentials in wizard session", nil)
	}

	creds := providers.Credentials{}
	switch typed := rawCreds.(type) {
	case map[string]string:
		for k, v := range typed {
			creds[k] = v
		}
	case map[string]any:
		for k, v := range typed {
			if s, ok := v.(string); ok {
				creds[k] = s
			}
		}
	default:
		return nil, NewSessionStateError("Malformed credentials in wizard session", nil)
	}

	if creds["username"] == "" {
		return nil, NewSessionStateError("Missing username in wizard session credentials", nil)
	}

	overrides, _ := sessionData["adapter_overrides"].(map[string]any)

	return factory.Create(providers.VendorHuawei, creds, creds["username"], overrides)
}
