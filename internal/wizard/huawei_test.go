package wizard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smartgrid/wattson/internal/constants"
	"smartgrid/wattson/internal/providers"
)

// fusionSolarStub serves the minimal FusionSolar surface the onboarding
// flow touches
func fusionSolarStub(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "XSRF-TOKEN", Value: "tok-xyz"})
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	mux.HandleFunc("/getStationList", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{"stationCode": "ST-A", "stationName": "Farm Alpha", "capacity": 40.0},
				{"stationCode": "ST-B", "stationName": "Farm Beta", "capacity": 25.0},
			},
		})
	})

	mux.HandleFunc("/getDevList", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["stationCodes"] != "ST-B" {
			t.Errorf("expected selected station code, got %v", body["stationCodes"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{"devId": 9001, "devName": "Inverter 1", "stationCode": "ST-B", "devTypeId": 1},
			},
		})
	})

	return httptest.NewServer(mux)
}

func newHuaweiEngine(t *testing.T, baseURL string) *Engine {
	t.Helper()

	definitions := map[providers.Vendor]providers.Definition{}
	for vendor, def := range providers.Definitions() {
		definitions[vendor] = def
	}

	hd := definitions[providers.VendorHuawei]
	hd.Settings = providers.AdapterSettings{
		BaseURL:    baseURL,
		Timeout:    2 * time.Second,
		MaxRetries: 1,
	}
	definitions[providers.VendorHuawei] = hd

	factory := providers.NewAdapterFactory(definitions)
	return NewEngine(definitions, Graphs(factory), NewSessionStore(time.Minute))
}

func TestHuaweiOnboardingFlow(t *testing.T) {
	srv := fusionSolarStub(t)
	defer srv.Close()

	engine := newHuaweiEngine(t, srv.URL)
	ctx := context.Background()

	// Step 1: auth collects portal credentials and offers the stations
	auth, err := engine.RunStep(ctx, providers.VendorHuawei, "auth",
		map[string]any{"username": "alice", "password": "s3cret"}, nil)
	if err != nil {
		t.Fatalf("auth step failed: %v", err)
	}
	if auth.Step != "station" {
		t.Fatalf("expected station step next, got %q", auth.Step)
	}

	stations, ok := auth.Options["stations"].([]map[string]any)
	if !ok || len(stations) != 2 {
		t.Fatalf("expected 2 station options, got %v", auth.Options["stations"])
	}
	if stations[0]["value"] != "ST-A" || stations[0]["label"] != "Farm Alpha" {
		t.Fatalf("unexpected station option: %v", stations[0])
	}

	sessionID := auth.Context[constants.WizardSessionIDContextKey]
	if sessionID == "" || sessionID == nil {
		t.Fatal("expected session id in auth response context")
	}

	// Step 2: station selection lists the station's devices
	station, err := engine.RunStep(ctx, providers.VendorHuawei, "station",
		map[string]any{"station_code": "ST-B"}, auth.Context)
	if err != nil {
		t.Fatalf("station step failed: %v", err)
	}
	if station.Step != "device" {
		t.Fatalf("expected device step next, got %q", station.Step)
	}

	devices, ok := station.Options["devices"].([]map[string]any)
	if !ok || len(devices) != 1 {
		t.Fatalf("expected 1 device option, got %v", station.Options["devices"])
	}
	if devices[0]["value"] != "9001" {
		t.Fatalf("device id must be normalized to a string, got %v", devices[0]["value"])
	}
	if station.Context["station_code"] != "ST-B" {
		t.Fatalf("expected station_code in context, got %v", station.Context)
	}

	// Step 3: device selection completes the flow with a validated config
	device, err := engine.RunStep(ctx, providers.VendorHuawei, "device",
		map[string]any{"station_code": "ST-B", "device_id": "9001"}, station.Context)
	if err != nil {
		t.Fatalf("device step failed: %v", err)
	}
	if !device.IsComplete {
		t.Fatal("expected completed flow")
	}

	cfg := device.FinalConfig
	if cfg["station_code"] != "ST-B" || cfg["device_id"] != "9001" {
		t.Fatalf("unexpected final config: %v", cfg)
	}
	if cfg["max_power_kw"] != 20.0 || cfg["min_power_kw"] != 0.0 {
		t.Fatalf("expected power envelope defaults, got %v", cfg)
	}
}

func TestHuaweiStationStepWithoutAuth(t *testing.T) {
	srv := fusionSolarStub(t)
	defer srv.Close()

	engine := newHuaweiEngine(t, srv.URL)

	// A session created out of band has no credentials cached yet
	session := engine.Store().Create(providers.VendorHuawei)

	_, err := engine.RunStep(context.Background(), providers.VendorHuawei, "station",
		map[string]any{"station_code": "ST-B"},
		map[string]any{constants.WizardSessionIDContextKey: session.ID})
	if !IsCode(err, constants.ErrCodeWizardSessionState) {
		t.Fatalf("expected session state error without credentials, got %v", err)
	}
}

func TestHuaweiWizardBootstrapsOnlyAtAuth(t *testing.T) {
	srv := fusionSolarStub(t)
	defer srv.Close()

	engine := newHuaweiEngine(t, srv.URL)

	_, err := engine.RunStep(context.Background(), providers.VendorHuawei, "device",
		map[string]any{"station_code": "ST-B", "device_id": "9001"}, nil)
	if !IsCode(err, constants.ErrCodeWizardSessionExpired) {
		t.Fatalf("expected session expired error, got %v", err)
	}
}
