package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"smartgrid/wattson/internal/common"
	"smartgrid/wattson/internal/constants"
	"smartgrid/wattson/internal/db/repositories"
	gormModels "smartgrid/wattson/internal/models/gorm"
	"smartgrid/wattson/internal/providers"
	"smartgrid/wattson/internal/services"
	"smartgrid/wattson/internal/wizard"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&gormModels.ProviderConfig{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	definitions := providers.Definitions()
	factory := providers.NewAdapterFactory(definitions)
	store := wizard.NewSessionStore(time.Minute)

	deps := &Dependencies{
		Repo: &Repositories{
			ProviderConfig: repositories.NewProviderConfigRepo(db),
		},
		Services: &Services{
			Cache: common.NewCacheService(time.Minute, time.Minute),
			Provider: services.NewProviderService(
				definitions,
				factory,
				repositories.NewProviderConfigRepo(db),
				nil,
				common.NewCacheService(time.Minute, time.Minute),
			),
		},
		Factory: factory,
		Engine:  wizard.NewEngine(definitions, wizard.Graphs(factory), store),
	}

	handlers := NewHandlers(deps)
	r := chi.NewRouter()
	r.Get("/api/v1/providers", handlers.ListProviders)
	r.Post("/api/v1/providers", handlers.CreateProvider)
	r.Delete("/api/v1/providers/adapters/cache", handlers.ClearAdapterCache)
	r.Post("/api/v1/providers/{vendor}/wizard/{step}", handlers.WizardStep)
	return r
}

func TestListProvidersEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/providers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Status string           `json:"status"`
		Data   []map[string]any `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "success" {
		t.Fatalf("expected success envelope, got %q", resp.Status)
	}
	if len(resp.Data) != 5 {
		t.Fatalf("expected 5 vendors, got %d", len(resp.Data))
	}
}

func TestCreateProviderEndpointValidation(t *testing.T) {
	router := newTestRouter(t)

	body := `{"vendor":"huawei","name":"Roof","config":{"station_code":"ST-1"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/providers", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid config, got %d", rec.Code)
	}

	var resp struct {
		Status string `json:"status"`
		Code   string `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != constants.ErrCodeProviderConfigError {
		t.Fatalf("expected config error code, got %q", resp.Code)
	}
}

func TestCreateProviderEndpoint(t *testing.T) {
	router := newTestRouter(t)

	body := `{"vendor":"huawei","name":"Roof","config":{"station_code":"ST-1","device_id":"dev-9"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/providers", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			UUID   string         `json:"uuid"`
			Vendor string         `json:"vendor"`
			Config map[string]any `json:"config"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.UUID == "" || resp.Data.Vendor != "huawei" {
		t.Fatalf("unexpected response: %+v", resp.Data)
	}
	if resp.Data.Config["max_power_kw"] != 20.0 {
		t.Fatalf("expected normalized config with defaults, got %v", resp.Data.Config)
	}
}

func TestWizardStepEndpointErrorMapping(t *testing.T) {
	router := newTestRouter(t)

	// goodwe declares no wizard
	req := httptest.NewRequest(http.MethodPost, "/api/v1/providers/goodwe/wizard/auth",
		strings.NewReader(`{"payload":{}}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var resp struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != constants.ErrCodeWizardNotConfigured {
		t.Fatalf("expected wizard not configured code, got %q", resp.Code)
	}
}

func TestClearAdapterCacheEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/providers/adapters/cache", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
