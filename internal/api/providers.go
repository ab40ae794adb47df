package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"smartgrid/wattson/internal/logging"
	"smartgrid/wattson/internal/models/dtos"
	"smartgrid/wattson/internal/providers"
)

// Handlers bundles the HTTP handlers with their dependencies
type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates the handler set
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{deps: deps}
}

// ListProviders handles GET /api/v1/providers. It returns the registry
// metadata surface for every known vendor.
func (h *Handlers) ListProviders(w http.ResponseWriter, r *http.Request) {
	list := h.deps.Services.Provider.ListDefinitions()
	respondWithSuccess(w, http.StatusOK, &list)
}

// CreateProvider handles POST /api/v1/providers. The config is validated
// against the vendor's schema before it is persisted.
func (h *Handlers) CreateProvider(w http.ResponseWriter, r *http.Request) {
	var req dtos.ProviderCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}
	if req.Vendor == "" {
		respondWithError(w, http.StatusBadRequest, "vendor is required", "")
		return
	}

	record, err := h.deps.Services.Provider.CreateProvider(
		r.Context(),
		providers.Vendor(req.Vendor),
		req.Name,
		req.Config,
	)
	if err != nil {
		logging.Warn("Provider creation failed", "vendor", req.Vendor, "error", err.Error())
		respondWithDomainError(w, err)
		return
	}

	var config map[string]any
	_ = json.Unmarshal([]byte(record.Config), &config)

	resp := dtos.ProviderCreated{
		UUID:   record.UUID,
		Vendor: record.Vendor,
		Name:   record.Name,
		Config: config,
	}
	respondWithSuccess(w, http.StatusCreated, &resp)
}

// WizardStep handles POST /api/v1/providers/{vendor}/wizard/{step}
func (h *Handlers) WizardStep(w http.ResponseWriter, r *http.Request) {
	vendor := providers.Vendor(chi.URLParam(r, "vendor"))
	step := chi.URLParam(r, "step")

	var req dtos.WizardStepRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body", "")
			return
		}
	}

	resp, err := h.deps.Engine.RunStep(r.Context(), vendor, step, req.Payload, req.Context)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	if h.deps.Metrics != nil {
		h.deps.Metrics.WizardStepsTotal.WithLabelValues(string(vendor), step, outcome).Inc()
		h.deps.Metrics.WizardSessionsActive.Set(float64(h.deps.Engine.Store().Len()))
	}

	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithSuccess(w, http.StatusOK, resp)
}

// ClearAdapterCache handles DELETE /api/v1/providers/adapters/cache.
// Cached adapters are dropped so the next call reconnects from scratch.
func (h *Handlers) ClearAdapterCache(w http.ResponseWriter, r *http.Request) {
	h.deps.Services.Provider.ClearAdapterCache()

	resp := map[string]string{"message": "adapter cache cleared"}
	respondWithSuccess(w, http.StatusOK, &resp)
}
