package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"smartgrid/wattson/internal/models/dtos"
	"smartgrid/wattson/internal/providers"
	"smartgrid/wattson/internal/wizard"
)

func respondWithSuccess[T any](w http.ResponseWriter, statusCode int, data *T) {
	resp := dtos.APIResponse[T]{
		Status:    "success",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string, code string) {
	resp := dtos.APIResponse[any]{
		Status:    "error",
		Timestamp: time.Now().UTC(),
		Error:     message,
		Code:      code,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(resp)
}

// respondWithDomainError maps provider and wizard errors onto their HTTP
// status and code; anything else is a 500
func respondWithDomainError(w http.ResponseWriter, err error) {
	var perr *providers.ProviderError
	if errors.As(err, &perr) {
		respondWithError(w, perr.StatusCode, perr.Message, perr.Code)
		return
	}

	var werr *wizard.Error
	if errors.As(err, &werr) {
		respondWithError(w, werr.StatusCode, werr.Message, werr.Code)
		return
	}

	respondWithError(w, http.StatusInternalServerError, "Internal server error", "")
}
