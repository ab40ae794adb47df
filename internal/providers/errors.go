package providers

import (
	"errors"
	"fmt"
	"net/http"

	"smartgrid/wattson/internal/constants"
)

// ProviderError represents a provider-specific error with a machine code,
// an HTTP-like status and optional structured details
type ProviderError struct {
	Code       string
	Message    string
	StatusCode int
	Details    map[string]any
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewFetchError reports a transport that exhausted its retries.
// Retryable by the caller after backoff.
func NewFetchError(message string, details map[string]any, err error) *ProviderError {
	return &ProviderError{
		Code:       constants.ErrCodeProviderFetchError,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Details:    details,
		Err:        err,
	}
}

// NewConfigError reports vendor configuration that failed validation
func NewConfigError(message string, details map[string]any, err error) *ProviderError {
	return &ProviderError{
		Code:       constants.ErrCodeProviderConfigError,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details:    details,
		Err:        err,
	}
}

// NewNotSupportedError reports an unknown vendor or a vendor without an
// adapter implementation
func NewNotSupportedError(vendor Vendor) *ProviderError {
	return &ProviderError{
		Code:       constants.ErrCodeProviderNotSupported,
		Message:    fmt.Sprintf("Provider '%s' is not supported", vendor),
		StatusCode: http.StatusNotFound,
	}
}

// NewAuthError reports a vendor authentication failure
func NewAuthError(code string, statusCode int, message string, details map[string]any) *ProviderError {
	return &ProviderError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// IsCode reports whether err is a ProviderError carrying the given code
func IsCode(err error, code string) bool {
	var perr *ProviderError
	return errors.As(err, &perr) && perr.Code == code
}
