package wizard

import (
	"errors"
	"net/http"

	"smartgrid/wattson/internal/constants"
)

// Error is a wizard-specific failure with a machine code and an HTTP-like
// status. ResultError marks handler contract violations, which are
// programmer defects rather than user input problems.
type Error struct {
	Code       string
	Message    string
	StatusCode int
	Details    map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

// NewNotConfiguredError reports a vendor without a declared wizard
func NewNotConfiguredError(message string) *Error {
	return &Error{
		Code:       constants.ErrCodeWizardNotConfigured,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewStepNotFoundError reports a step name missing from the step graph
func NewStepNotFoundError(message string) *Error {
	return &Error{
		Code:       constants.ErrCodeWizardStepNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewSessionExpiredError reports a missing or stale wizard session;
// the caller must restart from the entry step
func NewSessionExpiredError(message string) *Error {
	return &Error{
		Code:       constants.ErrCodeWizardSessionExpired,
		Message:    message,
		StatusCode: http.StatusGone,
	}
}

// NewSessionStateError reports payload or session state that fails the
// step's expectations
func NewSessionStateError(message string, details map[string]any) *Error {
	return &Error{
		Code:       constants.ErrCodeWizardSessionState,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

// NewResultError reports a handler result violating the next-step /
// completion mutual exclusion contract
func NewResultError(message string) *Error {
	return &Error{
		Code:       constants.ErrCodeWizardResult,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// IsCode reports whether err is a wizard Error carrying the given code
func IsCode(err error, code string) bool {
	var werr *Error
	return errors.As(err, &werr) && werr.Code == code
}
