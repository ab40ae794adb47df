package constants

// Provider Error Codes
// These constants define error scenarios for external energy vendors

// Generic provider errors
const (
	ErrCodeProviderError        = "PROVIDER_ERROR"
	ErrCodeProviderFetchError   = "PROVIDER_FETCH_ERROR"
	ErrCodeProviderConfigError  = "PROVIDER_CONFIG_ERROR"
	ErrCodeProviderNotSupported = "PROVIDER_NOT_SUPPORTED"
)

// Huawei FusionSolar errors
const (
	ErrCodeHuaweiAuthFailed   = "HUAWEI_AUTH_FAILED"
	ErrCodeHuaweiAuthRejected = "HUAWEI_AUTH_REJECTED"
	ErrCodeHuaweiXSRFMissing  = "HUAWEI_XSRF_MISSING"
	ErrCodeHuaweiAPIError     = "HUAWEI_API_ERROR"
)

// Wizard errors
const (
	ErrCodeWizardNotConfigured  = "WIZARD_NOT_CONFIGURED"
	ErrCodeWizardStepNotFound   = "WIZARD_STEP_NOT_FOUND"
	ErrCodeWizardSessionExpired = "WIZARD_SESSION_EXPIRED"
	ErrCodeWizardSessionState   = "WIZARD_SESSION_STATE"
	ErrCodeWizardResult         = "WIZARD_RESULT_ERROR"
)

// Error Messages
// Human-readable messages corresponding to error codes

var ProviderErrorMessages = map[string]string{
	ErrCodeProviderError:        "Provider operation failed",
	ErrCodeProviderFetchError:   "Unable to reach the vendor API. Please try again later",
	ErrCodeProviderConfigError:  "The supplied provider configuration is invalid",
	ErrCodeProviderNotSupported: "This provider vendor is not supported",

	ErrCodeHuaweiAuthFailed:   "Huawei FusionSolar authentication failed",
	ErrCodeHuaweiAuthRejected: "Huawei FusionSolar rejected the supplied credentials",
	ErrCodeHuaweiXSRFMissing:  "Huawei FusionSolar login response did not carry a session token",
	ErrCodeHuaweiAPIError:     "Huawei FusionSolar returned an application error",

	ErrCodeWizardNotConfigured:  "No onboarding wizard is declared for this vendor",
	ErrCodeWizardStepNotFound:   "The requested wizard step does not exist",
	ErrCodeWizardSessionExpired: "The wizard session has expired, start again",
	ErrCodeWizardSessionState:   "The wizard payload is invalid for this step",
	ErrCodeWizardResult:         "The wizard step produced a contradictory result",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := ProviderErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
