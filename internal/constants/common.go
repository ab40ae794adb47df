package constants

import "time"

// Huawei FusionSolar defaults, overridable via environment
const (
	DefaultHuaweiBaseURL    = "https://eu5.fusionsolar.huawei.com/thirdData"
	DefaultHuaweiTimeout    = 10 * time.Second
	DefaultHuaweiMaxRetries = 3
)

// Wizard session store defaults
const (
	DefaultWizardSessionTTL   = 10 * time.Minute
	DefaultWizardSweepEvery   = time.Minute
	DefaultWizardMaxSessions  = 1000
	WizardSessionIDContextKey = "wizard_session_id"
)

// Cache key prefixes
const (
	CacheKeyLiveValue   = "provider:live:"
	CacheKeyStationList = "provider:stations:"
)

// Live value cache duration
const LiveValueCacheTTL = 60 * time.Second
