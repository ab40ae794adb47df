package providers

import (
	"os"
	"strconv"
	"time"

	"smartgrid/wattson/internal/constants"
	"smartgrid/wattson/internal/schema"
)

// Definition is the immutable registry metadata for one vendor. Built once
// at process start and never mutated afterwards.
type Definition struct {
	Label             string
	Type              ProviderType
	Kind              ProviderKind
	DefaultUnit       Unit
	RequiresWizard    bool
	WizardStart       string
	ConfigSchema      *schema.Schema
	CredentialsSchema *schema.Schema
	NewAdapter        AdapterConstructor
	Settings          AdapterSettings
}

var definitions = map[Vendor]Definition{
	VendorHuawei: {
		Label:             "Huawei FusionSolar",
		Type:              ProviderTypeAPI,
		Kind:              ProviderKindPower,
		DefaultUnit:       UnitKilowatt,
		RequiresWizard:    true,
		WizardStart:       "auth",
		ConfigSchema:      schema.Of[HuaweiConfig](),
		CredentialsSchema: schema.Of[UsernamePasswordCredentials](),
		NewAdapter:        NewHuaweiAdapter,
		Settings:          huaweiSettingsFromEnv(),
	},
	VendorGoodWe: {
		Label:        "GoodWe SEMS",
		Type:         ProviderTypeAPI,
		Kind:         ProviderKindPower,
		DefaultUnit:  UnitKilowatt,
		ConfigSchema: schema.Of[GoodWeConfig](),
	},
	VendorDHT22: {
		Label:        "DHT22 Sensor",
		Type:         ProviderTypeSensor,
		Kind:         ProviderKindTemperature,
		DefaultUnit:  UnitCelsius,
		ConfigSchema: schema.Of[SensorThresholdConfig](),
	},
	VendorBME280: {
		Label:        "BME280 Sensor",
		Type:         ProviderTypeSensor,
		Kind:         ProviderKindTemperature,
		DefaultUnit:  UnitCelsius,
		ConfigSchema: schema.Of[SensorThresholdConfig](),
	},
	VendorBH1750: {
		Label:        "BH1750 Light Sensor",
		Type:         ProviderTypeSensor,
		Kind:         ProviderKindLight,
		DefaultUnit:  UnitLux,
		ConfigSchema: schema.Of[SensorThresholdConfig](),
	},
}

// Definitions returns the full registry table. Callers must treat it as
// read-only.
func Definitions() map[Vendor]Definition {
	return definitions
}

// Lookup resolves a vendor's definition. Absence is not an error at this
// layer; callers decide policy.
func Lookup(vendor Vendor) (Definition, bool) {
	def, ok := definitions[vendor]
	return def, ok
}

// ListByType returns the vendors matching a provider type, for discovery
// and listing endpoints
func ListByType(t ProviderType) []Vendor {
	vendors := []Vendor{}
	for vendor, def := range definitions {
		if def.Type == t {
			vendors = append(vendors, vendor)
		}
	}
	return vendors
}

// ResolveSensorType returns the hardware sensor type when the vendor
// refers to physical hardware rather than a remote API
func ResolveSensorType(vendor Vendor) (SensorType, bool) {
	def, ok := definitions[vendor]
	if !ok || def.Type != ProviderTypeSensor {
		return "", false
	}
	return SensorType(vendor), true
}

func huaweiSettingsFromEnv() AdapterSettings {
	settings := AdapterSettings{
		BaseURL:    constants.DefaultHuaweiBaseURL,
		Timeout:    constants.DefaultHuaweiTimeout,
		MaxRetries: constants.DefaultHuaweiMaxRetries,
	}

	if v := os.Getenv("HUAWEI_BASE_URL"); v != "" {
		settings.BaseURL = v
	}
	if v := os.Getenv("HUAWEI_TIMEOUT_SECONDS"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			settings.Timeout = time.Duration(seconds) * time.Second
		}
	}
	if v := os.Getenv("HUAWEI_MAX_RETRIES"); v != "" {
		if retries, err := strconv.Atoi(v); err == nil && retries > 0 {
			settings.MaxRetries = retries
		}
	}
	return settings
}
