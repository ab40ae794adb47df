package providers

// Final configuration shapes each vendor's wizard (or direct create) must
// produce. Field constraints mirror what downstream consumers expect.

// HuaweiConfig is the validated output of the Huawei onboarding wizard
type HuaweiConfig struct {
	StationCode string  `json:"station_code" validate:"required" desc:"FusionSolar station code"`
	DeviceID    string  `json:"device_id" validate:"required" desc:"FusionSolar device identifier"`
	MaxPowerKW  float64 `json:"max_power_kw" validate:"gt=0" desc:"Maximum inverter power in kW"`
	MinPowerKW  float64 `json:"min_power_kw" validate:"gte=0" desc:"Minimum inverter power in kW"`
}

// ApplyDefaults fills the power envelope when the caller omitted it
func (c *HuaweiConfig) ApplyDefaults() {
	if c.MaxPowerKW == 0 {
		c.MaxPowerKW = 20.0
	}
}

// GoodWeConfig configures a GoodWe SEMS portal integration
type GoodWeConfig struct {
	Username   string  `json:"username" validate:"required" desc:"GoodWe SEMS username"`
	Password   string  `json:"password" validate:"required" desc:"GoodWe SEMS password"`
	StationID  string  `json:"station_id" validate:"required" desc:"GoodWe power station ID"`
	InverterSN *string `json:"inverter_sn,omitempty" desc:"Inverter serial number (optional)"`
	MaxPowerKW float64 `json:"max_power_kw" validate:"gt=0" desc:"Maximum inverter power in kW"`
}

// ApplyDefaults fills the power ceiling when omitted
func (c *GoodWeConfig) ApplyDefaults() {
	if c.MaxPowerKW == 0 {
		c.MaxPowerKW = 20.0
	}
}

// SensorThresholdConfig configures a locally attached hardware sensor
type SensorThresholdConfig struct {
	MinValue *float64 `json:"min_value,omitempty" desc:"Minimum acceptable value"`
	MaxValue *float64 `json:"max_value,omitempty" desc:"Maximum acceptable value"`
	Unit     string   `json:"unit" validate:"required" desc:"Measurement unit"`
}

// UsernamePasswordCredentials is the credentials shape wizard auth steps
// collect for portal-based vendors
type UsernamePasswordCredentials struct {
	Username string `json:"username" validate:"required" desc:"Login username"`
	Password string `json:"password" validate:"required" desc:"Login password"`
}
