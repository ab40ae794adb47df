package providers

// Vendor identifies a specific external data source integration
type Vendor string

const (
	VendorHuawei Vendor = "huawei"
	VendorGoodWe Vendor = "goodwe"
	VendorDHT22  Vendor = "dht22"
	VendorBME280 Vendor = "bme280"
	VendorBH1750 Vendor = "bh1750"
)

// ProviderType classifies how measurements are obtained
type ProviderType string

const (
	ProviderTypeAPI    ProviderType = "api"
	ProviderTypeSensor ProviderType = "sensor"
)

// ProviderKind classifies what a provider measures
type ProviderKind string

const (
	ProviderKindPower       ProviderKind = "power"
	ProviderKindTemperature ProviderKind = "temperature"
	ProviderKindLight       ProviderKind = "light"
)

// Unit is the measurement unit reported by a provider
type Unit string

const (
	UnitKilowatt Unit = "kW"
	UnitCelsius  Unit = "celsius"
	UnitLux      Unit = "lux"
)

// SensorType identifies physical sensor hardware
type SensorType string

const (
	SensorDHT22  SensorType = "dht22"
	SensorBME280 SensorType = "bme280"
	SensorBH1750 SensorType = "bh1750"
)
