package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"smartgrid/wattson/internal/common"
	"smartgrid/wattson/internal/constants"
	"smartgrid/wattson/internal/db/repositories"
	"smartgrid/wattson/internal/logging"
	"smartgrid/wattson/internal/models/dtos"
	gormModels "smartgrid/wattson/internal/models/gorm"
	"smartgrid/wattson/internal/providers"
	"smartgrid/wattson/internal/schema"
)

// ProviderService exposes provider discovery, configuration persistence
// and cached live reads over the registry, factory and repositories
type ProviderService struct {
	definitions map[providers.Vendor]providers.Definition
	factory     *providers.AdapterFactory
	configRepo  *repositories.ProviderConfigRepo
	measurement *repositories.MeasurementRepo
	cache       common.CacheInterface
}

// NewProviderService creates a new provider service
func NewProviderService(
	definitions map[providers.Vendor]providers.Definition,
	factory *providers.AdapterFactory,
	configRepo *repositories.ProviderConfigRepo,
	measurement *repositories.MeasurementRepo,
	cache common.CacheInterface,
) *ProviderService {
	return &ProviderService{
		definitions: definitions,
		factory:     factory,
		configRepo:  configRepo,
		measurement: measurement,
		cache:       cache,
	}
}

// ListDefinitions returns the registry metadata surface for every vendor,
// sorted by vendor id for stable listings
func (s *ProviderService) ListDefinitions() []dtos.ProviderDescription {
	result := make([]dtos.ProviderDescription, 0, len(s.definitions))

	for vendor, def := range s.definitions {
		desc := dtos.ProviderDescription{
			Vendor:         string(vendor),
			Label:          def.Label,
			ProviderType:   string(def.Type),
			Kind:           string(def.Kind),
			DefaultUnit:    string(def.DefaultUnit),
			RequiresWizard: def.RequiresWizard,
			WizardStart:    def.WizardStart,
		}
		if sensorType, ok := providers.ResolveSensorType(vendor); ok {
			desc.SensorType = string(sensorType)
		}
		if def.ConfigSchema != nil {
			desc.ConfigSchema = def.ConfigSchema.Describe()
		}
		result = append(result, desc)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Vendor < result[j].Vendor })
	return result
}

// CreateProvider validates the supplied configuration against the vendor's
// schema and persists it
func (s *ProviderService) CreateProvider(
	ctx context.Context,
	vendor providers.Vendor,
	name string,
	config map[string]any,
) (*gormModels.ProviderConfig, error) {
	def, ok := s.definitions[vendor]
	if !ok {
		return nil, providers.NewNotSupportedError(vendor)
	}

	normalized := config
	if def.ConfigSchema != nil {
		var err error
		normalized, err = def.ConfigSchema.Normalize(config)
		if err != nil {
			var verr *schema.ValidationError
			if errors.As(err, &verr) {
				return nil, providers.NewConfigError(
					"Provider configuration failed validation",
					map[string]any{"errors": verr.Fields},
					err,
				)
			}
			return nil, err
		}
	}

	encoded, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to encode provider config: %w", err)
	}

	record := &gormModels.ProviderConfig{
		Name:         name,
		Vendor:       string(vendor),
		ProviderType: string(def.Type),
		Kind:         string(def.Kind),
		Unit:         string(def.DefaultUnit),
		Config:       string(encoded),
		Enabled:      true,
	}

	if err := s.configRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	logging.Info("Provider configuration stored",
		"vendor", string(vendor),
		"uuid", record.UUID,
	)
	return record, nil
}

// ReadLiveValue reads a device's current value through the adapter,
// serving repeat reads from cache for a short window
func (s *ProviderService) ReadLiveValue(
	ctx context.Context,
	vendor providers.Vendor,
	creds providers.Credentials,
	cacheKey string,
	deviceID string,
) (float64, error) {
	key := constants.CacheKeyLiveValue + string(vendor) + ":" + deviceID

	val, err := s.cache.GetOrSet(key, constants.LiveValueCacheTTL, func() (any, error) {
		adapter, err := s.factory.Create(vendor, creds, cacheKey, nil)
		if err != nil {
			return nil, err
		}
		return adapter.ReadValue(ctx, deviceID)
	})
	if err != nil {
		return 0, err
	}

	switch v := val.(type) {
	case float64:
		return v, nil
	case json.Number:
		f, _ := v.Float64()
		return f, nil
	default:
		return 0, fmt.Errorf("unexpected cached value type %T", val)
	}
}

// RecordMeasurement stores a reading and rolls it up onto the provider row
func (s *ProviderService) RecordMeasurement(
	ctx context.Context,
	providerUUID string,
	value float64,
) error {
	now := time.Now().UTC()

	if s.measurement != nil {
		if err := s.measurement.Insert(ctx, providerUUID, value, now); err != nil {
			return err
		}
	}
	return s.configRepo.UpdateLastMeasurement(ctx, providerUUID, value, now)
}

// ClearAdapterCache drops all cached adapter instances
func (s *ProviderService) ClearAdapterCache() {
	s.factory.ClearCache()
}
