package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	gormModels "smartgrid/wattson/internal/models/gorm"
)

// ProviderConfigRepo persists validated provider configurations via GORM
type ProviderConfigRepo struct {
	db *gorm.DB
}

// NewProviderConfigRepo creates a new provider config repository
func NewProviderConfigRepo(db *gorm.DB) *ProviderConfigRepo {
	return &ProviderConfigRepo{db: db}
}

// Create inserts a provider config record
func (r *ProviderConfigRepo) Create(ctx context.Context, config *gormModels.ProviderConfig) error {
	if err := r.db.WithContext(ctx).Create(config).Error; err != nil {
		return fmt.Errorf("failed to create provider config: %w", err)
	}
	return nil
}

// GetByUUID fetches one provider config by its public id
func (r *ProviderConfigRepo) GetByUUID(ctx context.Context, id string) (*gormModels.ProviderConfig, error) {
	var config gormModels.ProviderConfig

	err := r.db.WithContext(ctx).Where("uuid = ?", id).First(&config).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("provider config not found: %s", id)
		}
		return nil, fmt.Errorf("failed to fetch provider config: %w", err)
	}
	return &config, nil
}

// ListByVendor returns all configs for one vendor
func (r *ProviderConfigRepo) ListByVendor(ctx context.Context, vendor string) ([]gormModels.ProviderConfig, error) {
	var configs []gormModels.ProviderConfig

	err := r.db.WithContext(ctx).Where("vendor = ?", vendor).Find(&configs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list provider configs: %w", err)
	}
	return configs, nil
}

// List returns all provider configs
func (r *ProviderConfigRepo) List(ctx context.Context) ([]gormModels.ProviderConfig, error) {
	var configs []gormModels.ProviderConfig

	if err := r.db.WithContext(ctx).Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("failed to list provider configs: %w", err)
	}
	return configs, nil
}

// TouchLastSeen marks a provider as recently seen
func (r *ProviderConfigRepo) TouchLastSeen(ctx context.Context, id string, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&gormModels.ProviderConfig{}).
		Where("uuid = ?", id).
		Update("last_seen_at", at).Error
	if err != nil {
		return fmt.Errorf("failed to touch provider: %w", err)
	}
	return nil
}

// UpdateLastMeasurement records the latest reading on the provider row
func (r *ProviderConfigRepo) UpdateLastMeasurement(ctx context.Context, id string, value float64, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&gormModels.ProviderConfig{}).
		Where("uuid = ?", id).
		Updates(map[string]any{
			"last_value":          value,
			"last_measurement_at": at,
			"last_seen_at":        at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update last measurement: %w", err)
	}
	return nil
}
