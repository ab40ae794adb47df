package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProviderConfig is a persisted, validated vendor configuration: the
// output of a completed wizard run, or of a direct create for vendors
// that need no wizard.
type ProviderConfig struct {
	ID   uint   `gorm:"primaryKey"`
	UUID string `gorm:"uniqueIndex;size:36"`

	Name   string `gorm:"not null"`
	Vendor string `gorm:"index;not null"`

	// classification, copied from the registry at creation time
	ProviderType string
	Kind         string
	Unit         string

	// vendor-specific config as validated/normalized JSON
	Config string `gorm:"type:text;not null"`

	// runtime state
	ExternalID          *string
	LastValue           *float64
	LastMeasurementAt   *time.Time
	LastSeenAt          *time.Time
	ExpectedIntervalSec int `gorm:"default:60"`

	Enabled bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns the public UUID
func (p *ProviderConfig) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.NewString()
	}
	return nil
}
