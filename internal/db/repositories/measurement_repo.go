package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Measurement is one recorded reading of a provider
type Measurement struct {
	ID           int64     `db:"id"`
	ProviderUUID string    `db:"provider_uuid"`
	Value        float64   `db:"value"`
	MeasuredAt   time.Time `db:"measured_at"`
}

// MeasurementRepo stores raw provider readings with sqlx
type MeasurementRepo struct {
	db *sqlx.DB
}

// NewMeasurementRepo creates a new measurement repository
func NewMeasurementRepo(db *sqlx.DB) *MeasurementRepo {
	return &MeasurementRepo{db: db}
}

// Insert records one reading
func (r *MeasurementRepo) Insert(ctx context.Context, providerUUID string, value float64, measuredAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO provider_measurements (provider_uuid, value, measured_at)
		 VALUES ($1, $2, $3)`,
		providerUUID, value, measuredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert measurement: %w", err)
	}
	return nil
}

// Latest returns the most recent reading for a provider, or nil when none
// has been recorded yet
func (r *MeasurementRepo) Latest(ctx context.Context, providerUUID string) (*Measurement, error) {
	var m Measurement

	err := r.db.GetContext(ctx, &m,
		`SELECT id, provider_uuid, value, measured_at
		 FROM provider_measurements
		 WHERE provider_uuid = $1
		 ORDER BY measured_at DESC
		 LIMIT 1`,
		providerUUID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch latest measurement: %w", err)
	}
	return &m, nil
}

// DeleteOlderThan prunes readings past the retention window
func (r *MeasurementRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM provider_measurements WHERE measured_at < $1`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune measurements: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
