package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"smartgrid/wattson/internal/logging"
)

var PgDB *gorm.DB

// InitPostgresORM connects GORM to Postgres. The returned handle is also
// stored in PgDB for the dependency wiring.
func InitPostgresORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	PgDB = db
	logging.Info("Connected to Postgres via GORM")
	return db, nil
}

// DSN builds the Postgres connection string from the environment
func DSN() string {
	return postgresDSN()
}
