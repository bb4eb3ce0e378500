package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"userhub/internal/domain"

	_ "modernc.org/sqlite"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate creates the schema for all tables, audit tables included. Used by
// cmd/seed and tests; the API server expects the schema to exist.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Credential{},
		&domain.RevokedToken{},
	); err != nil {
		return err
	}
	if err := db.Table("auth_logs").AutoMigrate(&domain.LogEntry{}); err != nil {
		return err
	}
	return db.Table("user_logs").AutoMigrate(&domain.LogEntry{})
}
