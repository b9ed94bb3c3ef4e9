package database

import (
	"fmt"
	"log"

	"github.com/gdg-garage/conference-registration-api/internal/config"
	"github.com/gdg-garage/conference-registration-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	return db
}

// Open connects and migrates. An in-memory sqlite database is pinned to one
// connection, since every new connection would see an empty schema.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if dialector.Name() == "sqlite" && cfg.DatabasePath == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return db, nil
}

// OpenMemory returns a migrated in-memory sqlite database.
func OpenMemory() (*gorm.DB, error) {
	return Open(&config.Config{DatabaseDriver: "sqlite", DatabasePath: ":memory:"})
}

// Dialector picks the gorm driver for the configured backend.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DatabaseDriver {
	case "", "sqlite":
		return sqlite.Open(cfg.DatabasePath), nil
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
		return postgres.Open(cfg.DatabaseURL), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Region{},
		&models.Ministry{},
		&models.FormField{},
		&models.Registration{},
		&models.Admin{},
		&models.APIKey{},
		&models.Setting{},
	)
}
