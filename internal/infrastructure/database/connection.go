package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/adapters/persistence"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/infrastructure/config"
)

// NewConnection opens a database connection from configuration
func NewConnection(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Type {
	case "postgres":
		var dsn string
		if cfg.URL != "" {
			dsn = cfg.URL
		} else {
			dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
				cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
		}
		dialector = postgres.Open(dsn)

	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = ":memory:"
		}
		dialector = sqlite.Open(path)

	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Connection pool settings apply to PostgreSQL only.
	if cfg.Type == "postgres" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying db: %w", err)
		}
		sqlDB.SetMaxOpenConns(cfg.Pool.MaxOpen)
		sqlDB.SetMaxIdleConns(cfg.Pool.MaxIdle)
		sqlDB.SetConnMaxLifetime(cfg.Pool.MaxLifetime)
	}

	return db, nil
}

// NewTestConnection creates an in-memory SQLite database for testing
func NewTestConnection() (*gorm.DB, error) {
	cfg := &config.DatabaseConfig{
		Type: "sqlite",
		Path: ":memory:",
	}

	db, err := NewConnection(cfg)
	if err != nil {
		return nil, err
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate test database: %w", err)
	}

	return db, nil
}

// AutoMigrate creates or updates every engine table
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&persistence.StateModel{},
		&persistence.ProvinceModel{},
		&persistence.NationModel{},
		&persistence.StockpileModel{},
		&persistence.ReservationModel{},
		&persistence.BuildingTemplateModel{},
		&persistence.StateBuildModel{},
		&persistence.ProvinceBuildingModel{},
		&persistence.MarketPostModel{},
		&persistence.TradeOfferModel{},
		&persistence.TradeRecordModel{},
		&persistence.ModifierModel{},
		&persistence.UnitTemplateModel{},
		&persistence.RecruitModel{},
		&persistence.ArmyModel{},
		&persistence.NationTechnologyModel{},
		&persistence.ResourceModel{},
		&persistence.ConfigModel{},
	)
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
