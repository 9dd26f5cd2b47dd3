package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mathmemo-backend/internal/config"
)

var conn *gorm.DB

// InitDBFromConfig opens the postgres connection described by the loaded
// XML configuration and applies the pool settings.
func InitDBFromConfig(cfg *config.APIConfig) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		cfg.DB.Host, cfg.DB.Username, cfg.DB.Password.Value, cfg.DB.Name, cfg.DB.Port,
		cfg.DB.SSLMode, cfg.Context.TimeZone,
	)

	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		log.Fatalf("failed to access underlying sql.DB: %v", err)
	}
	if cfg.DB.Pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.Pool.MaxOpenConns)
	}
	if cfg.DB.Pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.Pool.MaxIdleConns)
	}
	if cfg.DB.Pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.DB.Pool.ConnMaxLifetime) * time.Second)
	}

	conn = database
	log.Println("Database connection established")
}

// GetDB returns the shared gorm handle.
func GetDB() *gorm.DB {
	return conn
}

// SetDB swaps the shared handle; used by tests.
func SetDB(database *gorm.DB) {
	conn = database
}
