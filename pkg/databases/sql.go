package databases

import (
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // Required for postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // Required for file source

	"github.com/victor-lby/sos-cidadao-sub000/configs"
)

func NewSqlDb(cfg *configs.AppConfig) (db *gorm.DB, err error) {
	db, err = gorm.Open(postgres.New(postgres.Config{
		DSN: cfg.SQL.DSN,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return
	}

	if err = db.Use(tracing.NewPlugin()); err != nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		return
	}

	sqlDB.SetConnMaxIdleTime(time.Minute * 5)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetConnMaxLifetime(620 * time.Second)

	log.Info("Database connected successfully")
	return db, nil
}

func NewMigrate(cfg *configs.AppConfig) (*migrate.Migrate, error) {
	migrationsPath := "file://./docs/db/migrations"

	migrator, err := migrate.New(migrationsPath, cfg.SQL.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator instance: %w", err)
	}

	return migrator, nil
}
