// Package database opens the GORM connection and prepares the schema.
package database

import (
	"context"
	"fmt"

	"productcatalog/internal/config"
	"productcatalog/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database, applies pool settings and
// migrates the schema. It is not used for the memory driver.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		})
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(cfg.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := Migrate(db, cfg.IDOffset); err != nil {
		return nil, err
	}
	log.Info("Database connection established",
		zap.String("driver", cfg.Driver),
		zap.Int64("id_offset", cfg.IDOffset))
	return db, nil
}

// Migrate creates the products table and moves its identity sequence to
// start at idOffset. The sequence is only ever moved forward.
func Migrate(db *gorm.DB, idOffset int64) error {
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	if err := seedIdentity(db, idOffset); err != nil {
		return fmt.Errorf("failed to set product id offset: %w", err)
	}
	return nil
}

func seedIdentity(db *gorm.DB, idOffset int64) error {
	if idOffset <= 1 {
		return nil
	}
	switch db.Dialector.Name() {
	case "postgres":
		// setval(..., false) makes the next nextval() return exactly the value.
		return db.Exec(`SELECT setval(pg_get_serial_sequence('products', 'id'),
			GREATEST(?, (SELECT COALESCE(MAX(id), 0) + 1 FROM products)), false)`, idOffset).Error
	case "sqlite":
		// AUTOINCREMENT tables draw from sqlite_sequence; seq holds the last id used.
		return db.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Table("sqlite_sequence").Where("name = ?", "products").Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return tx.Exec("INSERT INTO sqlite_sequence (name, seq) VALUES (?, ?)", "products", idOffset-1).Error
			}
			return tx.Exec("UPDATE sqlite_sequence SET seq = ? WHERE name = ? AND seq < ?", idOffset-1, "products", idOffset-1).Error
		})
	default:
		return fmt.Errorf("identity offset not supported for dialect %s", db.Dialector.Name())
	}
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks connectivity within ctx.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
