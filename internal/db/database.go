package db

import (
	"database/sql"
	"fmt"

	"github.com/ikkim/udonggeum-variants/config"
	appLogger "github.com/ikkim/udonggeum-variants/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize opens the catalog database and applies the pool settings from
// DB_MAX_OPEN_CONNS, DB_MAX_IDLE_CONNS and DB_CONN_MAX_LIFETIME.
func Initialize(cfg *config.DatabaseConfig) error {
	appLogger.Info("Connecting to catalog database", map[string]interface{}{
		"host":     cfg.Host,
		"port":     cfg.Port,
		"database": cfg.DBName,
		"user":     cfg.User,
		"sslmode":  cfg.SSLMode,
	})

	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // 쿼리 로그는 appLogger 로만 남긴다
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	configurePool(sqlDB, cfg)

	appLogger.Info("Catalog database ready", map[string]interface{}{
		"database":          cfg.DBName,
		"max_open_conns":    sqlDB.Stats().MaxOpenConnections,
		"max_idle_conns":    cfg.MaxIdleConns,
		"conn_max_lifetime": cfg.ConnMaxLifetime.String(),
	})
	return nil
}

// configurePool applies the pool limits. Zero or negative values leave the
// database/sql default in place.
func configurePool(sqlDB *sql.DB, cfg *config.DatabaseConfig) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func GetDB() *gorm.DB {
	return DB
}
