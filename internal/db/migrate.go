package db

import (
	"github.com/ikkim/udonggeum-variants/internal/app/model"
	"github.com/ikkim/udonggeum-variants/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table owned by this service, parents first.
func Models() []interface{} {
	return []interface{}{
		&model.Attribute{},
		&model.AttributeValue{},
		&model.Product{},
		&model.Variant{},
		&model.VariantAttributeAssignment{},
		&model.Order{},
		&model.OrderItem{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB runs the migrations against an explicit connection.
func MigrateDB(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
