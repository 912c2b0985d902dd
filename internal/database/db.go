package database

import (
	"backoffice/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string, log logrus.FieldLogger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.Product{},
		&model.InventoryTransaction{},
		&model.Reception{},
		&model.ReceptionItem{},
		&model.ReceptionDraft{},
		&model.StockAdjustment{},
		&model.StockAdjustmentItem{},
		&model.StockOpname{},
		&model.StockOpnameItem{},
	)
	if err != nil {
		log.WithError(err).Warn("failed to auto-migrate models")
	}

	return db, nil
}
