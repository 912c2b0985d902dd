package repository

import (
	"context"

	"backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdjustmentRepository interface {
	Create(ctx context.Context, adj *model.StockAdjustment) error
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.StockAdjustment, error)
}

type adjustmentRepository struct {
	db *gorm.DB
}

func NewAdjustmentRepository(db *gorm.DB) AdjustmentRepository {
	return &adjustmentRepository{db: db}
}

func (r *adjustmentRepository) Create(ctx context.Context, adj *model.StockAdjustment) error {
	return translate(GetDB(ctx, r.db).Create(adj).Error)
}

func (r *adjustmentRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.StockAdjustment, error) {
	var adj model.StockAdjustment
	if err := GetDB(ctx, r.db).Preload("Items").First(&adj, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &adj, nil
}
