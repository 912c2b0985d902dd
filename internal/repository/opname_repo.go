package repository

import (
	"context"

	"backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OpnameRepository interface {
	Create(ctx context.Context, opname *model.StockOpname) error
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.StockOpname, error)
}

type opnameRepository struct {
	db *gorm.DB
}

func NewOpnameRepository(db *gorm.DB) OpnameRepository {
	return &opnameRepository{db: db}
}

func (r *opnameRepository) Create(ctx context.Context, opname *model.StockOpname) error {
	return translate(GetDB(ctx, r.db).Create(opname).Error)
}

func (r *opnameRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.StockOpname, error) {
	var opname model.StockOpname
	if err := GetDB(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		First(&opname, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &opname, nil
}
