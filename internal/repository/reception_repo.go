package repository

import (
	"context"

	"backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReceptionRepository interface {
	Create(ctx context.Context, reception *model.Reception) error
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Reception, error)
	List(ctx context.Context, status string, page, limit int) ([]model.Reception, int64, error)
}

type receptionRepository struct {
	db *gorm.DB
}

func NewReceptionRepository(db *gorm.DB) ReceptionRepository {
	return &receptionRepository{db: db}
}

// Create inserts the receipt together with its items.
func (r *receptionRepository) Create(ctx context.Context, reception *model.Reception) error {
	return translate(GetDB(ctx, r.db).Create(reception).Error)
}

func (r *receptionRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Reception, error) {
	var reception model.Reception
	if err := GetDB(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		First(&reception, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &reception, nil
}

func (r *receptionRepository) List(ctx context.Context, status string, page, limit int) ([]model.Reception, int64, error) {
	var receptions []model.Reception
	var total int64

	query := GetDB(ctx, r.db).Model(&model.Reception{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("received_date DESC").Offset(offset).Limit(limit).Find(&receptions).Error; err != nil {
		return nil, 0, err
	}
	return receptions, total, nil
}
