package service

import (
	"context"

	"backoffice/internal/inspection"
	"backoffice/internal/model"
	"backoffice/internal/reconcile"

	"github.com/google/uuid"
)

// ProductCatalog looks products up for search and for the system price of a
// received line.
type ProductCatalog interface {
	Search(ctx context.Context, search string, page, limit int) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

// StockRepository reports the on-hand stock an adjustment starts from.
type StockRepository interface {
	CurrentStock(ctx context.Context, productID uuid.UUID) (int, error)
}

// StockCard lists the movements of a product.
type StockCard interface {
	ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]model.InventoryTransaction, error)
}

// SubmissionGateway persists finished work. A failed call leaves nothing
// behind and is never retried automatically.
type SubmissionGateway interface {
	SubmitReception(ctx context.Context, s inspection.Session, inspectedBy string) error
	SubmitAdjustments(ctx context.Context, b reconcile.AdjustmentBatch) (string, error)
	SubmitOpname(ctx context.Context, o reconcile.Opname) (string, error)
}

// DraftStore holds receipts still under inspection between requests.
type DraftStore interface {
	Get(ctx context.Context, id string) (inspection.Session, error)
	Put(ctx context.Context, s inspection.Session) error
	Delete(ctx context.Context, id string) error
}

// ReceptionArchive reads submitted receipts.
type ReceptionArchive interface {
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Reception, error)
	List(ctx context.Context, status string, page, limit int) ([]model.Reception, int64, error)
}

// OpnameArchive reads saved stock counts.
type OpnameArchive interface {
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.StockOpname, error)
}

// Publisher pushes workflow events to connected screens.
type Publisher interface {
	Publish(event string, data map[string]any)
}
