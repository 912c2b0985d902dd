package service

import (
	"context"
	"fmt"
	"time"

	"backoffice/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	CurrentStock int             `json:"current_stock"`
	Price        decimal.Decimal `json:"price"`
}

type StockMovement struct {
	ReferenceType   string    `json:"reference_type"`
	ReferenceID     string    `json:"reference_id"`
	TransactionType string    `json:"transaction_type"`
	QuantityChanged int       `json:"quantity_changed"`
	StockAfter      int       `json:"stock_after"`
	CreatedAt       time.Time `json:"created_at"`
}

type StockResponse struct {
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name"`
	CurrentStock int             `json:"current_stock"`
	Movements    []StockMovement `json:"movements"`
}

// recentMovements caps the stock card returned with a stock lookup.
const recentMovements = 20

type ProductService interface {
	Search(ctx context.Context, search string, page, limit int) ([]ProductResponse, int64, error)
	Stock(ctx context.Context, id string) (StockResponse, error)
}

type productService struct {
	catalog ProductCatalog
	card    StockCard
}

func NewProductService(catalog ProductCatalog, card StockCard) ProductService {
	return &productService{catalog: catalog, card: card}
}

func (s *productService) Search(ctx context.Context, search string, page, limit int) ([]ProductResponse, int64, error) {
	p := pagination.Normalize(page, limit)
	products, total, err := s.catalog.Search(ctx, search, p.Page, p.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}

	res := make([]ProductResponse, 0, len(products))
	for _, prod := range products {
		res = append(res, ProductResponse{
			ID:           prod.ID.String(),
			SKU:          prod.SKU,
			Name:         prod.Name,
			Unit:         prod.Unit,
			CurrentStock: prod.CurrentStock,
			Price:        prod.Price,
		})
	}
	return res, total, nil
}

func (s *productService) Stock(ctx context.Context, id string) (StockResponse, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return StockResponse{}, notFound("product", id)
	}
	product, err := s.catalog.FindByID(ctx, pid)
	if err != nil {
		return StockResponse{}, lookupErr(err, "product", id)
	}
	rows, err := s.card.ListByProduct(ctx, pid, recentMovements)
	if err != nil {
		return StockResponse{}, fmt.Errorf("failed to load stock card: %w", err)
	}

	res := StockResponse{
		ProductID:    product.ID.String(),
		Name:         product.Name,
		CurrentStock: product.CurrentStock,
		Movements:    make([]StockMovement, 0, len(rows)),
	}
	for _, r := range rows {
		res.Movements = append(res.Movements, StockMovement{
			ReferenceType:   r.ReferenceType,
			ReferenceID:     r.ReferenceID.String(),
			TransactionType: r.TransactionType,
			QuantityChanged: r.QuantityChanged,
			StockAfter:      r.StockAfter,
			CreatedAt:       r.CreatedAt,
		})
	}
	return res, nil
}
