package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog item with its on-hand stock
type Product struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU          string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Name         string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Unit         string          `gorm:"type:varchar(30)" json:"unit"`
	CurrentStock int             `gorm:"type:int;default:0;not null" json:"current_stock"`
	Price        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"price"` // system purchase price
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TransactionType Enum Simulation
const (
	TxTypeIn  = "IN"
	TxTypeOut = "OUT"
)

// ReferenceType of a stock movement
const (
	RefTypeReception  = "RECEPTION"
	RefTypeAdjustment = "ADJUSTMENT"
)

// InventoryTransaction is one line of the stock card
type InventoryTransaction struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	ReferenceType   string    `gorm:"type:varchar(20);not null;index" json:"reference_type"`
	ReferenceID     uuid.UUID `gorm:"type:uuid;not null;index" json:"reference_id"`
	TransactionType string    `gorm:"type:varchar(10);not null" json:"transaction_type"` // IN, OUT
	QuantityChanged int       `gorm:"type:int;not null" json:"quantity_changed"`
	StockAfter      int       `gorm:"type:int;not null" json:"stock_after"`
	CreatedAt       time.Time `json:"created_at"`
}
