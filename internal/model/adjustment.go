package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockAdjustment is a saved batch of manual stock corrections
type StockAdjustment struct {
	ID             uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Number         string                `gorm:"type:varchar(100);uniqueIndex;not null" json:"number"`
	SubmittedBy    string                `gorm:"type:varchar(255);not null" json:"submitted_by"`
	AdjustmentDate time.Time             `gorm:"not null" json:"adjustment_date"`
	Note           string                `gorm:"type:text" json:"note"`
	OpnameID       *uuid.UUID            `gorm:"type:uuid;index" json:"opname_id"` // set when generated by a stock count
	Items          []StockAdjustmentItem `gorm:"foreignKey:StockAdjustmentID" json:"items"`
	CreatedAt      time.Time             `json:"created_at"`
}

// StockAdjustmentItem is one product's correction
type StockAdjustmentItem struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StockAdjustmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"stock_adjustment_id"`
	ProductID         uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	OldStock          int       `gorm:"type:int;not null" json:"old_stock"`
	NewStock          int       `gorm:"type:int;not null" json:"new_stock"`
	Delta             int       `gorm:"type:int;not null" json:"delta"`
	AdjustmentType    string    `gorm:"type:varchar(10);not null" json:"adjustment_type"` // increase, decrease
	ReasonCode        string    `gorm:"type:varchar(30);not null" json:"reason_code"`
	ReasonText        string    `gorm:"type:text" json:"reason_text"`
}

// StockOpname is a saved physical stock count
type StockOpname struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Number    string            `gorm:"type:varchar(100);uniqueIndex;not null" json:"number"`
	CountedBy string            `gorm:"type:varchar(255);not null" json:"counted_by"`
	CountDate time.Time         `gorm:"not null" json:"count_date"`
	Items     []StockOpnameItem `gorm:"foreignKey:StockOpnameID" json:"items"`
	CreatedAt time.Time         `json:"created_at"`
}

// StockOpnameItem is one counted batch row
type StockOpnameItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StockOpnameID uuid.UUID       `gorm:"type:uuid;not null;index" json:"stock_opname_id"`
	Position      int             `gorm:"type:int;not null" json:"position"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName   string          `gorm:"type:varchar(255)" json:"product_name"`
	BatchID       string          `gorm:"type:varchar(100)" json:"batch_id"`
	ExpectedQty   int             `gorm:"type:int;not null" json:"expected_qty"`
	CountedQty    int             `gorm:"type:int;not null" json:"counted_qty"`
	UnitValue     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_value"`
}
