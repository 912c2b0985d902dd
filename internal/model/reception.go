package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reception is a submitted goods receipt with its final disposition
type Reception struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceNumber string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"invoice_number"`
	PONumber      string          `gorm:"type:varchar(100);not null;index" json:"po_number"`
	SupplierID    string          `gorm:"type:varchar(100);not null;index" json:"supplier_id"`
	ReceivedDate  time.Time       `gorm:"not null" json:"received_date"`
	Status        string          `gorm:"type:varchar(20);not null;index" json:"status"` // approved, rejected
	InspectedBy   string          `gorm:"type:varchar(255);not null" json:"inspected_by"`
	Items         []ReceptionItem `gorm:"foreignKey:ReceptionID" json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ReceptionItem is one inspected line of a Reception
type ReceptionItem struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ReceptionID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"reception_id"`
	Position            int             `gorm:"type:int;not null" json:"position"`
	ProductID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName         string          `gorm:"type:varchar(255)" json:"product_name"`
	BatchNumber         string          `gorm:"type:varchar(100)" json:"batch_number"`
	ExpiryDate          *time.Time      `json:"expiry_date"`
	OrderedQty          int             `gorm:"type:int;not null" json:"ordered_qty"`
	ReceivedQty         int             `gorm:"type:int;not null" json:"received_qty"`
	InvoicePrice        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"invoice_price"`
	SystemPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"system_price"`
	SupplierOfferPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"supplier_offer_price"`
	MatchesOrder        bool            `gorm:"not null" json:"matches_order"`
	PackagingIntact     bool            `gorm:"not null" json:"packaging_intact"`
	ExpiryAcceptable    bool            `gorm:"not null" json:"expiry_acceptable"`
	ConditionAcceptable bool            `gorm:"not null" json:"condition_acceptable"`
	Notes               string          `gorm:"type:text" json:"notes"`
	PhotoRef            string          `gorm:"type:varchar(255)" json:"photo_ref"`
	Status              string          `gorm:"type:varchar(20);not null" json:"status"` // approved, rejected
}

// ReceptionDraft keeps an in-progress inspection between requests
type ReceptionDraft struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Snapshot  string    `gorm:"type:jsonb;not null" json:"snapshot"` // serialized inspection session
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
