package reconcile

import (
	"strings"
	"time"
)

// ReasonCode classifies why stock is being adjusted.
type ReasonCode string

const (
	ReasonExpired ReasonCode = "expired"
	ReasonDamaged ReasonCode = "damaged"
	ReasonLost    ReasonCode = "lost"
	ReasonFound   ReasonCode = "found"
	ReasonOpname  ReasonCode = "opname"
	ReasonOther   ReasonCode = "other"
)

func (r ReasonCode) valid() bool {
	switch r {
	case ReasonExpired, ReasonDamaged, ReasonLost, ReasonFound, ReasonOpname, ReasonOther:
		return true
	}
	return false
}

// AdjustmentType is the direction of a stock change.
type AdjustmentType string

const (
	AdjustmentIncrease AdjustmentType = "increase"
	AdjustmentDecrease AdjustmentType = "decrease"
)

// AdjustmentInput is what the user enters for one product.
type AdjustmentInput struct {
	ProductID   string     `json:"product_id"`
	ProductName string     `json:"product_name"`
	OldStock    int        `json:"old_stock"`
	NewStock    int        `json:"new_stock"`
	ReasonCode  ReasonCode `json:"reason_code"`
	ReasonText  string     `json:"reason_text"`
}

// AdjustmentRecord is a validated stock change for one product.
type AdjustmentRecord struct {
	ProductID   string         `json:"product_id"`
	ProductName string         `json:"product_name"`
	OldStock    int            `json:"old_stock"`
	NewStock    int            `json:"new_stock"`
	Delta       int            `json:"delta"`
	Type        AdjustmentType `json:"adjustment_type"`
	ReasonCode  ReasonCode     `json:"reason_code"`
	ReasonText  string         `json:"reason_text"`
}

// BuildAdjustment validates in and derives delta and direction. No record is
// produced when the stock does not change.
func BuildAdjustment(in AdjustmentInput) (AdjustmentRecord, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return AdjustmentRecord{}, ErrMissingProduct
	}
	if in.OldStock < 0 || in.NewStock < 0 {
		return AdjustmentRecord{}, ErrNegativeStock
	}
	delta := in.NewStock - in.OldStock
	if delta == 0 {
		return AdjustmentRecord{}, ErrNoChange
	}
	if in.ReasonCode == "" {
		return AdjustmentRecord{}, ErrMissingReason
	}
	if !in.ReasonCode.valid() {
		return AdjustmentRecord{}, ErrUnknownReason
	}
	if in.ReasonCode == ReasonOther && strings.TrimSpace(in.ReasonText) == "" {
		return AdjustmentRecord{}, ErrMissingReasonText
	}

	typ := AdjustmentIncrease
	if delta < 0 {
		typ = AdjustmentDecrease
	}
	return AdjustmentRecord{
		ProductID:   in.ProductID,
		ProductName: in.ProductName,
		OldStock:    in.OldStock,
		NewStock:    in.NewStock,
		Delta:       delta,
		Type:        typ,
		ReasonCode:  in.ReasonCode,
		ReasonText:  strings.TrimSpace(in.ReasonText),
	}, nil
}

// AdjustmentBatch collects records until the user saves them together.
type AdjustmentBatch struct {
	Number      string             `json:"number"`
	SubmittedBy string             `json:"submitted_by"`
	Date        time.Time          `json:"date"`
	Note        string             `json:"note"`
	Records     []AdjustmentRecord `json:"records"`
}

// Add builds a record from in and returns a batch with it appended.
func (b AdjustmentBatch) Add(in AdjustmentInput) (AdjustmentBatch, error) {
	rec, err := BuildAdjustment(in)
	if err != nil {
		return b, err
	}
	for _, r := range b.Records {
		if r.ProductID == rec.ProductID {
			return b, ErrDuplicateProduct
		}
	}
	records := make([]AdjustmentRecord, len(b.Records), len(b.Records)+1)
	copy(records, b.Records)
	b.Records = append(records, rec)
	return b, nil
}

// Remove returns a batch without the record for productID.
func (b AdjustmentBatch) Remove(productID string) AdjustmentBatch {
	records := make([]AdjustmentRecord, 0, len(b.Records))
	for _, r := range b.Records {
		if r.ProductID != productID {
			records = append(records, r)
		}
	}
	b.Records = records
	return b
}

// ValidateForSave checks what a save needs beyond valid records.
func (b AdjustmentBatch) ValidateForSave() error {
	if strings.TrimSpace(b.Number) == "" {
		return ErrMissingNumber
	}
	if strings.TrimSpace(b.SubmittedBy) == "" {
		return ErrMissingSubmitter
	}
	if len(b.Records) == 0 {
		return ErrEmptyBatch
	}
	return nil
}

// Totals sums the units added and removed by the batch.
func (b AdjustmentBatch) Totals() (increase, decrease int) {
	for _, r := range b.Records {
		if r.Delta > 0 {
			increase += r.Delta
		} else {
			decrease -= r.Delta
		}
	}
	return increase, decrease
}
