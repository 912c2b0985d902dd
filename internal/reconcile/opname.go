package reconcile

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProductCount holds the counted batches of one product.
type ProductCount struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitValue   decimal.Decimal `json:"unit_value"`
	Batches     []BatchCount    `json:"batches"`
}

func (p ProductCount) Summary() Summary {
	return Reconcile(p.Batches, p.UnitValue)
}

// ProductSummary pairs a product with its reconciliation.
type ProductSummary struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Summary
}

// Opname is a physical stock count over several products.
type Opname struct {
	Number    string         `json:"number"`
	CountedBy string         `json:"counted_by"`
	Date      time.Time      `json:"date"`
	Products  []ProductCount `json:"products"`
}

// Validate checks the header and that no count is negative.
func (o Opname) Validate() error {
	if strings.TrimSpace(o.Number) == "" {
		return ErrMissingNumber
	}
	if strings.TrimSpace(o.CountedBy) == "" {
		return ErrMissingSubmitter
	}
	if len(o.Products) == 0 {
		return ErrEmptyCount
	}
	seen := make(map[string]bool, len(o.Products))
	for _, p := range o.Products {
		if strings.TrimSpace(p.ProductID) == "" {
			return ErrMissingProduct
		}
		if seen[p.ProductID] {
			return ErrDuplicateProduct
		}
		seen[p.ProductID] = true
		if p.UnitValue.IsNegative() {
			return ErrNegativeValue
		}
		for _, b := range p.Batches {
			if b.CountedQty < 0 {
				return ErrNegativeCount
			}
			if b.ExpectedQty < 0 {
				return ErrNegativeStock
			}
		}
	}
	return nil
}

// Summaries reconciles every product in count order.
func (o Opname) Summaries() []ProductSummary {
	out := make([]ProductSummary, 0, len(o.Products))
	for _, p := range o.Products {
		out = append(out, ProductSummary{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			Summary:     p.Summary(),
		})
	}
	return out
}

// Totals adds up all product summaries. Value differences are summed per
// product since unit values differ between products.
func (o Opname) Totals() Summary {
	t := Summary{TotalValueDifference: decimal.Zero}
	for _, s := range o.Summaries() {
		t.TotalCounted += s.TotalCounted
		t.TotalExpected += s.TotalExpected
		t.Difference += s.Difference
		t.TotalValueDifference = t.TotalValueDifference.Add(s.TotalValueDifference)
	}
	return t
}

// Adjustments turns every product whose count differs from the system into
// an adjustment record, so a finished count can be posted like any other
// stock adjustment.
func (o Opname) Adjustments() (AdjustmentBatch, error) {
	batch := AdjustmentBatch{
		Number:      o.Number,
		SubmittedBy: o.CountedBy,
		Date:        o.Date,
		Note:        "stock opname " + o.Number,
	}
	for _, p := range o.Products {
		s := p.Summary()
		if s.Difference == 0 {
			continue
		}
		var err error
		batch, err = batch.Add(AdjustmentInput{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			OldStock:    s.TotalExpected,
			NewStock:    s.TotalCounted,
			ReasonCode:  ReasonOpname,
			ReasonText:  "stock opname " + o.Number,
		})
		if err != nil {
			return AdjustmentBatch{}, err
		}
	}
	return batch, nil
}
