package reconcile

import "github.com/shopspring/decimal"

// BatchCount is one batch row of a physical count.
type BatchCount struct {
	BatchID     string          `json:"batch_id"`
	ProductID   string          `json:"product_id"`
	ExpectedQty int             `json:"expected_qty"`
	CountedQty  int             `json:"counted_qty"`
	UnitValue   decimal.Decimal `json:"unit_value"`
}

// VarianceQty is counted minus expected.
func (b BatchCount) VarianceQty() int {
	return b.CountedQty - b.ExpectedQty
}

// VarianceValue prices the quantity variance at the row's unit value.
func (b BatchCount) VarianceValue() decimal.Decimal {
	return decimal.NewFromInt(int64(b.VarianceQty())).Mul(b.UnitValue)
}

// Summary is the reconciliation of every batch of one product.
type Summary struct {
	TotalCounted         int             `json:"total_counted"`
	TotalExpected        int             `json:"total_expected"`
	Difference           int             `json:"difference"`
	TotalValueDifference decimal.Decimal `json:"total_value_difference"`
}

// Reconcile sums the batches of one product and prices the difference at
// unitValue. The result depends only on the multiset of rows.
func Reconcile(batches []BatchCount, unitValue decimal.Decimal) Summary {
	var s Summary
	for _, b := range batches {
		s.TotalCounted += b.CountedQty
		s.TotalExpected += b.ExpectedQty
	}
	s.Difference = s.TotalCounted - s.TotalExpected
	s.TotalValueDifference = decimal.NewFromInt(int64(s.Difference)).Mul(unitValue)
	return s
}

// SetCountedQty replaces the counted quantity of one row and recomputes the
// whole product. batches is not modified.
func SetCountedQty(batches []BatchCount, index, qty int, unitValue decimal.Decimal) ([]BatchCount, Summary, error) {
	if index < 0 || index >= len(batches) {
		return batches, Reconcile(batches, unitValue), ErrBatchOutOfRange
	}
	if qty < 0 {
		return batches, Reconcile(batches, unitValue), ErrNegativeCount
	}
	out := make([]BatchCount, len(batches))
	copy(out, batches)
	out[index].CountedQty = qty
	return out, Reconcile(out, unitValue), nil
}
