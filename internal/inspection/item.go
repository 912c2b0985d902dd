package inspection

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultQuantityBoundFactor caps the received quantity, as a multiple of the
// ordered quantity, above which a line is flagged for a second look.
const DefaultQuantityBoundFactor = 2

// Checklist holds the four inspection checks of a line. All default to false.
type Checklist struct {
	MatchesOrder        bool `json:"matches_order"`
	PackagingIntact     bool `json:"packaging_intact"`
	ExpiryAcceptable    bool `json:"expiry_acceptable"`
	ConditionAcceptable bool `json:"condition_acceptable"`
}

// Complete reports whether every check has been confirmed.
func (c Checklist) Complete() bool {
	return c.MatchesOrder && c.PackagingIntact && c.ExpiryAcceptable && c.ConditionAcceptable
}

func (c Checklist) get(flag ChecklistFlag) bool {
	switch flag {
	case FlagMatchesOrder:
		return c.MatchesOrder
	case FlagPackagingIntact:
		return c.PackagingIntact
	case FlagExpiryAcceptable:
		return c.ExpiryAcceptable
	case FlagConditionAcceptable:
		return c.ConditionAcceptable
	}
	return false
}

// LineItem is one received product line under inspection.
type LineItem struct {
	ID                 string          `json:"id"`
	ProductID          string          `json:"product_id"`
	ProductName        string          `json:"product_name"`
	BatchNumber        string          `json:"batch_number"`
	ExpiryDate         time.Time       `json:"expiry_date"`
	OrderedQty         int             `json:"ordered_qty"`
	ReceivedQty        int             `json:"received_qty"`
	InvoicePrice       decimal.Decimal `json:"invoice_price"`
	SystemPrice        decimal.Decimal `json:"system_price"`
	SupplierOfferPrice decimal.Decimal `json:"supplier_offer_price"`
	Checklist          Checklist       `json:"checklist"`
	Notes              string          `json:"notes"`
	PhotoRef           string          `json:"photo_ref,omitempty"`
	Status             ItemStatus      `json:"status"`
}

// FullyChecked is the single gate for deciding a line: every checklist flag
// is set and something was actually received.
func (it LineItem) FullyChecked() bool {
	return it.Checklist.Complete() && it.ReceivedQty > 0
}

// HasQuantityDiscrepancy reports a received quantity different from the
// ordered one. It never blocks a decision.
func (it LineItem) HasQuantityDiscrepancy() bool {
	return it.ReceivedQty != it.OrderedQty
}

// Decided reports whether the line carries an approved or rejected status.
func (it LineItem) Decided() bool {
	return it.Status != ItemPending
}

// ApplyChecklistFlag returns a copy of item with one check set. Changing a
// check on a decided line sends it back to pending.
func ApplyChecklistFlag(item LineItem, flag ChecklistFlag, value bool) (LineItem, error) {
	if flag < FlagMatchesOrder || flag > FlagConditionAcceptable {
		return item, ErrUnknownFlag
	}
	if item.Checklist.get(flag) == value {
		return item, nil
	}

	switch flag {
	case FlagMatchesOrder:
		item.Checklist.MatchesOrder = value
	case FlagPackagingIntact:
		item.Checklist.PackagingIntact = value
	case FlagExpiryAcceptable:
		item.Checklist.ExpiryAcceptable = value
	case FlagConditionAcceptable:
		item.Checklist.ConditionAcceptable = value
	}
	item.Status = ItemPending
	return item, nil
}

// ApplyReceivedQty returns a copy of item with the received quantity replaced.
// Quantities above the sanity bound are accepted and only flagged through
// Advisories.
func ApplyReceivedQty(item LineItem, qty int) (LineItem, error) {
	if qty < 0 {
		return item, ErrNegativeQuantity
	}
	if item.ReceivedQty == qty {
		return item, nil
	}
	item.ReceivedQty = qty
	item.Status = ItemPending
	return item, nil
}

// Decide records the inspector's outcome. It succeeds only when the line is
// fully checked; otherwise item is returned unchanged.
func Decide(item LineItem, outcome Outcome) (LineItem, error) {
	status, ok := outcome.status()
	if !ok {
		return item, ErrUnknownOutcome
	}
	if !item.FullyChecked() {
		return item, ErrNotFullyChecked
	}
	item.Status = status
	return item, nil
}

// Advisories are non-blocking signals shown next to a line.
type Advisories struct {
	QuantityDiscrepancy bool          `json:"quantity_discrepancy"`
	QuantityAboveBound  bool          `json:"quantity_above_bound"`
	Price               PriceAdvisory `json:"price"`
}

// Advisories evaluates the line with the default quantity bound.
func (it LineItem) Advisories() Advisories {
	return it.AdvisoriesWithBound(DefaultQuantityBoundFactor)
}

// AdvisoriesWithBound evaluates the line, flagging received quantities above
// factor × ordered quantity.
func (it LineItem) AdvisoriesWithBound(factor int) Advisories {
	if factor <= 0 {
		factor = DefaultQuantityBoundFactor
	}
	return Advisories{
		QuantityDiscrepancy: it.HasQuantityDiscrepancy(),
		QuantityAboveBound:  aboveBound(it.ReceivedQty, it.OrderedQty, factor),
		Price:               DetectPriceVariance(it.InvoicePrice, it.SystemPrice, it.SupplierOfferPrice),
	}
}

// aboveBound reports received > factor*ordered without multiplying, so huge
// ordered quantities cannot overflow.
func aboveBound(received, ordered, factor int) bool {
	if received <= 0 {
		return false
	}
	return (received-1)/factor >= ordered
}
