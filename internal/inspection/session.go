package inspection

import (
	"encoding/json"
	"strings"
	"time"
)

// Header identifies a received shipment.
type Header struct {
	ID            string    `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	PONumber      string    `json:"po_number"`
	SupplierID    string    `json:"supplier_id"`
	Date          time.Time `json:"date"`
}

func (h Header) validate() error {
	if strings.TrimSpace(h.ID) == "" ||
		strings.TrimSpace(h.InvoiceNumber) == "" ||
		strings.TrimSpace(h.PONumber) == "" ||
		strings.TrimSpace(h.SupplierID) == "" ||
		h.Date.IsZero() {
		return ErrMissingHeader
	}
	return nil
}

// Session is a receipt under inspection: header plus lines in inspection
// order. It is a plain value; every transition returns a new Session and
// leaves its input untouched. Its status is always derived, never stored.
type Session struct {
	Header
	Items     []LineItem `json:"items"`
	Finalized bool       `json:"finalized"`
}

// NewSession starts an inspection. Every line starts pending regardless of
// the status it was given.
func NewSession(h Header, items []LineItem) (Session, error) {
	if err := h.validate(); err != nil {
		return Session{}, err
	}
	if len(items) == 0 {
		return Session{}, ErrNoItems
	}
	out := make([]LineItem, len(items))
	for i, it := range items {
		if it.OrderedQty < 0 || it.ReceivedQty < 0 {
			return Session{}, ErrNegativeQuantity
		}
		if it.InvoicePrice.IsNegative() || it.SystemPrice.IsNegative() || it.SupplierOfferPrice.IsNegative() {
			return Session{}, ErrNegativePrice
		}
		it.Status = ItemPending
		out[i] = it
	}
	return Session{Header: h, Items: out}, nil
}

// Status derives the receipt status from its lines. Once saved, it is the
// final disposition.
func (s Session) Status() SessionStatus {
	if s.Finalized {
		if st, err := Finalize(s.Items); err == nil {
			return st
		}
	}
	return Aggregate(s.Items)
}

// MarshalJSON includes the derived status.
func (s Session) MarshalJSON() ([]byte, error) {
	type plain Session
	return json.Marshal(struct {
		plain
		Status SessionStatus `json:"status"`
	}{plain(s), s.Status()})
}

// Item looks a line up by id.
func (s Session) Item(itemID string) (LineItem, bool) {
	if i := s.indexOf(itemID); i >= 0 {
		return s.Items[i], true
	}
	return LineItem{}, false
}

func (s Session) indexOf(itemID string) int {
	for i := range s.Items {
		if s.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (s Session) withItem(i int, it LineItem) Session {
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	items[i] = it
	s.Items = items
	return s
}

func (s Session) update(itemID string, fn func(LineItem) (LineItem, error)) (Session, int, error) {
	if s.Finalized {
		return s, -1, ErrSessionClosed
	}
	i := s.indexOf(itemID)
	if i < 0 {
		return s, -1, ErrItemNotFound
	}
	it, err := fn(s.Items[i])
	if err != nil {
		return s, i, err
	}
	return s.withItem(i, it), i, nil
}

// SetChecklistFlag applies ApplyChecklistFlag to one line.
func SetChecklistFlag(s Session, itemID string, flag ChecklistFlag, value bool) (Session, error) {
	out, _, err := s.update(itemID, func(it LineItem) (LineItem, error) {
		return ApplyChecklistFlag(it, flag, value)
	})
	return out, err
}

// SetReceivedQty applies ApplyReceivedQty to one line.
func SetReceivedQty(s Session, itemID string, qty int) (Session, error) {
	out, _, err := s.update(itemID, func(it LineItem) (LineItem, error) {
		return ApplyReceivedQty(it, qty)
	})
	return out, err
}

// DecideItem records an outcome for one line and returns the index of the next
// line still pending (searching forward, wrapping around), or -1 when none is.
func DecideItem(s Session, itemID string, outcome Outcome) (Session, int, error) {
	out, i, err := s.update(itemID, func(it LineItem) (LineItem, error) {
		return Decide(it, outcome)
	})
	if err != nil {
		return out, -1, err
	}
	return out, out.NextPending(i), nil
}

// NextPending returns the first pending line after index from, wrapping
// around, or -1.
func (s Session) NextPending(from int) int {
	n := len(s.Items)
	for step := 1; step <= n; step++ {
		i := (from + step) % n
		if i < 0 {
			i += n
		}
		if s.Items[i].Status == ItemPending {
			return i
		}
	}
	return -1
}

// SaveChecking closes the inspection, fixing the final disposition. It
// requires every line to be decided.
func SaveChecking(s Session) (Session, error) {
	if s.Finalized {
		return s, ErrSessionClosed
	}
	if _, err := Finalize(s.Items); err != nil {
		return s, err
	}
	s.Finalized = true
	return s, nil
}

// Progress counts lines per status.
type Progress struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

func (s Session) Progress() Progress {
	p := Progress{Total: len(s.Items)}
	for _, it := range s.Items {
		switch it.Status {
		case ItemPending:
			p.Pending++
		case ItemApproved:
			p.Approved++
		case ItemRejected:
			p.Rejected++
		}
	}
	return p
}
