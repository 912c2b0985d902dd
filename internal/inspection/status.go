package inspection

import "fmt"

// ItemStatus is the disposition of a single received line.
type ItemStatus uint8

const (
	ItemPending ItemStatus = iota
	ItemApproved
	ItemRejected
)

func (s ItemStatus) String() string {
	switch s {
	case ItemPending:
		return "pending"
	case ItemApproved:
		return "approved"
	case ItemRejected:
		return "rejected"
	}
	return fmt.Sprintf("ItemStatus(%d)", uint8(s))
}

func (s ItemStatus) MarshalText() ([]byte, error) {
	switch s {
	case ItemPending, ItemApproved, ItemRejected:
		return []byte(s.String()), nil
	}
	return nil, fmt.Errorf("invalid item status %d", uint8(s))
}

func (s *ItemStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "pending", "":
		*s = ItemPending
	case "approved":
		*s = ItemApproved
	case "rejected":
		*s = ItemRejected
	default:
		return fmt.Errorf("invalid item status %q", string(b))
	}
	return nil
}

// SessionStatus is the receipt-level status derived from its items.
type SessionStatus uint8

const (
	SessionPending SessionStatus = iota
	SessionChecking
	SessionCompleted
	SessionApproved
	SessionRejected
)

func (s SessionStatus) String() string {
	switch s {
	case SessionPending:
		return "pending"
	case SessionChecking:
		return "checking"
	case SessionCompleted:
		return "completed"
	case SessionApproved:
		return "approved"
	case SessionRejected:
		return "rejected"
	}
	return fmt.Sprintf("SessionStatus(%d)", uint8(s))
}

func (s SessionStatus) MarshalText() ([]byte, error) {
	if s > SessionRejected {
		return nil, fmt.Errorf("invalid session status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *SessionStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "pending", "":
		*s = SessionPending
	case "checking":
		*s = SessionChecking
	case "completed":
		*s = SessionCompleted
	case "approved":
		*s = SessionApproved
	case "rejected":
		*s = SessionRejected
	default:
		return fmt.Errorf("invalid session status %q", string(b))
	}
	return nil
}

// Outcome is the decision an inspector records for a line.
type Outcome uint8

const (
	OutcomeApproved Outcome = iota + 1
	OutcomeRejected
)

// ParseOutcome accepts "approved"/"approve" and "rejected"/"reject".
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "approved", "approve":
		return OutcomeApproved, nil
	case "rejected", "reject":
		return OutcomeRejected, nil
	}
	return 0, ErrUnknownOutcome
}

func (o Outcome) String() string {
	switch o {
	case OutcomeApproved:
		return "approved"
	case OutcomeRejected:
		return "rejected"
	}
	return fmt.Sprintf("Outcome(%d)", uint8(o))
}

func (o Outcome) status() (ItemStatus, bool) {
	switch o {
	case OutcomeApproved:
		return ItemApproved, true
	case OutcomeRejected:
		return ItemRejected, true
	}
	return ItemPending, false
}

// ChecklistFlag names one of the four inspection checks.
type ChecklistFlag uint8

const (
	FlagMatchesOrder ChecklistFlag = iota + 1
	FlagPackagingIntact
	FlagExpiryAcceptable
	FlagConditionAcceptable
)

var flagNames = map[string]ChecklistFlag{
	"matches_order":        FlagMatchesOrder,
	"packaging_intact":     FlagPackagingIntact,
	"expiry_acceptable":    FlagExpiryAcceptable,
	"condition_acceptable": FlagConditionAcceptable,
}

// ParseChecklistFlag maps the wire name of a flag to its value.
func ParseChecklistFlag(name string) (ChecklistFlag, error) {
	if f, ok := flagNames[name]; ok {
		return f, nil
	}
	return 0, ErrUnknownFlag
}

func (f ChecklistFlag) String() string {
	for name, v := range flagNames {
		if v == f {
			return name
		}
	}
	return fmt.Sprintf("ChecklistFlag(%d)", uint8(f))
}
