package inspection

// Aggregate derives the receipt status while inspection is in progress:
// pending until a line is decided, checking while any line is still
// pending, completed once every line has an outcome.
func Aggregate(items []LineItem) SessionStatus {
	var pending, decided int
	for _, it := range items {
		if it.Status == ItemPending {
			pending++
		} else {
			decided++
		}
	}
	switch {
	case decided == 0:
		return SessionPending
	case pending > 0:
		return SessionChecking
	default:
		return SessionCompleted
	}
}

// Finalize computes the disposition written by an explicit save: rejected
// if any line was rejected, approved otherwise. Pending lines block it.
func Finalize(items []LineItem) (SessionStatus, error) {
	if len(items) == 0 {
		return SessionPending, ErrNoItems
	}
	rejected := false
	for _, it := range items {
		switch it.Status {
		case ItemPending:
			return Aggregate(items), ErrItemsPending
		case ItemRejected:
			rejected = true
		case ItemApproved:
		}
	}
	if rejected {
		return SessionRejected, nil
	}
	return SessionApproved, nil
}
