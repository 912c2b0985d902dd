package inspection

import "backoffice/internal/apperr"

var (
	ErrNotFullyChecked = apperr.Validation("not_fully_checked",
		"all checklist items must be confirmed and the received quantity must be greater than zero before deciding")
	ErrNegativeQuantity = apperr.Validation("negative_quantity", "received quantity cannot be negative")
	ErrUnknownFlag      = apperr.Validation("unknown_flag", "unknown checklist item")
	ErrUnknownOutcome   = apperr.Validation("unknown_outcome", "decision must be either approved or rejected")
	ErrItemNotFound     = apperr.Validation("item_not_found", "line item is not part of this receipt")
	ErrSessionClosed    = apperr.Validation("session_closed", "receipt has already been saved and cannot be changed")
	ErrItemsPending     = apperr.Validation("items_pending", "every line item must be approved or rejected before saving")
	ErrNoItems          = apperr.Validation("no_items", "receipt has no line items")
	ErrNegativePrice    = apperr.Validation("negative_price", "prices cannot be negative")
	ErrMissingHeader    = apperr.Validation("missing_header", "invoice number, purchase order number, supplier and date are required")
)
