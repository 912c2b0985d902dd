package reconcile

import "backoffice/internal/apperr"

var (
	ErrNoChange          = apperr.Validation("no_change", "no change: new stock equals current stock")
	ErrMissingReason     = apperr.Validation("missing_reason", "a reason must be selected for the adjustment")
	ErrUnknownReason     = apperr.Validation("unknown_reason", "unknown adjustment reason")
	ErrMissingReasonText = apperr.Validation("missing_reason_text", "a description is required when the reason is 'other'")
	ErrNegativeStock     = apperr.Validation("negative_stock", "stock cannot be negative")
	ErrMissingProduct    = apperr.Validation("missing_product", "a product must be selected")
	ErrDuplicateProduct  = apperr.Validation("duplicate_product", "product is already part of this adjustment")
	ErrMissingNumber     = apperr.Validation("missing_number", "adjustment number is required")
	ErrMissingSubmitter  = apperr.Validation("missing_submitter", "submitter name is required")
	ErrEmptyBatch        = apperr.Validation("empty_batch", "add at least one product before saving")
	ErrNegativeCount     = apperr.Validation("negative_count", "counted quantity cannot be negative")
	ErrBatchOutOfRange   = apperr.Validation("batch_out_of_range", "batch row does not exist")
	ErrEmptyCount        = apperr.Validation("empty_count", "stock count has no products")
	ErrNegativeValue     = apperr.Validation("negative_price", "unit value cannot be negative")
	ErrStockMismatch     = apperr.Validation("stock_mismatch", "expected quantities no longer match the system stock, reload the count")
)
