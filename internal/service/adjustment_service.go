package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"backoffice/internal/apperr"
	"backoffice/internal/logger"
	"backoffice/internal/metrics"
	"backoffice/internal/reconcile"
	ws "backoffice/internal/websocket"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DTOs
type AdjustmentItemRequest struct {
	ProductID  string `json:"product_id" binding:"required"`
	NewStock   *int   `json:"new_stock" binding:"required"`
	ReasonCode string `json:"reason_code"`
	ReasonText string `json:"reason_text"`
}

type AdjustmentRequest struct {
	Number      string                  `json:"number"`
	SubmittedBy string                  `json:"submitted_by"`
	Date        time.Time               `json:"date"`
	Note        string                  `json:"note"`
	Items       []AdjustmentItemRequest `json:"items" binding:"required,min=1,dive"`
}

// LineError is a rejected line of a preview.
type LineError struct {
	Index     int    `json:"index"`
	ProductID string `json:"product_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

type AdjustmentPreview struct {
	Batch    reconcile.AdjustmentBatch `json:"batch"`
	Increase int                       `json:"total_increase"`
	Decrease int                       `json:"total_decrease"`
	Errors   []LineError               `json:"errors"`
}

type AdjustmentResult struct {
	ID string `json:"id"`
	AdjustmentPreview
}

type AdjustmentService interface {
	Preview(ctx context.Context, req AdjustmentRequest) (AdjustmentPreview, error)
	Save(ctx context.Context, req AdjustmentRequest, submittedBy string) (AdjustmentResult, error)
}

type adjustmentService struct {
	catalog   ProductCatalog
	stock     StockRepository
	gateway   SubmissionGateway
	publisher Publisher
	metrics   *metrics.Metrics
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewAdjustmentService(
	catalog ProductCatalog,
	stock StockRepository,
	gateway SubmissionGateway,
	publisher Publisher,
	m *metrics.Metrics,
	log logrus.FieldLogger,
) AdjustmentService {
	return &adjustmentService{
		catalog:   catalog,
		stock:     stock,
		gateway:   gateway,
		publisher: publisher,
		metrics:   m,
		log:       log.WithField("module", "adjustment"),
		now:       time.Now,
	}
}

// build turns the request into a batch against current stock. Validation
// failures are collected per line; anything else aborts.
func (s *adjustmentService) build(ctx context.Context, req AdjustmentRequest) (AdjustmentPreview, error) {
	if err := validateRequest(req); err != nil {
		return AdjustmentPreview{}, err
	}

	batch := reconcile.AdjustmentBatch{
		Number:      strings.TrimSpace(req.Number),
		SubmittedBy: strings.TrimSpace(req.SubmittedBy),
		Date:        req.Date,
		Note:        req.Note,
	}
	if batch.Date.IsZero() {
		batch.Date = s.now()
	}

	var lineErrs []LineError
	for i, item := range req.Items {
		in := reconcile.AdjustmentInput{
			ProductID:  item.ProductID,
			NewStock:   *item.NewStock,
			ReasonCode: reconcile.ReasonCode(item.ReasonCode),
			ReasonText: item.ReasonText,
		}

		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return AdjustmentPreview{}, notFound("product", item.ProductID)
		}
		product, err := s.catalog.FindByID(ctx, pid)
		if err != nil {
			return AdjustmentPreview{}, lookupErr(err, "product", item.ProductID)
		}
		in.ProductName = product.Name
		if in.OldStock, err = s.stock.CurrentStock(ctx, pid); err != nil {
			return AdjustmentPreview{}, lookupErr(err, "stock of product", item.ProductID)
		}

		next, err := batch.Add(in)
		if err != nil {
			v, ok := apperr.AsValidation(err)
			if !ok {
				return AdjustmentPreview{}, err
			}
			s.metrics.Validation.WithLabelValues(v.Code).Inc()
			lineErrs = append(lineErrs, LineError{Index: i, ProductID: item.ProductID, Code: v.Code, Message: v.Message})
			continue
		}
		batch = next
	}

	inc, dec := batch.Totals()
	return AdjustmentPreview{Batch: batch, Increase: inc, Decrease: dec, Errors: lineErrs}, nil
}

func (s *adjustmentService) Preview(ctx context.Context, req AdjustmentRequest) (AdjustmentPreview, error) {
	return s.build(ctx, req)
}

// Save posts the batch only when every line is valid. The first line error
// is returned otherwise.
func (s *adjustmentService) Save(ctx context.Context, req AdjustmentRequest, submittedBy string) (AdjustmentResult, error) {
	if strings.TrimSpace(req.SubmittedBy) == "" {
		req.SubmittedBy = submittedBy
	}
	preview, err := s.build(ctx, req)
	if err != nil {
		return AdjustmentResult{}, err
	}
	if len(preview.Errors) > 0 {
		first := preview.Errors[0]
		return AdjustmentResult{}, apperr.Validation(first.Code, fmt.Sprintf("line %d: %s", first.Index+1, first.Message))
	}
	if err := preview.Batch.ValidateForSave(); err != nil {
		return AdjustmentResult{}, err
	}

	id, err := s.gateway.SubmitAdjustments(ctx, preview.Batch)
	s.metrics.Submission("adjustment", err)
	if err != nil {
		logger.LogError(s.log, "adjustment", "Save", "submit adjustments", map[string]any{
			"number":  preview.Batch.Number,
			"records": len(preview.Batch.Records),
		}, err)
		return AdjustmentResult{}, submissionErr(err)
	}

	for _, r := range preview.Batch.Records {
		s.metrics.Adjustments.WithLabelValues(string(r.Type)).Inc()
	}
	s.log.WithFields(logrus.Fields{
		"adjustment_id": id,
		"number":        preview.Batch.Number,
		"increase":      preview.Increase,
		"decrease":      preview.Decrease,
	}).Info("stock adjusted")
	s.publisher.Publish(ws.EventAdjustmentSaved, map[string]any{
		"adjustment_id": id,
		"number":        preview.Batch.Number,
		"products":      len(preview.Batch.Records),
	})
	return AdjustmentResult{ID: id, AdjustmentPreview: preview}, nil
}
