package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"backoffice/internal/apperr"
	"backoffice/internal/logger"
	"backoffice/internal/metrics"
	"backoffice/internal/model"
	"backoffice/internal/reconcile"
	"backoffice/internal/report"
	ws "backoffice/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DTOs
type BatchCountRequest struct {
	BatchID     string `json:"batch_id"`
	ExpectedQty int    `json:"expected_qty"`
	CountedQty  *int   `json:"counted_qty" binding:"required"`
}

type ProductCountRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	// UnitValue defaults to the product's system price.
	UnitValue *decimal.Decimal    `json:"unit_value"`
	Batches   []BatchCountRequest `json:"batches" binding:"required,min=1,dive"`
}

type OpnameRequest struct {
	Number    string                `json:"number"`
	CountedBy string                `json:"counted_by"`
	Date      time.Time             `json:"date"`
	Products  []ProductCountRequest `json:"products" binding:"required,min=1,dive"`
}

type OpnameView struct {
	Opname      reconcile.Opname           `json:"opname"`
	Products    []reconcile.ProductSummary `json:"products"`
	Totals      reconcile.Summary          `json:"totals"`
	Adjustments reconcile.AdjustmentBatch  `json:"adjustments"`
}

type OpnameResult struct {
	ID string `json:"id"`
	OpnameView
}

// Export is a rendered file ready to be sent.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

type OpnameService interface {
	Reconcile(ctx context.Context, req OpnameRequest) (OpnameView, error)
	Save(ctx context.Context, req OpnameRequest, countedBy string) (OpnameResult, error)
	Export(ctx context.Context, id string) (Export, error)
}

type opnameService struct {
	catalog   ProductCatalog
	stock     StockRepository
	archive   OpnameArchive
	gateway   SubmissionGateway
	publisher Publisher
	metrics   *metrics.Metrics
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewOpnameService(
	catalog ProductCatalog,
	stock StockRepository,
	archive OpnameArchive,
	gateway SubmissionGateway,
	publisher Publisher,
	m *metrics.Metrics,
	log logrus.FieldLogger,
) OpnameService {
	return &opnameService{
		catalog:   catalog,
		stock:     stock,
		archive:   archive,
		gateway:   gateway,
		publisher: publisher,
		metrics:   m,
		log:       log.WithField("module", "opname"),
		now:       time.Now,
	}
}

func (s *opnameService) rejected(err error) error {
	if v, ok := apperr.AsValidation(err); ok {
		s.metrics.Validation.WithLabelValues(v.Code).Inc()
	}
	return err
}

func (s *opnameService) build(ctx context.Context, req OpnameRequest) (reconcile.Opname, error) {
	if err := validateRequest(req); err != nil {
		return reconcile.Opname{}, s.rejected(err)
	}
	o := reconcile.Opname{
		Number:    strings.TrimSpace(req.Number),
		CountedBy: strings.TrimSpace(req.CountedBy),
		Date:      req.Date,
		Products:  make([]reconcile.ProductCount, 0, len(req.Products)),
	}
	if o.Date.IsZero() {
		o.Date = s.now()
	}

	for _, p := range req.Products {
		pid, err := uuid.Parse(p.ProductID)
		if err != nil {
			return reconcile.Opname{}, notFound("product", p.ProductID)
		}
		product, err := s.catalog.FindByID(ctx, pid)
		if err != nil {
			return reconcile.Opname{}, lookupErr(err, "product", p.ProductID)
		}
		unit := product.Price
		if p.UnitValue != nil {
			unit = *p.UnitValue
		}
		if unit.IsNegative() {
			return reconcile.Opname{}, s.rejected(reconcile.ErrNegativeValue)
		}

		pc := reconcile.ProductCount{
			ProductID:   p.ProductID,
			ProductName: product.Name,
			UnitValue:   unit,
			Batches:     make([]reconcile.BatchCount, 0, len(p.Batches)),
		}
		for _, b := range p.Batches {
			if *b.CountedQty < 0 {
				return reconcile.Opname{}, s.rejected(reconcile.ErrNegativeCount)
			}
			if b.ExpectedQty < 0 {
				return reconcile.Opname{}, s.rejected(reconcile.ErrNegativeStock)
			}
			pc.Batches = append(pc.Batches, reconcile.BatchCount{
				BatchID:     b.BatchID,
				ProductID:   p.ProductID,
				ExpectedQty: b.ExpectedQty,
				CountedQty:  *b.CountedQty,
				UnitValue:   unit,
			})
		}
		o.Products = append(o.Products, pc)
	}
	return o, nil
}

func view(o reconcile.Opname) (OpnameView, error) {
	adj, err := o.Adjustments()
	if err != nil {
		return OpnameView{}, err
	}
	return OpnameView{
		Opname:      o,
		Products:    o.Summaries(),
		Totals:      o.Totals(),
		Adjustments: adj,
	}, nil
}

// Reconcile calculates a count without saving it. The header may still be
// incomplete.
func (s *opnameService) Reconcile(ctx context.Context, req OpnameRequest) (OpnameView, error) {
	o, err := s.build(ctx, req)
	if err != nil {
		return OpnameView{}, err
	}
	v, err := view(o)
	if err != nil {
		return OpnameView{}, s.rejected(err)
	}
	return v, nil
}

// Save stores the count and posts its differences as an opname adjustment.
func (s *opnameService) Save(ctx context.Context, req OpnameRequest, countedBy string) (OpnameResult, error) {
	if strings.TrimSpace(req.CountedBy) == "" {
		req.CountedBy = countedBy
	}
	o, err := s.build(ctx, req)
	if err != nil {
		return OpnameResult{}, err
	}
	if err := o.Validate(); err != nil {
		return OpnameResult{}, s.rejected(err)
	}
	if err := s.checkExpected(ctx, o); err != nil {
		return OpnameResult{}, err
	}
	v, err := view(o)
	if err != nil {
		return OpnameResult{}, s.rejected(err)
	}

	id, err := s.gateway.SubmitOpname(ctx, o)
	s.metrics.Submission("opname", err)
	if err != nil {
		logger.LogError(s.log, "opname", "Save", "submit opname", map[string]any{
			"number":   o.Number,
			"products": len(o.Products),
		}, err)
		return OpnameResult{}, submissionErr(err)
	}

	for _, r := range v.Adjustments.Records {
		s.metrics.Adjustments.WithLabelValues(string(r.Type)).Inc()
	}
	s.log.WithFields(logrus.Fields{
		"opname_id":  id,
		"number":     o.Number,
		"difference": v.Totals.Difference,
		"value_diff": v.Totals.TotalValueDifference.String(),
	}).Info("stock opname saved")
	s.publisher.Publish(ws.EventOpnameSaved, map[string]any{
		"opname_id":  id,
		"number":     o.Number,
		"difference": v.Totals.Difference,
	})
	return OpnameResult{ID: id, OpnameView: v}, nil
}

// checkExpected refuses a count whose expected quantities are not the stock
// the system holds now, since its differences would be posted against it.
func (s *opnameService) checkExpected(ctx context.Context, o reconcile.Opname) error {
	for _, p := range o.Products {
		pid, err := uuid.Parse(p.ProductID)
		if err != nil {
			return notFound("product", p.ProductID)
		}
		current, err := s.stock.CurrentStock(ctx, pid)
		if err != nil {
			return lookupErr(err, "stock of product", p.ProductID)
		}
		if expected := p.Summary().TotalExpected; expected != current {
			s.log.WithFields(logrus.Fields{
				"product_id": p.ProductID,
				"expected":   expected,
				"stock":      current,
			}).Warn("stale stock count")
			return s.rejected(reconcile.ErrStockMismatch)
		}
	}
	return nil
}

func (s *opnameService) Export(ctx context.Context, id string) (Export, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return Export{}, notFound("opname", id)
	}
	row, err := s.archive.FindByIDWithItems(ctx, oid)
	if err != nil {
		return Export{}, lookupErr(err, "opname", id)
	}
	o := opnameFromModel(row)
	data, err := report.OpnameWorkbook(o)
	if err != nil {
		return Export{}, fmt.Errorf("failed to render opname %s: %w", id, err)
	}
	return Export{
		Filename:    report.OpnameFilename(o),
		ContentType: report.ContentTypeXLSX,
		Data:        data,
	}, nil
}

// opnameFromModel regroups stored batch rows by product, keeping count order.
func opnameFromModel(row *model.StockOpname) reconcile.Opname {
	o := reconcile.Opname{Number: row.Number, CountedBy: row.CountedBy, Date: row.CountDate}
	index := make(map[string]int)
	for _, it := range row.Items {
		pid := it.ProductID.String()
		i, ok := index[pid]
		if !ok {
			i = len(o.Products)
			index[pid] = i
			o.Products = append(o.Products, reconcile.ProductCount{
				ProductID:   pid,
				ProductName: it.ProductName,
				UnitValue:   it.UnitValue,
			})
		}
		o.Products[i].Batches = append(o.Products[i].Batches, reconcile.BatchCount{
			BatchID:     it.BatchID,
			ProductID:   pid,
			ExpectedQty: it.ExpectedQty,
			CountedQty:  it.CountedQty,
			UnitValue:   it.UnitValue,
		})
	}
	return o
}
