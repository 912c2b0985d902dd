package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"backoffice/internal/apperr"
	"backoffice/internal/inspection"
	"backoffice/internal/logger"
	"backoffice/internal/metrics"
	"backoffice/internal/model"
	ws "backoffice/internal/websocket"
	"backoffice/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DTOs
type ReceptionItemRequest struct {
	ProductID          string          `json:"product_id" binding:"required,uuid"`
	BatchNumber        string          `json:"batch_number"`
	ExpiryDate         time.Time       `json:"expiry_date"`
	OrderedQty         int             `json:"ordered_qty" binding:"gte=0"`
	InvoicePrice       decimal.Decimal `json:"invoice_price"`
	SupplierOfferPrice decimal.Decimal `json:"supplier_offer_price"`
	Notes              string          `json:"notes"`
	PhotoRef           string          `json:"photo_ref"`
}

type OpenReceptionRequest struct {
	InvoiceNumber string                 `json:"invoice_number" binding:"required"`
	PONumber      string                 `json:"po_number" binding:"required"`
	SupplierID    string                 `json:"supplier_id" binding:"required"`
	Date          time.Time              `json:"date" binding:"required"`
	Items         []ReceptionItemRequest `json:"items" binding:"required,min=1,dive"`
}

type ChecklistRequest struct {
	Flag  string `json:"flag" binding:"required"`
	Value *bool  `json:"value" binding:"required"`
}

type QuantityRequest struct {
	ReceivedQty *int `json:"received_qty" binding:"required"`
}

type DecisionRequest struct {
	Outcome string `json:"outcome" binding:"required"`
}

// ReceptionView is a receipt as the inspection screen shows it.
type ReceptionView struct {
	Reception  inspection.Session               `json:"reception"`
	Progress   inspection.Progress              `json:"progress"`
	Advisories map[string]inspection.Advisories `json:"advisories"` // by line id
	// NextPending is the index of the line to inspect next, or -1.
	NextPending int `json:"next_pending"`
}

type ReceptionSummary struct {
	ID            string    `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	PONumber      string    `json:"po_number"`
	SupplierID    string    `json:"supplier_id"`
	ReceivedDate  time.Time `json:"received_date"`
	Status        string    `json:"status"`
	InspectedBy   string    `json:"inspected_by"`
}

type ReceptionService interface {
	Open(ctx context.Context, req OpenReceptionRequest) (ReceptionView, error)
	Get(ctx context.Context, id string) (ReceptionView, error)
	List(ctx context.Context, status string, page, limit int) ([]ReceptionSummary, int64, error)
	SetChecklist(ctx context.Context, id, itemID string, req ChecklistRequest) (ReceptionView, error)
	SetQuantity(ctx context.Context, id, itemID string, req QuantityRequest) (ReceptionView, error)
	Decide(ctx context.Context, id, itemID string, req DecisionRequest) (ReceptionView, error)
	Save(ctx context.Context, id, inspectedBy string) (ReceptionView, error)
}

type receptionService struct {
	catalog     ProductCatalog
	drafts      DraftStore
	archive     ReceptionArchive
	gateway     SubmissionGateway
	publisher   Publisher
	metrics     *metrics.Metrics
	log         logrus.FieldLogger
	boundFactor int

	// One inspector per receipt; this only keeps concurrent requests from
	// the same screen from overwriting each other.
	mu sync.Mutex
}

func NewReceptionService(
	catalog ProductCatalog,
	drafts DraftStore,
	archive ReceptionArchive,
	gateway SubmissionGateway,
	publisher Publisher,
	m *metrics.Metrics,
	log logrus.FieldLogger,
	boundFactor int,
) ReceptionService {
	return &receptionService{
		catalog:     catalog,
		drafts:      drafts,
		archive:     archive,
		gateway:     gateway,
		publisher:   publisher,
		metrics:     m,
		log:         log.WithField("module", "reception"),
		boundFactor: boundFactor,
	}
}

func (s *receptionService) view(session inspection.Session, next int) ReceptionView {
	adv := make(map[string]inspection.Advisories, len(session.Items))
	for _, it := range session.Items {
		adv[it.ID] = it.AdvisoriesWithBound(s.boundFactor)
	}
	return ReceptionView{
		Reception:   session,
		Progress:    session.Progress(),
		Advisories:  adv,
		NextPending: next,
	}
}

// rejected counts a validation failure and passes err through.
func (s *receptionService) rejected(err error) error {
	if v, ok := apperr.AsValidation(err); ok {
		s.metrics.Validation.WithLabelValues(v.Code).Inc()
	}
	return err
}

func (s *receptionService) Open(ctx context.Context, req OpenReceptionRequest) (ReceptionView, error) {
	if err := validateRequest(req); err != nil {
		return ReceptionView{}, s.rejected(err)
	}

	items := make([]inspection.LineItem, 0, len(req.Items))
	for _, r := range req.Items {
		pid, _ := uuid.Parse(r.ProductID)
		product, err := s.catalog.FindByID(ctx, pid)
		if err != nil {
			return ReceptionView{}, lookupErr(err, "product", r.ProductID)
		}
		items = append(items, inspection.LineItem{
			ID:                 uuid.NewString(),
			ProductID:          product.ID.String(),
			ProductName:        product.Name,
			BatchNumber:        r.BatchNumber,
			ExpiryDate:         r.ExpiryDate,
			OrderedQty:         r.OrderedQty,
			InvoicePrice:       r.InvoicePrice,
			SystemPrice:        product.Price,
			SupplierOfferPrice: r.SupplierOfferPrice,
			Notes:              r.Notes,
			PhotoRef:           r.PhotoRef,
		})
	}

	session, err := inspection.NewSession(inspection.Header{
		ID:            uuid.NewString(),
		InvoiceNumber: req.InvoiceNumber,
		PONumber:      req.PONumber,
		SupplierID:    req.SupplierID,
		Date:          req.Date,
	}, items)
	if err != nil {
		return ReceptionView{}, s.rejected(err)
	}
	if err := s.drafts.Put(ctx, session); err != nil {
		return ReceptionView{}, fmt.Errorf("failed to store draft: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"reception_id": session.ID,
		"invoice":      session.InvoiceNumber,
		"items":        len(session.Items),
	}).Info("reception opened")
	return s.view(session, session.NextPending(-1)), nil
}

// Get returns a draft, or the submitted receipt once it has been saved.
func (s *receptionService) Get(ctx context.Context, id string) (ReceptionView, error) {
	session, err := s.drafts.Get(ctx, id)
	if err == nil {
		return s.view(session, session.NextPending(-1)), nil
	}
	if !isRepoNotFound(err) {
		return ReceptionView{}, fmt.Errorf("failed to load draft: %w", err)
	}

	rid, parseErr := uuid.Parse(id)
	if parseErr != nil {
		return ReceptionView{}, notFound("reception", id)
	}
	rec, err := s.archive.FindByIDWithItems(ctx, rid)
	if err != nil {
		return ReceptionView{}, lookupErr(err, "reception", id)
	}
	session, err = sessionFromModel(rec)
	if err != nil {
		return ReceptionView{}, err
	}
	return s.view(session, -1), nil
}

func (s *receptionService) List(ctx context.Context, status string, page, limit int) ([]ReceptionSummary, int64, error) {
	p := pagination.Normalize(page, limit)
	rows, total, err := s.archive.List(ctx, status, p.Page, p.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list receptions: %w", err)
	}
	res := make([]ReceptionSummary, 0, len(rows))
	for _, r := range rows {
		res = append(res, ReceptionSummary{
			ID:            r.ID.String(),
			InvoiceNumber: r.InvoiceNumber,
			PONumber:      r.PONumber,
			SupplierID:    r.SupplierID,
			ReceivedDate:  r.ReceivedDate,
			Status:        r.Status,
			InspectedBy:   r.InspectedBy,
		})
	}
	return res, total, nil
}

// edit loads a draft, applies fn and stores the result. Nothing is stored
// when fn fails.
func (s *receptionService) edit(ctx context.Context, id string, fn func(inspection.Session) (inspection.Session, int, error)) (ReceptionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.loadDraft(ctx, id)
	if err != nil {
		return ReceptionView{}, err
	}
	updated, next, err := fn(session)
	if err != nil {
		return ReceptionView{}, s.rejected(err)
	}
	if err := s.drafts.Put(ctx, updated); err != nil {
		return ReceptionView{}, fmt.Errorf("failed to store draft: %w", err)
	}
	return s.view(updated, next), nil
}

func (s *receptionService) loadDraft(ctx context.Context, id string) (inspection.Session, error) {
	session, err := s.drafts.Get(ctx, id)
	if err != nil {
		if isRepoNotFound(err) {
			return inspection.Session{}, notFound("reception draft", id)
		}
		return inspection.Session{}, fmt.Errorf("failed to load draft: %w", err)
	}
	return session, nil
}

func (s *receptionService) SetChecklist(ctx context.Context, id, itemID string, req ChecklistRequest) (ReceptionView, error) {
	if err := validateRequest(req); err != nil {
		return ReceptionView{}, s.rejected(err)
	}
	flag, err := inspection.ParseChecklistFlag(req.Flag)
	if err != nil {
		return ReceptionView{}, s.rejected(err)
	}
	return s.edit(ctx, id, func(session inspection.Session) (inspection.Session, int, error) {
		out, err := inspection.SetChecklistFlag(session, itemID, flag, *req.Value)
		return out, out.NextPending(-1), err
	})
}

func (s *receptionService) SetQuantity(ctx context.Context, id, itemID string, req QuantityRequest) (ReceptionView, error) {
	if err := validateRequest(req); err != nil {
		return ReceptionView{}, s.rejected(err)
	}
	return s.edit(ctx, id, func(session inspection.Session) (inspection.Session, int, error) {
		out, err := inspection.SetReceivedQty(session, itemID, *req.ReceivedQty)
		return out, out.NextPending(-1), err
	})
}

func (s *receptionService) Decide(ctx context.Context, id, itemID string, req DecisionRequest) (ReceptionView, error) {
	if err := validateRequest(req); err != nil {
		return ReceptionView{}, s.rejected(err)
	}
	outcome, err := inspection.ParseOutcome(req.Outcome)
	if err != nil {
		return ReceptionView{}, s.rejected(err)
	}

	v, err := s.edit(ctx, id, func(session inspection.Session) (inspection.Session, int, error) {
		return inspection.DecideItem(session, itemID, outcome)
	})
	if err != nil {
		return v, err
	}

	s.metrics.Decisions.WithLabelValues(outcome.String()).Inc()
	s.log.WithFields(logrus.Fields{
		"reception_id": id,
		"item_id":      itemID,
		"outcome":      outcome.String(),
	}).Info("line decided")
	s.publisher.Publish(ws.EventReceptionDecided, map[string]any{
		"reception_id": id,
		"item_id":      itemID,
		"outcome":      outcome.String(),
		"status":       v.Reception.Status().String(),
	})
	return v, nil
}

// Save closes the inspection and submits it. On any failure the stored
// draft is left exactly as it was, so the user can retry.
func (s *receptionService) Save(ctx context.Context, id, inspectedBy string) (ReceptionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.loadDraft(ctx, id)
	if err != nil {
		return ReceptionView{}, err
	}
	final, err := inspection.SaveChecking(session)
	if err != nil {
		return ReceptionView{}, s.rejected(err)
	}

	err = s.gateway.SubmitReception(ctx, final, inspectedBy)
	s.metrics.Submission("reception", err)
	if err != nil {
		logger.LogError(s.log, "reception", "Save", "submit reception", map[string]any{
			"reception_id": id,
			"invoice":      final.InvoiceNumber,
		}, err)
		return ReceptionView{}, submissionErr(err)
	}

	// The receipt is stored; a leftover draft is only noise.
	if err := s.drafts.Delete(ctx, id); err != nil {
		s.log.WithError(err).WithField("reception_id", id).Warn("failed to delete draft")
	}

	status := final.Status().String()
	s.log.WithFields(logrus.Fields{"reception_id": id, "status": status}).Info("reception submitted")
	s.publisher.Publish(ws.EventReceptionSubmitted, map[string]any{
		"reception_id": id,
		"invoice":      final.InvoiceNumber,
		"status":       status,
	})
	return s.view(final, -1), nil
}

func sessionFromModel(rec *model.Reception) (inspection.Session, error) {
	items := make([]inspection.LineItem, 0, len(rec.Items))
	for _, r := range rec.Items {
		var st inspection.ItemStatus
		if err := st.UnmarshalText([]byte(r.Status)); err != nil {
			return inspection.Session{}, fmt.Errorf("reception %s: %w", rec.ID, err)
		}
		it := inspection.LineItem{
			ID:                 r.ID.String(),
			ProductID:          r.ProductID.String(),
			ProductName:        r.ProductName,
			BatchNumber:        r.BatchNumber,
			OrderedQty:         r.OrderedQty,
			ReceivedQty:        r.ReceivedQty,
			InvoicePrice:       r.InvoicePrice,
			SystemPrice:        r.SystemPrice,
			SupplierOfferPrice: r.SupplierOfferPrice,
			Checklist: inspection.Checklist{
				MatchesOrder:        r.MatchesOrder,
				PackagingIntact:     r.PackagingIntact,
				ExpiryAcceptable:    r.ExpiryAcceptable,
				ConditionAcceptable: r.ConditionAcceptable,
			},
			Notes:    r.Notes,
			PhotoRef: r.PhotoRef,
			Status:   st,
		}
		if r.ExpiryDate != nil {
			it.ExpiryDate = *r.ExpiryDate
		}
		items = append(items, it)
	}
	return inspection.Session{
		Header: inspection.Header{
			ID:            rec.ID.String(),
			InvoiceNumber: rec.InvoiceNumber,
			PONumber:      rec.PONumber,
			SupplierID:    rec.SupplierID,
			Date:          rec.ReceivedDate,
		},
		Items:     items,
		Finalized: true,
	}, nil
}
