package repository

import (
	"context"
	"errors"
	"fmt"

	"backoffice/internal/inspection"
	"backoffice/internal/model"
	"backoffice/internal/reconcile"

	"github.com/google/uuid"
)

var ErrInsufficientStock = errors.New("stock would become negative")

// SubmissionGateway persists finished work and posts its stock movements in a
// single transaction. Nothing is written when any step fails.
type SubmissionGateway interface {
	SubmitReception(ctx context.Context, s inspection.Session, inspectedBy string) error
	SubmitAdjustments(ctx context.Context, b reconcile.AdjustmentBatch) (string, error)
	SubmitOpname(ctx context.Context, o reconcile.Opname) (string, error)
}

type submissionGateway struct {
	txManager     TransactionManager
	productRepo   ProductRepository
	inventoryRepo InventoryTxRepository
	receptionRepo ReceptionRepository
	adjustRepo    AdjustmentRepository
	opnameRepo    OpnameRepository
}

func NewSubmissionGateway(
	txManager TransactionManager,
	productRepo ProductRepository,
	inventoryRepo InventoryTxRepository,
	receptionRepo ReceptionRepository,
	adjustRepo AdjustmentRepository,
	opnameRepo OpnameRepository,
) SubmissionGateway {
	return &submissionGateway{
		txManager:     txManager,
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		receptionRepo: receptionRepo,
		adjustRepo:    adjustRepo,
		opnameRepo:    opnameRepo,
	}
}

func parseProductID(id string) (uuid.UUID, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	return pid, nil
}

func (g *submissionGateway) SubmitReception(ctx context.Context, s inspection.Session, inspectedBy string) error {
	if !s.Finalized {
		return fmt.Errorf("reception %s is not finalized", s.ID)
	}
	receptionID, err := uuid.Parse(s.ID)
	if err != nil {
		return fmt.Errorf("invalid reception id %q: %w", s.ID, err)
	}
	status := s.Status()

	reception := model.Reception{
		ID:            receptionID,
		InvoiceNumber: s.InvoiceNumber,
		PONumber:      s.PONumber,
		SupplierID:    s.SupplierID,
		ReceivedDate:  s.Date,
		Status:        status.String(),
		InspectedBy:   inspectedBy,
		Items:         make([]model.ReceptionItem, 0, len(s.Items)),
	}
	for i, it := range s.Items {
		pid, err := parseProductID(it.ProductID)
		if err != nil {
			return err
		}
		itemID, err := uuid.Parse(it.ID)
		if err != nil {
			itemID = uuid.New()
		}
		row := model.ReceptionItem{
			ID:                  itemID,
			ReceptionID:         receptionID,
			Position:            i,
			ProductID:           pid,
			ProductName:         it.ProductName,
			BatchNumber:         it.BatchNumber,
			OrderedQty:          it.OrderedQty,
			ReceivedQty:         it.ReceivedQty,
			InvoicePrice:        it.InvoicePrice,
			SystemPrice:         it.SystemPrice,
			SupplierOfferPrice:  it.SupplierOfferPrice,
			MatchesOrder:        it.Checklist.MatchesOrder,
			PackagingIntact:     it.Checklist.PackagingIntact,
			ExpiryAcceptable:    it.Checklist.ExpiryAcceptable,
			ConditionAcceptable: it.Checklist.ConditionAcceptable,
			Notes:               it.Notes,
			PhotoRef:            it.PhotoRef,
			Status:              it.Status.String(),
		}
		if !it.ExpiryDate.IsZero() {
			d := it.ExpiryDate
			row.ExpiryDate = &d
		}
		reception.Items = append(reception.Items, row)
	}

	return g.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := g.receptionRepo.Create(txCtx, &reception); err != nil {
			return fmt.Errorf("failed to create reception: %w", err)
		}
		// A rejected receipt goes back to the supplier as a whole.
		if status != inspection.SessionApproved {
			return nil
		}
		for _, row := range reception.Items {
			if err := g.post(txCtx, row.ProductID, model.RefTypeReception, receptionID, row.ReceivedQty); err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *submissionGateway) SubmitAdjustments(ctx context.Context, b reconcile.AdjustmentBatch) (string, error) {
	if err := b.ValidateForSave(); err != nil {
		return "", err
	}
	var id string
	err := g.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		adj, err := g.saveAdjustment(txCtx, b, nil)
		if err != nil {
			return err
		}
		id = adj.ID.String()
		return nil
	})
	return id, err
}

func (g *submissionGateway) SubmitOpname(ctx context.Context, o reconcile.Opname) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}

	opname := model.StockOpname{
		Number:    o.Number,
		CountedBy: o.CountedBy,
		CountDate: o.Date,
	}
	position := 0
	for _, p := range o.Products {
		pid, err := parseProductID(p.ProductID)
		if err != nil {
			return "", err
		}
		for _, b := range p.Batches {
			opname.Items = append(opname.Items, model.StockOpnameItem{
				Position:    position,
				ProductID:   pid,
				ProductName: p.ProductName,
				BatchID:     b.BatchID,
				ExpectedQty: b.ExpectedQty,
				CountedQty:  b.CountedQty,
				UnitValue:   p.UnitValue,
			})
			position++
		}
	}

	err := g.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := g.opnameRepo.Create(txCtx, &opname); err != nil {
			return fmt.Errorf("failed to create opname: %w", err)
		}
		batch, err := g.opnameAdjustments(txCtx, o)
		if err != nil {
			return err
		}
		if len(batch.Records) == 0 {
			return nil
		}
		_, err = g.saveAdjustment(txCtx, batch, &opname.ID)
		return err
	})
	if err != nil {
		return "", err
	}
	return opname.ID.String(), nil
}

// opnameAdjustments sets every counted product to its physical total. The
// starting point is the locked stock row, not the expected quantities of the
// count, so the stock after posting always equals what was counted.
func (g *submissionGateway) opnameAdjustments(txCtx context.Context, o reconcile.Opname) (reconcile.AdjustmentBatch, error) {
	batch := reconcile.AdjustmentBatch{
		Number:      o.Number,
		SubmittedBy: o.CountedBy,
		Date:        o.Date,
		Note:        "stock opname " + o.Number,
	}
	for _, p := range o.Products {
		pid, err := parseProductID(p.ProductID)
		if err != nil {
			return batch, err
		}
		product, err := g.productRepo.FindByIDForUpdate(txCtx, pid)
		if err != nil {
			return batch, fmt.Errorf("failed to lock product %s: %w", pid, err)
		}
		counted := p.Summary().TotalCounted
		if counted == product.CurrentStock {
			continue
		}
		batch, err = batch.Add(reconcile.AdjustmentInput{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			OldStock:    product.CurrentStock,
			NewStock:    counted,
			ReasonCode:  reconcile.ReasonOpname,
			ReasonText:  "stock opname " + o.Number,
		})
		if err != nil {
			return batch, err
		}
	}
	return batch, nil
}

func (g *submissionGateway) saveAdjustment(txCtx context.Context, b reconcile.AdjustmentBatch, opnameID *uuid.UUID) (*model.StockAdjustment, error) {
	adj := model.StockAdjustment{
		Number:         b.Number,
		SubmittedBy:    b.SubmittedBy,
		AdjustmentDate: b.Date,
		Note:           b.Note,
		OpnameID:       opnameID,
	}
	pids := make([]uuid.UUID, len(b.Records))
	for i, r := range b.Records {
		pid, err := parseProductID(r.ProductID)
		if err != nil {
			return nil, err
		}
		pids[i] = pid
		adj.Items = append(adj.Items, model.StockAdjustmentItem{
			ProductID:      pid,
			OldStock:       r.OldStock,
			NewStock:       r.NewStock,
			Delta:          r.Delta,
			AdjustmentType: string(r.Type),
			ReasonCode:     string(r.ReasonCode),
			ReasonText:     r.ReasonText,
		})
	}

	if err := g.adjustRepo.Create(txCtx, &adj); err != nil {
		return nil, fmt.Errorf("failed to create adjustment: %w", err)
	}
	for i, r := range b.Records {
		if err := g.post(txCtx, pids[i], model.RefTypeAdjustment, adj.ID, r.Delta); err != nil {
			return nil, err
		}
	}
	return &adj, nil
}

// post moves the stock of one product by delta and writes the stock card line.
func (g *submissionGateway) post(txCtx context.Context, productID uuid.UUID, refType string, refID uuid.UUID, delta int) error {
	if delta == 0 {
		return nil
	}
	product, err := g.productRepo.FindByIDForUpdate(txCtx, productID)
	if err != nil {
		return fmt.Errorf("failed to lock product %s: %w", productID, err)
	}
	newStock := product.CurrentStock + delta
	if newStock < 0 {
		return fmt.Errorf("%w: %s has %d, change %d", ErrInsufficientStock, product.Name, product.CurrentStock, delta)
	}
	if err := g.productRepo.UpdateStock(txCtx, productID, newStock); err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}

	txType, qty := model.TxTypeIn, delta
	if delta < 0 {
		txType, qty = model.TxTypeOut, -delta
	}
	return g.inventoryRepo.Create(txCtx, &model.InventoryTransaction{
		ProductID:       productID,
		ReferenceType:   refType,
		ReferenceID:     refID,
		TransactionType: txType,
		QuantityChanged: qty,
		StockAfter:      newStock,
	})
}
