package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"backoffice/internal/inspection"
	"backoffice/internal/metrics"
	"backoffice/internal/model"
	"backoffice/internal/reconcile"
	"backoffice/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type fakeCatalog struct {
	products map[uuid.UUID]*model.Product
}

func newFakeCatalog(products ...model.Product) *fakeCatalog {
	c := &fakeCatalog{products: make(map[uuid.UUID]*model.Product)}
	for i := range products {
		p := products[i]
		c.products[p.ID] = &p
	}
	return c
}

func (c *fakeCatalog) Search(_ context.Context, search string, page, limit int) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range c.products {
		if search == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (c *fakeCatalog) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (c *fakeCatalog) CurrentStock(ctx context.Context, id uuid.UUID) (int, error) {
	p, err := c.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return p.CurrentStock, nil
}

type fakeStockCard struct {
	rows []model.InventoryTransaction
}

func (f *fakeStockCard) ListByProduct(_ context.Context, productID uuid.UUID, limit int) ([]model.InventoryTransaction, error) {
	var out []model.InventoryTransaction
	for _, r := range f.rows {
		if r.ProductID == productID && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeGateway struct {
	mu          sync.Mutex
	err         error
	receptions  []inspection.Session
	inspectedBy []string
	batches     []reconcile.AdjustmentBatch
	opnames     []reconcile.Opname
}

func (g *fakeGateway) SubmitReception(_ context.Context, s inspection.Session, inspectedBy string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.receptions = append(g.receptions, s)
	g.inspectedBy = append(g.inspectedBy, inspectedBy)
	return nil
}

func (g *fakeGateway) SubmitAdjustments(_ context.Context, b reconcile.AdjustmentBatch) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	g.batches = append(g.batches, b)
	return uuid.NewString(), nil
}

func (g *fakeGateway) SubmitOpname(_ context.Context, o reconcile.Opname) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	g.opnames = append(g.opnames, o)
	return uuid.NewString(), nil
}

type fakeArchive struct {
	receptions map[uuid.UUID]*model.Reception
}

func (a *fakeArchive) FindByIDWithItems(_ context.Context, id uuid.UUID) (*model.Reception, error) {
	if r, ok := a.receptions[id]; ok {
		return r, nil
	}
	return nil, repository.ErrNotFound
}

func (a *fakeArchive) List(_ context.Context, status string, page, limit int) ([]model.Reception, int64, error) {
	var out []model.Reception
	for _, r := range a.receptions {
		if status == "" || r.Status == status {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

type fakeOpnameArchive map[uuid.UUID]*model.StockOpname

func (a fakeOpnameArchive) FindByIDWithItems(_ context.Context, id uuid.UUID) (*model.StockOpname, error) {
	if o, ok := a[id]; ok {
		return o, nil
	}
	return nil, repository.ErrNotFound
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *fakePublisher) Publish(event string, _ map[string]any) {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
}

var errGatewayDown = errors.New("connection refused")

func testMetrics() *metrics.Metrics {
	return metrics.New(nil)
}

func testLogger() (logrus.FieldLogger, *test.Hook) {
	l, hook := test.NewNullLogger()
	return l, hook
}

func product(name string, stock int, price int64) model.Product {
	return model.Product{
		ID:           uuid.New(),
		SKU:          strings.ToUpper(strings.ReplaceAll(name, " ", "-")),
		Name:         name,
		CurrentStock: stock,
		Price:        decimal.NewFromInt(price),
	}
}
