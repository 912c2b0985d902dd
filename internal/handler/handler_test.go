package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"backoffice/internal/inspection"
	"backoffice/internal/metrics"
	"backoffice/internal/middleware"
	"backoffice/internal/model"
	"backoffice/internal/reconcile"
	"backoffice/internal/report"
	"backoffice/internal/repository"
	"backoffice/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("handler-test")

type stubCatalog map[uuid.UUID]model.Product

func (s stubCatalog) Search(context.Context, string, int, int) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(s))
	for _, p := range s {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (s stubCatalog) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := s[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (s stubCatalog) CurrentStock(_ context.Context, id uuid.UUID) (int, error) {
	p, ok := s[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return p.CurrentStock, nil
}

func (s stubCatalog) ListByProduct(context.Context, uuid.UUID, int) ([]model.InventoryTransaction, error) {
	return nil, nil
}

type stubGateway struct {
	err error
}

func (g *stubGateway) SubmitReception(context.Context, inspection.Session, string) error {
	return g.err
}

func (g *stubGateway) SubmitAdjustments(context.Context, reconcile.AdjustmentBatch) (string, error) {
	return uuid.NewString(), g.err
}

func (g *stubGateway) SubmitOpname(context.Context, reconcile.Opname) (string, error) {
	return uuid.NewString(), g.err
}

type stubArchive struct{}

func (stubArchive) FindByIDWithItems(context.Context, uuid.UUID) (*model.Reception, error) {
	return nil, repository.ErrNotFound
}

func (stubArchive) List(context.Context, string, int, int) ([]model.Reception, int64, error) {
	return nil, 0, nil
}

type stubOpnames map[uuid.UUID]*model.StockOpname

func (s stubOpnames) FindByIDWithItems(_ context.Context, id uuid.UUID) (*model.StockOpname, error) {
	if o, ok := s[id]; ok {
		return o, nil
	}
	return nil, repository.ErrNotFound
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, map[string]any) {}

type testEnv struct {
	router  *gin.Engine
	gateway *stubGateway
	product model.Product
	opnames stubOpnames
	token   string
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	p := model.Product{ID: uuid.New(), SKU: "PCT-500", Name: "Paracetamol 500mg", CurrentStock: 40, Price: decimal.NewFromInt(34000)}
	catalog := stubCatalog{p.ID: p}
	gw := &stubGateway{}
	opnames := stubOpnames{}
	log, _ := test.NewNullLogger()
	m := metrics.New(nil)

	receptions := service.NewReceptionService(catalog, repository.NewMemoryDraftStore(), stubArchive{}, gw, nopPublisher{}, m, log, 2)
	adjustments := service.NewAdjustmentService(catalog, catalog, gw, nopPublisher{}, m, log)
	counts := service.NewOpnameService(catalog, catalog, opnames, gw, nopPublisher{}, m, log)

	r := gin.New()
	api := r.Group("/api", middleware.Authenticate(secret))
	NewProductHandler(service.NewProductService(catalog, catalog)).RegisterRoutes(api)
	NewReceptionHandler(receptions).RegisterRoutes(api)
	NewAdjustmentHandler(adjustments).RegisterRoutes(api)
	NewOpnameHandler(counts).RegisterRoutes(api)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1", "name": "Rina", "role": middleware.RolePharmacist,
	}).SignedString(secret)
	require.NoError(t, err)

	return &testEnv{router: r, gateway: gw, product: p, opnames: opnames, token: token}
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
	Code   string          `json:"code"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

type receptionBody struct {
	Reception struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Items  []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"items"`
	} `json:"reception"`
	NextPending int `json:"next_pending"`
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestReceptionFlow(t *testing.T) {
	e := newEnv(t)

	w, env := e.do(t, http.MethodPost, "/api/receptions", map[string]any{
		"invoice_number": "INV-1",
		"po_number":      "PO-1",
		"supplier_id":    "SUP-1",
		"date":           "2026-03-02T00:00:00Z",
		"items": []map[string]any{
			{"product_id": e.product.ID.String(), "ordered_qty": 50, "invoice_price": "34000", "supplier_offer_price": "34000"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode[receptionBody](t, env.Data)
	id, itemID := body.Reception.ID, body.Reception.Items[0].ID
	assert.Equal(t, "pending", body.Reception.Status)
	base := fmt.Sprintf("/api/receptions/%s/items/%s", id, itemID)

	// Scenario A: nothing received yet.
	w, env = e.do(t, http.MethodPost, base+"/decision", map[string]string{"outcome": "approved"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "not_fully_checked", env.Code)

	for _, flag := range []string{"matches_order", "packaging_intact", "expiry_acceptable", "condition_acceptable"} {
		w, _ = e.do(t, http.MethodPatch, base+"/checklist", map[string]any{"flag": flag, "value": true})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	w, _ = e.do(t, http.MethodPatch, base+"/quantity", map[string]any{"received_qty": 50})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = e.do(t, http.MethodPost, base+"/decision", map[string]string{"outcome": "approved"})
	require.Equal(t, http.StatusOK, w.Code)
	body = decode[receptionBody](t, env.Data)
	assert.Equal(t, "completed", body.Reception.Status)
	assert.Equal(t, -1, body.NextPending)

	// Gateway down: 502 and the draft is still there.
	e.gateway.err = errors.New("db unreachable")
	w, _ = e.do(t, http.MethodPost, "/api/receptions/"+id+"/save", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w, env = e.do(t, http.MethodGet, "/api/receptions/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", decode[receptionBody](t, env.Data).Reception.Status)

	e.gateway.err = nil
	w, env = e.do(t, http.MethodPost, "/api/receptions/"+id+"/save", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "approved", decode[receptionBody](t, env.Data).Reception.Status)

	w, _ = e.do(t, http.MethodGet, "/api/receptions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "draft gone, archive stub is empty")
}

func TestReception_BadPayload(t *testing.T) {
	e := newEnv(t)
	w, _ := e.do(t, http.MethodPost, "/api/receptions", map[string]any{"po_number": "PO"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdjustments(t *testing.T) {
	e := newEnv(t)
	pid := e.product.ID.String()

	w, env := e.do(t, http.MethodPost, "/api/adjustments/preview", map[string]any{
		"items": []map[string]any{{"product_id": pid, "new_stock": 40, "reason_code": "damaged"}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	preview := decode[service.AdjustmentPreview](t, env.Data)
	require.Len(t, preview.Errors, 1)
	assert.Equal(t, "no change: new stock equals current stock", preview.Errors[0].Message)

	w, env = e.do(t, http.MethodPost, "/api/adjustments", map[string]any{
		"number": "ADJ-1",
		"items":  []map[string]any{{"product_id": pid, "new_stock": 40, "reason_code": "damaged"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "no_change", env.Code)

	w, _ = e.do(t, http.MethodPost, "/api/adjustments", map[string]any{
		"number": "ADJ-1",
		"items":  []map[string]any{{"product_id": pid, "new_stock": 35, "reason_code": "expired"}},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	e.gateway.err = repository.ErrDuplicate
	w, _ = e.do(t, http.MethodPost, "/api/adjustments", map[string]any{
		"number": "ADJ-1",
		"items":  []map[string]any{{"product_id": pid, "new_stock": 35, "reason_code": "expired"}},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOpnames(t *testing.T) {
	e := newEnv(t)
	payload := map[string]any{
		"number": "OPN-1",
		"products": []map[string]any{{
			"product_id": e.product.ID.String(),
			"unit_value": "1000",
			"batches": []map[string]any{
				{"batch_id": "B1", "expected_qty": 20, "counted_qty": 18},
				{"batch_id": "B2", "expected_qty": 10, "counted_qty": 10},
				{"batch_id": "B3", "expected_qty": 10, "counted_qty": 11},
			},
		}},
	}

	w, env := e.do(t, http.MethodPost, "/api/opnames/reconcile", payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	v := decode[service.OpnameView](t, env.Data)
	assert.Equal(t, -1, v.Totals.Difference)
	assert.True(t, v.Totals.TotalValueDifference.Equal(decimal.NewFromInt(-1000)))

	w, _ = e.do(t, http.MethodPost, "/api/opnames", payload)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Expected totals must match the system stock of 40.
	stale := map[string]any{
		"number": "OPN-2",
		"products": []map[string]any{{
			"product_id": e.product.ID.String(),
			"batches":    []map[string]any{{"batch_id": "B1", "expected_qty": 35, "counted_qty": 34}},
		}},
	}
	w, env = e.do(t, http.MethodPost, "/api/opnames", stale)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "stock_mismatch", env.Code)

	id := uuid.New()
	e.opnames[id] = &model.StockOpname{ID: id, Number: "OPN-1", Items: []model.StockOpnameItem{
		{ProductID: e.product.ID, ProductName: e.product.Name, BatchID: "B1", ExpectedQty: 2, CountedQty: 1, UnitValue: decimal.NewFromInt(5)},
	}}
	w, _ = e.do(t, http.MethodGet, "/api/opnames/"+id.String()+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, report.ContentTypeXLSX, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "opname-OPN-1.xlsx")
	assert.NotEmpty(t, w.Body.Bytes())

	odd := uuid.New()
	e.opnames[odd] = &model.StockOpname{ID: odd, Number: `OPN/3 "A"`}
	w, _ = e.do(t, http.MethodGet, "/api/opnames/"+odd.String()+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="opname-OPN/3 \"A\".xlsx"`, w.Header().Get("Content-Disposition"))

	w, _ = e.do(t, http.MethodGet, "/api/opnames/"+uuid.NewString()+"/export", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProducts(t *testing.T) {
	e := newEnv(t)

	w, env := e.do(t, http.MethodGet, "/api/products?search=para", nil)
	require.Equal(t, http.StatusOK, w.Code)
	products := decode[[]service.ProductResponse](t, env.Data)
	require.Len(t, products, 1)

	w, _ = e.do(t, http.MethodGet, "/api/products/"+uuid.NewString()+"/stock", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutesRequireToken(t *testing.T) {
	e := newEnv(t)
	e.token = "invalid"
	w, _ := e.do(t, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
