package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"backoffice/internal/model"
	"backoffice/internal/reconcile"
	ws "backoffice/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newOpnameFixture(t *testing.T) (*opnameService, *fakeGateway, *fakePublisher, fakeOpnameArchive, model.Product) {
	t.Helper()
	para := product("Paracetamol 500mg", 35, 1000)
	gw := &fakeGateway{}
	pub := &fakePublisher{}
	archive := fakeOpnameArchive{}
	log, _ := testLogger()
	catalog := newFakeCatalog(para)
	svc := NewOpnameService(catalog, catalog, archive, gw, pub, testMetrics(), log).(*opnameService)
	return svc, gw, pub, archive, para
}

func scenarioC(productID string) OpnameRequest {
	return OpnameRequest{
		Number: "OPN-1",
		Date:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Products: []ProductCountRequest{{
			ProductID: productID,
			Batches: []BatchCountRequest{
				{BatchID: "B1", ExpectedQty: 20, CountedQty: intp(18)},
				{BatchID: "B2", ExpectedQty: 10, CountedQty: intp(10)},
				{BatchID: "B3", ExpectedQty: 5, CountedQty: intp(6)},
			},
		}},
	}
}

func TestOpnameService_ReconcileScenarioC(t *testing.T) {
	svc, gw, _, _, para := newOpnameFixture(t)

	v, err := svc.Reconcile(context.Background(), scenarioC(para.ID.String()))
	require.NoError(t, err)
	assert.Equal(t, -1, v.Totals.Difference)
	assert.True(t, v.Totals.TotalValueDifference.Equal(decimal.NewFromInt(-1000)), "unit value defaults to the system price")
	require.Len(t, v.Adjustments.Records, 1)
	assert.Equal(t, reconcile.ReasonOpname, v.Adjustments.Records[0].ReasonCode)
	assert.Empty(t, gw.opnames, "reconcile never submits")
}

func TestOpnameService_ReconcileUnitValueOverride(t *testing.T) {
	svc, _, _, _, para := newOpnameFixture(t)
	req := scenarioC(para.ID.String())
	unit := decimal.RequireFromString("1250.50")
	req.Products[0].UnitValue = &unit

	v, err := svc.Reconcile(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "-1250.5", v.Totals.TotalValueDifference.String())
}

func TestOpnameService_ReconcileRejectsNegativeCount(t *testing.T) {
	svc, _, _, _, para := newOpnameFixture(t)
	req := scenarioC(para.ID.String())
	req.Products[0].Batches[1].CountedQty = intp(-1)

	_, err := svc.Reconcile(context.Background(), req)
	assert.ErrorIs(t, err, reconcile.ErrNegativeCount)
}

func TestOpnameService_Save(t *testing.T) {
	svc, gw, pub, _, para := newOpnameFixture(t)

	_, err := svc.Save(context.Background(), OpnameRequest{Products: scenarioC(para.ID.String()).Products}, "Budi")
	assert.ErrorIs(t, err, reconcile.ErrMissingNumber)

	res, err := svc.Save(context.Background(), scenarioC(para.ID.String()), "Budi")
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	require.Len(t, gw.opnames, 1)
	assert.Equal(t, "Budi", gw.opnames[0].CountedBy)
	assert.Equal(t, []string{ws.EventOpnameSaved}, pub.events)

	gw.err = errGatewayDown
	_, err = svc.Save(context.Background(), scenarioC(para.ID.String()), "Budi")
	assert.ErrorIs(t, err, ErrSubmissionFailed)
}

func TestOpnameService_SaveRejectsStaleExpected(t *testing.T) {
	svc, gw, _, _, para := newOpnameFixture(t)
	// Stock moved to 100 after the count sheet was prepared from 35.
	svc.stock.(*fakeCatalog).products[para.ID].CurrentStock = 100

	_, err := svc.Save(context.Background(), scenarioC(para.ID.String()), "Budi")
	assert.ErrorIs(t, err, reconcile.ErrStockMismatch)
	assert.Empty(t, gw.opnames)

	_, err = svc.Reconcile(context.Background(), scenarioC(para.ID.String()))
	assert.NoError(t, err, "reconcile only calculates")
}

func TestOpnameService_RejectsNegativeUnitValue(t *testing.T) {
	svc, gw, _, _, para := newOpnameFixture(t)
	req := scenarioC(para.ID.String())
	unit := decimal.NewFromInt(-1)
	req.Products[0].UnitValue = &unit

	_, err := svc.Reconcile(context.Background(), req)
	assert.ErrorIs(t, err, reconcile.ErrNegativeValue)
	_, err = svc.Save(context.Background(), req, "Budi")
	assert.ErrorIs(t, err, reconcile.ErrNegativeValue)
	assert.Empty(t, gw.opnames)
}

func TestOpnameService_Export(t *testing.T) {
	svc, _, _, archive, para := newOpnameFixture(t)
	id := uuid.New()
	archive[id] = &model.StockOpname{
		ID: id, Number: "OPN-9", CountedBy: "Budi", CountDate: time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
		Items: []model.StockOpnameItem{
			{Position: 0, ProductID: para.ID, ProductName: para.Name, BatchID: "B1", ExpectedQty: 20, CountedQty: 18, UnitValue: decimal.NewFromInt(1000)},
			{Position: 1, ProductID: para.ID, ProductName: para.Name, BatchID: "B2", ExpectedQty: 15, CountedQty: 16, UnitValue: decimal.NewFromInt(1000)},
		},
	}

	exp, err := svc.Export(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, "opname-OPN-9.xlsx", exp.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(exp.Data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header, one product, total")
	assert.Equal(t, "-1", rows[1][4])

	_, err = svc.Export(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}
