package report

import (
	"bytes"
	"testing"
	"time"

	"backoffice/internal/reconcile"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestOpnameWorkbook(t *testing.T) {
	o := reconcile.Opname{
		Number:    "OPN-3",
		CountedBy: "Budi",
		Date:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Products: []reconcile.ProductCount{{
			ProductID:   "P",
			ProductName: "Paracetamol 500mg",
			UnitValue:   decimal.NewFromInt(1000),
			Batches: []reconcile.BatchCount{
				{BatchID: "B1", ExpectedQty: 20, CountedQty: 18},
				{BatchID: "B2", ExpectedQty: 10, CountedQty: 10},
				{BatchID: "B3", ExpectedQty: 5, CountedQty: 6},
			},
		}},
	}

	data, err := OpnameWorkbook(o)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(countSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "batch_id", rows[0][2])
	assert.Equal(t, []string{"P", "Paracetamol 500mg", "B1", "20", "18", "-2", "1000", "-2000"}, rows[1])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, []string{"P", "Paracetamol 500mg", "35", "34", "-1", "-1000"}, summary[1])
	assert.Equal(t, "TOTAL", summary[2][0])
	assert.Equal(t, "-1", summary[2][4])

	assert.Equal(t, "opname-OPN-3.xlsx", OpnameFilename(o))
}
