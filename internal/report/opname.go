// Package report renders reconciliations as spreadsheets.
package report

import (
	"bytes"
	"fmt"

	"backoffice/internal/reconcile"

	"github.com/xuri/excelize/v2"
)

const (
	countSheet   = "Count"
	summarySheet = "Summary"

	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var countHeader = []interface{}{
	"product_id", "product_name", "batch_id",
	"expected_qty", "counted_qty", "variance_qty", "unit_value", "variance_value",
}

var summaryHeader = []interface{}{
	"product_id", "product_name",
	"total_expected", "total_counted", "difference", "value_difference",
}

// OpnameWorkbook writes one row per counted batch and one summary row per
// product, closed by a grand total, and returns the encoded xlsx.
func OpnameWorkbook(o reconcile.Opname) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), countSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}

	row := 1
	if err := setRow(f, countSheet, row, countHeader); err != nil {
		return nil, err
	}
	for _, p := range o.Products {
		for _, b := range p.Batches {
			row++
			b.UnitValue = p.UnitValue
			values := []interface{}{
				p.ProductID, p.ProductName, b.BatchID,
				b.ExpectedQty, b.CountedQty, b.VarianceQty(),
				p.UnitValue.InexactFloat64(), b.VarianceValue().InexactFloat64(),
			}
			if err := setRow(f, countSheet, row, values); err != nil {
				return nil, err
			}
		}
	}

	row = 1
	if err := setRow(f, summarySheet, row, summaryHeader); err != nil {
		return nil, err
	}
	for _, s := range o.Summaries() {
		row++
		values := []interface{}{
			s.ProductID, s.ProductName,
			s.TotalExpected, s.TotalCounted, s.Difference, s.TotalValueDifference.InexactFloat64(),
		}
		if err := setRow(f, summarySheet, row, values); err != nil {
			return nil, err
		}
	}
	t := o.Totals()
	total := []interface{}{"TOTAL", o.Number, t.TotalExpected, t.TotalCounted, t.Difference, t.TotalValueDifference.InexactFloat64()}
	if err := setRow(f, summarySheet, row+1, total); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// OpnameFilename names the exported file after the count number.
func OpnameFilename(o reconcile.Opname) string {
	return fmt.Sprintf("opname-%s.xlsx", o.Number)
}
