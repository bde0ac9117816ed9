// Package report renders the transaction history as an end-of-day
// spreadsheet.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/bigtree-pos/till/internal/domain/history"
	"github.com/bigtree-pos/till/internal/domain/money"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Transactions"

// WriteXLSX writes the history records to w as a spreadsheet: one row per
// finalized sale plus a totals row. Records are written in log order, oldest
// first.
func WriteXLSX(records []history.Record, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headers := []string{"Timestamp", "Total", "Cash", "Change"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	var grandTotal money.Money
	for i, record := range records {
		row := i + 2
		grandTotal = grandTotal.Add(record.Total)

		values := []interface{}{
			record.Timestamp.Format(time.RFC3339),
			record.Total.String(),
			record.Cash.String(),
			record.Change.String(),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to write record row: %w", err)
			}
		}
	}

	totalsRow := len(records) + 2
	labelCell, err := excelize.CoordinatesToCellName(1, totalsRow)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheetName, labelCell, "Grand total"); err != nil {
		return fmt.Errorf("failed to write totals label: %w", err)
	}
	valueCell, err := excelize.CoordinatesToCellName(2, totalsRow)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheetName, valueCell, grandTotal.String()); err != nil {
		return fmt.Errorf("failed to write grand total: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}
