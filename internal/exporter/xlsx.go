package exporter

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"nokicli/internal/dataprocessing"
)

// WriteSummaryWorkbook writes the aggregate summary as an Excel
// workbook: one sheet per breakdown plus the cross tabulation.
func (w *CSVWriter) WriteSummaryWorkbook(filePath string, summary dataprocessing.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeBreakdownSheet(f, "Player Types", summary.PlayerTypes); err != nil {
		return err
	}
	if err := writeBreakdownSheet(f, "Choices", summary.Choices); err != nil {
		return err
	}
	if err := writeCrossTabSheet(f, "Choice by Type", summary.ByType); err != nil {
		return err
	}

	// Drop the default sheet so the workbook opens on Player Types
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("Summary workbook written",
		slog.String("path", filePath),
		slog.Int("participants", summary.Total))

	return nil
}

// writeBreakdownSheet writes label/count/percentage rows to a sheet
func writeBreakdownSheet(f *excelize.File, name string, b dataprocessing.Breakdown) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	rows := [][]interface{}{{"Label", "Count", "Percentage"}}
	for i, label := range b.Labels {
		rows = append(rows, []interface{}{label, b.Counts[i], b.Percentages[i]})
	}

	return writeRows(f, name, rows)
}

// writeCrossTabSheet writes the cross tabulation with row totals
func writeCrossTabSheet(f *excelize.File, name string, ct dataprocessing.CrossTab) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	header := []interface{}{"Player Type"}
	for _, col := range ct.Cols {
		header = append(header, col)
	}
	header = append(header, "Total")

	rows := [][]interface{}{header}
	for i, row := range ct.Rows {
		cells := []interface{}{row}
		for _, n := range ct.Counts[i] {
			cells = append(cells, n)
		}
		cells = append(cells, ct.RowTotal(i))
		rows = append(rows, cells)
	}

	return writeRows(f, name, rows)
}

// writeRows writes rows starting at A1
func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d on %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
