package stats

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names, in order.
const (
	SheetDashboard  = "Dashboard"
	SheetPriorities = "Priorities"
	SheetResources  = "Resources"
)

// ExportFilename names the workbook for day.
func ExportFilename(day time.Time) string {
	return fmt.Sprintf("guardia-stats-%s.xlsx", day.Format(time.DateOnly))
}

// WriteWorkbook writes the dashboard, the day's priority breakdown and the
// resource status counts as an XLSX workbook with one sheet each.
func (s *Service) WriteWorkbook(ctx context.Context, w io.Writer, day time.Time) error {
	dash, err := s.Dashboard(ctx)
	if err != nil {
		return err
	}
	priorities, err := s.PriorityBreakdown(ctx, day)
	if err != nil {
		return err
	}
	resources, err := s.ResourcesByStatus(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetDashboard); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	summary := [][]any{
		{"Metric", "Value"},
		{"Waiting", dash.Waiting},
		{"Consultations today", dash.ConsultationsToday},
		{"Active staff", dash.ActiveStaff},
		{"Critical resources", dash.CriticalResources},
		{"Generated at", dash.GeneratedAt.Format(time.RFC3339)},
	}
	if err := writeRows(f, SheetDashboard, summary); err != nil {
		return err
	}

	if err := writeCounts(f, SheetPriorities, "Priority", priorities); err != nil {
		return err
	}
	if err := writeCounts(f, SheetResources, "Status", resources); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeCounts(f *excelize.File, sheet, label string, counts []Count) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	rows := make([][]any, 0, len(counts)+1)
	rows = append(rows, []any{label, "Total"})
	for _, c := range counts {
		rows = append(rows, []any{c.Label, c.Total})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
