package report

import (
	"fmt"

	"TickerBench/internal/bench/domain"

	"github.com/xuri/excelize/v2"
)

const (
	SheetProbes  = "Probes"
	SheetSummary = "Summary"
)

// XLSXWriter stores raw probes and per-target statistics in one workbook.
type XLSXWriter struct{}

func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

func (w *XLSXWriter) WriteFile(path string, run *domain.RunResult, summary domain.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetProbes); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := make([]any, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = h
	}
	rows := [][]any{header}
	for _, p := range run.Probes() {
		rows = append(rows, []any{
			p.Target,
			string(p.Category),
			p.Iteration,
			p.IssuedAt.UTC(),
			p.IsSuccess(),
			cellFloat(p.LatencyMS),
			cellInt(p.StatusCode),
			cellInt(p.FieldCount),
			p.Error,
		})
	}
	if err := writeRows(f, SheetProbes, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	summaryRows := [][]any{{
		"target", "category", "samples", "successes", "failures", "success_rate",
		"mean_ms", "median_ms", "min_ms", "max_ms", "field_count",
	}}
	targets := summary.Targets
	if len(summary.ByCategory) > 0 {
		targets = summary.ByCategory
	}
	for _, s := range targets {
		summaryRows = append(summaryRows, []any{
			s.Target,
			string(s.Category),
			s.SampleCount,
			s.SuccessCount,
			s.FailureCount,
			s.SuccessRate,
			cellFloat(s.MeanLatencyMS),
			cellFloat(s.MedianLatencyMS),
			cellFloat(s.MinLatencyMS),
			cellFloat(s.MaxLatencyMS),
			cellInt(s.FieldCount),
		})
	}
	if err := writeRows(f, SheetSummary, summaryRows); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	for _, sheet := range []string{SheetProbes, SheetSummary} {
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return fmt.Errorf("failed to style %s header: %w", sheet, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// undefined values become blank cells
func cellFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func cellInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
