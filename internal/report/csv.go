package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"TickerBench/internal/bench/domain"
)

var csvHeader = []string{
	"target", "category", "iteration", "issued_at", "success",
	"latency_ms", "status_code", "field_count", "error",
}

// CSVWriter writes one row per probe in run order. Values that do not
// apply to the outcome are left empty.
type CSVWriter struct{}

func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

func (w *CSVWriter) Write(out io.Writer, run *domain.RunResult) error {
	cw := csv.NewWriter(out)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, p := range run.Probes() {
		row := []string{
			p.Target,
			string(p.Category),
			strconv.Itoa(p.Iteration),
			p.IssuedAt.UTC().Format(time.RFC3339Nano),
			strconv.FormatBool(p.IsSuccess()),
			formatFloat(p.LatencyMS),
			formatInt(p.StatusCode),
			formatInt(p.FieldCount),
			p.Error,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", p.Target, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
