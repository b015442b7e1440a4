package report

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"TickerBench/internal/bench/domain"
)

type Options struct {
	OutputDir   string
	Prefix      string
	Formats     []string
	Highlight   string
	ChartWidth  int
	ChartHeight int
}

type Emitter struct {
	opts     Options
	csv      *CSVWriter
	xlsx     *XLSXWriter
	charts   *ChartWriter
	markdown *MarkdownWriter
	now      func() time.Time
	logger   *slog.Logger
}

func NewEmitter(opts Options, logger *slog.Logger) *Emitter {
	if opts.Prefix == "" {
		opts.Prefix = "exchange"
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "results"
	}
	if len(opts.Formats) == 0 {
		opts.Formats = Formats()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Emitter{
		opts:     opts,
		csv:      NewCSVWriter(),
		xlsx:     NewXLSXWriter(),
		charts:   NewChartWriter(opts.ChartWidth, opts.ChartHeight, opts.Highlight),
		markdown: NewMarkdownWriter(opts.Highlight),
		now:      time.Now,
		logger:   logger.With("service", "report_emitter"),
	}
}

func (e *Emitter) enabled(format string) bool {
	return slices.ContainsFunc(e.opts.Formats, func(f string) bool {
		return strings.EqualFold(strings.TrimSpace(f), format)
	})
}

// Emit writes every enabled artifact. A failing artifact does not stop
// the others; all failures are joined into the returned error.
func (e *Emitter) Emit(run *domain.RunResult, summary domain.Summary) ([]Artifact, error) {
	if run == nil {
		return nil, errors.New("nothing to emit: run is nil")
	}

	if err := os.MkdirAll(e.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir %s: %w", e.opts.OutputDir, err)
	}

	ts := e.now()
	var (
		artifacts []Artifact
		errs      []error
	)

	save := func(kind ArtifactKind, name, ext string, render func(*bytes.Buffer) error) {
		var buf bytes.Buffer
		if err := render(&buf); err != nil {
			if errors.Is(err, ErrNoChartData) {
				e.logger.Warn("Skipping chart without data", "kind", kind)
				return
			}
			errs = append(errs, err)
			return
		}

		path := filepath.Join(e.opts.OutputDir, FileName(e.opts.Prefix, name, ts, ext))
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			errs = append(errs, fmt.Errorf("failed to write %s: %w", path, err))
			return
		}
		artifacts = append(artifacts, Artifact{Kind: kind, Path: path})
	}

	if e.enabled(FormatCSV) {
		save(KindCSV, "results", "csv", func(b *bytes.Buffer) error {
			return e.csv.Write(b, run)
		})
	}

	if e.enabled(FormatXLSX) {
		path := filepath.Join(e.opts.OutputDir, FileName(e.opts.Prefix, "results", ts, "xlsx"))
		if err := e.xlsx.WriteFile(path, run, summary); err != nil {
			errs = append(errs, err)
		} else {
			artifacts = append(artifacts, Artifact{Kind: KindXLSX, Path: path})
		}
	}

	if e.enabled(FormatCharts) {
		charts := []struct {
			kind  ArtifactKind
			chart ChartKind
			name  string
		}{
			{KindLatencyChart, ChartLatency, "comparison"},
			{KindSuccessChart, ChartSuccessRate, "success"},
			{KindCompletenessChart, ChartCompleteness, "completeness"},
		}
		for _, c := range charts {
			save(c.kind, c.name, "png", func(b *bytes.Buffer) error {
				return e.charts.Render(b, c.chart, summary)
			})
		}
	}

	if e.enabled(FormatMarkdown) {
		save(KindMarkdown, "report", "md", func(b *bytes.Buffer) error {
			return e.markdown.Write(b, run, summary, ts)
		})
	}

	for _, a := range artifacts {
		e.logger.Info("Artifact written", "kind", a.Kind, "path", a.Path)
	}

	if len(errs) > 0 {
		return artifacts, fmt.Errorf("failed to emit report: %w", errors.Join(errs...))
	}
	return artifacts, nil
}
