package report

import (
	"errors"
	"fmt"
	"io"

	"TickerBench/internal/bench/domain"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoChartData is returned when no target has a value to plot.
var ErrNoChartData = errors.New("no data to plot")

type ChartKind string

const (
	ChartLatency      ChartKind = "latency"
	ChartSuccessRate  ChartKind = "success_rate"
	ChartCompleteness ChartKind = "completeness"
)

var (
	barColor       = drawing.ColorFromHex("1f77b4")
	highlightColor = drawing.ColorFromHex("2ca02c")
)

type ChartWriter struct {
	width     int
	height    int
	highlight string
}

func NewChartWriter(width, height int, highlight string) *ChartWriter {
	if width <= 0 {
		width = 1200
	}
	if height <= 0 {
		height = 800
	}
	return &ChartWriter{width: width, height: height, highlight: highlight}
}

// Render writes a PNG bar chart. Nothing is written when there is no data.
func (c *ChartWriter) Render(out io.Writer, kind ChartKind, summary domain.Summary) error {
	groups := summary.Targets
	if len(summary.ByCategory) > 0 {
		groups = summary.ByCategory
	}

	var (
		title string
		bars  []chart.Value
	)

	switch kind {
	case ChartLatency:
		title = "API Response Latency by Exchange and Endpoint (ms)"
		for _, s := range groups {
			// undefined latency is left out, never drawn as zero
			if !s.HasLatency() {
				continue
			}
			bars = append(bars, c.bar(s, *s.MeanLatencyMS))
		}
	case ChartSuccessRate:
		title = "API Request Success Rates (%)"
		for _, s := range groups {
			if s.SampleCount == 0 {
				continue
			}
			bars = append(bars, c.bar(s, s.SuccessRate*100))
		}
	case ChartCompleteness:
		title = "Data Completeness (number of fields)"
		for _, s := range groups {
			if s.FieldCount == nil {
				continue
			}
			bars = append(bars, c.bar(s, float64(*s.FieldCount)))
		}
	default:
		return fmt.Errorf("unknown chart kind %q", kind)
	}

	if len(bars) == 0 {
		return fmt.Errorf("%s chart: %w", kind, ErrNoChartData)
	}

	graph := chart.BarChart{
		Title:      title,
		Width:      c.width,
		Height:     c.height,
		BarWidth:   c.barWidth(len(bars)),
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: upperBound(bars)},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, out); err != nil {
		return fmt.Errorf("failed to render %s chart: %w", kind, err)
	}
	return nil
}

func (c *ChartWriter) bar(s domain.TargetStatistics, value float64) chart.Value {
	color := barColor
	if c.highlight != "" && s.Target == c.highlight {
		color = highlightColor
	}
	return chart.Value{
		Label: label(s),
		Value: value,
		Style: chart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1},
	}
}

func (c *ChartWriter) barWidth(n int) int {
	w := c.width / (n * 2)
	return max(10, min(w, 80))
}

// upperBound keeps the axis range non-empty when every bar is zero.
func upperBound(bars []chart.Value) float64 {
	top := 0.0
	for _, b := range bars {
		top = max(top, b.Value)
	}
	if top <= 0 {
		return 1
	}
	return top * 1.1
}
