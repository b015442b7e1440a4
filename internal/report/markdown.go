package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"TickerBench/internal/bench/domain"
)

type MarkdownWriter struct {
	highlight string
}

func NewMarkdownWriter(highlight string) *MarkdownWriter {
	return &MarkdownWriter{highlight: strings.TrimSpace(highlight)}
}

func (m *MarkdownWriter) Write(out io.Writer, run *domain.RunResult, summary domain.Summary, date time.Time) error {
	w := bufio.NewWriter(out)

	fmt.Fprintln(w, "# Exchange API Benchmark Report")
	fmt.Fprintf(w, "**Date**: %s\n", date.Format(TimestampLayout))
	if run != nil && run.ID != "" {
		fmt.Fprintf(w, "**Run**: %s\n", run.ID)
	}
	fmt.Fprintln(w)

	m.writeFindings(w, summary)
	m.writeTable(w, "Performance Comparison", summary.Targets)
	if len(summary.ByCategory) > 0 {
		m.writeTable(w, "Performance by Endpoint", summary.ByCategory)
	}
	m.writeRecommendations(w, summary)
	m.writeMethodology(w, summary.Settings)

	return w.Flush()
}

func (m *MarkdownWriter) writeFindings(w io.Writer, summary domain.Summary) {
	fmt.Fprintln(w, "## Key Findings")

	if summary.Fastest != nil {
		fmt.Fprintf(w, "- Fastest Exchange: %s (%s avg)\n", summary.Fastest.Target, formatMS(summary.Fastest.MeanLatencyMS))
		fmt.Fprintf(w, "- Slowest Exchange: %s (%s avg)\n", summary.Slowest.Target, formatMS(summary.Slowest.MeanLatencyMS))
	} else {
		fmt.Fprintln(w, "- Fastest Exchange: n/a (no successful requests)")
		fmt.Fprintln(w, "- Slowest Exchange: n/a (no successful requests)")
	}

	switch {
	case summary.TotalSamples == 0:
		fmt.Fprintln(w, "- Success Rate: n/a (no requests recorded)")
	case summary.AllSucceeded():
		fmt.Fprintln(w, "- Success Rate: All exchanges achieved 100% availability")
	default:
		fmt.Fprintf(w, "- Success Rate: %s overall across %d requests\n",
			formatPercent(summary.SuccessRate), summary.TotalSamples)
		for _, s := range summary.Targets {
			if s.FailureCount > 0 {
				fmt.Fprintf(w, "  - %s: %s (%d of %d failed)\n",
					s.Target, formatPercent(s.SuccessRate), s.FailureCount, s.SampleCount)
			}
		}
	}
	fmt.Fprintln(w)
}

func (m *MarkdownWriter) writeTable(w io.Writer, title string, rows []domain.TargetStatistics) {
	fmt.Fprintf(w, "## %s\n", title)
	fmt.Fprintln(w, "| Exchange | Endpoint | Success Rate | Avg Latency | Median Latency | Min Latency | Max Latency | Fields |")
	fmt.Fprintln(w, "|----------|----------|--------------|-------------|----------------|-------------|-------------|--------|")

	for _, s := range rows {
		name := s.Target
		if m.highlight != "" && s.Target == m.highlight {
			name = "**" + name + "**"
		}
		endpoint := string(s.Category)
		if endpoint == "" {
			endpoint = "-"
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			name,
			endpoint,
			formatPercent(s.SuccessRate),
			formatMS(s.MeanLatencyMS),
			formatMS(s.MedianLatencyMS),
			formatMS(s.MinLatencyMS),
			formatMS(s.MaxLatencyMS),
			formatCount(s.FieldCount),
		)
	}
	fmt.Fprintln(w)
}

func (m *MarkdownWriter) writeRecommendations(w io.Writer, summary domain.Summary) {
	if m.highlight == "" {
		return
	}
	target, ok := summary.Target(m.highlight)
	if !ok {
		return
	}

	fmt.Fprintf(w, "## Recommendations for %s\n", target.Target)
	n := 0
	item := func(format string, args ...any) {
		n++
		fmt.Fprintf(w, "%d. "+format+"\n", append([]any{n}, args...)...)
	}

	fastest := summary.Fastest
	switch {
	case !target.HasLatency():
		item("**Availability**: no successful requests to %s in this run, latency is undefined", target.Target)
	case fastest == nil:
	case fastest.Target == target.Target:
		item("**Latency**: %s is the fastest exchange in this run (%s avg)", target.Target, formatMS(target.MeanLatencyMS))
	default:
		ratio := *target.MeanLatencyMS / *fastest.MeanLatencyMS
		item("**Latency Investigation**: Current avg latency is %.1fx slower than %s", ratio, fastest.Target)
	}

	if target.SampleCount > 0 && target.SuccessRate < 1 {
		item("**Reliability**: success rate is %s (%d of %d requests failed)",
			formatPercent(target.SuccessRate), target.FailureCount, target.SampleCount)
	}

	if best, ok := richest(summary.Targets); ok && target.FieldCount != nil && *target.FieldCount < *best.FieldCount {
		item("**Data Completeness**: returns %d fields against %d from %s", *target.FieldCount, *best.FieldCount, best.Target)
	}

	if n == 0 {
		item("No issues found")
	}
	fmt.Fprintln(w)
}

func (m *MarkdownWriter) writeMethodology(w io.Writer, settings domain.RunSettings) {
	mode := "sequential"
	if settings.Parallel {
		mode = "parallel per iteration"
	}

	fmt.Fprintln(w, "## Methodology")
	fmt.Fprintf(w, "- Tested %d iterations per API (%s)\n", settings.Iterations, mode)
	fmt.Fprintf(w, "- Request timeout %s, cooldown %s between requests\n", settings.Timeout, settings.Cooldown)
	fmt.Fprintln(w, "- Measured end-to-end response times, from request start until the body is read")
	fmt.Fprintln(w, "- Failed requests count against success rate and are excluded from latency statistics")
}

// richest returns the target that reported the most fields.
func richest(targets []domain.TargetStatistics) (domain.TargetStatistics, bool) {
	var (
		best  domain.TargetStatistics
		found bool
	)
	for _, s := range targets {
		if s.FieldCount == nil {
			continue
		}
		if !found || *s.FieldCount > *best.FieldCount {
			best, found = s, true
		}
	}
	return best, found
}
