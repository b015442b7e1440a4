package report

import (
	"bytes"
	"testing"
	"time"

	"TickerBench/internal/bench/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderMarkdown(t *testing.T, highlight string, run *domain.RunResult) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownWriter(highlight).Write(&buf, run, summarize(run), fixtureTime))
	return buf.String()
}

func TestMarkdownWriter_PartialFailures(t *testing.T) {
	out := renderMarkdown(t, "Gate.io", fixtureRun())

	assert.Contains(t, out, "# Exchange API Benchmark Report")
	assert.Contains(t, out, "**Date**: 2026-10-16_1504")
	assert.Contains(t, out, "- Fastest Exchange: Binance (10.0ms avg)")
	assert.Contains(t, out, "- Slowest Exchange: Gate.io (20.0ms avg)")

	// success line is computed, never assumed
	assert.NotContains(t, out, "All exchanges achieved 100% availability")
	assert.Contains(t, out, "- Success Rate: 66.7% overall across 6 requests")
	assert.Contains(t, out, "  - Kraken: 0.0% (2 of 2 failed)")

	assert.Contains(t, out, "| **Gate.io** | ticker | 100.0% | 20.0ms | 20.0ms | 20.0ms | 20.0ms | 10 |")
	assert.Contains(t, out, "| Kraken | ticker | 0.0% | n/a | n/a | n/a | n/a | n/a |")
	assert.Contains(t, out, "## Performance by Endpoint")

	assert.Contains(t, out, "## Recommendations for Gate.io")
	assert.Contains(t, out, "1. **Latency Investigation**: Current avg latency is 2.0x slower than Binance")
	assert.Contains(t, out, "2. **Data Completeness**: returns 10 fields against 12 from Binance")

	assert.Contains(t, out, "- Tested 2 iterations per API (sequential)")
}

func TestMarkdownWriter_AllSucceeded(t *testing.T) {
	run := domain.NewRunResult("ok", []domain.EndpointDescriptor{binance}, domain.RunSettings{Iterations: 1, Timeout: time.Second})
	run.Append(domain.NewSuccessResult(binance, fixtureTime, 15*time.Millisecond, 200, nil).WithIteration(1))

	out := renderMarkdown(t, "Binance", run)

	assert.Contains(t, out, "- Success Rate: All exchanges achieved 100% availability")
	assert.Contains(t, out, "1. **Latency**: Binance is the fastest exchange in this run (15.0ms avg)")
}

func TestMarkdownWriter_NoSuccess(t *testing.T) {
	out := renderMarkdown(t, "Gate.io", failingRun())

	assert.Contains(t, out, "- Fastest Exchange: n/a (no successful requests)")
	assert.Contains(t, out, "- Success Rate: 0.0% overall across 2 requests")
	assert.Contains(t, out, "1. **Availability**: no successful requests to Gate.io in this run, latency is undefined")
	assert.Contains(t, out, "2. **Reliability**: success rate is 0.0% (1 of 1 requests failed)")
}

func TestMarkdownWriter_UnknownHighlight(t *testing.T) {
	out := renderMarkdown(t, "Bitstamp", fixtureRun())
	assert.NotContains(t, out, "## Recommendations")
}
