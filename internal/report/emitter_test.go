package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"TickerBench/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmitter(t *testing.T, formats ...string) (*Emitter, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "results")
	e := NewEmitter(Options{
		OutputDir:   dir,
		Formats:     formats,
		Highlight:   "Gate.io",
		ChartWidth:  640,
		ChartHeight: 480,
	}, logger.Discard())
	e.now = func() time.Time { return fixtureTime }
	return e, dir
}

func TestEmitter_AllFormats(t *testing.T) {
	e, dir := newTestEmitter(t)
	run := fixtureRun()

	artifacts, err := e.Emit(run, summarize(run))
	require.NoError(t, err)

	want := map[ArtifactKind]string{
		KindCSV:               "exchange_results_2026-10-16_1504.csv",
		KindXLSX:              "exchange_results_2026-10-16_1504.xlsx",
		KindLatencyChart:      "exchange_comparison_2026-10-16_1504.png",
		KindSuccessChart:      "exchange_success_2026-10-16_1504.png",
		KindCompletenessChart: "exchange_completeness_2026-10-16_1504.png",
		KindMarkdown:          "exchange_report_2026-10-16_1504.md",
	}
	require.Len(t, artifacts, len(want))

	for _, a := range artifacts {
		assert.Equal(t, filepath.Join(dir, want[a.Kind]), a.Path)
		info, err := os.Stat(a.Path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestEmitter_SelectedFormats(t *testing.T) {
	e, _ := newTestEmitter(t, "CSV", " markdown ")
	run := fixtureRun()

	artifacts, err := e.Emit(run, summarize(run))
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	assert.Equal(t, KindCSV, artifacts[0].Kind)
	assert.Equal(t, KindMarkdown, artifacts[1].Kind)
}

func TestEmitter_SkipsEmptyCharts(t *testing.T) {
	e, _ := newTestEmitter(t, FormatCharts)
	run := failingRun()

	artifacts, err := e.Emit(run, summarize(run))
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, KindSuccessChart, artifacts[0].Kind)
}

func TestEmitter_NilLoggerFallsBackToDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	e := NewEmitter(Options{OutputDir: dir, Formats: []string{FormatMarkdown}}, nil)
	require.NotNil(t, e)

	run := fixtureRun()
	artifacts, err := e.Emit(run, summarize(run))
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.FileExists(t, artifacts[0].Path)
}

func TestEmitter_NilRun(t *testing.T) {
	e, _ := newTestEmitter(t)
	_, err := e.Emit(nil, summarize(fixtureRun()))
	require.Error(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "exchange_report_2026-10-16_1504.md", FileName("exchange", "report", fixtureTime, "md"))
}
