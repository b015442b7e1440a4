package report

import (
	"fmt"
	"strconv"
	"time"

	"TickerBench/internal/bench/domain"
)

const (
	FormatCSV      = "csv"
	FormatXLSX     = "xlsx"
	FormatCharts   = "charts"
	FormatMarkdown = "markdown"
)

// TimestampLayout is used in every artifact file name.
const TimestampLayout = "2006-01-02_1504"

const notAvailable = "n/a"

// Formats lists every supported output format.
func Formats() []string {
	return []string{FormatCSV, FormatXLSX, FormatCharts, FormatMarkdown}
}

type ArtifactKind string

const (
	KindCSV               ArtifactKind = "csv"
	KindXLSX              ArtifactKind = "xlsx"
	KindLatencyChart      ArtifactKind = "latency_chart"
	KindSuccessChart      ArtifactKind = "success_chart"
	KindCompletenessChart ArtifactKind = "completeness_chart"
	KindMarkdown          ArtifactKind = "markdown"
)

type Artifact struct {
	Kind ArtifactKind
	Path string
}

// FileName builds "<prefix>_<name>_<ts>.<ext>".
func FileName(prefix, name string, ts time.Time, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", prefix, name, ts.Format(TimestampLayout), ext)
}

func label(s domain.TargetStatistics) string {
	if s.Category == domain.CategoryNone {
		return s.Target
	}
	return s.Target + " " + string(s.Category)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatMS(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.1fms", *v)
}

func formatCount(v *int) string {
	if v == nil {
		return notAvailable
	}
	return strconv.Itoa(*v)
}

func formatPercent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}
