package services

import (
	"log/slog"
	"math"
	"sort"

	"TickerBench/internal/bench/domain"
)

// AggregateService folds a RunResult into per-target statistics. It keeps
// no state between calls; the same RunResult always yields the same output.
type AggregateService struct {
	logger *slog.Logger
}

func NewAggregateService(logger *slog.Logger) *AggregateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AggregateService{logger: logger}
}

type groupKey struct {
	target   string
	category domain.Category
}

type accumulator struct {
	key        groupKey
	samples    int
	successes  int
	latencies  []float64
	fieldCount *int
}

func (a *accumulator) add(p domain.ProbeResult) {
	a.samples++
	if !p.IsSuccess() {
		return
	}

	a.successes++
	if latency, ok := p.Latency(); ok {
		a.latencies = append(a.latencies, latency)
	}
	// последний успешный ответ с полями выигрывает
	if n, ok := p.Fields(); ok {
		a.fieldCount = &n
	}
}

func (a *accumulator) statistics() domain.TargetStatistics {
	stats := domain.TargetStatistics{
		Target:       a.key.target,
		Category:     a.key.category,
		SampleCount:  a.samples,
		SuccessCount: a.successes,
		FailureCount: a.samples - a.successes,
		FieldCount:   a.fieldCount,
	}

	if a.samples > 0 {
		stats.SuccessRate = float64(a.successes) / float64(a.samples)
	}

	if len(a.latencies) == 0 {
		return stats
	}

	sum := 0.0
	minLatency, maxLatency := math.Inf(1), math.Inf(-1)
	for _, l := range a.latencies {
		sum += l
		minLatency = math.Min(minLatency, l)
		maxLatency = math.Max(maxLatency, l)
	}
	mean := sum / float64(len(a.latencies))
	median := medianOf(a.latencies)

	stats.MeanLatencyMS = &mean
	stats.MinLatencyMS = &minLatency
	stats.MaxLatencyMS = &maxLatency
	stats.MedianLatencyMS = &median

	return stats
}

func medianOf(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// group returns accumulators in a stable order: endpoints of the run's
// registry snapshot first, then any unexpected keys in order of appearance.
func (s *AggregateService) group(run *domain.RunResult, keyOf func(name string, category domain.Category) groupKey) []*accumulator {
	var order []*accumulator
	index := make(map[groupKey]*accumulator)

	get := func(k groupKey) (*accumulator, bool) {
		if acc, ok := index[k]; ok {
			return acc, true
		}
		acc := &accumulator{key: k}
		index[k] = acc
		order = append(order, acc)
		return acc, false
	}

	for _, ep := range run.Endpoints {
		get(keyOf(ep.Name, ep.Category))
	}

	for _, p := range run.Probes() {
		acc, known := get(keyOf(p.Target, p.Category))
		if !known {
			s.logger.Warn("probe result for unregistered target",
				"run_id", run.ID,
				"target", p.Target,
				"category", p.Category,
			)
		}
		acc.add(p)
	}

	return order
}

func byTarget(name string, _ domain.Category) groupKey {
	return groupKey{target: name}
}

func byTargetAndCategory(name string, category domain.Category) groupKey {
	return groupKey{target: name, category: category}
}

// Aggregate groups by target name. A registered target without any probe
// results reports zero samples and a zero success rate.
func (s *AggregateService) Aggregate(run *domain.RunResult) map[string]domain.TargetStatistics {
	out := make(map[string]domain.TargetStatistics)
	if run == nil {
		return out
	}

	for _, acc := range s.group(run, byTarget) {
		out[acc.key.target] = acc.statistics()
	}
	return out
}

// AggregateByCategory groups by target name, then by endpoint category.
func (s *AggregateService) AggregateByCategory(run *domain.RunResult) map[string]map[string]domain.TargetStatistics {
	out := make(map[string]map[string]domain.TargetStatistics)
	if run == nil {
		return out
	}

	for _, acc := range s.group(run, byTargetAndCategory) {
		if out[acc.key.target] == nil {
			out[acc.key.target] = make(map[string]domain.TargetStatistics)
		}
		out[acc.key.target][string(acc.key.category)] = acc.statistics()
	}
	return out
}

// Summarize produces the ordered view for the report writers.
func (s *AggregateService) Summarize(run *domain.RunResult) domain.Summary {
	if run == nil {
		return domain.Summary{}
	}

	summary := domain.Summary{
		RunID:    run.ID,
		Settings: run.Settings,
	}

	successes := 0
	for _, acc := range s.group(run, byTarget) {
		stats := acc.statistics()
		summary.Targets = append(summary.Targets, stats)
		summary.TotalSamples += stats.SampleCount
		successes += stats.SuccessCount
	}

	if summary.TotalSamples > 0 {
		summary.SuccessRate = float64(successes) / float64(summary.TotalSamples)
	}

	categories := make(map[domain.Category]struct{})
	for _, acc := range s.group(run, byTargetAndCategory) {
		if acc.key.category == domain.CategoryNone {
			continue
		}
		summary.ByCategory = append(summary.ByCategory, acc.statistics())
		if _, ok := categories[acc.key.category]; !ok {
			categories[acc.key.category] = struct{}{}
			summary.Categories = append(summary.Categories, acc.key.category)
		}
	}

	summary.Fastest, summary.Slowest = extremes(summary.Targets)

	s.logger.Debug("run summarized",
		"run_id", run.ID,
		"targets", len(summary.Targets),
		"samples", summary.TotalSamples,
		"success_rate", summary.SuccessRate,
	)

	return summary
}

// extremes picks the lowest and highest mean latency. Targets without a
// defined mean are skipped; ties keep the earlier target.
func extremes(targets []domain.TargetStatistics) (*domain.TargetStatistics, *domain.TargetStatistics) {
	var fastest, slowest *domain.TargetStatistics

	for i := range targets {
		t := targets[i]
		if !t.HasLatency() {
			continue
		}
		if fastest == nil || *t.MeanLatencyMS < *fastest.MeanLatencyMS {
			fastest = &t
		}
		if slowest == nil || *t.MeanLatencyMS > *slowest.MeanLatencyMS {
			slowest = &t
		}
	}

	return fastest, slowest
}
