package domain

// TargetStatistics is derived from a RunResult and never patched in place.
// Latency fields are nil when the target has no successful samples.
type TargetStatistics struct {
	Target          string   `json:"target"`
	Category        Category `json:"category,omitempty"`
	SampleCount     int      `json:"sample_count"`
	SuccessCount    int      `json:"success_count"`
	FailureCount    int      `json:"failure_count"`
	SuccessRate     float64  `json:"success_rate"`
	MeanLatencyMS   *float64 `json:"mean_latency_ms"`
	MinLatencyMS    *float64 `json:"min_latency_ms"`
	MaxLatencyMS    *float64 `json:"max_latency_ms"`
	MedianLatencyMS *float64 `json:"median_latency_ms"`
	FieldCount      *int     `json:"field_count"`
}

func (s TargetStatistics) HasLatency() bool {
	return s.MeanLatencyMS != nil
}

// Summary is the ordered view consumed by the report writers.
type Summary struct {
	RunID        string             `json:"run_id"`
	Settings     RunSettings        `json:"settings"`
	Targets      []TargetStatistics `json:"targets"`
	ByCategory   []TargetStatistics `json:"by_category,omitempty"`
	Categories   []Category         `json:"categories,omitempty"`
	Fastest      *TargetStatistics  `json:"fastest,omitempty"`
	Slowest      *TargetStatistics  `json:"slowest,omitempty"`
	TotalSamples int                `json:"total_samples"`
	SuccessRate  float64            `json:"success_rate"`
}

func (s Summary) Target(name string) (TargetStatistics, bool) {
	for _, t := range s.Targets {
		if t.Target == name {
			return t, true
		}
	}
	return TargetStatistics{}, false
}

// AllSucceeded reports whether every recorded probe succeeded.
func (s Summary) AllSucceeded() bool {
	return s.TotalSamples > 0 && s.SuccessRate == 1
}
