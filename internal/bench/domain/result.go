package domain

import (
	"math"
	"time"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// ProbeResult is the outcome of one timed request. LatencyMS and StatusCode
// are set only on success, Error only on failure. FieldCount is optional on
// success and always nil on failure.
type ProbeResult struct {
	Target     string    `json:"target"`
	Category   Category  `json:"category,omitempty"`
	Iteration  int       `json:"iteration"`
	IssuedAt   time.Time `json:"issued_at"`
	Outcome    Outcome   `json:"outcome"`
	LatencyMS  *float64  `json:"latency_ms,omitempty"`
	StatusCode *int      `json:"status_code,omitempty"`
	FieldCount *int      `json:"field_count,omitempty"`
	Error      string    `json:"error,omitempty"`
}

func NewSuccessResult(ep EndpointDescriptor, issuedAt time.Time, latency time.Duration, statusCode int, fieldCount *int) ProbeResult {
	latencyMS := roundMS(latency)
	code := statusCode

	var fields *int
	if fieldCount != nil {
		n := *fieldCount
		fields = &n
	}

	return ProbeResult{
		Target:     ep.Name,
		Category:   ep.Category,
		IssuedAt:   issuedAt,
		Outcome:    OutcomeSuccess,
		LatencyMS:  &latencyMS,
		StatusCode: &code,
		FieldCount: fields,
	}
}

func NewFailureResult(ep EndpointDescriptor, issuedAt time.Time, err error) ProbeResult {
	description := "unknown error"
	if err != nil && err.Error() != "" {
		description = err.Error()
	}

	return ProbeResult{
		Target:   ep.Name,
		Category: ep.Category,
		IssuedAt: issuedAt,
		Outcome:  OutcomeFailure,
		Error:    description,
	}
}

func (r ProbeResult) IsSuccess() bool {
	return r.Outcome == OutcomeSuccess
}

// Latency reports the measured latency in milliseconds and whether it exists.
func (r ProbeResult) Latency() (float64, bool) {
	if !r.IsSuccess() || r.LatencyMS == nil {
		return 0, false
	}
	return *r.LatencyMS, true
}

func (r ProbeResult) Status() (int, bool) {
	if !r.IsSuccess() || r.StatusCode == nil {
		return 0, false
	}
	return *r.StatusCode, true
}

func (r ProbeResult) Fields() (int, bool) {
	if !r.IsSuccess() || r.FieldCount == nil {
		return 0, false
	}
	return *r.FieldCount, true
}

// WithIteration returns a copy stamped with the 1-based iteration number.
func (r ProbeResult) WithIteration(iteration int) ProbeResult {
	r.Iteration = iteration
	return r
}

func roundMS(d time.Duration) float64 {
	ms := float64(d) / float64(time.Millisecond)
	return math.Round(ms*100) / 100
}

type RunSettings struct {
	Iterations int           `json:"iterations"`
	Timeout    time.Duration `json:"timeout"`
	Cooldown   time.Duration `json:"cooldown"`
	Parallel   bool          `json:"parallel"`
}

// RunResult holds every ProbeResult of one run in execution order
// (iteration-major, registry order inside an iteration).
type RunResult struct {
	ID         string               `json:"id"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	Settings   RunSettings          `json:"settings"`
	Endpoints  []EndpointDescriptor `json:"endpoints"`

	probes []ProbeResult
}

func NewRunResult(id string, endpoints []EndpointDescriptor, settings RunSettings) *RunResult {
	eps := make([]EndpointDescriptor, len(endpoints))
	copy(eps, endpoints)

	return &RunResult{
		ID:        id,
		Settings:  settings,
		Endpoints: eps,
		probes:    make([]ProbeResult, 0, len(endpoints)*max(settings.Iterations, 1)),
	}
}

// Append is called by the orchestrator only.
func (r *RunResult) Append(result ProbeResult) {
	r.probes = append(r.probes, result)
}

// Probes returns a copy of the collected results
func (r *RunResult) Probes() []ProbeResult {
	out := make([]ProbeResult, len(r.probes))
	copy(out, r.probes)
	return out
}

func (r *RunResult) Len() int {
	return len(r.probes)
}

func (r *RunResult) ForTarget(name string) []ProbeResult {
	var out []ProbeResult
	for _, p := range r.probes {
		if p.Target == name {
			out = append(out, p)
		}
	}
	return out
}

func (r *RunResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
