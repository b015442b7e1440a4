package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"TickerBench/internal/bench/domain"
)

type ProbeEvent struct {
	RunID      string
	Iteration  int
	Iterations int
	Index      int
	Total      int
	Result     domain.ProbeResult
}

// ProgressObserver receives per-probe notifications during a run. It is a
// side channel only; nothing it does affects the RunResult.
type ProgressObserver interface {
	OnIterationStart(runID string, iteration, iterations int)
	OnProbe(event ProbeEvent)
}

type NopObserver struct{}

func (NopObserver) OnIterationStart(string, int, int) {}
func (NopObserver) OnProbe(ProbeEvent)                {}

type MultiObserver []ProgressObserver

func (m MultiObserver) OnIterationStart(runID string, iteration, iterations int) {
	for _, o := range m {
		o.OnIterationStart(runID, iteration, iterations)
	}
}

func (m MultiObserver) OnProbe(event ProbeEvent) {
	for _, o := range m {
		o.OnProbe(event)
	}
}

// FormatStatus renders "<latency>ms" or "Failed: <error>".
func FormatStatus(result domain.ProbeResult) string {
	if latency, ok := result.Latency(); ok {
		return strconv.FormatFloat(latency, 'f', -1, 64) + "ms"
	}
	return "Failed: " + result.Error
}

// ConsoleObserver prints the human-readable progress lines.
type ConsoleObserver struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleObserver(w io.Writer) *ConsoleObserver {
	return &ConsoleObserver{w: w}
}

func (c *ConsoleObserver) OnIterationStart(_ string, iteration, iterations int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "\nIteration %d/%d\n", iteration, iterations)
}

func (c *ConsoleObserver) OnProbe(event ProbeEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := event.Result.Target
	if event.Result.Category != domain.CategoryNone {
		name += " [" + string(event.Result.Category) + "]"
	}
	fmt.Fprintf(c.w, "%-10s: %s\n", name, FormatStatus(event.Result))
}

type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (l *LogObserver) OnIterationStart(runID string, iteration, iterations int) {
	l.logger.Debug("iteration started",
		"run_id", runID,
		"iteration", iteration,
		"iterations", iterations,
	)
}

func (l *LogObserver) OnProbe(event ProbeEvent) {
	r := event.Result
	if latency, ok := r.Latency(); ok {
		status, _ := r.Status()
		l.logger.Debug("probe completed",
			"run_id", event.RunID,
			"iteration", event.Iteration,
			"target", r.Target,
			"category", r.Category,
			"latency_ms", latency,
			"status_code", status,
		)
		return
	}

	l.logger.Warn("probe failed",
		"run_id", event.RunID,
		"iteration", event.Iteration,
		"target", r.Target,
		"category", r.Category,
		"error", r.Error,
	)
}

// ProgressMessage is the wire shape of published progress events.
type ProgressMessage struct {
	Type       string          `json:"type"`
	RunID      string          `json:"run_id"`
	Iteration  int             `json:"iteration"`
	Iterations int             `json:"iterations"`
	Target     string          `json:"target,omitempty"`
	Category   domain.Category `json:"category,omitempty"`
	Success    bool            `json:"success"`
	LatencyMS  *float64        `json:"latency_ms,omitempty"`
	StatusCode *int            `json:"status_code,omitempty"`
	Error      string          `json:"error,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// SummaryMessage is published once a run has been aggregated.
type SummaryMessage struct {
	Type      string         `json:"type"`
	RunID     string         `json:"run_id"`
	Summary   domain.Summary `json:"summary"`
	Timestamp time.Time      `json:"timestamp"`
}

type EventPublisher interface {
	Publish(ctx context.Context, message any) error
}

// PublishObserver forwards progress events to an external channel. Publish
// errors are logged and never interrupt the run.
type PublishObserver struct {
	publisher EventPublisher
	timeout   time.Duration
	logger    *slog.Logger
}

func NewPublishObserver(publisher EventPublisher, timeout time.Duration, logger *slog.Logger) *PublishObserver {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PublishObserver{publisher: publisher, timeout: timeout, logger: logger}
}

func (p *PublishObserver) OnIterationStart(runID string, iteration, iterations int) {
	p.publish("iteration", runID, ProgressMessage{
		Type:       "iteration",
		RunID:      runID,
		Iteration:  iteration,
		Iterations: iterations,
		Timestamp:  time.Now().UTC(),
	})
}

func (p *PublishObserver) OnProbe(event ProbeEvent) {
	r := event.Result
	p.publish("probe", event.RunID, ProgressMessage{
		Type:       "probe",
		RunID:      event.RunID,
		Iteration:  event.Iteration,
		Iterations: event.Iterations,
		Target:     r.Target,
		Category:   r.Category,
		Success:    r.IsSuccess(),
		LatencyMS:  r.LatencyMS,
		StatusCode: r.StatusCode,
		Error:      r.Error,
		Timestamp:  r.IssuedAt.UTC(),
	})
}

// OnSummary publishes the aggregated statistics of a finished run.
func (p *PublishObserver) OnSummary(summary domain.Summary) {
	p.publish("summary", summary.RunID, SummaryMessage{
		Type:      "summary",
		RunID:     summary.RunID,
		Summary:   summary,
		Timestamp: time.Now().UTC(),
	})
}

func (p *PublishObserver) publish(kind, runID string, msg any) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.publisher.Publish(ctx, msg); err != nil {
		p.logger.Warn("failed to publish progress event",
			"error", err,
			"type", kind,
			"run_id", runID,
		)
	}
}
