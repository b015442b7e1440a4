package runner

import (
	"context"
	"time"

	"TickerBench/internal/bench/domain"
)

// Prober issues one timed request and never returns an error: every
// failure mode is converted into a failure ProbeResult.
type Prober interface {
	Probe(ctx context.Context, endpoint domain.EndpointDescriptor, timeout time.Duration) domain.ProbeResult
}

// ProberFunc adapts a plain function to Prober.
type ProberFunc func(ctx context.Context, endpoint domain.EndpointDescriptor, timeout time.Duration) domain.ProbeResult

func (f ProberFunc) Probe(ctx context.Context, endpoint domain.EndpointDescriptor, timeout time.Duration) domain.ProbeResult {
	return f(ctx, endpoint, timeout)
}
