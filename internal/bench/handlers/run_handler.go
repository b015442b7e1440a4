package handler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"TickerBench/internal/bench/domain"
	runner "TickerBench/internal/bench/runners"
	"TickerBench/pkg/uuidutil"

	"golang.org/x/sync/errgroup"
)

// RunHandler drives repeated passes over the registry and owns the
// RunResult until it is returned.
type RunHandler struct {
	prober   runner.Prober
	observer ProgressObserver
	logger   *slog.Logger
}

func NewRunHandler(prober runner.Prober, observer ProgressObserver, logger *slog.Logger) *RunHandler {
	if observer == nil {
		observer = NopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RunHandler{
		prober:   prober,
		observer: observer,
		logger:   logger,
	}
}

// ValidateSettings rejects a run before any network activity.
func ValidateSettings(registry *domain.Registry, settings domain.RunSettings) error {
	if registry.Len() == 0 {
		return domain.NewConfigurationError("endpoints", domain.ErrEmptyRegistry)
	}
	if settings.Iterations < 1 {
		return domain.NewConfigurationError("iterations",
			fmt.Errorf("%w: got %d", domain.ErrInvalidIterations, settings.Iterations))
	}
	if settings.Timeout <= 0 {
		return domain.NewConfigurationError("timeout",
			fmt.Errorf("%w: got %s", domain.ErrInvalidTimeout, settings.Timeout))
	}
	if settings.Cooldown < 0 {
		return domain.NewConfigurationError("cooldown",
			fmt.Errorf("%w: got %s", domain.ErrNegativeCooldown, settings.Cooldown))
	}
	return nil
}

// Run probes every endpoint once per iteration, in registry order, pausing
// for settings.Cooldown after each probe. Failures are recorded and never
// abort the run. On cancellation the results collected so far are returned
// together with an error wrapping domain.ErrRunInterrupted.
func (h *RunHandler) Run(ctx context.Context, registry *domain.Registry, settings domain.RunSettings) (*domain.RunResult, error) {
	if err := ValidateSettings(registry, settings); err != nil {
		return nil, err
	}

	endpoints := registry.Endpoints()
	run := domain.NewRunResult(uuidutil.New(), endpoints, settings)
	run.StartedAt = time.Now()

	h.logger.Info("benchmark run started",
		"run_id", run.ID,
		"endpoints", len(endpoints),
		"iterations", settings.Iterations,
		"timeout", settings.Timeout,
		"cooldown", settings.Cooldown,
		"parallel", settings.Parallel,
	)

	for iteration := 1; iteration <= settings.Iterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return h.interrupted(run, err)
		}

		h.observer.OnIterationStart(run.ID, iteration, settings.Iterations)

		var err error
		if settings.Parallel {
			err = h.runParallel(ctx, run, endpoints, iteration, settings)
		} else {
			err = h.runSequential(ctx, run, endpoints, iteration, settings)
		}
		if err != nil {
			return h.interrupted(run, err)
		}
	}

	run.FinishedAt = time.Now()

	h.logger.Info("benchmark run completed",
		"run_id", run.ID,
		"probes", run.Len(),
		"duration", run.Duration(),
	)

	return run, nil
}

func (h *RunHandler) runSequential(ctx context.Context, run *domain.RunResult, endpoints []domain.EndpointDescriptor, iteration int, settings domain.RunSettings) error {
	for idx, ep := range endpoints {
		if err := ctx.Err(); err != nil {
			return err
		}

		result := h.prober.Probe(ctx, ep, settings.Timeout)

		// результат прерванной пробы не сохраняем
		if err := ctx.Err(); err != nil {
			return err
		}

		h.record(run, result.WithIteration(iteration), idx, len(endpoints), settings)

		if err := pause(ctx, settings.Cooldown); err != nil {
			return err
		}
	}
	return nil
}

// runParallel probes the targets of one iteration concurrently, one
// goroutine per target name. Endpoints sharing a name are probed in
// registry order with the cooldown between them, so a target never sees
// two requests at once. Each probe writes its own slot and the slots are
// appended in registry order after the group finishes.
func (h *RunHandler) runParallel(ctx context.Context, run *domain.RunResult, endpoints []domain.EndpointDescriptor, iteration int, settings domain.RunSettings) error {
	results := make([]domain.ProbeResult, len(endpoints))
	groups := groupByTarget(endpoints)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(groups))

	for _, slots := range groups {
		g.Go(func() error {
			for n, idx := range slots {
				if n > 0 {
					if err := pause(gctx, settings.Cooldown); err != nil {
						return err
					}
				}
				result := h.prober.Probe(gctx, endpoints[idx], settings.Timeout)
				if err := gctx.Err(); err != nil {
					return err
				}
				results[idx] = result.WithIteration(iteration)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for idx, result := range results {
		h.record(run, result, idx, len(endpoints), settings)
	}

	return pause(ctx, settings.Cooldown)
}

// groupByTarget returns endpoint indexes per target name, targets in order
// of first appearance.
func groupByTarget(endpoints []domain.EndpointDescriptor) [][]int {
	var groups [][]int
	index := make(map[string]int)
	for idx, ep := range endpoints {
		g, ok := index[ep.Name]
		if !ok {
			g = len(groups)
			index[ep.Name] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], idx)
	}
	return groups
}

func (h *RunHandler) record(run *domain.RunResult, result domain.ProbeResult, idx, total int, settings domain.RunSettings) {
	run.Append(result)

	h.observer.OnProbe(ProbeEvent{
		RunID:      run.ID,
		Iteration:  result.Iteration,
		Iterations: settings.Iterations,
		Index:      idx,
		Total:      total,
		Result:     result,
	})
}

func (h *RunHandler) interrupted(run *domain.RunResult, cause error) (*domain.RunResult, error) {
	run.FinishedAt = time.Now()

	h.logger.Warn("benchmark run interrupted",
		"run_id", run.ID,
		"probes", run.Len(),
		"error", cause,
	)

	return run, fmt.Errorf("%w: %w", domain.ErrRunInterrupted, cause)
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
