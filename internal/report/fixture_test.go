package report

import (
	"errors"
	"time"

	"TickerBench/internal/bench/domain"
	"TickerBench/internal/bench/services"
	"TickerBench/pkg/logger"
)

var (
	gateio  = domain.EndpointDescriptor{Name: "Gate.io", URL: "https://gate.local/ticker", Category: domain.CategoryTicker}
	binance = domain.EndpointDescriptor{Name: "Binance", URL: "https://binance.local/ticker", Category: domain.CategoryTicker}
	kraken  = domain.EndpointDescriptor{Name: "Kraken", URL: "https://kraken.local/ticker", Category: domain.CategoryTicker}
)

var fixtureTime = time.Date(2026, 10, 16, 15, 4, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

// gate.io 20ms, binance 10ms, kraken always fails
func fixtureRun() *domain.RunResult {
	settings := domain.RunSettings{Iterations: 2, Timeout: 3 * time.Second, Cooldown: time.Second}
	run := domain.NewRunResult("run-1", []domain.EndpointDescriptor{gateio, binance, kraken}, settings)
	run.StartedAt = fixtureTime

	for i := 1; i <= 2; i++ {
		at := fixtureTime.Add(time.Duration(i) * time.Second)
		run.Append(domain.NewSuccessResult(gateio, at, 20*time.Millisecond, 200, intPtr(10)).WithIteration(i))
		run.Append(domain.NewSuccessResult(binance, at, 10*time.Millisecond, 200, intPtr(12)).WithIteration(i))
		run.Append(domain.NewFailureResult(kraken, at, errors.New("request timed out after 3s")).WithIteration(i))
	}
	run.FinishedAt = fixtureTime.Add(5 * time.Second)
	return run
}

func failingRun() *domain.RunResult {
	settings := domain.RunSettings{Iterations: 1, Timeout: time.Second}
	run := domain.NewRunResult("run-2", []domain.EndpointDescriptor{gateio, kraken}, settings)
	run.Append(domain.NewFailureResult(gateio, fixtureTime, errors.New("connection refused")).WithIteration(1))
	run.Append(domain.NewFailureResult(kraken, fixtureTime, errors.New("connection refused")).WithIteration(1))
	return run
}

func summarize(run *domain.RunResult) domain.Summary {
	return services.NewAggregateService(logger.Discard()).Summarize(run)
}
