package storage

import (
	"context"

	"TickerBench/internal/bench/domain"
)

// RunStore сохраняет результаты прогона
type RunStore interface {
	EnsureSchema(ctx context.Context) error
	SaveRun(ctx context.Context, run *domain.RunResult) error
}

// Publisher публикует события прогона
type Publisher interface {
	Publish(ctx context.Context, message any) error
	Close() error
}
