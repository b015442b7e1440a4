package dependencies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"TickerBench/internal/bench/domain"
	handler "TickerBench/internal/bench/handlers"
	runner "TickerBench/internal/bench/runners"
	"TickerBench/internal/bench/services"
	"TickerBench/internal/config"
	"TickerBench/internal/report"
	"TickerBench/internal/storage"
)

// Container контейнер зависимостей
type Container struct {
	// Config
	Config *config.Config

	// Logger
	Logger *slog.Logger

	// Domain
	Registry *domain.Registry

	// Runners
	Prober   runner.Prober
	Resolver *runner.DNSRunner

	// Handlers and services
	RunHandler       *handler.RunHandler
	AggregateService *services.AggregateService
	Emitter          *report.Emitter

	// Optional sinks, nil when disabled
	Publisher       storage.Publisher
	PublishObserver *handler.PublishObserver
	RunStore        storage.RunStore
	DB              *sql.DB

	console io.Writer
}

// NewContainer создает и инициализирует контейнер зависимостей.
// console receives the per-probe progress lines; nil mutes them.
func NewContainer(ctx context.Context, cfg *config.Config, log *slog.Logger, console io.Writer) (*Container, error) {
	container := &Container{
		Config:  cfg,
		Logger:  log,
		console: console,
	}

	registry, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint registry: %w", err)
	}
	container.Registry = registry

	container.initRunners()

	if err := container.initDatabase(ctx); err != nil {
		container.Close()
		return nil, err
	}

	if err := container.initRedis(); err != nil {
		container.Close()
		return nil, err
	}

	container.initServices()

	log.Debug("Dependency container initialized successfully",
		"endpoints", registry.Len(),
		"redis", container.Publisher != nil,
		"database", container.RunStore != nil,
	)
	return container, nil
}

func (c *Container) initRunners() {
	c.Prober = runner.NewHTTPRunner(runner.HTTPRunnerConfig{
		UserAgent:    c.Config.Benchmark.UserAgent,
		MaxBodyBytes: c.Config.Benchmark.MaxBodyBytes,
		SkipFields:   !c.Config.Benchmark.TrackFields,
	})
	c.Resolver = runner.NewDNSRunner(c.Config.DNS.Server, c.Config.DNS.Timeout)
}

func (c *Container) initDatabase(ctx context.Context) error {
	if !c.Config.Database.Enabled {
		return nil
	}

	db, err := storage.NewPostgres(ctx, &c.Config.Database, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	store := storage.NewRunStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	c.RunStore = store
	return nil
}

func (c *Container) initRedis() error {
	if !c.Config.Redis.Enabled {
		return nil
	}

	publisher, err := storage.NewRedisPublisher(&c.Config.Redis, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c.Publisher = publisher
	return nil
}

func (c *Container) initServices() {
	logger := c.Logger

	observers := handler.MultiObserver{handler.NewLogObserver(logger.With("component", "progress"))}
	if c.console != nil {
		observers = append(observers, handler.NewConsoleObserver(c.console))
	}
	if c.Publisher != nil {
		c.PublishObserver = handler.NewPublishObserver(c.Publisher, c.Config.Benchmark.Timeout, logger.With("component", "publisher"))
		observers = append(observers, c.PublishObserver)
	}

	c.RunHandler = handler.NewRunHandler(c.Prober, observers, logger.With("service", "run"))
	c.AggregateService = services.NewAggregateService(logger.With("service", "aggregate"))
	c.Emitter = report.NewEmitter(c.Config.Report.EmitterOptions(), logger)
}

// Close закрывает все соединения
func (c *Container) Close() error {
	var errs []error

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing dependencies: %w", errors.Join(errs...))
	}
	return nil
}
