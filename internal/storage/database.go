package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"TickerBench/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func NewPostgres(ctx context.Context, cfg *config.DatabaseConfig, log *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		log.Error("Failed to open connection to postgres", "error", err)
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(time.Minute)

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		log.Error("Failed to ping database", "host", cfg.Host, "error", err)
		return nil, fmt.Errorf("failed to ping postgres database: %w", err)
	}

	log.Info("Successfully connected to postgres database", "host", cfg.Host, "dbname", cfg.DBName)
	return db, nil
}
