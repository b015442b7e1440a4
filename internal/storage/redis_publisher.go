package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"TickerBench/internal/config"

	"github.com/redis/go-redis/v9"
)

// publishClient is the part of *redis.Client the publisher needs.
type publishClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Close() error
}

type redisPublisher struct {
	client  publishClient
	channel string
	log     *slog.Logger
}

func NewRedisPublisher(cfg *config.RedisConfig, log *slog.Logger) (Publisher, error) {
	client := redis.NewClient(cfg.GetRedisOptions())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		log.Error("failed to connect to Redis", "error", err)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("Connected to Redis", "addr", cfg.Addr, "channel", cfg.Channel)
	return newRedisPublisher(client, cfg.Channel, log), nil
}

func newRedisPublisher(client publishClient, channel string, log *slog.Logger) *redisPublisher {
	return &redisPublisher{client: client, channel: channel, log: log}
}

func (r *redisPublisher) Publish(ctx context.Context, message any) error {
	var data []byte
	switch v := message.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		var err error
		data, err = json.Marshal(message)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}
	}

	receivers, err := r.client.Publish(ctx, r.channel, data).Result()
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", r.channel, err)
	}

	r.log.Debug("Published message to Redis",
		"channel", r.channel,
		"length", len(data),
		"receivers", receivers,
	)
	return nil
}

func (r *redisPublisher) Close() error {
	return r.client.Close()
}
