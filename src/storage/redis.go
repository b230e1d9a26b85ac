package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"stock-digest/src/helpers"
	"stock-digest/src/logger"
	"stock-digest/src/models"

	"github.com/redis/go-redis/v9"
)

// Durable backend keys, matching the persisted-state contract.
const (
	keySymbols = "stock_symbols"
	keyStatus  = "email_status"
)

const opTimeout = 5 * time.Second

// -----------------------------------------------------------------------------

// RedisStore is the durable key-value backend. Each read/write is an
// independent request-response call; last-write-wins, no client-side
// transactions.
type RedisStore struct {
	client *redis.Client
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

// NewRedisStore connects and pings the server. A failed probe returns
// BackendUnavailableError so the caller can fall back to the env-file backend.
func NewRedisStore(redisURL string, log *logger.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, helpers.NewBackendUnavailableError("redis", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, helpers.NewBackendUnavailableError("redis", err)
	}

	log.Info("Redis connected successfully")
	return &RedisStore{client: client, Logger: log}, nil
}

// -----------------------------------------------------------------------------

func (r *RedisStore) Name() string {
	return "redis"
}

// -----------------------------------------------------------------------------

func (r *RedisStore) LoadSymbols() ([]string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := r.client.Get(ctx, keySymbols).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, helpers.NewBackendUnavailableError("redis", err)
	}

	var symbols []string
	if err := json.Unmarshal([]byte(raw), &symbols); err != nil {
		return nil, false, err
	}
	return symbols, true, nil
}

// -----------------------------------------------------------------------------

func (r *RedisStore) SaveSymbols(symbols []string) error {
	data, err := json.Marshal(symbols)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := r.client.Set(ctx, keySymbols, data, 0).Err(); err != nil {
		return helpers.NewBackendUnavailableError("redis", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (r *RedisStore) LoadStatus() (*models.MRunStatus, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := r.client.Get(ctx, keyStatus).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, helpers.NewBackendUnavailableError("redis", err)
	}

	var status models.MRunStatus
	if err := json.Unmarshal([]byte(raw), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// -----------------------------------------------------------------------------

func (r *RedisStore) SaveStatus(status models.MRunStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := r.client.Set(ctx, keyStatus, data, 0).Err(); err != nil {
		return helpers.NewBackendUnavailableError("redis", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (r *RedisStore) Close() error {
	return r.client.Close()
}
