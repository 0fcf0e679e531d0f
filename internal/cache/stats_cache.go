package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Werneck0live/alca-hub/internal/models"
)

const statsKey = "alcahub:providers:stats"

// ErrMiss indica que não há valor em cache (ou o cache está desligado).
var ErrMiss = errors.New("cache miss")

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// StatsCache guarda o resultado de GET /providers/stats no Redis.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache conecta e testa com PING.
func NewStatsCache(cfg Config) (*StatsCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &StatsCache{client: rdb, ttl: cfg.TTL}, nil
}

func (c *StatsCache) Get(ctx context.Context) (*models.ProviderStats, error) {
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	var st models.ProviderStats
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode cached stats: %w", err)
	}
	return &st, nil
}

func (c *StatsCache) Set(ctx context.Context, st *models.ProviderStats) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey, raw, c.ttl).Err()
}

// Invalidate é chamado depois de qualquer escrita em providers.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, statsKey).Err()
}

func (c *StatsCache) Close() error {
	return c.client.Close()
}

// Noop é usado quando REDIS_ADDR está vazio: sempre miss, escrita ignorada.
type Noop struct{}

func (Noop) Get(context.Context) (*models.ProviderStats, error) { return nil, ErrMiss }
func (Noop) Set(context.Context, *models.ProviderStats) error  { return nil }
func (Noop) Invalidate(context.Context) error                  { return nil }
