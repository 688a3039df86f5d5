package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BRuslanB/OrderService/internal/cache"
	"github.com/BRuslanB/OrderService/internal/ports"
	"github.com/BRuslanB/OrderService/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// Проверка, что ResponseCache удовлетворяет интерфейсу ResponseCache.
var _ ports.ResponseCache = (*ResponseCache)(nil)

// ResponseCache — кэш ответов на Redis. TTL задаётся конфигурацией и
// страхует от зависших записей; консистентность обеспечивает явная
// инвалидация в прикладном слое.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	return &ResponseCache{client: client, ttl: ttl}
}

// NewClient — клиент Redis с проверкой соединения (fail-fast).
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Get — недоступность Redis трактуем как промах: источником истины остаётся БД.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			metrics.CacheOps.WithLabelValues("error").Inc()
		}
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheOps.WithLabelValues("hit").Inc()
	return payload, true
}

func (c *ResponseCache) Set(ctx context.Context, key string, payload []byte) error {
	if key == "" {
		return nil
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

func (c *ResponseCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("del: %w", err)
	}
	metrics.CacheOps.WithLabelValues("invalidated").Add(float64(len(keys)))
	return nil
}

// InvalidateViews — сброс агрегатных представлений (orders:*), точечные остаются.
func (c *ResponseCache) InvalidateViews(ctx context.Context) error {
	return c.deleteByPattern(ctx, cache.ViewPattern())
}

// InvalidateAll — полный сброс: представления и точечные записи.
func (c *ResponseCache) InvalidateAll(ctx context.Context) error {
	if err := c.deleteByPattern(ctx, cache.ViewPattern()); err != nil {
		return err
	}
	return c.deleteByPattern(ctx, cache.PointPattern())
}

// deleteByPattern — SCAN вместо KEYS, чтобы не блокировать Redis на больших выборках.
func (c *ResponseCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()

	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := c.Delete(ctx, batch...); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan %q: %w", pattern, err)
	}
	if len(batch) > 0 {
		return c.Delete(ctx, batch...)
	}
	return nil
}
