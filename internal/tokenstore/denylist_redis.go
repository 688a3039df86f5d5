package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BRuslanB/OrderService/internal/ports"
	"github.com/redis/go-redis/v9"
)

// Проверка, что RedisDenylist удовлетворяет интерфейсу TokenDenylist.
var _ ports.TokenDenylist = (*RedisDenylist)(nil)

// denylistPrefix — пространство ключей отозванных токенов.
const denylistPrefix = "tokens::"

// RedisDenylist — денилист отозванных токенов на Redis.
// Запись исчезает по TTL в момент естественного истечения токена,
// поэтому хранилище не растёт безгранично.
type RedisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

func (d *RedisDenylist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// Токен уже истёк — запись не нужна.
		return nil
	}
	if err := d.client.Set(ctx, denylistPrefix+token, "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("denylist set: %w", err)
	}
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	err := d.client.Get(ctx, denylistPrefix+token).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("denylist get: %w", err)
	}
	return true, nil
}
