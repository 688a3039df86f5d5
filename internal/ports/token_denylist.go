package ports

import (
	"context"
	"time"
)

// TokenDenylist — хранилище отозванных токенов.
// Запись живёт ровно до исходного истечения токена (ttl = остаток его
// жизни), поэтому рост хранилища ограничен по построению.
type TokenDenylist interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
