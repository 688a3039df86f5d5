package tokenstore

import (
	"context"
	"sync"
	"time"

	"github.com/BRuslanB/OrderService/internal/ports"
)

// Проверка, что MemoryDenylist удовлетворяет интерфейсу TokenDenylist.
var _ ports.TokenDenylist = (*MemoryDenylist)(nil)

// MemoryDenylist — in-process денилист для тестов и запуска без Redis.
// Истёкшие записи подчищаются лениво при обращении.
type MemoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time // token -> момент истечения
	now     func() time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (d *MemoryDenylist) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.revoked[token] = d.now().Add(ttl)
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, token string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	expiresAt, ok := d.revoked[token]
	if !ok {
		return false, nil
	}
	if d.now().After(expiresAt) {
		delete(d.revoked, token)
		return false, nil
	}
	return true, nil
}
