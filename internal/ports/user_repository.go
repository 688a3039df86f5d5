package ports

import (
	"context"

	"github.com/BRuslanB/OrderService/internal/domain"
)

// UserRepository — хранилище пользователей и их ролей.
// GetByUsername возвращает (nil, nil), если пользователя нет.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
