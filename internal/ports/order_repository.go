package ports

import (
	"context"

	"github.com/BRuslanB/OrderService/internal/domain"
)

// OrderRepository — хранилище заказов.
// GetByID возвращает и мягко удалённые записи (nil, nil — записи нет вовсе);
// решение «удалён → NotFound» принимает прикладной слой.
// Листинги исключают удалённые записи.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, orderID string) (*domain.Order, error)
	ListNotDeleted(ctx context.Context) ([]*domain.Order, error)
	ListFiltered(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
	Save(ctx context.Context, order *domain.Order) error
}
