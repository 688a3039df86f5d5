package ports

import (
	"context"

	"github.com/BRuslanB/OrderService/internal/domain"
)

// OrderService — прикладные операции над заказами для транспортного слоя.
// Принципал передаётся явно: он разрешается один раз на транспортной границе.
type OrderService interface {
	CreateOrder(ctx context.Context, caller domain.Principal, products []domain.Product) (*domain.Order, error)
	GetOrder(ctx context.Context, caller domain.Principal, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, caller domain.Principal, filter domain.OrderFilter) ([]*domain.Order, error)
	UpdateOrder(ctx context.Context, caller domain.Principal, orderID string, products []domain.Product) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, caller domain.Principal, orderID string, newStatus domain.Status) (*domain.Order, error)
	DeleteOrder(ctx context.Context, caller domain.Principal, orderID string) error
}
