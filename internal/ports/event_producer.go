package ports

import (
	"context"

	"github.com/BRuslanB/OrderService/internal/domain"
)

// EventProducer — публикация событий о смене статуса заказа.
type EventProducer interface {
	PublishStatusChange(ctx context.Context, event domain.StatusChangeEvent) error
	Close() error
}
