package domain

import "time"

// OrderFilter — параметры фильтрации списка заказов.
// nil-поле означает отсутствие ограничения; условия объединяются по AND.
type OrderFilter struct {
	Status   *Status
	MinPrice *float64
	MaxPrice *float64
}

// IsEmpty — фильтр не накладывает ограничений.
func (f OrderFilter) IsEmpty() bool {
	return f.Status == nil && f.MinPrice == nil && f.MaxPrice == nil
}

// StatusChangeEvent — событие смены статуса заказа (публикуется в Kafka).
type StatusChangeEvent struct {
	OrderID    string    `json:"order_id"`
	OldStatus  Status    `json:"old_status"`
	NewStatus  Status    `json:"new_status"`
	OccurredAt time.Time `json:"occurred_at"`
}
