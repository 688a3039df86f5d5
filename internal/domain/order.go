package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status — статус заказа. Хранится строкой.
type Status string

const (
	StatusPending   Status = "PENDING"   // начальный статус
	StatusConfirmed Status = "CONFIRMED" // подтверждён
	StatusCancelled Status = "CANCELLED" // отменён
)

// ParseStatus — разбирает статус из строки (например, из query/body).
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
	}
}

// Product — позиция заказа. Живёт только внутри заказа:
// создаётся, обновляется и удаляется вместе с ним (replace, не merge).
type Product struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Order — заказ клиента.
// TotalPrice — производное поле: пересчитывается при каждой мутации,
// напрямую не задаётся. Deleted — монотонный флаг мягкого удаления.
type Order struct {
	OrderID      string    `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	Products     []Product `json:"products"`
	TotalPrice   float64   `json:"total_price"`
	Status       Status    `json:"status"`
	Deleted      bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewOrder — создаёт заказ для клиента: новый UID, статус PENDING,
// пересчитанная стоимость. Возвращает ошибку валидации без частичной мутации.
func NewOrder(customerName string, products []Product) (*Order, error) {
	if err := ValidateProducts(products); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &Order{
		OrderID:      uuid.New().String(),
		CustomerName: customerName,
		Products:     append([]Product(nil), products...),
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := order.CalculateTotalPrice(); err != nil {
		return nil, err
	}
	return order, nil
}

// CalculateTotalPrice — пересчитывает TotalPrice как Σ(price × quantity).
// Пустой список даёт ноль. Отрицательное количество — ошибка,
// причём TotalPrice остаётся нетронутым (проверка до присваивания).
func (o *Order) CalculateTotalPrice() error {
	for i := range o.Products {
		if o.Products[i].Quantity < 0 {
			return fmt.Errorf("%w: product %q has negative quantity %d",
				ErrInvalidInput, o.Products[i].Name, o.Products[i].Quantity)
		}
	}

	var total float64
	for i := range o.Products {
		total += o.Products[i].Price * float64(o.Products[i].Quantity)
	}
	o.TotalPrice = total
	return nil
}

// ReplaceProducts — полностью заменяет список позиций и пересчитывает
// стоимость. При ошибке заказ не меняется.
func (o *Order) ReplaceProducts(products []Product) error {
	if err := ValidateProducts(products); err != nil {
		return err
	}

	oldProducts, oldTotal := o.Products, o.TotalPrice
	o.Products = append([]Product(nil), products...)
	if err := o.CalculateTotalPrice(); err != nil {
		o.Products, o.TotalPrice = oldProducts, oldTotal
		return err
	}
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// SetStatus — безусловно переводит заказ в новый статус и возвращает
// предыдущий (для события об изменении). Граф переходов не ограничен.
func (o *Order) SetStatus(newStatus Status) Status {
	prev := o.Status
	o.Status = newStatus
	o.UpdatedAt = time.Now().UTC()
	return prev
}

// MarkDeleted — мягкое удаление; обратного перехода нет.
func (o *Order) MarkDeleted() {
	o.Deleted = true
	o.UpdatedAt = time.Now().UTC()
}

// ValidateProducts — входная валидация позиций заказа:
// список не пуст, имя не пустое, цена > 0, количество >= 1.
func ValidateProducts(products []Product) error {
	if len(products) == 0 {
		return fmt.Errorf("%w: products must not be empty", ErrInvalidInput)
	}
	for i := range products {
		p := &products[i]
		if p.Name == "" {
			return fmt.Errorf("%w: products[%d].name is required", ErrInvalidInput, i)
		}
		if p.Price <= 0 {
			return fmt.Errorf("%w: products[%d].price must be positive", ErrInvalidInput, i)
		}
		if p.Quantity < 1 {
			return fmt.Errorf("%w: products[%d].quantity must be >= 1", ErrInvalidInput, i)
		}
	}
	return nil
}
