//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/BRuslanB/OrderService/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// Мини-генератор валидного заказа
func MakeOrder(opts ...func(*domain.Order)) domain.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)

	o := domain.Order{
		OrderID:      "ord-" + UniqSuffix(),
		CustomerName: "cust-" + UniqSuffix(),
		Products: []domain.Product{
			{Name: "Widget", Price: 100, Quantity: 2},
		},
		TotalPrice: 200,
		Status:     domain.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func WithCustomer(name string) func(*domain.Order) {
	return func(o *domain.Order) { o.CustomerName = name }
}

func WithStatus(status domain.Status) func(*domain.Order) {
	return func(o *domain.Order) { o.Status = status }
}

func WithDeleted() func(*domain.Order) {
	return func(o *domain.Order) { o.Deleted = true }
}

func WithProducts(n int) func(*domain.Order) {
	return func(o *domain.Order) {
		o.Products = make([]domain.Product, 0, n)
		var total float64
		for i := 0; i < n; i++ {
			p := domain.Product{
				Name:     "Item-" + UniqSuffix(),
				Price:    10 * float64(i+1),
				Quantity: i + 1,
			}
			total += p.Price * float64(p.Quantity)
			o.Products = append(o.Products, p)
		}
		o.TotalPrice = total
	}
}

// Мини-генератор пользователя (хэш должен подготовить сам тест).
func MakeUser(hash string, roles ...domain.Role) domain.User {
	suffix := UniqSuffix()
	if len(roles) == 0 {
		roles = []domain.Role{domain.RoleUser}
	}
	return domain.User{
		Username:     "user-" + suffix,
		PasswordHash: hash,
		Email:        "user-" + suffix + "@example.com",
		Enabled:      true,
		Roles:        roles,
	}
}
