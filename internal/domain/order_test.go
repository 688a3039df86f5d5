package domain_test

import (
	"errors"
	"testing"

	"github.com/BRuslanB/OrderService/internal/domain"
)

func TestNewOrder(t *testing.T) {
	order, err := domain.NewOrder("ivan", []domain.Product{{Name: "A", Price: 100, Quantity: 2}})
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}
	if order.OrderID == "" {
		t.Fatal("expected generated order id")
	}
	if order.Status != domain.StatusPending {
		t.Fatalf("status: got %q, want %q", order.Status, domain.StatusPending)
	}
	if order.TotalPrice != 200 {
		t.Fatalf("total: got %v, want 200", order.TotalPrice)
	}
	if order.Deleted {
		t.Fatal("new order must not be deleted")
	}
	if order.CreatedAt.IsZero() || !order.CreatedAt.Equal(order.UpdatedAt) {
		t.Fatalf("timestamps: created=%v updated=%v", order.CreatedAt, order.UpdatedAt)
	}
}

func TestNewOrder_InvalidProducts(t *testing.T) {
	_, err := domain.NewOrder("ivan", nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestNewOrder_CopiesProducts(t *testing.T) {
	src := []domain.Product{{Name: "A", Price: 100, Quantity: 2}}
	order, err := domain.NewOrder("ivan", src)
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}

	src[0].Price = 1
	if order.Products[0].Price != 100 {
		t.Fatal("order must own a copy of the products slice")
	}
}

func TestCalculateTotalPrice(t *testing.T) {
	order := domain.Order{Products: []domain.Product{
		{Name: "A", Price: 100, Quantity: 2},
		{Name: "B", Price: 50, Quantity: 3},
	}}
	if err := order.CalculateTotalPrice(); err != nil {
		t.Fatalf("CalculateTotalPrice: %v", err)
	}
	if order.TotalPrice != 350 {
		t.Fatalf("total: got %v, want 350", order.TotalPrice)
	}

	// пустой список — ноль
	order.Products = nil
	if err := order.CalculateTotalPrice(); err != nil {
		t.Fatalf("CalculateTotalPrice: %v", err)
	}
	if order.TotalPrice != 0 {
		t.Fatalf("total: got %v, want 0", order.TotalPrice)
	}
}

// Отрицательное количество: ошибка до присваивания, итог не трогается.
func TestCalculateTotalPrice_NegativeQuantityKeepsTotal(t *testing.T) {
	order := domain.Order{
		TotalPrice: 200,
		Products: []domain.Product{
			{Name: "A", Price: 100, Quantity: 2},
			{Name: "B", Price: 50, Quantity: -1},
		},
	}

	err := order.CalculateTotalPrice()
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
	if order.TotalPrice != 200 {
		t.Fatalf("total changed on error: got %v, want 200", order.TotalPrice)
	}
}

func TestReplaceProducts(t *testing.T) {
	order, err := domain.NewOrder("ivan", []domain.Product{{Name: "A", Price: 100, Quantity: 2}})
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}

	if err := order.ReplaceProducts([]domain.Product{{Name: "B", Price: 50, Quantity: 1}}); err != nil {
		t.Fatalf("ReplaceProducts: %v", err)
	}
	if order.TotalPrice != 50 {
		t.Fatalf("total: got %v, want 50", order.TotalPrice)
	}
	if len(order.Products) != 1 || order.Products[0].Name != "B" {
		t.Fatalf("products: got %+v", order.Products)
	}
}

func TestReplaceProducts_InvalidKeepsOrder(t *testing.T) {
	order, err := domain.NewOrder("ivan", []domain.Product{{Name: "A", Price: 100, Quantity: 2}})
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}

	err = order.ReplaceProducts([]domain.Product{{Name: "", Price: 50, Quantity: 1}})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
	if order.TotalPrice != 200 || order.Products[0].Name != "A" {
		t.Fatalf("order mutated on error: total=%v products=%+v", order.TotalPrice, order.Products)
	}
}

func TestSetStatus_ReturnsPrevious(t *testing.T) {
	order, err := domain.NewOrder("ivan", []domain.Product{{Name: "A", Price: 100, Quantity: 2}})
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}

	prev := order.SetStatus(domain.StatusConfirmed)
	if prev != domain.StatusPending {
		t.Fatalf("prev: got %q, want %q", prev, domain.StatusPending)
	}
	if order.Status != domain.StatusConfirmed {
		t.Fatalf("status: got %q, want %q", order.Status, domain.StatusConfirmed)
	}

	// граф переходов не ограничен: из CANCELLED можно вернуться
	order.SetStatus(domain.StatusCancelled)
	if prev := order.SetStatus(domain.StatusPending); prev != domain.StatusCancelled {
		t.Fatalf("prev: got %q, want %q", prev, domain.StatusCancelled)
	}
}

func TestMarkDeleted(t *testing.T) {
	order, err := domain.NewOrder("ivan", []domain.Product{{Name: "A", Price: 100, Quantity: 2}})
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}

	order.MarkDeleted()
	if !order.Deleted {
		t.Fatal("expected deleted flag")
	}
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"PENDING", "CONFIRMED", "CANCELLED"} {
		status, err := domain.ParseStatus(valid)
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", valid, err)
		}
		if string(status) != valid {
			t.Fatalf("ParseStatus(%q): got %q", valid, status)
		}
	}

	for _, invalid := range []string{"", "pending", "SHIPPED"} {
		if _, err := domain.ParseStatus(invalid); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("ParseStatus(%q): got %v, want ErrInvalidInput", invalid, err)
		}
	}
}

func TestValidateProducts(t *testing.T) {
	cases := []struct {
		name     string
		products []domain.Product
		wantErr  bool
	}{
		{"valid", []domain.Product{{Name: "A", Price: 10, Quantity: 1}}, false},
		{"empty list", nil, true},
		{"missing name", []domain.Product{{Price: 10, Quantity: 1}}, true},
		{"zero price", []domain.Product{{Name: "A", Price: 0, Quantity: 1}}, true},
		{"negative price", []domain.Product{{Name: "A", Price: -5, Quantity: 1}}, true},
		{"zero quantity", []domain.Product{{Name: "A", Price: 10, Quantity: 0}}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := domain.ValidateProducts(tc.products)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrInvalidInput) {
					t.Fatalf("got %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
