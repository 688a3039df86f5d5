package cache_test

import (
	"testing"

	"github.com/BRuslanB/OrderService/internal/cache"
	"github.com/BRuslanB/OrderService/internal/domain"
)

func strPtr(s domain.Status) *domain.Status { return &s }
func f64Ptr(v float64) *float64             { return &v }

func TestOrderKey(t *testing.T) {
	if got := cache.OrderKey("abc-123"); got != "order:abc-123" {
		t.Fatalf("OrderKey: got %q", got)
	}
}

func TestListKey_EmptyFilterIsCanonical(t *testing.T) {
	// Отсутствующие фильтры дают один и тот же ключ независимо от представления.
	empty := domain.OrderFilter{}
	if got := cache.ListKey(empty); got != cache.KeyAllOrders {
		t.Fatalf("empty filter: got %q, want %q", got, cache.KeyAllOrders)
	}
}

func TestListKey_FixedClauseOrder(t *testing.T) {
	f := domain.OrderFilter{
		Status:   strPtr(domain.StatusConfirmed),
		MinPrice: f64Ptr(100),
		MaxPrice: f64Ptr(500.5),
	}
	want := "orders:f:status=CONFIRMED&min=100&max=500.5"
	if got := cache.ListKey(f); got != want {
		t.Fatalf("ListKey: got %q, want %q", got, want)
	}
}

func TestListKey_PartialFilters(t *testing.T) {
	onlyMin := domain.OrderFilter{MinPrice: f64Ptr(100)}
	if got := cache.ListKey(onlyMin); got != "orders:f:min=100" {
		t.Fatalf("min-only: got %q", got)
	}

	onlyStatus := domain.OrderFilter{Status: strPtr(domain.StatusPending)}
	if got := cache.ListKey(onlyStatus); got != "orders:f:status=PENDING" {
		t.Fatalf("status-only: got %q", got)
	}

	// Разные комбинации параметров — разные записи кэша.
	if cache.ListKey(onlyMin) == cache.ListKey(onlyStatus) {
		t.Fatalf("different filters must not share a key")
	}
}

func TestIsView(t *testing.T) {
	if !cache.IsView(cache.KeyAllOrders) {
		t.Fatalf("all-orders key must be a view")
	}
	if !cache.IsView(cache.ListKey(domain.OrderFilter{MinPrice: f64Ptr(1)})) {
		t.Fatalf("filtered key must be a view")
	}
	if cache.IsView(cache.OrderKey("id-1")) {
		t.Fatalf("point key must not be a view")
	}
}
