// Пакет cache — схема ключей кэша ответов.
//
// Точечные записи: "order:<id>". Агрегатные представления: "orders:all"
// и "orders:f:<условия>". Каноническая форма: отсутствующий фильтр не
// попадает в ключ вовсе (пустой фильтр == "orders:all"), поэтому
// «нет фильтра» и «пустая строка в query» дают один и тот же ключ.
package cache

import (
	"strconv"
	"strings"

	"github.com/BRuslanB/OrderService/internal/domain"
)

const (
	pointPrefix = "order:"
	viewPrefix  = "orders:"

	// KeyAllOrders — представление «все заказы без фильтра».
	KeyAllOrders = viewPrefix + "all"
)

// OrderKey — точечный ключ заказа.
func OrderKey(orderID string) string { return pointPrefix + orderID }

// ListKey — ключ представления списка для данного фильтра.
// Заданные условия сериализуются в фиксированном порядке (status, min, max).
func ListKey(filter domain.OrderFilter) string {
	if filter.IsEmpty() {
		return KeyAllOrders
	}

	clauses := make([]string, 0, 3)
	if filter.Status != nil {
		clauses = append(clauses, "status="+string(*filter.Status))
	}
	if filter.MinPrice != nil {
		clauses = append(clauses, "min="+formatPrice(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		clauses = append(clauses, "max="+formatPrice(*filter.MaxPrice))
	}
	return viewPrefix + "f:" + strings.Join(clauses, "&")
}

// IsView — ключ относится к агрегатному представлению.
func IsView(key string) bool { return strings.HasPrefix(key, viewPrefix) }

// PointPattern, ViewPattern — шаблоны для массовой инвалидации (SCAN).
func PointPattern() string { return pointPrefix + "*" }
func ViewPattern() string  { return viewPrefix + "*" }

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
