package auth

import "github.com/BRuslanB/OrderService/internal/domain"

// IsAuthorized — правило доступа к конкретному заказу: ADMIN или владелец.
// Анонимный вызывающий всегда получает отказ (fail closed).
// Создание заказа и админский листинг этим правилом не гейтятся.
func IsAuthorized(caller domain.Principal, order *domain.Order) bool {
	if !caller.IsAuthenticated() || order == nil {
		return false
	}
	if caller.IsAdmin() {
		return true
	}
	return caller.Username == order.CustomerName
}
