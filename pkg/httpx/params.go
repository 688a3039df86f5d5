package httpx

import (
	"fmt"
	"strconv"

	"github.com/BRuslanB/OrderService/internal/domain"
	"github.com/gin-gonic/gin"
)

// ParseOrderFilter - читает status/min_price/max_price из query.
// Пустое значение параметра означает отсутствие ограничения;
// нечисловая цена или неизвестный статус — ошибка валидации.
func ParseOrderFilter(c *gin.Context) (domain.OrderFilter, error) {
	var filter domain.OrderFilter

	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return domain.OrderFilter{}, err
		}
		filter.Status = &status
	}

	if raw := c.Query("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.OrderFilter{}, fmt.Errorf("%w: min_price must be a number", domain.ErrInvalidInput)
		}
		filter.MinPrice = &v
	}

	if raw := c.Query("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.OrderFilter{}, fmt.Errorf("%w: max_price must be a number", domain.ErrInvalidInput)
		}
		filter.MaxPrice = &v
	}

	return filter, nil
}
