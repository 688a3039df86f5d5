package rest

import (
	"errors"
	"net/http"

	"github.com/BRuslanB/OrderService/internal/domain"
	"github.com/gin-gonic/gin"
)

// respondError — единая точка перевода доменных ошибок в HTTP-статусы.
// Неклассифицированные ошибки (сбои БД, брокера, нарушенные предусловия)
// отдаются как 500 без деталей; подробности остаются в логах.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	default:
		h.log.Errorf(c.Request.Context(), "request failed path=%s err=%v", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
