package rest

import (
	"net/http"

	"github.com/BRuslanB/OrderService/internal/auth"
	"github.com/BRuslanB/OrderService/internal/domain"
	"github.com/BRuslanB/OrderService/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
)

// principalKey — ключ принципала в контексте gin.
const principalKey = "principal"

// authenticate — разбирает Authorization и проверяет токен.
// Запрос без токена проходит дальше анонимным: решение о доступе
// принимает requireAuth или прикладной слой. Невалидный токен — отказ сразу.
func (h *Handler) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.ResolveBearer(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}

		principal, err := h.tokens.Verify(c.Request.Context(), token)
		if err != nil {
			h.log.Warnf(c.Request.Context(), "token rejected err=%v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(principalKey, principal)
		ctx := ctxmeta.WithSubject(c.Request.Context(), principal.Username)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// requireAuth — закрывает группу маршрутов от анонимов.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !callerFrom(c).IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// callerFrom — принципал текущего запроса; аноним, если токена не было.
func callerFrom(c *gin.Context) domain.Principal {
	if v, ok := c.Get(principalKey); ok {
		if principal, ok := v.(domain.Principal); ok {
			return principal
		}
	}
	return domain.Anonymous
}
