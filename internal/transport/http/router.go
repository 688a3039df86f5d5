package rest

import (
	"context"

	"github.com/BRuslanB/OrderService/internal/domain"
	"github.com/BRuslanB/OrderService/internal/ports"
	"github.com/BRuslanB/OrderService/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// tokenVerifier — сужение провайдера токенов до проверки;
// транспорту не нужны выпуск и отзыв.
type tokenVerifier interface {
	Verify(ctx context.Context, token string) (domain.Principal, error)
}

type Handler struct {
	orders ports.OrderService
	auth   ports.AuthService
	tokens tokenVerifier
	log    ports.Logger
}

func NewHandler(orders ports.OrderService, auth ports.AuthService, tokens tokenVerifier, log ports.Logger) *Handler {
	return &Handler{orders: orders, auth: auth, tokens: tokens, log: log}
}

// NewRouter — сборка маршрутов.
// Маршруты /auth/* открыты; /orders/* требуют аутентификации,
// разграничение «владелец/ADMIN» выполняет прикладной слой.
// Непустой otelService включает otelgin-спаны на каждый запрос.
func NewRouter(h *Handler, otelService string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if otelService != "" {
		r.Use(otelgin.Middleware(otelService))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", h.signup)
		authGroup.POST("/login", h.login)
		authGroup.POST("/logout", h.logout)
	}

	orders := r.Group("/orders", h.authenticate(), h.requireAuth())
	{
		orders.POST("", h.createOrder)
		orders.GET("", h.listOrders)
		orders.GET("/:id", h.getOrder)
		orders.PUT("/:id", h.updateOrder)
		orders.PATCH("/:id/status", h.updateOrderStatus)
		orders.DELETE("/:id", h.deleteOrder)
	}

	return r
}
