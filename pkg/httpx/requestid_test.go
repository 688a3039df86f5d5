package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BRuslanB/OrderService/pkg/ctxmeta"
	"github.com/BRuslanB/OrderService/pkg/httpx"
	"github.com/gin-gonic/gin"
)

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	r := gin.New()
	r.Use(httpx.RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		seen, _ = ctxmeta.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", http.NoBody))

	if seen == "" {
		t.Fatalf("request_id must be generated and put into context")
	}
	if got := w.Header().Get("X-Request-ID"); got != seen {
		t.Fatalf("response header = %q, context value = %q", got, seen)
	}
}

func TestRequestIDMiddleware_KeepsClientID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(httpx.RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.Header.Set("X-Request-ID", "client-id-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "client-id-1" {
		t.Fatalf("client request id must be preserved, got %q", got)
	}
}
