package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Счётчики исходов операций над заказами.
// Инкремент не должен маскировать исходную ошибку операции.
var (
	OrderOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_operations_total",
			Help: "Order operations by name and outcome",
		},
		[]string{"op", "outcome"}, // op: create|get|list|update|status|delete; outcome: success|failure
	)
)

var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Response cache operations",
		},
		[]string{"op"}, // hit|miss|evicted|expired|invalidated
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Number of entries currently in the response cache",
		},
	)
)

var (
	TokensIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "Number of tokens issued on login",
		},
	)
	TokensRevoked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_tokens_revoked_total",
			Help: "Number of tokens revoked on logout",
		},
	)
)

var (
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_events_published_total",
			Help: "Status-change events published to Kafka",
		},
		[]string{"topic"},
	)
	EventsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_events_failed_total",
			Help: "Status-change events that failed to publish",
		},
		[]string{"topic"},
	)
)

var registerOnce sync.Once

// MustRegister — регистрирует метрики; повторный вызов безопасен.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			OrderOps,
			CacheOps, CacheSize,
			TokensIssued, TokensRevoked,
			EventsPublished, EventsFailed,
		)
	})
}

// Success — инкремент успешного исхода операции.
func Success(op string) { OrderOps.WithLabelValues(op, "success").Inc() }

// Failure — инкремент неуспешного исхода операции.
func Failure(op string) { OrderOps.WithLabelValues(op, "failure").Inc() }
