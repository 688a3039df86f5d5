package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/BRuslanB/OrderService/config"
	"github.com/BRuslanB/OrderService/internal/auth"
	cachemem "github.com/BRuslanB/OrderService/internal/cache/memory"
	"github.com/BRuslanB/OrderService/internal/cache/rediscache"
	"github.com/BRuslanB/OrderService/internal/kafka"
	"github.com/BRuslanB/OrderService/internal/ports"
	"github.com/BRuslanB/OrderService/internal/repo/postgres"
	"github.com/BRuslanB/OrderService/internal/tokenstore"
	rest "github.com/BRuslanB/OrderService/internal/transport/http"
	"github.com/BRuslanB/OrderService/internal/usecase"
	"github.com/BRuslanB/OrderService/pkg/logger"
	"github.com/BRuslanB/OrderService/pkg/metrics"
	"github.com/BRuslanB/OrderService/pkg/telemetry"
	"github.com/gin-gonic/gin"
)

// App — собранное приложение и его внешние интерфейсы.
type App struct {
	Logger          ports.Logger // логгер
	HTTPServer      *http.Server // HTTP-сервер
	gracefulTimeout time.Duration
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Пул подключений Postgres.
	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
		return nil, func() {}, err
	}

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	// Кэш ответов и денилист токенов: Redis, либо in-process при выключенном Redis.
	var (
		responseCache ports.ResponseCache
		denylist      ports.TokenDenylist
		closeRedis    = func() {}
	)
	if cfg.Redis.Enabled {
		client, rErr := rediscache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if rErr != nil {
			pool.Close()
			if cErr := cleanupLogger(); cErr != nil {
				logg.Warnf(ctx, "cleanup logger: %v", cErr)
			}
			return nil, func() {}, rErr
		}
		responseCache = rediscache.NewResponseCache(client, cfg.Cache.TTL)
		denylist = tokenstore.NewRedisDenylist(client)
		closeRedis = func() {
			if err := client.Close(); err != nil {
				logg.Warnf(ctx, "redis close error: %v", err)
			}
		}
		logg.Infof(ctx, "redis cache enabled addr=%s db=%d", cfg.Redis.Addr, cfg.Redis.DB)
	} else {
		responseCache = cachemem.NewResponseCache(cfg.Cache.Capacity, cfg.Cache.TTL)
		denylist = tokenstore.NewMemoryDenylist()
		logg.Infof(ctx, "in-process cache enabled capacity=%d ttl=%s", cfg.Cache.Capacity, cfg.Cache.TTL)
	}

	// Продьюсер событий о смене статуса (может быть выключен).
	var producer ports.EventProducer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(&kafka.ProducerConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		}, logg)
	}

	// Сборка зависимостей доменного слоя.
	tokens := auth.NewTokenProvider(cfg.JWT.Secret, cfg.JWT.TTL, denylist)
	orderRepo := postgres.NewOrderRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	orderService := usecase.NewOrderService(orderRepo, responseCache, producer, logg)
	authService := usecase.NewAuthService(userRepo, tokens, logg)

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	httpHandler := rest.NewHandler(orderService, authService, tokens, logg)
	router := rest.NewRouter(httpHandler, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		if producer != nil {
			if err := producer.Close(); err != nil {
				logg.Warnf(ctx, "kafka producer close error: %v", err)
			}
		}
		closeRedis()
		pool.Close()
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}

	return app, cleanup, nil
}

// Run — запускает HTTP-сервер; ждёт отмены контекста или ошибки и останавливает его.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	// Запуск HTTP-сервера.
	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Ожидание сигнала остановки или фоновой ошибки.
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		a.Logger.Warnf(ctx, "background error: %v", err)
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-сервера.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}
