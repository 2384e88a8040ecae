package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	hemoamqp "github.com/kirinyoku/hemolink/internal/amqp"
	"github.com/kirinyoku/hemolink/internal/config"
	"github.com/kirinyoku/hemolink/internal/geocode"
	"github.com/kirinyoku/hemolink/internal/postgres"
	"github.com/kirinyoku/hemolink/internal/redis"
	postgresrepo "github.com/kirinyoku/hemolink/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/hemolink/internal/repository/redis"
	"github.com/kirinyoku/hemolink/internal/service"
	"github.com/kirinyoku/hemolink/internal/service/auth"
	httpgin "github.com/kirinyoku/hemolink/internal/transport/http/gin"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	notifier   *hemoamqp.Notifier
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize dependencies
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redis.New(context.Background(), redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	sessions := redisrepo.NewSessionStore(rdb, cfg.Session.TTL)
	pubsub := redis.NewStockPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, redisrepo.KeyRateLimit("book"), 10, 1*time.Minute)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)

	// Event publishing is best-effort: the API stays up without the broker.
	notifier := hemoamqp.NewNotifier(hemoamqp.Config{URL: cfg.AMQP.URL}, logger)
	if err := notifier.Connect(); err != nil {
		logger.Warn("amqp unavailable, events disabled", "error", err)
	}

	geocoder := geocode.NewClient(geocode.Config{
		BaseURL:   cfg.Geocode.BaseURL,
		UserAgent: cfg.Geocode.UserAgent,
	})
	resolver := geocode.NewResolver(geocoder)

	// Initialize services
	services := service.NewServices(store, cache, sessions, pubsub, limiter, notifier, geocoder, logger, service.Config{
		Auth: auth.Config{},
	})

	// Initialize Gin router
	router := httpgin.NewRouter(services, idempotencyStore, resolver, logger)

	return &App{
		cfg:      cfg,
		logger:   logger,
		notifier: notifier,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		if err := a.notifier.Close(); err != nil {
			a.logger.Warn("amqp close failed", "error", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
