package service

import (
	"log/slog"

	hemoamqp "github.com/kirinyoku/hemolink/internal/amqp"
	"github.com/kirinyoku/hemolink/internal/geocode"
	redisx "github.com/kirinyoku/hemolink/internal/redis"
	postgres "github.com/kirinyoku/hemolink/internal/repository/postgres"
	redis "github.com/kirinyoku/hemolink/internal/repository/redis"
	"github.com/kirinyoku/hemolink/internal/service/auth"
	"github.com/kirinyoku/hemolink/internal/service/camps"
	"github.com/kirinyoku/hemolink/internal/service/inventory"
	"github.com/kirinyoku/hemolink/internal/service/schedule"
	"github.com/kirinyoku/hemolink/internal/service/venues"
)

type Services struct {
	Auth      *auth.Service
	Venues    *venues.Service
	Inventory *inventory.Service
	Schedule  *schedule.Service
	Camps     *camps.Service
}

type Config struct {
	Auth      auth.Config
	Venues    venues.Config
	Inventory inventory.Config
	Schedule  schedule.Config
	Camps     camps.Config
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	sessions *redis.SessionStore,
	pubsub *redisx.StockPubSub,
	limiter *redis.SlidingWindowLimiter,
	notifier *hemoamqp.Notifier,
	geocoder *geocode.Client,
	logger *slog.Logger,
	cfg Config,
) *Services {
	return &Services{
		Auth:      auth.New(store, sessions, cfg.Auth),
		Venues:    venues.New(store, cache, geocoder, cfg.Venues),
		Inventory: inventory.New(store, cache, pubsub, notifier, logger, cfg.Inventory),
		Schedule:  schedule.New(store, cache, pubsub, limiter, notifier, logger, cfg.Schedule),
		Camps:     camps.New(store, cache, geocoder, cfg.Camps),
	}
}
