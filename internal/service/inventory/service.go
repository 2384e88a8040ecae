package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	hemoamqp "github.com/kirinyoku/hemolink/internal/amqp"
	"github.com/kirinyoku/hemolink/internal/domain"
	redisx "github.com/kirinyoku/hemolink/internal/redis"
	"github.com/kirinyoku/hemolink/internal/repository"
	postgresrepo "github.com/kirinyoku/hemolink/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/hemolink/internal/repository/redis"
	"github.com/kirinyoku/hemolink/internal/uow"
)

type Config struct {
	SnapshotTTL time.Duration
	// MaxAdjust caps |delta| on a single reconciliation request. The UI
	// adjusts ±1 per click; anything far beyond that is a typo, not a
	// restock.
	MaxAdjust int
}

type Service struct {
	store    *postgresrepo.Store
	cache    *redisrepo.Cache
	pubsub   *redisx.StockPubSub
	notifier *hemoamqp.Notifier
	logger   *slog.Logger
	uow      *uow.UoW
	cfg      Config
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.StockPubSub,
	notifier *hemoamqp.Notifier,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if cfg.SnapshotTTL <= 0 {
		cfg.SnapshotTTL = 15 * time.Second
	}

	if cfg.MaxAdjust <= 0 {
		cfg.MaxAdjust = 50
	}

	return &Service{
		store:    store,
		cache:    cache,
		pubsub:   pubsub,
		notifier: notifier,
		logger:   logger,
		uow:      uow.NewUoW(store),
		cfg:      cfg,
	}
}

// Adjust applies a signed delta to one blood type of a venue's inventory.
// The count can never go negative; a rejected delta mutates nothing. On
// success the venue cache is invalidated, stock_changed fires on pub/sub and
// a stock alert is published when the type drops to critical.
//
// Parameters:
//   - ctx: request-scoped context.
//   - venueID: venue whose stock is reconciled.
//   - callerID: must own the venue.
//   - bloodType: one of the 8 labels.
//   - delta: signed amount, conventionally ±1.
//
// Returns:
//   - *domain.InventoryRecord: the full record after the adjustment.
//   - error: inventory.ErrInvalidBloodType / ErrDeltaTooLarge on bad input.
//   - error: inventory.ErrNegativeStock when the delta is rejected.
//   - error: inventory.ErrNotOwner / ErrVenueNotFound on ownership failures.
func (s *Service) Adjust(
	ctx context.Context,
	venueID, callerID uuid.UUID,
	bloodType string,
	delta int,
) (*domain.InventoryRecord, error) {
	const op = "service.inventory.Adjust"

	bt, err := domain.ParseBloodType(bloodType)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidBloodType)
	}

	if delta == 0 {
		return nil, fmt.Errorf("%s: zero delta", op)
	}

	if delta > s.cfg.MaxAdjust || delta < -s.cfg.MaxAdjust {
		return nil, fmt.Errorf("%s:%w", op, ErrDeltaTooLarge)
	}

	var rec *domain.InventoryRecord

	err = s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		owns, err := s.store.Venues().With(tx).IsOwner(ctx, venueID, callerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrVenueNotFound)
			}
			return fmt.Errorf("%s:%w", op, err)
		}
		if !owns {
			return fmt.Errorf("%s:%w", op, ErrNotOwner)
		}

		count, err := s.store.Inventory().With(tx).Adjust(ctx, venueID, bt, delta)
		if err != nil {
			if errors.Is(err, repository.ErrNegativeStock) {
				return fmt.Errorf("%s:%w", op, ErrNegativeStock)
			}
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrVenueNotFound)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		rec, err = s.store.Inventory().With(tx).Get(ctx, venueID)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateVenue(ctx, venueID)
			_ = s.pubsub.PublishStockChanged(ctx, venueID)

			if domain.LevelForCount(count) == domain.LevelCritical {
				s.alert(ctx, venueID, bt, count)
			}
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// Snapshot returns the venue's inventory through the cache.
//
// Returns:
//   - error: inventory.ErrVenueNotFound if the venue has no inventory.
func (s *Service) Snapshot(ctx context.Context, venueID uuid.UUID) (*domain.InventoryRecord, error) {
	const op = "service.inventory.Snapshot"

	rec, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyVenueInventory(venueID),
		s.cfg.SnapshotTTL,
		func(ctx context.Context) (domain.InventoryRecord, error) {
			got, err := s.store.Inventory().Get(ctx, venueID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.InventoryRecord{}, ErrVenueNotFound
				}
				return domain.InventoryRecord{}, err
			}
			return *got, nil
		},
	)
	if err != nil {
		if errors.Is(err, ErrVenueNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrVenueNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &rec, nil
}

func (s *Service) alert(ctx context.Context, venueID uuid.UUID, bt domain.BloodType, count int) {
	if s.notifier == nil {
		return
	}

	if err := s.notifier.PublishStockAlert(ctx, venueID, bt, count); err != nil {
		s.logger.Error("stock alert publish failed",
			"venue_id", venueID,
			"blood_type", bt,
			"error", err,
		)
	}
}
