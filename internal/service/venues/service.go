package venues

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/hemolink/internal/domain"
	"github.com/kirinyoku/hemolink/internal/geocode"
	"github.com/kirinyoku/hemolink/internal/repository"
	postgresrepo "github.com/kirinyoku/hemolink/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/hemolink/internal/repository/redis"
	"github.com/kirinyoku/hemolink/internal/uow"
)

type Config struct {
	VenueTTL    time.Duration
	ListTTL     time.Duration
	DefaultPage int
	MaxPage     int
}

type Service struct {
	store   *postgresrepo.Store
	cache   *redisrepo.Cache
	geocode *geocode.Client
	uow     *uow.UoW
	cfg     Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, gc *geocode.Client, cfg Config) *Service {
	if cfg.VenueTTL <= 0 {
		cfg.VenueTTL = 60 * time.Second
	}

	if cfg.ListTTL <= 0 {
		cfg.ListTTL = 30 * time.Second
	}

	if cfg.DefaultPage <= 0 {
		cfg.DefaultPage = 50
	}

	if cfg.MaxPage <= 0 {
		cfg.MaxPage = 200
	}

	return &Service{
		store:   store,
		cache:   cache,
		geocode: gc,
		uow:     uow.NewUoW(store),
		cfg:     cfg,
	}
}

// Create registers a venue under its owner and seeds the zeroed inventory for
// all blood types in the same transaction. When the submitted address is
// blank it is resolved by reverse geocoding, falling back to the coordinate
// label.
//
// Returns:
//   - *domain.Venue: the created venue.
//   - error: venues.ErrVenueConflict if the owner already has a venue with
//     that name.
func (s *Service) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	name, kind, address string,
	lat, lng float64,
) (*domain.Venue, error) {
	const op = "service.venues.Create"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s: empty name", op)
	}

	k := domain.VenueKind(kind)
	if k != domain.VenueHospital && k != domain.VenueCamp {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidKind)
	}

	address = strings.TrimSpace(address)
	if address == "" {
		resolved, err := s.geocode.Reverse(ctx, lat, lng)
		if err != nil {
			resolved = geocode.FallbackLabel(lat, lng)
		}
		address = resolved
	}

	v := &domain.Venue{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    name,
		Kind:    k,
		Address: address,
		Lat:     lat,
		Lng:     lng,
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Venues().With(tx).Create(ctx, v); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s:%w", op, ErrVenueConflict)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.Del(ctx, redisrepo.KeyVenueList(s.cfg.DefaultPage, 0))
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return v, nil
}

// Get retrieves a venue through the cache.
//
// Returns:
//   - error: venues.ErrVenueNotFound if it does not exist.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Venue, error) {
	const op = "service.venues.Get"

	v, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyVenue(id),
		s.cfg.VenueTTL,
		func(ctx context.Context) (domain.Venue, error) {
			got, err := s.store.Venues().Get(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.Venue{}, ErrVenueNotFound
				}
				return domain.Venue{}, err
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

	return &v, nil
}

// List returns venues for discovery, cached per page.
func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Venue, error) {
	const op = "service.venues.List"

	if limit <= 0 {
		limit = s.cfg.DefaultPage
	}
	if limit > s.cfg.MaxPage {
		limit = s.cfg.MaxPage
	}
	if offset < 0 {
		offset = 0
	}

	out, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyVenueList(limit, offset),
		s.cfg.ListTTL,
		func(ctx context.Context) ([]domain.Venue, error) {
			return s.store.Venues().List(ctx, limit, offset)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
