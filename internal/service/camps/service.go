package camps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/hemolink/internal/domain"
	"github.com/kirinyoku/hemolink/internal/geocode"
	postgresrepo "github.com/kirinyoku/hemolink/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/hemolink/internal/repository/redis"
)

type Config struct {
	UpcomingTTL time.Duration
}

type Service struct {
	store   *postgresrepo.Store
	cache   *redisrepo.Cache
	geocode *geocode.Client
	cfg     Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, gc *geocode.Client, cfg Config) *Service {
	if cfg.UpcomingTTL <= 0 {
		cfg.UpcomingTTL = 60 * time.Second
	}

	return &Service{
		store:   store,
		cache:   cache,
		geocode: gc,
		cfg:     cfg,
	}
}

// CampFields carries the organizer's submission for a new camp.
type CampFields struct {
	Name      string
	Organizer string
	Contact   string
	Address   string
	Date      string
	StartTime string
	EndTime   string
	Lat       float64
	Lng       float64
}

// Create publishes a donation camp. Camps are write-once. When the submitted
// address is blank the display address comes from reverse geocoding the
// picked coordinate; a geocoding failure degrades to the coordinate label
// and never fails the creation.
//
// Returns:
//   - *domain.DonationCamp: the created camp.
//   - error: camps.ErrMissingFields / ErrInvalidDate / ErrInvalidTime on bad
//     input.
func (s *Service) Create(ctx context.Context, organizerID uuid.UUID, f CampFields) (*domain.DonationCamp, error) {
	const op = "service.camps.Create"

	f.Name = strings.TrimSpace(f.Name)
	f.Organizer = strings.TrimSpace(f.Organizer)
	if f.Name == "" || f.Organizer == "" || strings.TrimSpace(f.Contact) == "" {
		return nil, fmt.Errorf("%s:%w", op, ErrMissingFields)
	}

	if !domain.ValidDate(f.Date) {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidDate)
	}

	if strings.TrimSpace(f.StartTime) == "" || strings.TrimSpace(f.EndTime) == "" {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidTime)
	}

	address := strings.TrimSpace(f.Address)
	if address == "" {
		resolved, err := s.geocode.Reverse(ctx, f.Lat, f.Lng)
		if err != nil {
			resolved = geocode.FallbackLabel(f.Lat, f.Lng)
		}
		address = resolved
	}

	c := &domain.DonationCamp{
		ID:          uuid.New(),
		OrganizerID: organizerID,
		Name:        f.Name,
		Organizer:   f.Organizer,
		Contact:     strings.TrimSpace(f.Contact),
		Address:     address,
		Date:        f.Date,
		StartTime:   strings.TrimSpace(f.StartTime),
		EndTime:     strings.TrimSpace(f.EndTime),
		Lat:         f.Lat,
		Lng:         f.Lng,
	}

	if err := s.store.Camps().Create(ctx, c); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	_ = s.cache.Del(ctx, redisrepo.KeyUpcomingCamps(time.Now().Format("2006-01-02")))

	return c, nil
}

// Upcoming returns camps dated today or later, ascending. The read path is
// cached per day so the key rolls over at midnight with the projection.
func (s *Service) Upcoming(ctx context.Context) ([]domain.DonationCamp, error) {
	const op = "service.camps.Upcoming"

	today := time.Now().Format("2006-01-02")

	out, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyUpcomingCamps(today),
		s.cfg.UpcomingTTL,
		func(ctx context.Context) ([]domain.DonationCamp, error) {
			all, err := s.store.Camps().List(ctx)
			if err != nil {
				return nil, err
			}
			return UpcomingCamps(all, today), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
