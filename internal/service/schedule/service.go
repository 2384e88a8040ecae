package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
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

type Config struct{}

type Service struct {
	store    *postgresrepo.Store
	cache    *redisrepo.Cache
	pubsub   *redisx.StockPubSub
	limiter  *redisrepo.SlidingWindowLimiter
	notifier *hemoamqp.Notifier
	logger   *slog.Logger
	uow      *uow.UoW
	cfg      Config
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.StockPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	notifier *hemoamqp.Notifier,
	logger *slog.Logger,
	cfg Config,
) *Service {
	return &Service{
		store:    store,
		cache:    cache,
		pubsub:   pubsub,
		limiter:  limiter,
		notifier: notifier,
		logger:   logger,
		uow:      uow.NewUoW(store),
		cfg:      cfg,
	}
}

// Book creates a scheduled appointment for a donor at a venue.
//
// Parameters:
//   - ctx: request-scoped context.
//   - venueID: venue to book at.
//   - donor: the booking donor's profile; the display name is denormalized
//     onto the appointment for schedule search.
//   - date: ISO calendar date, today or later.
//   - timeSlot: free-text time range.
//   - rlKey: rate-limit key for the caller; empty skips the limiter.
//
// Returns:
//   - *domain.Appointment: the created appointment.
//   - error: schedule.ErrInvalidDate / ErrEmptyTimeSlot on bad input.
//   - error: schedule.ErrRateLimited when the caller books too fast.
//   - error: schedule.ErrVenueNotFound if the venue does not exist.
func (s *Service) Book(
	ctx context.Context,
	venueID uuid.UUID,
	donor domain.Profile,
	date, timeSlot, rlKey string,
) (*domain.Appointment, error) {
	const op = "service.schedule.Book"

	if !domain.ValidDate(date) || date < time.Now().Format("2006-01-02") {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidDate)
	}

	timeSlot = strings.TrimSpace(timeSlot)
	if timeSlot == "" {
		return nil, fmt.Errorf("%s:%w", op, ErrEmptyTimeSlot)
	}

	if s.limiter != nil && rlKey != "" {
		ok, _, _, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s:%w", op, ErrRateLimited)
		}
	}

	if _, err := s.store.Venues().Get(ctx, venueID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrVenueNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	a := &domain.Appointment{
		ID:        uuid.New(),
		VenueID:   venueID,
		DonorID:   donor.UserID,
		DonorName: donor.DisplayName,
		Date:      date,
		TimeSlot:  timeSlot,
		Status:    domain.StatusScheduled,
	}

	if err := s.store.Appointments().Create(ctx, a); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return a, nil
}

// Complete finalizes a scheduled appointment with the blood type confirmed at
// donation time. In one transaction the appointment becomes completed, the
// venue's stock for the confirmed type goes up by exactly 1 and a donation
// row is recorded; the unique donation-per-appointment constraint makes
// double-counting structurally impossible. A terminal appointment is
// rejected, never silently accepted.
//
// Returns:
//   - *domain.Donation: the recorded donation.
//   - error: schedule.ErrInvalidBloodType if confirmedType is not one of the
//     8 labels.
//   - error: schedule.ErrAlreadyFinalized on a terminal appointment.
//   - error: schedule.ErrApptNotFound / ErrVenueNotFound / ErrNotOwner.
func (s *Service) Complete(
	ctx context.Context,
	venueID, callerID, apptID uuid.UUID,
	confirmedType string,
) (*domain.Donation, error) {
	const op = "service.schedule.Complete"

	bt, err := domain.ParseBloodType(confirmedType)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidBloodType)
	}

	var donation *domain.Donation

	err = s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		venue, err := s.ownedVenue(ctx, tx, op, venueID, callerID)
		if err != nil {
			return err
		}

		appt, err := s.store.Appointments().With(tx).Get(ctx, venueID, apptID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrApptNotFound)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		d, err := appt.Complete(bt, venue.Name, string(venue.Kind), time.Now())
		if err != nil {
			var nse domain.ErrNotScheduled
			if errors.As(err, &nse) {
				return fmt.Errorf("%s:%w", op, ErrAlreadyFinalized)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		if err := s.store.Appointments().With(tx).Complete(ctx, venueID, apptID, bt); err != nil {
			if errors.Is(err, repository.ErrNotScheduled) {
				return fmt.Errorf("%s:%w", op, ErrAlreadyFinalized)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		// the one cross-entity consistency rule: one completed appointment,
		// one increment of the confirmed type
		if _, err := s.store.Inventory().With(tx).Adjust(ctx, venueID, bt, 1); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		if err := s.store.Appointments().With(tx).InsertDonation(ctx, d); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s:%w", op, ErrDonationRecorded)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		donation = d

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateVenue(ctx, venueID)
			_ = s.pubsub.PublishStockChanged(ctx, venueID)
			s.notifyDonation(ctx, d)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return donation, nil
}

// MarkNoShow finalizes a scheduled appointment as no-show. No inventory
// effect; a terminal appointment is rejected.
//
// Returns:
//   - error: schedule.ErrAlreadyFinalized on a terminal appointment.
//   - error: schedule.ErrApptNotFound / ErrVenueNotFound / ErrNotOwner.
func (s *Service) MarkNoShow(ctx context.Context, venueID, callerID, apptID uuid.UUID) error {
	const op = "service.schedule.MarkNoShow"

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if _, err := s.ownedVenue(ctx, tx, op, venueID, callerID); err != nil {
			return err
		}

		if err := s.store.Appointments().With(tx).MarkNoShow(ctx, venueID, apptID); err != nil {
			if errors.Is(err, repository.ErrNotScheduled) {
				return fmt.Errorf("%s:%w", op, ErrAlreadyFinalized)
			}
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrApptNotFound)
			}
			return fmt.Errorf("%s:%w", op, err)
		}

		return nil
	})
}

// VenueSchedule lists a venue's appointments projected into one dashboard
// tab. The projection is recomputed per call from the full list.
//
// Returns:
//   - error: schedule.ErrVenueNotFound / ErrNotOwner.
func (s *Service) VenueSchedule(
	ctx context.Context,
	venueID, callerID uuid.UUID,
	view View,
	searchTerm string,
) ([]DayGroup, error) {
	const op = "service.schedule.VenueSchedule"

	if view != ViewActive && view != ViewPast {
		return nil, fmt.Errorf("%s: invalid view %q", op, view)
	}

	if _, err := s.ownedVenue(ctx, nil, op, venueID, callerID); err != nil {
		return nil, err
	}

	appts, err := s.store.Appointments().ListByVenue(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return BuildScheduleView(appts, view, searchTerm), nil
}

// DonorAppointments lists a donor's own appointments, newest date first.
func (s *Service) DonorAppointments(ctx context.Context, donorID uuid.UUID) ([]domain.Appointment, error) {
	const op = "service.schedule.DonorAppointments"

	out, err := s.store.Appointments().ListByDonor(ctx, donorID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// DonorDonations lists a donor's donation history.
func (s *Service) DonorDonations(ctx context.Context, donorID uuid.UUID) ([]domain.Donation, error) {
	const op = "service.schedule.DonorDonations"

	out, err := s.store.Appointments().ListDonationsByDonor(ctx, donorID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (s *Service) ownedVenue(
	ctx context.Context,
	tx postgresrepo.DB,
	op string,
	venueID, callerID uuid.UUID,
) (*domain.Venue, error) {
	repo := s.store.Venues()
	if tx != nil {
		repo = repo.With(tx)
	}

	venue, err := repo.Get(ctx, venueID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrVenueNotFound)
		}
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if venue.OwnerID != callerID {
		return nil, fmt.Errorf("%s:%w", op, ErrNotOwner)
	}

	return venue, nil
}

func (s *Service) notifyDonation(ctx context.Context, d *domain.Donation) {
	if s.notifier == nil {
		return
	}

	if err := s.notifier.PublishDonationRecorded(ctx, d); err != nil {
		s.logger.Error("donation event publish failed",
			"donation_id", d.ID,
			"error", err,
		)
	}
}
