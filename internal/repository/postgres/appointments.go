package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/hemolink/internal/domain"
	"github.com/kirinyoku/hemolink/internal/repository"
)

type AppointmentRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *AppointmentRepo) With(db DB) *AppointmentRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *AppointmentRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const apptColumns = `id, venue_id, donor_id, donor_name, date, time_slot, status, confirmed_type, created_at`

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var a domain.Appointment
	var confirmed *string

	err := row.Scan(
		&a.ID,
		&a.VenueID,
		&a.DonorID,
		&a.DonorName,
		&a.Date,
		&a.TimeSlot,
		&a.Status,
		&confirmed,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if confirmed != nil {
		a.ConfirmedType = domain.BloodType(*confirmed)
	}

	return &a, nil
}

// Create inserts a scheduled appointment.
func (r *AppointmentRepo) Create(ctx context.Context, a *domain.Appointment) error {
	const op = "postgres.AppointmentRepo.Create"

	db := r.handle()

	_, err := db.Exec(ctx,
		`INSERT INTO appointments(id, venue_id, donor_id, donor_name, date, time_slot, status)
       	 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.VenueID, a.DonorID, a.DonorName, a.Date, a.TimeSlot, a.Status,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// Get retrieves an appointment scoped to a venue.
//
// Returns:
//   - error: repository.ErrNotFound if the appointment does not exist under
//     that venue.
func (r *AppointmentRepo) Get(ctx context.Context, venueID, apptID uuid.UUID) (*domain.Appointment, error) {
	const op = "postgres.AppointmentRepo.Get"

	db := r.handle()

	a, err := scanAppointment(db.QueryRow(ctx,
		`SELECT `+apptColumns+`
       	 FROM appointments
      	 WHERE id = $1 AND venue_id = $2`,
		apptID, venueID,
	))
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return a, nil
}

// ListByVenue returns a venue's appointments in insertion order per date.
func (r *AppointmentRepo) ListByVenue(ctx context.Context, venueID uuid.UUID) ([]domain.Appointment, error) {
	const op = "postgres.AppointmentRepo.ListByVenue"

	return r.list(ctx, op,
		`SELECT `+apptColumns+`
       	 FROM appointments
      	 WHERE venue_id = $1
      	 ORDER BY created_at`,
		venueID,
	)
}

// ListByDonor returns a donor's appointments, newest date first.
func (r *AppointmentRepo) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]domain.Appointment, error) {
	const op = "postgres.AppointmentRepo.ListByDonor"

	return r.list(ctx, op,
		`SELECT `+apptColumns+`
       	 FROM appointments
      	 WHERE donor_id = $1
      	 ORDER BY date DESC, created_at DESC`,
		donorID,
	)
}

func (r *AppointmentRepo) list(ctx context.Context, op, sql string, args ...any) ([]domain.Appointment, error) {
	db := r.handle()

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// Complete transitions a scheduled appointment to completed, guarded by the
// current status so a terminal appointment is never transitioned twice.
//
// Returns:
//   - error: repository.ErrNotScheduled if the appointment exists but is
//     already terminal.
//   - error: repository.ErrNotFound if it does not exist under that venue.
func (r *AppointmentRepo) Complete(
	ctx context.Context,
	venueID, apptID uuid.UUID,
	confirmed domain.BloodType,
) error {
	const op = "postgres.AppointmentRepo.Complete"

	return r.transition(ctx, op, venueID, apptID,
		`UPDATE appointments
        	SET status = 'completed', confirmed_type = $3
      	 WHERE id = $1 AND venue_id = $2 AND status = 'scheduled'`,
		apptID, venueID, confirmed,
	)
}

// MarkNoShow transitions a scheduled appointment to no-show under the same
// status guard as Complete.
func (r *AppointmentRepo) MarkNoShow(ctx context.Context, venueID, apptID uuid.UUID) error {
	const op = "postgres.AppointmentRepo.MarkNoShow"

	return r.transition(ctx, op, venueID, apptID,
		`UPDATE appointments
        	SET status = 'no-show'
      	 WHERE id = $1 AND venue_id = $2 AND status = 'scheduled'`,
		apptID, venueID,
	)
}

func (r *AppointmentRepo) transition(
	ctx context.Context,
	op string,
	venueID, apptID uuid.UUID,
	sql string,
	args ...any,
) error {
	db := r.handle()

	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if tag.RowsAffected() == 1 {
		return nil
	}

	// The guard matched no row: tell a missing appointment apart from an
	// already-terminal one.
	var status string
	err = db.QueryRow(ctx,
		`SELECT status FROM appointments WHERE id = $1 AND venue_id = $2`,
		apptID, venueID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
		}
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return fmt.Errorf("%s:%w", op, repository.ErrNotScheduled)
}

// InsertDonation records the outcome of a completed appointment. The unique
// constraint on appointment_id makes a second donation for the same
// appointment a conflict.
//
// Returns:
//   - error: repository.ErrConflict on a duplicate appointment_id.
func (r *AppointmentRepo) InsertDonation(ctx context.Context, d *domain.Donation) error {
	const op = "postgres.AppointmentRepo.InsertDonation"

	db := r.handle()

	_, err := db.Exec(ctx,
		`INSERT INTO donations(id, appointment_id, donor_id, venue_id, venue_name, venue_kind, blood_type, donated_at)
       	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.AppointmentID, d.DonorID, d.VenueID, d.VenueName, d.VenueKind, d.BloodType, d.DonatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// ListDonationsByDonor returns a donor's donation history, newest first.
func (r *AppointmentRepo) ListDonationsByDonor(ctx context.Context, donorID uuid.UUID) ([]domain.Donation, error) {
	const op = "postgres.AppointmentRepo.ListDonationsByDonor"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, appointment_id, donor_id, venue_id, venue_name, venue_kind, blood_type, donated_at
       	 FROM donations
      	 WHERE donor_id = $1
      	 ORDER BY donated_at DESC`,
		donorID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.Donation
	for rows.Next() {
		var d domain.Donation
		if err := rows.Scan(&d.ID, &d.AppointmentID, &d.DonorID, &d.VenueID, &d.VenueName, &d.VenueKind, &d.BloodType, &d.DonatedAt); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
