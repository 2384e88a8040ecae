package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/hemolink/internal/domain"
	"github.com/kirinyoku/hemolink/internal/repository"
)

type InventoryRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *InventoryRepo) With(db DB) *InventoryRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *InventoryRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Adjust applies a signed delta to one blood-type count in a single guarded
// UPDATE. The `count + delta >= 0` predicate makes the non-negative invariant
// atomic: a decrement below zero matches no row and mutates nothing.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - venueID: venue whose inventory is adjusted.
//   - bt: blood type to adjust.
//   - delta: signed amount, conventionally ±1.
//
// Returns:
//   - int: the new count when successful.
//   - error: repository.ErrNegativeStock when the delta would drive the
//     count negative.
//   - error: repository.ErrNotFound when the venue has no inventory row for
//     the blood type.
func (r *InventoryRepo) Adjust(
	ctx context.Context,
	venueID uuid.UUID,
	bt domain.BloodType,
	delta int,
) (int, error) {
	const op = "postgres.InventoryRepo.Adjust"

	db := r.handle()

	var count int
	err := db.QueryRow(ctx,
		`UPDATE inventory
        	SET count = count + $3, updated_at = now()
      	 WHERE venue_id = $1
        	AND blood_type = $2
        	AND count + $3 >= 0
      	 RETURNING count`,
		venueID, bt, delta,
	).Scan(&count)
	if err == nil {
		return count, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	// The guard matched no row: tell a missing row apart from a rejected
	// negative delta.
	var existing int
	err = db.QueryRow(ctx,
		`SELECT count FROM inventory WHERE venue_id = $1 AND blood_type = $2`,
		venueID, bt,
	).Scan(&existing)
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return 0, fmt.Errorf("%s:%w", op, repository.ErrNegativeStock)
}

// Get assembles the full per-venue inventory record from its blood-type rows.
//
// Returns:
//   - error: repository.ErrNotFound if the venue has no inventory at all.
func (r *InventoryRepo) Get(ctx context.Context, venueID uuid.UUID) (*domain.InventoryRecord, error) {
	const op = "postgres.InventoryRepo.Get"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT blood_type, count, updated_at
       	 FROM inventory
      	 WHERE venue_id = $1`,
		venueID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	rec := domain.InventoryRecord{
		VenueID: venueID,
		Stock:   make(map[domain.BloodType]int, len(domain.BloodTypes)),
	}

	for rows.Next() {
		var bt string
		var count int
		var updated time.Time

		if err := rows.Scan(&bt, &count, &updated); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		rec.Stock[domain.BloodType(bt)] = count
		if updated.After(rec.LastUpdated) {
			rec.LastUpdated = updated
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if len(rec.Stock) == 0 {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return &rec, nil
}
