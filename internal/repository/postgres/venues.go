package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/hemolink/internal/domain"
)

type VenueRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *VenueRepo) With(db DB) *VenueRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *VenueRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Create inserts a venue and seeds a zeroed inventory row for every blood
// type in one batch, so the inventory record exists from the moment the
// venue does.
//
// Returns:
//   - error: repository.ErrConflict if a venue with the same owner and name
//     already exists.
func (r *VenueRepo) Create(ctx context.Context, v *domain.Venue) error {
	const op = "postgres.VenueRepo.Create"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`INSERT INTO venues(id, owner_id, name, kind, address, lat, lng)
       	 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		v.ID, v.OwnerID, v.Name, v.Kind, v.Address, v.Lat, v.Lng,
	); err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	batch := &pgx.Batch{}
	for _, bt := range domain.BloodTypes {
		batch.Queue(
			`INSERT INTO inventory(venue_id, blood_type, count)
         	 VALUES ($1, $2, 0)`,
			v.ID, bt,
		)
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// Get retrieves a venue by its ID.
//
// Returns:
//   - error: repository.ErrNotFound if the venue does not exist.
func (r *VenueRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Venue, error) {
	const op = "postgres.VenueRepo.Get"

	db := r.handle()

	var v domain.Venue
	err := db.QueryRow(ctx,
		`SELECT id, owner_id, name, kind, address, lat, lng, created_at
       	 FROM venues WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.OwnerID, &v.Name, &v.Kind, &v.Address, &v.Lat, &v.Lng, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &v, nil
}

// List returns venues ordered by name.
func (r *VenueRepo) List(ctx context.Context, limit, offset int) ([]domain.Venue, error) {
	const op = "postgres.VenueRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, owner_id, name, kind, address, lat, lng, created_at
		 FROM venues
		 ORDER BY name
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.Venue
	for rows.Next() {
		var v domain.Venue
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Name, &v.Kind, &v.Address, &v.Lat, &v.Lng, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// IsOwner reports whether userID owns the venue.
//
// Returns:
//   - error: repository.ErrNotFound if the venue does not exist.
func (r *VenueRepo) IsOwner(ctx context.Context, venueID, userID uuid.UUID) (bool, error) {
	const op = "postgres.VenueRepo.IsOwner"

	db := r.handle()

	var ownerID uuid.UUID
	err := db.QueryRow(ctx,
		`SELECT owner_id FROM venues WHERE id = $1`,
		venueID,
	).Scan(&ownerID)
	if err != nil {
		return false, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return ownerID == userID, nil
}
