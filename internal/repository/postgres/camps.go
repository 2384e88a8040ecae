package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/hemolink/internal/domain"
)

type CampRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CampRepo) With(db DB) *CampRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CampRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Create inserts a donation camp. Camps are write-once; there is no update
// path.
func (r *CampRepo) Create(ctx context.Context, c *domain.DonationCamp) error {
	const op = "postgres.CampRepo.Create"

	db := r.handle()

	_, err := db.Exec(ctx,
		`INSERT INTO camps(id, organizer_id, name, organizer, contact, address, date, start_time, end_time, lat, lng)
       	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.OrganizerID, c.Name, c.Organizer, c.Contact, c.Address,
		c.Date, c.StartTime, c.EndTime, c.Lat, c.Lng,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// List returns all camps ordered by date ascending.
func (r *CampRepo) List(ctx context.Context) ([]domain.DonationCamp, error) {
	const op = "postgres.CampRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, organizer_id, name, organizer, contact, address, date, start_time, end_time, lat, lng, created_at
       	 FROM camps
      	 ORDER BY date, created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.DonationCamp
	for rows.Next() {
		var c domain.DonationCamp
		if err := rows.Scan(
			&c.ID, &c.OrganizerID, &c.Name, &c.Organizer, &c.Contact, &c.Address,
			&c.Date, &c.StartTime, &c.EndTime, &c.Lat, &c.Lng, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
