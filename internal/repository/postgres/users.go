package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/hemolink/internal/domain"
)

type UserRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *UserRepo) With(db DB) *UserRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *UserRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Create inserts a new user.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - u: the user to insert; ID must already be set.
//
// Returns:
//   - error: repository.ErrConflict when the email is already taken.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	const op = "postgres.UserRepo.Create"

	db := r.handle()

	_, err := db.Exec(ctx,
		`INSERT INTO users(id, email, display_name, role, password_hash)
       	 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.DisplayName, u.Role, u.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// GetByEmail retrieves a user by email.
//
// Returns:
//   - error: repository.ErrNotFound if no user has that email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const op = "postgres.UserRepo.GetByEmail"

	db := r.handle()

	var u domain.User
	err := db.QueryRow(ctx,
		`SELECT id, email, display_name, role, password_hash, created_at
       	 FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.DisplayName, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &u, nil
}

// GetByID retrieves a user by ID.
//
// Returns:
//   - error: repository.ErrNotFound if the user does not exist.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const op = "postgres.UserRepo.GetByID"

	db := r.handle()

	var u domain.User
	err := db.QueryRow(ctx,
		`SELECT id, email, display_name, role, password_hash, created_at
       	 FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.DisplayName, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &u, nil
}
