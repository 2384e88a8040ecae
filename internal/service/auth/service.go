package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kirinyoku/hemolink/internal/domain"
	"github.com/kirinyoku/hemolink/internal/repository"
	postgresrepo "github.com/kirinyoku/hemolink/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/hemolink/internal/repository/redis"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	MinPasswordLen int
	BcryptCost     int
}

type Service struct {
	store    *postgresrepo.Store
	sessions *redisrepo.SessionStore
	cfg      Config
}

func New(store *postgresrepo.Store, sessions *redisrepo.SessionStore, cfg Config) *Service {
	if cfg.MinPasswordLen <= 0 {
		cfg.MinPasswordLen = 8
	}

	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	return &Service{
		store:    store,
		sessions: sessions,
		cfg:      cfg,
	}
}

// Signup registers a user and signs them in, returning an authenticated
// session.
//
// Parameters:
//   - ctx: request-scoped context.
//   - email, password, displayName: credentials and display name.
//   - role: one of hospital, organizer, donor.
//
// Returns:
//   - domain.Session: authenticated session carrying the new profile.
//   - error: auth.ErrEmailTaken if the email is already registered.
//   - error: auth.ErrWeakPassword / auth.ErrInvalidRole on bad input.
func (s *Service) Signup(
	ctx context.Context,
	email, password, displayName, role string,
) (domain.Session, error) {
	const op = "service.auth.Signup"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Session{}, fmt.Errorf("%s: invalid email", op)
	}

	if len(password) < s.cfg.MinPasswordLen {
		return domain.Session{}, fmt.Errorf("%s:%w", op, ErrWeakPassword)
	}

	r, err := domain.ParseRole(role)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s:%w", op, ErrInvalidRole)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s:%w", op, err)
	}

	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		Role:         r,
		PasswordHash: hash,
	}

	if err := s.store.Users().Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return domain.Session{}, fmt.Errorf("%s:%w", op, ErrEmailTaken)
		}

		return domain.Session{}, fmt.Errorf("%s:%w", op, err)
	}

	return s.openSession(ctx, op, u)
}

// Login verifies credentials and opens a session. An unknown email and a
// wrong password both come back as ErrInvalidCredentials; the caller cannot
// tell them apart.
func (s *Service) Login(ctx context.Context, email, password string) (domain.Session, error) {
	const op = "service.auth.Login"

	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Session{}, fmt.Errorf("%s:%w", op, ErrInvalidCredentials)
		}

		return domain.Session{}, fmt.Errorf("%s:%w", op, err)
	}

	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return domain.Session{}, fmt.Errorf("%s:%w", op, ErrInvalidCredentials)
	}

	return s.openSession(ctx, op, u)
}

// Logout deletes the session. Logging out an already-dead token succeeds.
func (s *Service) Logout(ctx context.Context, token string) error {
	const op = "service.auth.Logout"

	if token == "" {
		return nil
	}

	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// Session resolves a token into the typed auth lifecycle object: anonymous
// without a token, failed for an unknown or expired one, authenticated
// otherwise.
func (s *Service) Session(ctx context.Context, token string) (domain.Session, error) {
	const op = "service.auth.Session"

	if token == "" {
		return domain.Anonymous(), nil
	}

	p, ok, err := s.sessions.Get(ctx, token)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s:%w", op, err)
	}

	if !ok {
		return domain.Failed(), nil
	}

	return domain.Authenticated(token, p), nil
}

// Profile returns the public profile for a user ID.
//
// Returns:
//   - error: auth.ErrUserNotFound if the user does not exist.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	const op = "service.auth.Profile"

	u, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &domain.Profile{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
	}, nil
}

func (s *Service) openSession(ctx context.Context, op string, u *domain.User) (domain.Session, error) {
	p := domain.Profile{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
	}

	token, err := s.sessions.Create(ctx, p)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s:%w", op, err)
	}

	return domain.Authenticated(token, p), nil
}
