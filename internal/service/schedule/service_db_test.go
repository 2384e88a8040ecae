package schedule

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/hemolink/internal/domain"
	redisx "github.com/kirinyoku/hemolink/internal/redis"
	postgresrepo "github.com/kirinyoku/hemolink/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/hemolink/internal/repository/redis"
	goredis "github.com/redis/go-redis/v9"
)

// These tests need a live Postgres. Point POSTGRES_TEST_DSN at one to run
// them. The schema is created if absent.
const testSchema = `
CREATE TABLE IF NOT EXISTS users (
	id            uuid PRIMARY KEY,
	email         text NOT NULL UNIQUE,
	display_name  text NOT NULL,
	role          text NOT NULL,
	password_hash bytea NOT NULL,
	created_at    timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS venues (
	id         uuid PRIMARY KEY,
	owner_id   uuid NOT NULL,
	name       text NOT NULL,
	kind       text NOT NULL,
	address    text NOT NULL,
	lat        double precision NOT NULL,
	lng        double precision NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now(),
	UNIQUE (owner_id, name)
);
CREATE TABLE IF NOT EXISTS inventory (
	venue_id   uuid NOT NULL,
	blood_type text NOT NULL,
	count      integer NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (venue_id, blood_type)
);
CREATE TABLE IF NOT EXISTS appointments (
	id             uuid PRIMARY KEY,
	venue_id       uuid NOT NULL,
	donor_id       uuid NOT NULL,
	donor_name     text NOT NULL,
	date           text NOT NULL,
	time_slot      text NOT NULL,
	status         text NOT NULL,
	confirmed_type text,
	created_at     timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS donations (
	id             uuid PRIMARY KEY,
	appointment_id uuid NOT NULL UNIQUE,
	donor_id       uuid NOT NULL,
	venue_id       uuid NOT NULL,
	venue_name     text NOT NULL,
	venue_kind     text NOT NULL,
	blood_type     text NOT NULL,
	donated_at     timestamptz NOT NULL
);
`

func testStore(t *testing.T) *postgresrepo.Store {
	t.Helper()

	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skipf("POSTGRES_TEST_DSN not set, skipping postgres tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Skipf("postgres at %s not usable: %v", dsn, err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Skipf("postgres at %s not reachable: %v", dsn, err)
	}

	if _, err := pool.Exec(ctx, testSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	t.Cleanup(pool.Close)

	return postgresrepo.NewStore(pool)
}

// testService builds a schedule service over the real store. Redis-backed
// collaborators point at a client that only gets exercised by after-commit
// hooks, whose failures are ignored; the notifier stays nil.
func testService(t *testing.T, store *postgresrepo.Store) *Service {
	t.Helper()

	rdb := goredis.NewClient(&goredis.Options{Addr: "localhost:6399"})
	t.Cleanup(func() { rdb.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(
		store,
		redisrepo.New(rdb),
		redisx.NewStockPubSub(rdb),
		redisrepo.NewSlidingWindowLimiter(rdb, "test:rl", 100, time.Minute),
		nil,
		logger,
		Config{},
	)
}

type fixture struct {
	ownerID uuid.UUID
	donorID uuid.UUID
	venueID uuid.UUID
	apptID  uuid.UUID
}

// seedAppointment creates an owner, a donor, a venue with zeroed inventory
// and one scheduled appointment.
func seedAppointment(t *testing.T, store *postgresrepo.Store) fixture {
	t.Helper()

	ctx := context.Background()

	f := fixture{
		ownerID: uuid.New(),
		donorID: uuid.New(),
		venueID: uuid.New(),
		apptID:  uuid.New(),
	}

	owner := &domain.User{
		ID:           f.ownerID,
		Email:        f.ownerID.String() + "@example.com",
		DisplayName:  "City Hospital",
		Role:         domain.RoleHospital,
		PasswordHash: []byte("x"),
	}
	donor := &domain.User{
		ID:           f.donorID,
		Email:        f.donorID.String() + "@example.com",
		DisplayName:  "Jane Donor",
		Role:         domain.RoleDonor,
		PasswordHash: []byte("x"),
	}

	for _, u := range []*domain.User{owner, donor} {
		if err := store.Users().Create(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	if err := store.Venues().Create(ctx, &domain.Venue{
		ID:      f.venueID,
		OwnerID: f.ownerID,
		Name:    "venue-" + f.venueID.String(),
		Kind:    domain.VenueHospital,
		Address: "1 Main St",
		Lat:     50.45,
		Lng:     30.52,
	}); err != nil {
		t.Fatalf("seed venue: %v", err)
	}

	if err := store.Appointments().Create(ctx, &domain.Appointment{
		ID:        f.apptID,
		VenueID:   f.venueID,
		DonorID:   f.donorID,
		DonorName: donor.DisplayName,
		Date:      "2030-01-15",
		TimeSlot:  "09:00-09:30",
		Status:    domain.StatusScheduled,
	}); err != nil {
		t.Fatalf("seed appointment: %v", err)
	}

	return f
}

func stock(t *testing.T, store *postgresrepo.Store, venueID uuid.UUID) map[domain.BloodType]int {
	t.Helper()

	rec, err := store.Inventory().Get(context.Background(), venueID)
	if err != nil {
		t.Fatalf("read inventory: %v", err)
	}

	return rec.Stock
}

func TestComplete_IncrementsConfirmedTypeOnce(t *testing.T) {
	store := testStore(t)
	svc := testService(t, store)
	f := seedAppointment(t, store)
	ctx := context.Background()

	before := stock(t, store, f.venueID)

	d, err := svc.Complete(ctx, f.venueID, f.ownerID, f.apptID, "O+")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if d.AppointmentID != f.apptID || d.BloodType != domain.OPos {
		t.Errorf("donation = %+v, want appointment %s with O+", d, f.apptID)
	}

	after := stock(t, store, f.venueID)
	for _, bt := range domain.BloodTypes {
		want := before[bt]
		if bt == domain.OPos {
			want++
		}
		if after[bt] != want {
			t.Errorf("stock[%s] = %d, want %d", bt, after[bt], want)
		}
	}

	appt, err := store.Appointments().Get(ctx, f.venueID, f.apptID)
	if err != nil {
		t.Fatalf("read appointment: %v", err)
	}
	if appt.Status != domain.StatusCompleted || appt.ConfirmedType != domain.OPos {
		t.Errorf("appointment = (%s, %s), want (completed, O+)", appt.Status, appt.ConfirmedType)
	}

	donations, err := svc.DonorDonations(ctx, f.donorID)
	if err != nil {
		t.Fatalf("DonorDonations: %v", err)
	}
	if len(donations) != 1 {
		t.Fatalf("donor has %d donations, want exactly 1", len(donations))
	}
}

func TestComplete_TerminalAppointmentRejected(t *testing.T) {
	store := testStore(t)
	svc := testService(t, store)
	f := seedAppointment(t, store)
	ctx := context.Background()

	if _, err := svc.Complete(ctx, f.venueID, f.ownerID, f.apptID, "A+"); err != nil {
		t.Fatalf("first Complete: %v", err)
	}

	after := stock(t, store, f.venueID)

	if _, err := svc.Complete(ctx, f.venueID, f.ownerID, f.apptID, "A+"); !errors.Is(err, ErrAlreadyFinalized) {
		t.Errorf("second Complete = %v, want ErrAlreadyFinalized", err)
	}
	if err := svc.MarkNoShow(ctx, f.venueID, f.ownerID, f.apptID); !errors.Is(err, ErrAlreadyFinalized) {
		t.Errorf("MarkNoShow on completed = %v, want ErrAlreadyFinalized", err)
	}

	if got := stock(t, store, f.venueID); got[domain.APos] != after[domain.APos] {
		t.Errorf("stock[A+] moved from %d to %d on rejected transitions",
			after[domain.APos], got[domain.APos])
	}

	donations, err := svc.DonorDonations(ctx, f.donorID)
	if err != nil {
		t.Fatalf("DonorDonations: %v", err)
	}
	if len(donations) != 1 {
		t.Errorf("donor has %d donations after rejected retries, want 1", len(donations))
	}
}

func TestMarkNoShow_NoInventoryEffect(t *testing.T) {
	store := testStore(t)
	svc := testService(t, store)
	f := seedAppointment(t, store)
	ctx := context.Background()

	before := stock(t, store, f.venueID)

	if err := svc.MarkNoShow(ctx, f.venueID, f.ownerID, f.apptID); err != nil {
		t.Fatalf("MarkNoShow: %v", err)
	}

	after := stock(t, store, f.venueID)
	for _, bt := range domain.BloodTypes {
		if after[bt] != before[bt] {
			t.Errorf("stock[%s] changed on no-show: %d -> %d", bt, before[bt], after[bt])
		}
	}

	if _, err := svc.Complete(ctx, f.venueID, f.ownerID, f.apptID, "O+"); !errors.Is(err, ErrAlreadyFinalized) {
		t.Errorf("Complete on no-show = %v, want ErrAlreadyFinalized", err)
	}
}

func TestComplete_NonOwnerRejected(t *testing.T) {
	store := testStore(t)
	svc := testService(t, store)
	f := seedAppointment(t, store)

	_, err := svc.Complete(context.Background(), f.venueID, f.donorID, f.apptID, "O+")
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("Complete by non-owner = %v, want ErrNotOwner", err)
	}
}
