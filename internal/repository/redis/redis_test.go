package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/hemolink/internal/domain"
	"github.com/redis/go-redis/v9"
)

// These tests need a live Redis. Point REDIS_TEST_ADDR at one to run them.
func testClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skipf("REDIS_TEST_ADDR not set, skipping redis tests")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 15})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("redis at %s not reachable: %v", addr, err)
	}

	t.Cleanup(func() { rdb.Close() })

	return rdb
}

func TestSessionStore_Lifecycle(t *testing.T) {
	rdb := testClient(t)
	ctx := context.Background()

	store := NewSessionStore(rdb, time.Minute)

	p := domain.Profile{
		UserID:      uuid.New(),
		Email:       "donor@example.com",
		DisplayName: "Test Donor",
		Role:        domain.RoleDonor,
	}

	token, err := store.Create(ctx, p)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if token == "" {
		t.Fatal("Create returned an empty token")
	}

	got, ok, err := store.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get: session not found right after Create")
	}
	if got.UserID != p.UserID || got.Role != p.Role {
		t.Errorf("Get returned %+v, want %+v", got, p)
	}

	if err := store.Delete(ctx, token); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, ok, _ := store.Get(ctx, token); ok {
		t.Error("session still readable after Delete")
	}

	// deleting again must not error
	if err := store.Delete(ctx, token); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestSessionStore_UnknownToken(t *testing.T) {
	rdb := testClient(t)

	store := NewSessionStore(rdb, time.Minute)

	_, ok, err := store.Get(context.Background(), "no-such-token")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("unknown token resolved to a session")
	}
}

func TestIdempotencyStore_LockThenResult(t *testing.T) {
	rdb := testClient(t)
	ctx := context.Background()

	store := NewIdempotencyStore(rdb, time.Minute)
	key := KeyIdemAppointment(uuid.New(), "req-1")

	locked, err := store.AcquireLock(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	if !locked {
		t.Fatal("first AcquireLock did not win")
	}

	// a concurrent retry must not win the same key
	if again, _ := store.AcquireLock(ctx, key, time.Minute); again {
		t.Error("second AcquireLock won an already held key")
	}

	if err := store.SaveResult(ctx, key, `{"id":"a1"}`); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	payload, ok, err := store.GetResult(ctx, key)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if !ok || payload != `{"id":"a1"}` {
		t.Errorf("GetResult = (%q, %v), want saved payload", payload, ok)
	}
}

func TestIdempotencyStore_ReleaseFreesKey(t *testing.T) {
	rdb := testClient(t)
	ctx := context.Background()

	store := NewIdempotencyStore(rdb, time.Minute)
	key := KeyIdemAppointment(uuid.New(), "req-2")

	if locked, _ := store.AcquireLock(ctx, key, time.Minute); !locked {
		t.Fatal("AcquireLock did not win a fresh key")
	}

	if err := store.Release(ctx, key); err != nil {
		t.Fatalf("Release: %v", err)
	}

	if locked, _ := store.AcquireLock(ctx, key, time.Minute); !locked {
		t.Error("AcquireLock did not win after Release")
	}
}

func TestSlidingWindowLimiter_Throttles(t *testing.T) {
	rdb := testClient(t)
	ctx := context.Background()

	limiter := NewSlidingWindowLimiter(rdb, "test:rl:"+uuid.NewString(), 3, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _, _, err := limiter.Allow(ctx, "caller")
		if err != nil {
			t.Fatalf("Allow #%d: %v", i+1, err)
		}
		if !allowed {
			t.Fatalf("Allow #%d denied under the limit", i+1)
		}
	}

	allowed, _, retryAfter, err := limiter.Allow(ctx, "caller")
	if err != nil {
		t.Fatalf("Allow over limit: %v", err)
	}
	if allowed {
		t.Error("fourth attempt allowed with limit 3")
	}
	if retryAfter <= 0 {
		t.Error("denied attempt reported no retry-after")
	}
}
