package redis

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestKeys_ShareNamespace(t *testing.T) {
	id := uuid.New()

	keys := []string{
		KeyVenueInventory(id),
		KeyVenue(id),
		KeyVenueList(50, 0),
		KeyUpcomingCamps("2030-01-15"),
		KeySession("tok"),
		KeyRateLimit("book"),
	}

	for _, k := range keys {
		if !strings.HasPrefix(k, ns+":") {
			t.Errorf("key %q is outside the %q namespace", k, ns)
		}
	}
}

func TestKeyRateLimit_IsLimiterPrefix(t *testing.T) {
	// the limiter appends ":<caller>" itself, so the helper must not
	if got := KeyRateLimit("book"); got != ns+":rl:book" {
		t.Errorf("KeyRateLimit = %q, want %q", got, ns+":rl:book")
	}
}
