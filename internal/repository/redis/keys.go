package redis

import (
	"fmt"

	"github.com/google/uuid"
)

const ns = "hemolink:v1"

func KeyVenueInventory(venueID uuid.UUID) string {
	return fmt.Sprintf("%s:venue:%s:inventory", ns, venueID)
}

func KeyVenue(venueID uuid.UUID) string {
	return fmt.Sprintf("%s:venue:%s:summary", ns, venueID)
}

func KeyVenueList(limit, offset int) string {
	return fmt.Sprintf("%s:venues:%d:%d", ns, limit, offset)
}

func KeyUpcomingCamps(day string) string {
	return fmt.Sprintf("%s:camps:upcoming:%s", ns, day)
}

func KeySession(token string) string {
	return fmt.Sprintf("%s:session:%s", ns, token)
}

// KeyRateLimit is the limiter prefix for one throttled operation; the
// limiter appends the caller key.
func KeyRateLimit(scope string) string {
	return fmt.Sprintf("%s:rl:%s", ns, scope)
}
