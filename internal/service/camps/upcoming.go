package camps

import (
	"sort"

	"github.com/kirinyoku/hemolink/internal/domain"
	"github.com/samber/lo"
)

// UpcomingCamps filters camps to those on or after today and sorts them
// ascending by date. Pure projection, recomputed on each load; ISO date
// strings compare chronologically.
func UpcomingCamps(all []domain.DonationCamp, today string) []domain.DonationCamp {
	upcoming := lo.Filter(all, func(c domain.DonationCamp, _ int) bool {
		return c.Date >= today
	})

	out := make([]domain.DonationCamp, len(upcoming))
	copy(out, upcoming)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})

	return out
}
