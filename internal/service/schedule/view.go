package schedule

import (
	"sort"
	"strings"

	"github.com/kirinyoku/hemolink/internal/domain"
	"github.com/samber/lo"
)

// View selects which half of the schedule a dashboard tab shows.
type View string

const (
	// ViewActive shows appointments still waiting for the donor.
	ViewActive View = "active"
	// ViewPast shows finalized appointments, completed and no-show alike.
	ViewPast View = "past"
)

// DayGroup is one date's worth of appointments, in store order.
type DayGroup struct {
	Date         string               `json:"date"`
	Appointments []domain.Appointment `json:"appointments"`
}

// BuildScheduleView projects the full appointment list into date-grouped
// form for one dashboard tab. It is pure: identical inputs produce identical
// output, and it is recomputed on every request rather than cached.
//
// The search term matches donor names case-insensitively as a substring; an
// empty term matches everything. Groups come out in ascending order of the
// ISO date string, which is chronological for well-formed dates, and the
// store's relative order is preserved within a date.
func BuildScheduleView(appts []domain.Appointment, view View, searchTerm string) []DayGroup {
	term := strings.ToLower(strings.TrimSpace(searchTerm))

	matched := lo.Filter(appts, func(a domain.Appointment, _ int) bool {
		if view == ViewActive && a.Status != domain.StatusScheduled {
			return false
		}
		if view == ViewPast && a.Status == domain.StatusScheduled {
			return false
		}
		if term == "" {
			return true
		}
		return strings.Contains(strings.ToLower(a.DonorName), term)
	})

	byDate := make(map[string][]domain.Appointment)
	for _, a := range matched {
		byDate[a.Date] = append(byDate[a.Date], a)
	}

	groups := make([]DayGroup, 0, len(byDate))
	for date, list := range byDate {
		groups = append(groups, DayGroup{Date: date, Appointments: list})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Date < groups[j].Date
	})

	return groups
}
