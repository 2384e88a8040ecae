package schedule

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/kirinyoku/hemolink/internal/domain"
)

func appt(name, date string, status domain.AppointmentStatus) domain.Appointment {
	return domain.Appointment{
		ID:        uuid.New(),
		DonorID:   uuid.New(),
		DonorName: name,
		Date:      date,
		TimeSlot:  "09:00-10:00",
		Status:    status,
	}
}

func TestBuildScheduleView_ActiveOnlyScheduled(t *testing.T) {
	appts := []domain.Appointment{
		appt("Alice", "2024-06-03", domain.StatusScheduled),
		appt("Bob", "2024-06-01", domain.StatusCompleted),
		appt("Carol", "2024-06-01", domain.StatusScheduled),
		appt("Dave", "2024-06-02", domain.StatusNoShow),
	}

	groups := BuildScheduleView(appts, ViewActive, "")

	if len(groups) != 2 {
		t.Fatalf("expected 2 date groups, got %d", len(groups))
	}
	if groups[0].Date != "2024-06-01" || groups[1].Date != "2024-06-03" {
		t.Errorf("dates not ascending: %s, %s", groups[0].Date, groups[1].Date)
	}
	for _, g := range groups {
		for _, a := range g.Appointments {
			if a.Status != domain.StatusScheduled {
				t.Errorf("active view leaked status %s", a.Status)
			}
		}
	}
}

func TestBuildScheduleView_PastWithSearch(t *testing.T) {
	appts := []domain.Appointment{
		appt("Jane Doe", "2024-06-01", domain.StatusCompleted),
		appt("JANET SMITH", "2024-06-02", domain.StatusNoShow),
		appt("Jane Roe", "2024-06-01", domain.StatusScheduled), // active, excluded
		appt("Bob", "2024-06-01", domain.StatusCompleted),
	}

	groups := BuildScheduleView(appts, ViewPast, "jane")

	var names []string
	for _, g := range groups {
		for _, a := range g.Appointments {
			names = append(names, a.DonorName)
		}
	}

	want := []string{"Jane Doe", "JANET SMITH"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("matched names = %v, want %v", names, want)
	}
}

func TestBuildScheduleView_PreservesStoreOrderWithinDate(t *testing.T) {
	first := appt("First", "2024-06-01", domain.StatusScheduled)
	second := appt("Second", "2024-06-01", domain.StatusScheduled)
	third := appt("Third", "2024-06-01", domain.StatusScheduled)

	groups := BuildScheduleView(
		[]domain.Appointment{first, second, third},
		ViewActive,
		"",
	)

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if groups[0].Appointments[i].DonorName != want {
			t.Errorf("position %d = %s, want %s", i, groups[0].Appointments[i].DonorName, want)
		}
	}
}

func TestBuildScheduleView_EmptyTermMatchesAll(t *testing.T) {
	appts := []domain.Appointment{
		appt("Alice", "2024-06-01", domain.StatusScheduled),
		appt("Bob", "2024-06-01", domain.StatusScheduled),
	}

	groups := BuildScheduleView(appts, ViewActive, "   ")
	if len(groups) != 1 || len(groups[0].Appointments) != 2 {
		t.Errorf("whitespace-only term should match all: %+v", groups)
	}
}

func TestBuildScheduleView_Pure(t *testing.T) {
	appts := []domain.Appointment{
		appt("Alice", "2024-06-02", domain.StatusScheduled),
		appt("Bob", "2024-06-01", domain.StatusScheduled),
	}

	a := BuildScheduleView(appts, ViewActive, "")
	b := BuildScheduleView(appts, ViewActive, "")

	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs must produce identical output")
	}
}
