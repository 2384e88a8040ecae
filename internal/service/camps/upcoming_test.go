package camps

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/kirinyoku/hemolink/internal/domain"
)

func camp(name, date string) domain.DonationCamp {
	return domain.DonationCamp{
		ID:   uuid.New(),
		Name: name,
		Date: date,
	}
}

func TestUpcomingCamps_BoundaryIsInclusive(t *testing.T) {
	all := []domain.DonationCamp{
		camp("past", "2024-05-30"),
		camp("today", "2024-06-01"),
		camp("later", "2024-06-15"),
	}

	got := UpcomingCamps(all, "2024-06-01")

	if len(got) != 2 {
		t.Fatalf("expected 2 camps, got %d", len(got))
	}
	if got[0].Name != "today" || got[1].Name != "later" {
		t.Errorf("order = %s, %s", got[0].Name, got[1].Name)
	}
}

func TestUpcomingCamps_SortsAscendingStable(t *testing.T) {
	all := []domain.DonationCamp{
		camp("c", "2024-07-01"),
		camp("a1", "2024-06-10"),
		camp("a2", "2024-06-10"),
		camp("b", "2024-06-20"),
	}

	got := UpcomingCamps(all, "2024-06-01")

	var names []string
	for _, c := range got {
		names = append(names, c.Name)
	}

	want := []string{"a1", "a2", "b", "c"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("order = %v, want %v", names, want)
	}
}

func TestUpcomingCamps_DoesNotMutateInput(t *testing.T) {
	all := []domain.DonationCamp{
		camp("z", "2024-09-01"),
		camp("a", "2024-06-02"),
	}

	_ = UpcomingCamps(all, "2024-01-01")

	if all[0].Name != "z" || all[1].Name != "a" {
		t.Error("input slice reordered")
	}
}

func TestUpcomingCamps_Pure(t *testing.T) {
	all := []domain.DonationCamp{
		camp("a", "2024-06-02"),
		camp("b", "2024-06-03"),
	}

	x := UpcomingCamps(all, "2024-06-01")
	y := UpcomingCamps(all, "2024-06-01")

	if !reflect.DeepEqual(x, y) {
		t.Error("identical inputs must produce identical output")
	}
}
