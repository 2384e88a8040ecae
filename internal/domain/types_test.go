package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestParseBloodType_AcceptsAllEightLabels(t *testing.T) {
	labels := []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
	for _, l := range labels {
		bt, err := ParseBloodType(l)
		if err != nil {
			t.Errorf("ParseBloodType(%q) failed: %v", l, err)
		}
		if string(bt) != l {
			t.Errorf("ParseBloodType(%q) = %q", l, bt)
		}
	}
}

func TestParseBloodType_RejectsInvalidLabels(t *testing.T) {
	for _, l := range []string{"", "C+", "o+", "AB", "A +"} {
		if _, err := ParseBloodType(l); err == nil {
			t.Errorf("ParseBloodType(%q) should fail", l)
		}
	}
}

func TestLevelForCount_Boundaries(t *testing.T) {
	cases := []struct {
		count int
		want  StockLevel
	}{
		{0, LevelCritical},
		{1, LevelLow},
		{4, LevelLow},
		{5, LevelNormal},
		{100, LevelNormal},
	}
	for _, c := range cases {
		if got := LevelForCount(c.count); got != c.want {
			t.Errorf("LevelForCount(%d) = %s, want %s", c.count, got, c.want)
		}
	}
}

func TestInventoryApply_RejectsNegative(t *testing.T) {
	rec := &InventoryRecord{
		VenueID: uuid.New(),
		Stock:   map[BloodType]int{OPos: 2},
	}

	if err := rec.Apply(OPos, -3, time.Now()); err == nil {
		t.Fatal("expected rejection when count would go negative")
	}
	if rec.Stock[OPos] != 2 {
		t.Errorf("rejected delta must not mutate: got %d", rec.Stock[OPos])
	}

	if err := rec.Apply(OPos, -2, time.Now()); err != nil {
		t.Fatalf("decrement to zero should succeed: %v", err)
	}
	if rec.Stock[OPos] != 0 {
		t.Errorf("expected 0, got %d", rec.Stock[OPos])
	}
}

func TestInventoryApply_Increment(t *testing.T) {
	now := time.Now()
	rec := &InventoryRecord{VenueID: uuid.New(), Stock: map[BloodType]int{}}

	if err := rec.Apply(ABNeg, 7, now); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if rec.Stock[ABNeg] != 7 {
		t.Errorf("expected 7, got %d", rec.Stock[ABNeg])
	}
	if !rec.LastUpdated.Equal(now) {
		t.Error("LastUpdated not bumped")
	}
}

func TestComplete_RecordsDonation(t *testing.T) {
	now := time.Now()
	appt := &Appointment{
		ID:      uuid.New(),
		VenueID: uuid.New(),
		DonorID: uuid.New(),
		Status:  StatusScheduled,
	}

	d, err := appt.Complete(OPos, "City Hospital", "hospital", now)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if appt.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", appt.Status)
	}
	if appt.ConfirmedType != OPos {
		t.Errorf("confirmed type = %s, want O+", appt.ConfirmedType)
	}
	if d.AppointmentID != appt.ID || d.VenueID != appt.VenueID || d.DonorID != appt.DonorID {
		t.Error("donation does not reference the appointment")
	}
	if d.BloodType != OPos {
		t.Errorf("donation blood type = %s, want O+", d.BloodType)
	}
}

func TestComplete_RejectsTerminal(t *testing.T) {
	for _, status := range []AppointmentStatus{StatusCompleted, StatusNoShow} {
		appt := &Appointment{ID: uuid.New(), Status: status}

		_, err := appt.Complete(APos, "v", "hospital", time.Now())
		var nse ErrNotScheduled
		if !errors.As(err, &nse) {
			t.Errorf("Complete on %s: expected ErrNotScheduled, got %v", status, err)
		}
		if appt.Status != status {
			t.Errorf("Complete on %s mutated status to %s", status, appt.Status)
		}
	}
}

func TestMarkNoShow(t *testing.T) {
	appt := &Appointment{ID: uuid.New(), Status: StatusScheduled}
	if err := appt.MarkNoShow(); err != nil {
		t.Fatalf("MarkNoShow failed: %v", err)
	}
	if appt.Status != StatusNoShow {
		t.Errorf("status = %s, want no-show", appt.Status)
	}

	// second transition out of a terminal state must fail
	if err := appt.MarkNoShow(); err == nil {
		t.Error("MarkNoShow on no-show should fail")
	}
	appt2 := &Appointment{ID: uuid.New(), Status: StatusCompleted}
	if err := appt2.MarkNoShow(); err == nil {
		t.Error("MarkNoShow on completed should fail")
	}
}

func TestSessionLifecycle_States(t *testing.T) {
	states := []SessionState{
		SessionAnonymous,
		SessionAuthenticating,
		SessionAuthenticated,
		SessionFailed,
	}

	seen := make(map[SessionState]bool, len(states))
	for _, s := range states {
		if seen[s] {
			t.Errorf("duplicate session state %q", s)
		}
		seen[s] = true
	}

	if got := Anonymous().State; got != SessionAnonymous {
		t.Errorf("Anonymous().State = %q", got)
	}
	if got := Failed().State; got != SessionFailed {
		t.Errorf("Failed().State = %q", got)
	}

	sess := Authenticated("tok", Profile{DisplayName: "Jane", Role: RoleDonor})
	if sess.State != SessionAuthenticated || sess.Token != "tok" || sess.Profile == nil {
		t.Errorf("Authenticated() = %+v", sess)
	}
}
