package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BloodType is a closed enumeration of the 8 ABO/Rh labels. Values from
// external input must go through ParseBloodType; anything else is not a
// BloodType.
type BloodType string

const (
	APos  BloodType = "A+"
	ANeg  BloodType = "A-"
	BPos  BloodType = "B+"
	BNeg  BloodType = "B-"
	ABPos BloodType = "AB+"
	ABNeg BloodType = "AB-"
	OPos  BloodType = "O+"
	ONeg  BloodType = "O-"
)

// BloodTypes lists every valid blood type in display order.
var BloodTypes = []BloodType{APos, ANeg, BPos, BNeg, ABPos, ABNeg, OPos, ONeg}

// ParseBloodType validates a raw label against the closed enumeration.
func ParseBloodType(s string) (BloodType, error) {
	for _, bt := range BloodTypes {
		if string(bt) == s {
			return bt, nil
		}
	}
	return "", fmt.Errorf("invalid blood type %q", s)
}

func (b BloodType) String() string { return string(b) }

// LowStockThreshold is the policy constant below which a non-zero count is
// reported as low.
const LowStockThreshold = 5

type StockLevel string

const (
	LevelCritical StockLevel = "critical"
	LevelLow      StockLevel = "low"
	LevelNormal   StockLevel = "normal"
)

// LevelForCount derives the severity band for a count. The level is never
// stored; it is recomputed from the count wherever it is displayed.
func LevelForCount(count int) StockLevel {
	switch {
	case count == 0:
		return LevelCritical
	case count < LowStockThreshold:
		return LevelLow
	default:
		return LevelNormal
	}
}

type InventoryRecord struct {
	VenueID     uuid.UUID         `json:"venue_id"`
	Stock       map[BloodType]int `json:"stock"`
	LastUpdated time.Time         `json:"last_updated"`
}

// Apply mutates the record with a signed delta for one blood type.
// A delta that would drive the count negative is rejected and leaves the
// record untouched.
func (r *InventoryRecord) Apply(bt BloodType, delta int, now time.Time) error {
	next := r.Stock[bt] + delta
	if next < 0 {
		return fmt.Errorf("stock for %s would go negative (%d%+d)", bt, r.Stock[bt], delta)
	}
	if r.Stock == nil {
		r.Stock = make(map[BloodType]int)
	}
	r.Stock[bt] = next
	r.LastUpdated = now
	return nil
}

// Level reports the severity band for one blood type of the record.
func (r *InventoryRecord) Level(bt BloodType) StockLevel {
	return LevelForCount(r.Stock[bt])
}

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusNoShow    AppointmentStatus = "no-show"
)

// Terminal reports whether no further transition is allowed out of s.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusNoShow
}

type Appointment struct {
	ID            uuid.UUID         `json:"id"`
	VenueID       uuid.UUID         `json:"venue_id"`
	DonorID       uuid.UUID         `json:"donor_id"`
	DonorName     string            `json:"donor_name"`
	Date          string            `json:"date"` // ISO YYYY-MM-DD
	TimeSlot      string            `json:"time_slot"`
	Status        AppointmentStatus `json:"status"`
	ConfirmedType BloodType         `json:"confirmed_type,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// ErrNotScheduled rejects a transition attempted on a terminal appointment.
// Both terminal states stay terminal; re-running a transition must fail
// loudly rather than double-count stock.
type ErrNotScheduled struct {
	ID     uuid.UUID
	Status AppointmentStatus
}

func (e ErrNotScheduled) Error() string {
	return fmt.Sprintf("appointment %s is %s, not scheduled", e.ID, e.Status)
}

// Complete transitions a scheduled appointment to completed, recording the
// blood type confirmed at donation time, and returns the Donation that pairs
// the appointment with exactly one inventory increment of that type.
func (a *Appointment) Complete(confirmed BloodType, venueName, venueKind string, now time.Time) (*Donation, error) {
	if a.Status != StatusScheduled {
		return nil, ErrNotScheduled{ID: a.ID, Status: a.Status}
	}

	a.Status = StatusCompleted
	a.ConfirmedType = confirmed

	return &Donation{
		ID:            uuid.New(),
		AppointmentID: a.ID,
		DonorID:       a.DonorID,
		VenueID:       a.VenueID,
		VenueName:     venueName,
		VenueKind:     venueKind,
		BloodType:     confirmed,
		DonatedAt:     now,
	}, nil
}

// MarkNoShow transitions a scheduled appointment to no-show. No inventory
// effect.
func (a *Appointment) MarkNoShow() error {
	if a.Status != StatusScheduled {
		return ErrNotScheduled{ID: a.ID, Status: a.Status}
	}
	a.Status = StatusNoShow
	return nil
}

// Donation is the recorded outcome of a completed appointment. AppointmentID
// is unique in storage, so an appointment can never yield two donations.
type Donation struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	DonorID       uuid.UUID `json:"donor_id"`
	VenueID       uuid.UUID `json:"venue_id"`
	VenueName     string    `json:"venue_name"`
	VenueKind     string    `json:"venue_kind"`
	BloodType     BloodType `json:"blood_type"`
	DonatedAt     time.Time `json:"donated_at"`
}

type VenueKind string

const (
	VenueHospital VenueKind = "hospital"
	VenueCamp     VenueKind = "camp"
)

type Venue struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	Kind      VenueKind `json:"kind"`
	Address   string    `json:"address"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	CreatedAt time.Time `json:"created_at"`
}

type DonationCamp struct {
	ID          uuid.UUID `json:"id"`
	OrganizerID uuid.UUID `json:"organizer_id"`
	Name        string    `json:"name"`
	Organizer   string    `json:"organizer"`
	Contact     string    `json:"contact"`
	Address     string    `json:"address"`
	Date        string    `json:"date"` // ISO YYYY-MM-DD
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	CreatedAt   time.Time `json:"created_at"`
}

type Role string

const (
	RoleHospital  Role = "hospital"
	RoleOrganizer Role = "organizer"
	RoleDonor     Role = "donor"
)

// ParseRole validates a raw role label.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleHospital, RoleOrganizer, RoleDonor:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role %q", s)
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	Role         Role      `json:"role"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the public slice of a user carried inside sessions.
type Profile struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
}

type SessionState string

const (
	SessionAnonymous SessionState = "anonymous"
	// SessionAuthenticating marks a credential check in flight. Clients hold
	// it between submitting credentials and the verdict; the server resolves
	// a login within one request and never stores it.
	SessionAuthenticating SessionState = "authenticating"
	SessionAuthenticated  SessionState = "authenticated"
	SessionFailed         SessionState = "failed"
)

// Session is the explicit auth lifecycle object injected into handlers.
// There is no global auth state; whoever needs the caller's identity takes
// a Session.
type Session struct {
	State   SessionState `json:"state"`
	Token   string       `json:"-"`
	Profile *Profile     `json:"profile,omitempty"`
}

func Anonymous() Session { return Session{State: SessionAnonymous} }

func Failed() Session { return Session{State: SessionFailed} }

func Authenticated(token string, p Profile) Session {
	return Session{State: SessionAuthenticated, Token: token, Profile: &p}
}

// ValidDate reports whether s is a well-formed ISO calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
