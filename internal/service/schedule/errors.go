package schedule

import "errors"

var (
	ErrInvalidBloodType = errors.New("invalid confirmed blood type")
	ErrInvalidDate      = errors.New("invalid appointment date")
	ErrEmptyTimeSlot    = errors.New("empty time slot")
	ErrApptNotFound     = errors.New("appointment not found")
	ErrAlreadyFinalized = errors.New("appointment already finalized")
	ErrDonationRecorded = errors.New("donation already recorded for appointment")
	ErrVenueNotFound    = errors.New("venue not found")
	ErrNotOwner         = errors.New("caller does not own this venue")
	ErrRateLimited      = errors.New("too many booking attempts")
)
