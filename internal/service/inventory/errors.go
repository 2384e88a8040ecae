package inventory

import "errors"

var (
	ErrInvalidBloodType = errors.New("invalid blood type")
	ErrNegativeStock    = errors.New("stock cannot go negative")
	ErrDeltaTooLarge    = errors.New("delta exceeds the per-request cap")
	ErrVenueNotFound    = errors.New("venue not found")
	ErrNotOwner         = errors.New("caller does not own this venue")
)
