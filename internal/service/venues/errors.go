package venues

import "errors"

var (
	ErrVenueNotFound = errors.New("venue not found")
	ErrVenueConflict = errors.New("venue already exists")
	ErrInvalidKind   = errors.New("invalid venue kind")
)
