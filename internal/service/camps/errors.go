package camps

import "errors"

var (
	ErrInvalidDate   = errors.New("invalid camp date")
	ErrInvalidTime   = errors.New("invalid camp time range")
	ErrMissingFields = errors.New("missing camp fields")
)
