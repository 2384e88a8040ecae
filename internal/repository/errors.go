package repository

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrNegativeStock = errors.New("stock would go negative")
	ErrNotScheduled  = errors.New("appointment is not scheduled")
)
