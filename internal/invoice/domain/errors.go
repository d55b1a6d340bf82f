package domain

import "errors"

var (
	// ErrNotFound is returned when the referenced invoice does not exist.
	ErrNotFound = errors.New("invoice_not_found")
)
