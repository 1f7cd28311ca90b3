package database

import "errors"

var (
	// ErrShortCodeExists is returned when an insert is rejected because the
	// generated short code already exists. The service reacts by generating
	// a fresh code and retrying.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrLongURLExists is returned when an insert is rejected because a
	// mapping for the same long URL already exists. The service reacts by
	// re-reading and returning the existing mapping.
	ErrLongURLExists = errors.New("long url exists")
	// ErrURLNotFound is returned when no mapping exists for the queried
	// short code or long URL.
	ErrURLNotFound = errors.New("url not found")
)
