package models

import "time"

// URL represents a stored mapping between a long URL and its short code.
type URL struct {
	// ID is the unique identifier assigned by the store on creation.
	ID int64
	// LongURL is the original, full-length URL. It is the natural dedup key:
	// at most one mapping exists per distinct long URL.
	LongURL string
	// ShortCode is the generated code associated with the long URL, unique
	// across all mappings.
	ShortCode string
	// AccessCount tracks the number of times the short code has been resolved.
	AccessCount int64
	// CreatedAt is the timestamp indicating when the mapping was created.
	CreatedAt time.Time
	// UpdatedAt is the timestamp indicating when the mapping was last updated.
	UpdatedAt time.Time
}

// Page is a bounded slice of mappings plus pagination metadata.
type Page struct {
	Content       []*URL
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
	First         bool
	Last          bool
}
