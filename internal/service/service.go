// Package service implements the url mapping logic: creating short codes,
// resolving them back to long URLs, and listing, searching and deleting
// stored mappings.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/melihemreguler/urlshortener/internal/database"
	"github.com/melihemreguler/urlshortener/internal/metrics"
	"github.com/melihemreguler/urlshortener/internal/models"
)

// URLRepository defines the interface for working with url mappings at the
// business logic layer.
type URLRepository interface {
	// Create inserts a new mapping. It returns database.ErrShortCodeExists
	// or database.ErrLongURLExists on the corresponding unique constraint
	// violation.
	Create(ctx context.Context, shortCode, longURL string) (*models.URL, error)

	// GetByLongURL retrieves a mapping by its exact long URL.
	// Returns database.ErrURLNotFound if no mapping exists.
	GetByLongURL(ctx context.Context, longURL string) (*models.URL, error)

	// IncrementAccessCount atomically bumps the access counter for the
	// given short code and returns the updated mapping.
	// Returns database.ErrURLNotFound if no mapping exists.
	IncrementAccessCount(ctx context.Context, shortCode string) (*models.URL, error)

	// List returns one page of mappings, newest first, plus the total count.
	List(ctx context.Context, offset, limit int) ([]*models.URL, int64, error)

	// Search behaves like List restricted to mappings matching the term.
	Search(ctx context.Context, term string, offset, limit int) ([]*models.URL, int64, error)

	// Delete removes a mapping by id. A missing id is not an error.
	Delete(ctx context.Context, id int64) error
}

type codeGenerator interface {
	Generate() (string, error)
}

// URLService is the single authority for creating, resolving, listing,
// searching and deleting url mappings.
type URLService struct {
	repo    URLRepository
	gen     codeGenerator
	baseURL string
}

// NewURLService creates a URLService. baseURL is the externally visible
// address that short codes are appended to, e.g. "https://sho.rt".
func NewURLService(repo URLRepository, gen codeGenerator, baseURL string) *URLService {
	return &URLService{
		repo:    repo,
		gen:     gen,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// CreateAndSave returns the short URL for the given long URL, creating a new
// mapping if none exists. The operation is idempotent: repeated calls with
// the same long URL return the same short URL. Generated codes that collide
// with existing ones are retried a bounded number of times.
func (s *URLService) CreateAndSave(ctx context.Context, longURL string) (string, error) {
	const op = "service.URLService.CreateAndSave"
	const maxRetries = 5

	longURL = strings.TrimSpace(longURL)
	if longURL == "" {
		return "", fmt.Errorf("%s: %w", op, &ValidationError{
			Field:   "url",
			Message: "long url cannot be empty",
		})
	}

	existing, err := s.repo.GetByLongURL(ctx, longURL)
	if err == nil {
		return s.shortURL(existing.ShortCode), nil
	}
	if !errors.Is(err, database.ErrURLNotFound) {
		return "", fmt.Errorf("%s: failed to look up long url: %w", op, &StorageError{Err: err})
	}

	for i := 0; i < maxRetries; i++ {
		shortCode, err := s.gen.Generate()
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}

		url, err := s.repo.Create(ctx, shortCode, longURL)
		if err != nil {
			if errors.Is(err, database.ErrShortCodeExists) {
				continue
			}

			if errors.Is(err, database.ErrLongURLExists) {
				// Lost a race against a concurrent create for the same
				// long URL; return the winner's code.
				existing, err := s.repo.GetByLongURL(ctx, longURL)
				if err != nil {
					return "", fmt.Errorf("%s: failed to look up long url after conflict: %w", op, &StorageError{Err: err})
				}

				return s.shortURL(existing.ShortCode), nil
			}

			return "", fmt.Errorf("%s: failed to create url: %w", op, &StorageError{Err: err})
		}

		metrics.URLsCreatedTotal.Inc()

		return s.shortURL(url.ShortCode), nil
	}

	return "", fmt.Errorf("%s: %w", op, ErrMaxRetriesExceeded)
}

// Resolve returns the long URL associated with the short code and counts the
// access. The counter increment happens atomically in the store.
func (s *URLService) Resolve(ctx context.Context, shortCode string) (string, error) {
	const op = "service.URLService.Resolve"

	url, err := s.repo.IncrementAccessCount(ctx, shortCode)
	if err != nil {
		if errors.Is(err, database.ErrURLNotFound) {
			return "", fmt.Errorf("%s: %w", op, &NotFoundError{URL: shortCode})
		}

		return "", fmt.Errorf("%s: failed to resolve short code: %w", op, &StorageError{Err: err})
	}

	return url.LongURL, nil
}

// List returns the requested page of mappings sorted by creation time,
// newest first. Pages are zero-based. An out-of-range page yields an empty
// content slice with correct totals.
func (s *URLService) List(ctx context.Context, page, size int) (*models.Page, error) {
	const op = "service.URLService.List"

	if err := validatePageRequest(page, size); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	urls, total, err := s.repo.List(ctx, page*size, size)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list urls: %w", op, &StorageError{Err: err})
	}

	return newPage(urls, page, size, total), nil
}

// Search returns the mappings whose long URL or short code contains the
// term, case-insensitively, with the same pagination contract as List.
// A blank term is equivalent to List.
func (s *URLService) Search(ctx context.Context, term string, page, size int) (*models.Page, error) {
	const op = "service.URLService.Search"

	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx, page, size)
	}

	if err := validatePageRequest(page, size); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	urls, total, err := s.repo.Search(ctx, term, page*size, size)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to search urls: %w", op, &StorageError{Err: err})
	}

	return newPage(urls, page, size, total), nil
}

// Delete removes the mapping with the given id. Deleting an id that does not
// exist succeeds without error.
func (s *URLService) Delete(ctx context.Context, id int64) error {
	const op = "service.URLService.Delete"

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to delete url: %w", op, &StorageError{Err: err})
	}

	return nil
}

func (s *URLService) shortURL(shortCode string) string {
	return s.baseURL + "/" + shortCode
}

func validatePageRequest(page, size int) error {
	if page < 0 {
		return &ValidationError{Field: "page", Message: "page must not be negative"}
	}
	if size < 1 {
		return &ValidationError{Field: "size", Message: "size must be positive"}
	}

	return nil
}

func newPage(urls []*models.URL, page, size int, total int64) *models.Page {
	totalPages := int((total + int64(size) - 1) / int64(size))

	return &models.Page{
		Content:       urls,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          page >= totalPages-1,
	}
}
