package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/melihemreguler/urlshortener/internal/database"
	"github.com/melihemreguler/urlshortener/internal/models"
)

type urlRecord struct {
	ID          int64     `db:"id"`
	LongURL     string    `db:"long_url"`
	ShortCode   string    `db:"short_code"`
	AccessCount int64     `db:"access_count"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *urlRecord) toURL() *models.URL {
	return &models.URL{
		ID:          r.ID,
		LongURL:     r.LongURL,
		ShortCode:   r.ShortCode,
		AccessCount: r.AccessCount,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// URLRepository persists url mappings in PostgreSQL. Uniqueness of both the
// short code and the long URL is enforced by the table's constraints.
type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{db: db}
}

func (r *URLRepository) Create(ctx context.Context, shortCode, longURL string) (*models.URL, error) {
	const op = "database.postgres.URLRepository.Create"
	const query = `INSERT INTO urls(short_code, long_url)
		VALUES ($1, $2)
		RETURNING *`

	rec := new(urlRecord)

	if err := r.db.GetContext(ctx, rec, query, shortCode, longURL); err != nil {
		if uniqueErr := uniqueViolationError(err); uniqueErr != nil {
			return nil, fmt.Errorf("%s: %w", op, uniqueErr)
		}

		return nil, fmt.Errorf("%s: failed to insert url record: %w", op, err)
	}

	return rec.toURL(), nil
}

func (r *URLRepository) GetByLongURL(ctx context.Context, longURL string) (*models.URL, error) {
	const op = "database.postgres.URLRepository.GetByLongURL"
	const query = `SELECT * FROM urls WHERE long_url = $1`

	rec := new(urlRecord)

	if err := r.db.GetContext(ctx, rec, query, longURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get url record: %w", op, err)
	}

	return rec.toURL(), nil
}

// IncrementAccessCount bumps the access counter for the given short code in a
// single atomic statement, so concurrent resolves never lose updates.
func (r *URLRepository) IncrementAccessCount(ctx context.Context, shortCode string) (*models.URL, error) {
	const op = "database.postgres.URLRepository.IncrementAccessCount"
	const query = `UPDATE urls
		SET access_count = access_count + 1, updated_at = now()
		WHERE short_code = $1
		RETURNING *`

	rec := new(urlRecord)

	if err := r.db.GetContext(ctx, rec, query, shortCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to update url record: %w", op, err)
	}

	return rec.toURL(), nil
}

// List returns one page of mappings ordered by creation time, newest first,
// with the id as a tie-breaker, plus the total number of stored mappings.
func (r *URLRepository) List(ctx context.Context, offset, limit int) ([]*models.URL, int64, error) {
	const op = "database.postgres.URLRepository.List"
	const query = `SELECT * FROM urls
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	const countQuery = `SELECT count(*) FROM urls`

	var recs []*urlRecord

	if err := r.db.SelectContext(ctx, &recs, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("%s: failed to select url records: %w", op, err)
	}

	var total int64

	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, fmt.Errorf("%s: failed to count url records: %w", op, err)
	}

	return toURLs(recs), total, nil
}

// Search behaves like List restricted to mappings whose long URL or short
// code contains the term, case-insensitively.
func (r *URLRepository) Search(ctx context.Context, term string, offset, limit int) ([]*models.URL, int64, error) {
	const op = "database.postgres.URLRepository.Search"
	const query = `SELECT * FROM urls
		WHERE long_url ILIKE $1 OR short_code ILIKE $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	const countQuery = `SELECT count(*) FROM urls
		WHERE long_url ILIKE $1 OR short_code ILIKE $1`

	pattern := "%" + escapeLikePattern(term) + "%"

	var recs []*urlRecord

	if err := r.db.SelectContext(ctx, &recs, query, pattern, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("%s: failed to select url records: %w", op, err)
	}

	var total int64

	if err := r.db.GetContext(ctx, &total, countQuery, pattern); err != nil {
		return nil, 0, fmt.Errorf("%s: failed to count url records: %w", op, err)
	}

	return toURLs(recs), total, nil
}

// Delete removes the mapping with the given id. Deleting an id that does not
// exist is not an error.
func (r *URLRepository) Delete(ctx context.Context, id int64) error {
	const op = "database.postgres.URLRepository.Delete"
	const query = `DELETE FROM urls WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: failed to delete url record: %w", op, err)
	}

	return nil
}

func toURLs(recs []*urlRecord) []*models.URL {
	urls := make([]*models.URL, 0, len(recs))
	for _, rec := range recs {
		urls = append(urls, rec.toURL())
	}
	return urls
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLikePattern neutralizes LIKE metacharacters so a search term is
// matched literally.
func escapeLikePattern(term string) string {
	return likeEscaper.Replace(term)
}
