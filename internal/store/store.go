// Package store persists users, posts, comments and categories through sqlx.
// Queries use '?' placeholders and are rebound for the active driver.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound = errors.New("store: not found")
	ErrConflict = errors.New("store: already exists")
)

type Store struct {
	db  *sqlx.DB
	now func() time.Time

	// slugTaken overrides the post slug lookup; nil uses the database.
	slugTaken func(ctx context.Context, slug string) (bool, error)
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// WithClock sets the timestamp source for created_at/updated_at.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func (s *Store) q(query string) string {
	return s.db.Rebind(query)
}

// wrap maps driver errors onto the store sentinels.
func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// Page selects a window of rows.
type Page struct {
	Number int
	Size   int
}

func (p Page) limit() int { return p.Size }

// offset saturates at math.MaxInt, which selects no rows, instead of
// overflowing for very large page numbers.
func (p Page) offset() int {
	if p.Number < 1 || p.Size < 1 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Size
}
