// Package store is the Postgres data-access layer. All queries are
// parameterized; the scheduling invariants get a storage-level backstop via
// the exclusion constraint in db/migrations.
package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinic-booking-api/internal/httpx"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// postgres error codes
const (
	codeUniqueViolation    = "23505"
	codeExclusionViolation = "23P01"
)

func isPgErr(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func notFound(what string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %w", what, httpx.ErrNotFound)
	}
	return err
}
