package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrTimeout marks a storage round-trip that exceeded the configured query
// timeout. Callers surface it as a transient, retryable failure.
var ErrTimeout = errors.New("storage timeout")

// ListLimits bounds the page size of every list query served through the
// Store. Zero values fall back to 10 and 100.
type ListLimits struct {
	Default int
	Max     int
}

func (l ListLimits) normalized() ListLimits {
	if l.Default <= 0 {
		l.Default = 10
	}
	if l.Max <= 0 {
		l.Max = 100
	}
	return l
}

// Store wraps the shared connection pool with a per-query timeout. It is
// passed explicitly to every repository so tests can substitute a mocked
// database.
type Store struct {
	db      *sqlx.DB
	timeout time.Duration
	limits  ListLimits
}

// NewStore builds a Store around the given pool. A non-positive timeout
// disables deadline enforcement.
func NewStore(db *sqlx.DB, timeout time.Duration, limits ListLimits) *Store {
	return &Store{db: db, timeout: timeout, limits: limits.normalized()}
}

// DB exposes the underlying pool for transaction management.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Get runs a single-row query honoring the query timeout.
func (s *Store) Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	return s.mapErr(s.db.GetContext(ctx, dest, query, args...))
}

// Select runs a multi-row query honoring the query timeout.
func (s *Store) Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	return s.mapErr(s.db.SelectContext(ctx, dest, query, args...))
}

// Exec runs a statement honoring the query timeout.
func (s *Store) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	res, err := s.db.ExecContext(ctx, query, args...)
	return res, s.mapErr(err)
}

// NamedExec runs a named statement honoring the query timeout.
func (s *Store) NamedExec(ctx context.Context, query string, arg interface{}) (sql.Result, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	res, err := s.db.NamedExecContext(ctx, query, arg)
	return res, s.mapErr(err)
}

// Begin opens a transaction. The caller owns commit/rollback; statements run
// inside it are bounded by the surrounding request context.
func (s *Store) Begin(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, s.mapErr(err)
	}
	return tx, nil
}

func (s *Store) mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
