// internal/database/db.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	custom_errors "portfolio-backend/internal/errors"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// Store is a Querier that can also run a function inside a transaction.
type Store interface {
	Querier
	ExecTx(ctx context.Context, fn func(Querier) error) error
}

// PoolStore is the Store backed by a pgx connection pool.
type PoolStore struct {
	*Queries
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *PoolStore {
	return &PoolStore{Queries: New(pool), pool: pool}
}

// ExecTx runs fn in a transaction and commits only if fn returns nil.
func (s *PoolStore) ExecTx(ctx context.Context, fn func(Querier) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return custom_errors.Persistence("begin transaction", err)
	}
	defer tx.Rollback(ctx) // Rollback is a no-op if the transaction is already committed.

	if err := fn(s.Queries.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return custom_errors.Persistence("commit transaction", err)
	}
	return nil
}

// Ping checks connectivity for the health endpoint.
func (s *PoolStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const uniqueViolation = "23505"

// mapErr turns driver errors into the package-independent sentinels and
// wraps everything else as a persistence error for op.
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return custom_errors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", custom_errors.ErrConflict, pgErr.ConstraintName)
	}
	return custom_errors.Persistence(op, err)
}
