package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/careerhub/placement-hub/internal/domain/placement"
)

// ══════════════════════════════════════════════════════════════════════════════
// STORE (placement.UnitOfWorkFactory)
// ══════════════════════════════════════════════════════════════════════════════

// Store opens units of work over pgx transactions.
type Store struct {
	conn   *Connection
	reader repositories
}

// NewStore creates a store on an open connection.
func NewStore(conn *Connection) *Store {
	return &Store{conn: conn, reader: newRepositories(conn, false)}
}

// Reader implements placement.UnitOfWorkFactory.
func (s *Store) Reader() placement.Repositories {
	return s.reader
}

// Begin implements placement.UnitOfWorkFactory.
func (s *Store) Begin(ctx context.Context) (placement.UnitOfWork, error) {
	tx, err := s.conn.BeginTx(ctx, DefaultTxOptions())
	if err != nil {
		return nil, err
	}
	return &unitOfWork{repositories: newRepositories(tx, true), tx: tx}, nil
}

type unitOfWork struct {
	repositories
	tx   pgx.Tx
	done bool
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.done {
		return errors.New("postgres: unit of work already finished")
	}
	u.done = true
	if err := u.tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrTransactionFailed, err)
	}
	return nil
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("%w: rollback: %v", ErrTransactionFailed, err)
	}
	return nil
}

var (
	_ placement.UnitOfWorkFactory = (*Store)(nil)
	_ placement.UnitOfWork        = (*unitOfWork)(nil)
)
