package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moldmes/internal/common"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock.
type Database interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxDatabase is a Database that can open transactions.
type TxDatabase interface {
	Database
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repositories groups every repository bound to the same connection or
// transaction.
type Repositories struct {
	Materials    MaterialRepository
	Products     ProductRepository
	BOM          BOMRepository
	Inventory    InventoryRepository
	StockMoves   StockMoveRepository
	Molds        MoldRepository
	Tasks        TaskRepository
	Requirements RequirementRepository
	Reports      ReportRepository
}

func New(db Database) *Repositories {
	return &Repositories{
		Materials:    NewMaterialRepo(db),
		Products:     NewProductRepo(db),
		BOM:          NewBOMRepo(db),
		Inventory:    NewInventoryRepo(db),
		StockMoves:   NewStockMoveRepo(db),
		Molds:        NewMoldRepo(db),
		Tasks:        NewTaskRepo(db),
		Requirements: NewRequirementRepo(db),
		Reports:      NewReportRepo(db),
	}
}

// Transactor runs fn inside a single database transaction. The repositories
// handed to fn are bound to that transaction; fn must not retain them.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repos *Repositories) error) error
}

type TxOptions struct {
	// LockTimeout bounds every lock wait inside the transaction.
	LockTimeout time.Duration
	// MaxAttempts bounds retries on serialization failures, deadlocks and
	// lock timeouts.
	MaxAttempts int
	Backoff     time.Duration
}

func DefaultTxOptions() TxOptions {
	return TxOptions{
		LockTimeout: 3 * time.Second,
		MaxAttempts: 3,
		Backoff:     25 * time.Millisecond,
	}
}

type pgxTransactor struct {
	db   TxDatabase
	opts TxOptions
}

func NewTransactor(db TxDatabase, opts TxOptions) Transactor {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	return &pgxTransactor{db: db, opts: opts}
}

func (t *pgxTransactor) WithinTx(ctx context.Context, fn func(repos *Repositories) error) error {
	var err error
	for attempt := 1; attempt <= t.opts.MaxAttempts; attempt++ {
		err = t.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		if attempt == t.opts.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.opts.Backoff * time.Duration(attempt)):
		}
	}
	return common.Conflictf("transaction contention after %d attempts: %v", t.opts.MaxAttempts, err)
}

func (t *pgxTransactor) runOnce(ctx context.Context, fn func(repos *Repositories) error) (err error) {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if t.opts.LockTimeout > 0 {
		timeout := fmt.Sprintf("%dms", t.opts.LockTimeout.Milliseconds())
		if _, err = tx.Exec(ctx, "SELECT set_config('lock_timeout', $1, true)", timeout); err != nil {
			return fmt.Errorf("set lock timeout: %w", err)
		}
	}

	if err = fn(New(tx)); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

var errNoRows = pgx.ErrNoRows

// SQLSTATE codes inspected by the repositories.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgNumericOutOfRange    = "22003"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
		return true
	}
	return false
}

// translate maps storage errors onto domain errors. Retryable errors pass
// through untouched so the transactor can see them.
func translate(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NotFoundf("%s not found", entity)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return common.Conflictf("%s already exists (%s)", entity, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return common.Conflictf("%s is still referenced (%s)", entity, pgErr.ConstraintName)
		case pgCheckViolation:
			return common.Validationf("%s violates %s", entity, pgErr.ConstraintName)
		case pgNumericOutOfRange:
			return common.Validationf("%s quantity out of range", entity)
		}
	}
	return err
}
