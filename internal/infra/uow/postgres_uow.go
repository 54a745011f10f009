package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"booking-core/internal/infra/db"
	"booking-core/internal/infra/readstore"
	"booking-core/internal/infra/repository"
	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

const defaultMaxRetries = 3

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
	errTransactionTimeout = errs.New("transaction timed out")
)

type PostgresUoW struct {
	pool       db.TxBeginner
	timeout    time.Duration
	maxRetries int
	baseWait   time.Duration
	logger     *slog.Logger

	inventory    *repository.InventoryRepository
	reservations *repository.ReservationRepository
	commissions  *repository.CommissionRepository
}

func NewPostgresUoW(pool db.TxBeginner, cfg config.BookingConfig, logger *slog.Logger) *PostgresUoW {
	return &PostgresUoW{
		pool:         pool,
		timeout:      cfg.TxTimeout,
		maxRetries:   defaultMaxRetries,
		baseWait:     100 * time.Millisecond,
		logger:       logger,
		inventory:    repository.NewInventoryRepository(),
		reservations: repository.NewReservationRepository(),
		commissions:  repository.NewCommissionRepository(),
	}
}

// Within runs fn in a ReadCommitted transaction. Row locks taken by the
// ledger and FOR UPDATE loads serialize writers, so nothing stronger is
// needed. Serialization failures, deadlocks and booking reference
// collisions rerun fn from the start.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return readstore.NewCatalogReadStore(u.pool)
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	for attempt := 0; attempt <= u.maxRetries; attempt++ {
		err := u.attempt(ctx, options, fn)
		if err == nil {
			return nil
		}

		if !shouldRetry(err, attempt, u.maxRetries) {
			if attempt == u.maxRetries && isRetryableError(err) {
				u.logger.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(errs.Mark(err, errMaxRetriesExceeded), errs.ErrRetryable)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, u.baseWait)

		u.logger.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errs.Mark(errMaxRetriesExceeded, errs.ErrRetryable)
}

func (u *PostgresUoW) attempt(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return timeoutOr(ctx, errs.Mark(err, errTransactionBegin))
	}

	tx := &pgTx{dbtx: pgxTx, uow: u}

	err = fn(ctx, tx)
	if err == nil {
		if err = pgxTx.Commit(ctx); err == nil {
			return nil
		}
		err = errs.Mark(err, errTransactionCommit)
	}

	// Rollback gets its own context so a timed-out attempt still releases
	// its connection.
	rbCtx, rbCancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer rbCancel()
	if rollbackErr := pgxTx.Rollback(rbCtx); rollbackErr != nil {
		if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			u.logger.Warn("rollback failed", "error", rollbackErr.Error())
		}
	}

	return timeoutOr(ctx, err)
}

// timeoutOr reports a transaction deadline as retryable; the caller's own
// cancellation passes through untouched.
func timeoutOr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errs.Mark(errs.Mark(err, errTransactionTimeout), errs.ErrRetryable)
	}
	return err
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	if errs.Is(err, shared.ErrDuplicateBookingReference) {
		return true
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX
	uow  *PostgresUoW

	commandReads shared.CommandReads
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}

func (t *pgTx) Inventory() shared.InventoryLedger {
	return t.uow.inventory
}

func (t *pgTx) Reservations() shared.ReservationRepository {
	return t.uow.reservations
}

func (t *pgTx) Commissions() shared.CommissionLedger {
	return t.uow.commissions
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = readstore.NewCatalogReadStore(t.dbtx)
	}
	return t.commandReads
}
