package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/repository"
	"github.com/sethvargo/go-retry"
)

// RoundingPrecision scales float results to two decimal places.
const RoundingPrecision = 100

// conflictBackoff is the wait between attempts after a concurrency conflict.
const conflictBackoff = 5 * time.Millisecond

// round rounds a float64 value to two decimal places.
//
// Example:
//
//	round(123.456789)  // returns 123.46
//	round(1.994)       // returns 1.99
func round(value float64) float64 {
	return math.Round(value*RoundingPrecision) / RoundingPrecision
}

// retryOnConflict runs fn up to attempts times while it fails with ErrConcurrencyConflict.
// Any other error, or the last conflict, is returned as is.
func retryOnConflict(ctx context.Context, attempts uint64, fn func(ctx context.Context) error) error {
	if attempts == 0 {
		attempts = 1
	}
	backoff := retry.WithMaxRetries(attempts-1, retry.NewExponential(conflictBackoff))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if errors.Is(err, apperrors.ErrConcurrencyConflict) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// inTx runs fn inside a transaction, committing when fn succeeds.
// Lock contention on begin or commit is reported as ErrConcurrencyConflict.
func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		if repository.IsBusy(err) {
			return fmt.Errorf("%w: %v", apperrors.ErrConcurrencyConflict, err)
		}
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		if repository.IsBusy(err) {
			return fmt.Errorf("%w: %v", apperrors.ErrConcurrencyConflict, err)
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
