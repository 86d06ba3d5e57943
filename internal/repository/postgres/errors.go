package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	apperrors "github.com/foodspot-finder/internal/pkg/errors"
)

const uniqueViolation = "23505"

// isUniqueViolation understands both pgx errors and lib/pq errors, since the
// test helpers connect through lib/pq.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

// storeError tags a driver failure as STORE_UNAVAILABLE. Context errors pass
// through untouched so callers can tell cancellation from outages.
func storeError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
}
