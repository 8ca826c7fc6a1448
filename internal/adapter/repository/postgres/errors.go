package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/bankledger/internal/domain"
)

// PostgreSQL error codes.
const (
	pgErrSerializationFailure = "40001"
	pgErrDeadlock             = "40P01"
	pgErrLockNotAvailable     = "55P03"
	pgErrForeignKeyViolation  = "23503"

	classConstraintViolation = "23"
	classConnectionException = "08"
)

// mapError converts driver-level failures into domain error kinds at the
// repository boundary so upper layers never inspect SQLSTATEs.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgErrSerializationFailure || pgErr.Code == pgErrDeadlock:
			return domain.WrapError(domain.KindSerialization, "serialization conflict", err)
		case pgErr.Code == pgErrLockNotAvailable:
			return domain.WrapError(domain.KindTimeout, "lock wait timed out", err)
		case pgErr.Code == pgErrForeignKeyViolation:
			// The schema's only foreign keys point at accounts; violating one
			// means the referenced account does not exist.
			return domain.WrapError(domain.KindNotFound, "account not found", err)
		case strings.HasPrefix(pgErr.Code, classConstraintViolation):
			return domain.WrapError(domain.KindConstraint, "constraint violation", err)
		case strings.HasPrefix(pgErr.Code, classConnectionException):
			return domain.WrapError(domain.KindUnavailable, "store unavailable", err)
		}

		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.WrapError(domain.KindTimeout, "lock wait timed out", err)
	}

	return err
}
