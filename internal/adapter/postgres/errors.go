package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/flashquiz/internal/domain"
)

// SQLSTATE codes with a domain meaning.
const (
	codeNotNullViolation     = "23502"
	codeForeignKeyViolation  = "23503"
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeInvalidTextRepr      = "22P02"
	codeSerializationFailure = "40001"
)

var sqlStateErrors = map[string]error{
	codeNotNullViolation:     domain.ErrValidation,
	codeForeignKeyViolation:  domain.ErrNotFound, // the referenced set is gone
	codeUniqueViolation:      domain.ErrAlreadyExists,
	codeCheckViolation:       domain.ErrValidation,
	codeInvalidTextRepr:      domain.ErrValidation,
	codeSerializationFailure: domain.ErrConflict,
}

// MapError wraps err with the entity and ID it concerns and translates
// driver errors to domain sentinels. Context errors are never translated so
// callers can tell a timeout from a missing row.
func MapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	target := err
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
	case errors.Is(err, pgx.ErrNoRows):
		target = domain.ErrNotFound
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if mapped, ok := sqlStateErrors[pgErr.Code]; ok {
				target = mapped
			}
		}
	}
	return fmt.Errorf("%s %s: %w", entity, id, target)
}
