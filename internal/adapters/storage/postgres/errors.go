package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vetly/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// mapError convierte errores de pgx/database/sql en kinds de dominio.
// Los errores de contexto pasan tal cual.
func mapError(err error, entity, id string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrConflict)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "22P02": // invalid_text_representation: id que no es uuid
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
