package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"vetly/internal/domain/ownership"

	sq "github.com/Masterminds/squirrel"
)

// Resolver sube por las FKs hasta owners.user_id con un solo query por kind.
type Resolver struct {
	db *sql.DB
}

func NewResolver(db *sql.DB) *Resolver {
	return &Resolver{db: db}
}

var _ ownership.Resolver = (*Resolver)(nil)

func (r *Resolver) ResolveUserID(ctx context.Context, kind ownership.Kind, id string) (string, error) {
	var q sq.SelectBuilder
	switch kind {
	case ownership.KindOwner:
		q = psql.Select("o.user_id").From("owners o").Where(sq.Eq{"o.id": id})
	case ownership.KindAnimal:
		q = psql.Select("o.user_id").
			From("animals a").
			Join("owners o ON o.id = a.owner_id").
			Where(sq.Eq{"a.id": id})
	case ownership.KindRecord:
		q = psql.Select("o.user_id").
			From("records r").
			Join("animals a ON a.id = r.animal_id").
			Join("owners o ON o.id = a.owner_id").
			Where(sq.Eq{"r.id": id})
	default:
		return "", fmt.Errorf("postgres: unknown kind %q", kind)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return "", err
	}
	var userID string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&userID); err != nil {
		return "", mapError(err, string(kind), id)
	}
	return userID, nil
}
