package postgres

import (
	"context"
	"database/sql"

	"vetly/internal/domain/owners"

	sq "github.com/Masterminds/squirrel"
)

var ownerColumns = []string{
	"id", "user_id", "name", "phone", "email",
	"street", "number", "complement", "neighborhood", "city", "state", "zip_code",
	"created_at", "updated_at",
}

type OwnersRepo struct {
	db *sql.DB
}

func NewOwnersRepo(db *sql.DB) *OwnersRepo {
	return &OwnersRepo{db: db}
}

var _ owners.Repository = (*OwnersRepo)(nil)

func (r *OwnersRepo) Create(ctx context.Context, o owners.Owner) error {
	query, args, err := psql.Insert("owners").
		Columns(ownerColumns...).
		Values(
			o.ID, o.UserID, o.Name, o.Phone, o.Email,
			o.Street, o.Number, o.Complement, o.Neighborhood, o.City, o.State, o.ZipCode,
			o.CreatedAt, o.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return mapError(err, "owner", o.ID)
	}
	return nil
}

func (r *OwnersRepo) GetByID(ctx context.Context, id string) (owners.Owner, error) {
	query, args, err := psql.Select(ownerColumns...).From("owners").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return owners.Owner{}, err
	}
	o, err := scanOwner(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return owners.Owner{}, mapError(err, "owner", id)
	}
	return o, nil
}

func (r *OwnersRepo) ListByUser(ctx context.Context, userID string) ([]owners.Owner, error) {
	query, args, err := psql.Select(ownerColumns...).
		From("owners").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "owner", "user:"+userID)
	}
	defer rows.Close()

	out := make([]owners.Owner, 0)
	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OwnersRepo) Update(ctx context.Context, o owners.Owner) error {
	query, args, err := psql.Update("owners").
		SetMap(map[string]any{
			"name":         o.Name,
			"phone":        o.Phone,
			"email":        o.Email,
			"street":       o.Street,
			"number":       o.Number,
			"complement":   o.Complement,
			"neighborhood": o.Neighborhood,
			"city":         o.City,
			"state":        o.State,
			"zip_code":     o.ZipCode,
			"updated_at":   o.UpdatedAt,
		}).
		Where(sq.Eq{"id": o.ID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, "owner", o.ID)
	}
	return exactlyOne(res, "owner", o.ID)
}

func (r *OwnersRepo) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("owners").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, "owner", id)
	}
	return exactlyOne(res, "owner", id)
}

func ownerDest(o *owners.Owner) []any {
	return []any{
		&o.ID, &o.UserID, &o.Name, &o.Phone, &o.Email,
		&o.Street, &o.Number, &o.Complement, &o.Neighborhood, &o.City, &o.State, &o.ZipCode,
		&o.CreatedAt, &o.UpdatedAt,
	}
}

func scanOwner(row rowScanner) (owners.Owner, error) {
	var o owners.Owner
	if err := row.Scan(ownerDest(&o)...); err != nil {
		return owners.Owner{}, err
	}
	return o, nil
}
