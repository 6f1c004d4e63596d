package postgres

import (
	"context"
	"database/sql"

	"vetly/internal/domain/users"

	sq "github.com/Masterminds/squirrel"
)

var userColumns = []string{"id", "name", "email", "password_hash", "image_url", "created_at", "updated_at"}

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

var _ users.Repository = (*UsersRepo)(nil)

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	query, args, err := psql.Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.Name, u.Email, u.PasswordHash, nullString(u.ImageURL), u.CreatedAt, u.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return mapError(err, "user", u.ID)
	}
	return nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	return r.getOne(ctx, sq.Eq{"id": id}, id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	return r.getOne(ctx, sq.Eq{"email": email}, email)
}

func (r *UsersRepo) getOne(ctx context.Context, where sq.Eq, key string) (users.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return users.User{}, err
	}
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return users.User{}, mapError(err, "user", key)
	}
	return u, nil
}

func (r *UsersRepo) List(ctx context.Context) ([]users.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").OrderBy("created_at ASC").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "user", "*")
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UsersRepo) Update(ctx context.Context, u users.User) error {
	query, args, err := psql.Update("users").
		Set("name", u.Name).
		Set("email", u.Email).
		Set("image_url", nullString(u.ImageURL)).
		Set("updated_at", u.UpdatedAt).
		Where(sq.Eq{"id": u.ID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, "user", u.ID)
	}
	return exactlyOne(res, "user", u.ID)
}

// Delete: el esquema borra owners/animals/records en cascada.
func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, "user", id)
	}
	return exactlyOne(res, "user", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (users.User, error) {
	var u users.User
	var img sql.NullString
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &img, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return users.User{}, err
	}
	if img.Valid {
		u.ImageURL = &img.String
	}
	return u, nil
}
