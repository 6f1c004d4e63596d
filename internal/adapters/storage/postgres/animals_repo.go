package postgres

import (
	"context"
	"database/sql"

	"vetly/internal/domain/animals"

	sq "github.com/Masterminds/squirrel"
)

var animalColumns = []string{"id", "owner_id", "name", "species", "breed", "birth_date", "created_at", "updated_at"}

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

var _ animals.Repository = (*AnimalsRepo)(nil)

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	query, args, err := psql.Insert("animals").
		Columns(animalColumns...).
		Values(a.ID, a.OwnerID, a.Name, a.Species, a.Breed, nullTime(a.BirthDate), a.CreatedAt, a.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return mapError(err, "animal", a.ID)
	}
	return nil
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	query, args, err := psql.Select(animalColumns...).From("animals").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return animals.Animal{}, err
	}
	a, err := scanAnimal(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return animals.Animal{}, mapError(err, "animal", id)
	}
	return a, nil
}

func (r *AnimalsRepo) ListByUser(ctx context.Context, userID string) ([]animals.Animal, error) {
	query, args, err := psql.Select(prefixed("a", animalColumns)...).
		From("animals a").
		Join("owners o ON o.id = a.owner_id").
		Where(sq.Eq{"o.user_id": userID}).
		OrderBy("a.created_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "animal", "user:"+userID)
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AnimalsRepo) Update(ctx context.Context, a animals.Animal) error {
	query, args, err := psql.Update("animals").
		Set("owner_id", a.OwnerID).
		Set("name", a.Name).
		Set("species", a.Species).
		Set("breed", a.Breed).
		Set("birth_date", nullTime(a.BirthDate)).
		Set("updated_at", a.UpdatedAt).
		Where(sq.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, "animal", a.ID)
	}
	return exactlyOne(res, "animal", a.ID)
}

func (r *AnimalsRepo) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("animals").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, "animal", id)
	}
	return exactlyOne(res, "animal", id)
}

// animalScan acumula la fila; birth_date es DATE y llega como medianoche UTC.
type animalScan struct {
	a     animals.Animal
	birth sql.NullTime
}

func (s *animalScan) dest() []any {
	return []any{&s.a.ID, &s.a.OwnerID, &s.a.Name, &s.a.Species, &s.a.Breed, &s.birth, &s.a.CreatedAt, &s.a.UpdatedAt}
}

func (s *animalScan) animal() animals.Animal {
	a := s.a
	if s.birth.Valid {
		t := s.birth.Time
		a.BirthDate = &t
	}
	return a
}

func scanAnimal(row rowScanner) (animals.Animal, error) {
	var s animalScan
	if err := row.Scan(s.dest()...); err != nil {
		return animals.Animal{}, err
	}
	return s.animal(), nil
}

func prefixed(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return out
}
