package postgres

import (
	"context"
	"database/sql"

	"vetly/internal/domain/records"

	sq "github.com/Masterminds/squirrel"
)

var recordColumns = []string{
	"id", "animal_id", "weight", "medications", "dosage", "notes",
	"attended_at", "created_at", "updated_at",
}

type RecordsRepo struct {
	db *sql.DB
}

func NewRecordsRepo(db *sql.DB) *RecordsRepo {
	return &RecordsRepo{db: db}
}

var _ records.Repository = (*RecordsRepo)(nil)

func (r *RecordsRepo) Create(ctx context.Context, rec records.Record) error {
	query, args, err := psql.Insert("records").
		Columns(recordColumns...).
		Values(
			rec.ID, rec.AnimalID, rec.Weight, rec.Medications, rec.Dosage, rec.Notes,
			rec.AttendedAt, rec.CreatedAt, rec.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return mapError(err, "record", rec.ID)
	}
	return nil
}

func (r *RecordsRepo) GetByID(ctx context.Context, id string) (records.Record, error) {
	query, args, err := psql.Select(recordColumns...).From("records").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return records.Record{}, err
	}
	var rec records.Record
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(recordDest(&rec)...); err != nil {
		return records.Record{}, mapError(err, "record", id)
	}
	return rec, nil
}

// detailSelect: record + animal + owner en una sola fila.
func detailSelect() sq.SelectBuilder {
	cols := prefixed("r", recordColumns)
	cols = append(cols, prefixed("a", animalColumns)...)
	cols = append(cols, prefixed("o", ownerColumns)...)
	return psql.Select(cols...).
		From("records r").
		Join("animals a ON a.id = r.animal_id").
		Join("owners o ON o.id = a.owner_id")
}

func (r *RecordsRepo) GetDetail(ctx context.Context, id string) (records.Detail, error) {
	query, args, err := detailSelect().Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return records.Detail{}, err
	}
	d, err := scanDetail(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return records.Detail{}, mapError(err, "record", id)
	}
	return d, nil
}

func (r *RecordsRepo) ListDetailsByUser(ctx context.Context, userID string) ([]records.Detail, error) {
	query, args, err := detailSelect().
		Where(sq.Eq{"o.user_id": userID}).
		OrderBy("r.attended_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "record", "user:"+userID)
	}
	defer rows.Close()

	out := make([]records.Detail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *RecordsRepo) Update(ctx context.Context, rec records.Record) error {
	query, args, err := psql.Update("records").
		Set("animal_id", rec.AnimalID).
		Set("weight", rec.Weight).
		Set("medications", rec.Medications).
		Set("dosage", rec.Dosage).
		Set("notes", rec.Notes).
		Set("attended_at", rec.AttendedAt).
		Set("updated_at", rec.UpdatedAt).
		Where(sq.Eq{"id": rec.ID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, "record", rec.ID)
	}
	return exactlyOne(res, "record", rec.ID)
}

func (r *RecordsRepo) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("records").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err, "record", id)
	}
	return exactlyOne(res, "record", id)
}

func recordDest(rec *records.Record) []any {
	return []any{
		&rec.ID, &rec.AnimalID, &rec.Weight, &rec.Medications, &rec.Dosage, &rec.Notes,
		&rec.AttendedAt, &rec.CreatedAt, &rec.UpdatedAt,
	}
}

func scanDetail(row rowScanner) (records.Detail, error) {
	var d records.Detail
	var as animalScan

	dest := recordDest(&d.Record)
	dest = append(dest, as.dest()...)
	dest = append(dest, ownerDest(&d.Owner)...)

	if err := row.Scan(dest...); err != nil {
		return records.Detail{}, err
	}
	d.Animal = as.animal()
	return d, nil
}
