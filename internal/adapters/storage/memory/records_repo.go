package memory

import (
	"context"
	"sort"

	"vetly/internal/domain"
	"vetly/internal/domain/records"
)

type recordRepo struct{ s *Store }

func (r recordRepo) Create(_ context.Context, rec records.Record) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.records[rec.ID]; exists {
		return domain.ErrConflict
	}
	if _, ok := r.s.animals[rec.AnimalID]; !ok {
		return domain.ErrNotFound
	}
	r.s.records[rec.ID] = rec
	return nil
}

func (r recordRepo) GetByID(_ context.Context, id string) (records.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.records[id]
	if !ok {
		return records.Record{}, domain.ErrNotFound
	}
	return rec, nil
}

func (r recordRepo) GetDetail(_ context.Context, id string) (records.Detail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.records[id]
	if !ok {
		return records.Detail{}, domain.ErrNotFound
	}
	d, ok := r.detail(rec)
	if !ok {
		return records.Detail{}, domain.ErrNotFound
	}
	return d, nil
}

func (r recordRepo) ListDetailsByUser(_ context.Context, userID string) ([]records.Detail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]records.Detail, 0)
	for _, rec := range r.s.records {
		d, ok := r.detail(rec)
		if ok && d.Owner.UserID == userID {
			out = append(out, d)
		}
	}
	// más recientes primero
	sort.Slice(out, func(i, j int) bool {
		return out[i].AttendedAt.After(out[j].AttendedAt)
	})
	return out, nil
}

func (r recordRepo) Update(_ context.Context, rec records.Record) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.records[rec.ID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.animals[rec.AnimalID]; !ok {
		return domain.ErrNotFound
	}
	r.s.records[rec.ID] = rec
	return nil
}

func (r recordRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.records, id)
	return nil
}

func (r recordRepo) detail(rec records.Record) (records.Detail, bool) {
	a, ok := r.s.animals[rec.AnimalID]
	if !ok {
		return records.Detail{}, false
	}
	o, ok := r.s.owners[a.OwnerID]
	if !ok {
		return records.Detail{}, false
	}
	return records.Detail{Record: rec, Animal: a, Owner: o}, true
}
