package memory

import (
	"context"
	"sort"

	"vetly/internal/domain"
	"vetly/internal/domain/owners"
)

type ownerRepo struct{ s *Store }

func (r ownerRepo) Create(_ context.Context, o owners.Owner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.owners[o.ID]; exists {
		return domain.ErrConflict
	}
	if _, ok := r.s.users[o.UserID]; !ok {
		return domain.ErrNotFound
	}
	r.s.owners[o.ID] = o
	return nil
}

func (r ownerRepo) GetByID(_ context.Context, id string) (owners.Owner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.owners[id]
	if !ok {
		return owners.Owner{}, domain.ErrNotFound
	}
	return o, nil
}

func (r ownerRepo) ListByUser(_ context.Context, userID string) ([]owners.Owner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]owners.Owner, 0)
	for _, o := range r.s.owners {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r ownerRepo) Update(_ context.Context, o owners.Owner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.owners[o.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.owners[o.ID] = o
	return nil
}

func (r ownerRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.owners[id]; !ok {
		return domain.ErrNotFound
	}
	r.s.deleteOwner(id)
	return nil
}
