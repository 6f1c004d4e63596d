package memory

import (
	"context"
	"sort"

	"vetly/internal/domain"
	"vetly/internal/domain/animals"
)

type animalRepo struct{ s *Store }

func (r animalRepo) Create(_ context.Context, a animals.Animal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.animals[a.ID]; exists {
		return domain.ErrConflict
	}
	if _, ok := r.s.owners[a.OwnerID]; !ok {
		return domain.ErrNotFound
	}
	r.s.animals[a.ID] = a
	return nil
}

func (r animalRepo) GetByID(_ context.Context, id string) (animals.Animal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.animals[id]
	if !ok {
		return animals.Animal{}, domain.ErrNotFound
	}
	return a, nil
}

func (r animalRepo) ListByUser(_ context.Context, userID string) ([]animals.Animal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]animals.Animal, 0)
	for _, a := range r.s.animals {
		if o, ok := r.s.owners[a.OwnerID]; ok && o.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r animalRepo) Update(_ context.Context, a animals.Animal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.animals[a.ID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.owners[a.OwnerID]; !ok {
		return domain.ErrNotFound
	}
	r.s.animals[a.ID] = a
	return nil
}

func (r animalRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.animals[id]; !ok {
		return domain.ErrNotFound
	}
	r.s.deleteAnimal(id)
	return nil
}
