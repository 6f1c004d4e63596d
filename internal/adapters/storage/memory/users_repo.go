package memory

import (
	"context"
	"sort"
	"strings"

	"vetly/internal/domain"
	"vetly/internal/domain/users"
)

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u users.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.users[u.ID]; exists {
		return domain.ErrConflict
	}
	if r.emailTaken(u.Email, "") {
		return domain.ErrConflict
	}
	r.s.users[u.ID] = u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return users.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return users.User{}, domain.ErrNotFound
}

func (r userRepo) List(_ context.Context) ([]users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]users.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r userRepo) Update(_ context.Context, u users.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.emailTaken(u.Email, u.ID) {
		return domain.ErrConflict
	}
	r.s.users[u.ID] = u
	return nil
}

func (r userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return domain.ErrNotFound
	}
	r.s.deleteUser(id)
	return nil
}

func (r userRepo) emailTaken(email, exceptID string) bool {
	for id, u := range r.s.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}
