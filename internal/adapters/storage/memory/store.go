// Package memory es el storage en memoria para dev y tests: mismas reglas
// que el esquema postgres (email único, FKs, ON DELETE CASCADE).
package memory

import (
	"context"
	"fmt"
	"sync"

	"vetly/internal/domain"
	"vetly/internal/domain/animals"
	"vetly/internal/domain/ownership"
	"vetly/internal/domain/owners"
	"vetly/internal/domain/records"
	"vetly/internal/domain/users"
)

// Store comparte un único lock entre las cuatro tablas para que las cascadas
// sean atómicas.
type Store struct {
	mu      sync.RWMutex
	users   map[string]users.User
	owners  map[string]owners.Owner
	animals map[string]animals.Animal
	records map[string]records.Record
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]users.User),
		owners:  make(map[string]owners.Owner),
		animals: make(map[string]animals.Animal),
		records: make(map[string]records.Record),
	}
}

func (s *Store) Users() users.Repository     { return userRepo{s} }
func (s *Store) Owners() owners.Repository   { return ownerRepo{s} }
func (s *Store) Animals() animals.Repository { return animalRepo{s} }
func (s *Store) Records() records.Repository { return recordRepo{s} }

var _ ownership.Resolver = (*Store)(nil)

func (s *Store) ResolveUserID(_ context.Context, kind ownership.Kind, id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch kind {
	case ownership.KindOwner:
		o, ok := s.owners[id]
		if !ok {
			return "", domain.ErrNotFound
		}
		return o.UserID, nil
	case ownership.KindAnimal:
		o, ok := s.ownerOfAnimal(id)
		if !ok {
			return "", domain.ErrNotFound
		}
		return o.UserID, nil
	case ownership.KindRecord:
		rec, ok := s.records[id]
		if !ok {
			return "", domain.ErrNotFound
		}
		o, ok := s.ownerOfAnimal(rec.AnimalID)
		if !ok {
			return "", domain.ErrNotFound
		}
		return o.UserID, nil
	default:
		return "", fmt.Errorf("memory: unknown kind %q", kind)
	}
}

// ownerOfAnimal requiere s.mu tomado.
func (s *Store) ownerOfAnimal(animalID string) (owners.Owner, bool) {
	a, ok := s.animals[animalID]
	if !ok {
		return owners.Owner{}, false
	}
	o, ok := s.owners[a.OwnerID]
	return o, ok
}

// Cascadas: requieren s.mu tomado en escritura.

func (s *Store) deleteUser(id string) {
	for oid, o := range s.owners {
		if o.UserID == id {
			s.deleteOwner(oid)
		}
	}
	delete(s.users, id)
}

func (s *Store) deleteOwner(id string) {
	for aid, a := range s.animals {
		if a.OwnerID == id {
			s.deleteAnimal(aid)
		}
	}
	delete(s.owners, id)
}

func (s *Store) deleteAnimal(id string) {
	for rid, rec := range s.records {
		if rec.AnimalID == id {
			delete(s.records, rid)
		}
	}
	delete(s.animals, id)
}
