package animals

import (
	"context"
	"errors"
	"strings"
	"time"

	"vetly/internal/domain"
	"vetly/internal/domain/ownership"
	"vetly/internal/platform/dates"
	"vetly/internal/platform/patch"

	"github.com/google/uuid"
)

const (
	msgNameRequired     = "Nome é obrigatório"
	msgSpeciesRequired  = "Espécie é obrigatória"
	msgOwnerRequired    = "ownerId é obrigatório"
	msgBirthDateInvalid = "Data de nascimento inválida"
	msgBirthDateFuture  = "A data de nascimento não pode ser no futuro"
	msgOwnerForbidden   = "Você não tem permissão para criar um animal para este tutor"
)

type Service struct {
	repo  Repository
	authz ownership.Checker
	loc   *time.Location
	now   func() time.Time
}

// NewService recibe la zona horaria usada para fechas sin zona y para "hoy".
func NewService(repo Repository, authz ownership.Checker, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:  repo,
		authz: authz,
		loc:   loc,
		now:   time.Now,
	}
}

type CreateInput struct {
	Name      string
	Species   string
	Breed     string
	BirthDate string // YYYY-MM-DD o RFC3339, opcional
	OwnerID   string
}

func (s *Service) Create(ctx context.Context, callerID string, in CreateInput) (Animal, error) {
	a := Animal{
		ID:      uuid.NewString(),
		OwnerID: strings.TrimSpace(in.OwnerID),
		Name:    strings.TrimSpace(in.Name),
		Species: strings.TrimSpace(in.Species),
		Breed:   strings.TrimSpace(in.Breed),
	}

	bd, err := s.parseBirthDate(in.BirthDate)
	if err != nil {
		return Animal{}, err
	}
	a.BirthDate = bd

	if err := validate(a); err != nil {
		return Animal{}, err
	}
	if err := s.authorizeOwner(ctx, a.OwnerID, callerID); err != nil {
		return Animal{}, err
	}

	now := s.now()
	a.CreatedAt = now
	a.UpdatedAt = now

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, callerID, id string) (Animal, error) {
	if err := s.authz.Authorize(ctx, ownership.KindAnimal, id, callerID); err != nil {
		return Animal{}, err
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Animal{}, notFound(err)
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, callerID string) ([]Animal, error) {
	return s.repo.ListByUser(ctx, callerID)
}

type UpdateInput struct {
	Name      patch.Field[string]
	Species   patch.Field[string]
	Breed     patch.Field[string]
	BirthDate patch.Field[string] // null o "" limpia
	OwnerID   patch.Field[string] // mover a otro tutor del mismo usuario
}

func (s *Service) Update(ctx context.Context, callerID, id string, in UpdateInput) (Animal, error) {
	a, err := s.Get(ctx, callerID, id)
	if err != nil {
		return Animal{}, err
	}

	if in.Name.Set {
		a.Name = strings.TrimSpace(in.Name.Value)
	}
	if in.Species.Set {
		a.Species = strings.TrimSpace(in.Species.Value)
	}
	if in.Breed.Set {
		a.Breed = strings.TrimSpace(in.Breed.Value)
	}
	if in.BirthDate.Set {
		bd, err := s.parseBirthDate(in.BirthDate.Value)
		if err != nil {
			return Animal{}, err
		}
		a.BirthDate = bd
	}
	if in.OwnerID.Set {
		a.OwnerID = strings.TrimSpace(in.OwnerID.Value)
	}

	if err := validate(a); err != nil {
		return Animal{}, err
	}
	if in.OwnerID.Set {
		if err := s.authorizeOwner(ctx, a.OwnerID, callerID); err != nil {
			return Animal{}, err
		}
	}

	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, notFound(err)
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	if err := s.authz.Authorize(ctx, ownership.KindAnimal, id, callerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	return nil
}

func (s *Service) authorizeOwner(ctx context.Context, ownerID, callerID string) error {
	err := s.authz.Authorize(ctx, ownership.KindOwner, ownerID, callerID)
	if errors.Is(err, domain.ErrForbidden) {
		return domain.Forbidden(msgOwnerForbidden)
	}
	return err
}

func (s *Service) parseBirthDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, ok := dates.Parse(raw, s.loc)
	if !ok {
		return nil, domain.Validation(msgBirthDateInvalid)
	}
	// solo fecha: se compara el día; con hora: también el instante
	now := s.now()
	if dates.AfterToday(t, now, s.loc) || (!dates.DateOnly(raw) && t.After(now)) {
		return nil, domain.Validation(msgBirthDateFuture)
	}
	// se guarda el día civil (medianoche UTC), igual que la columna DATE
	day := dates.CivilDate(t, s.loc)
	return &day, nil
}

func validate(a Animal) error {
	switch {
	case a.Name == "":
		return domain.Validation(msgNameRequired)
	case a.Species == "":
		return domain.Validation(msgSpeciesRequired)
	case a.OwnerID == "":
		return domain.Validation(msgOwnerRequired)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFound(domain.MsgAnimalNotFound)
	}
	return err
}
