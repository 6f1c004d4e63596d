package records

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"vetly/internal/domain"
	"vetly/internal/domain/ownership"
	"vetly/internal/platform/dates"
	"vetly/internal/platform/patch"

	"github.com/google/uuid"
)

const (
	msgWeightRequired     = "Peso é obrigatório"
	msgWeightInvalid      = "O peso deve ser maior que zero"
	msgAttendedAtRequired = "Data do atendimento é obrigatória"
	msgAttendedAtInvalid  = "Data do atendimento inválida"
	msgAnimalRequired     = "animalId é obrigatório"
	msgAnimalForbidden    = "Você não tem permissão para registrar prontuários para este animal"
)

type Service struct {
	repo  Repository
	authz ownership.Checker
	loc   *time.Location
	now   func() time.Time
}

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
	Weight      *float64
	Medications string
	Dosage      string
	Notes       string
	AttendedAt  string
	AnimalID    string
}

func (s *Service) Create(ctx context.Context, callerID string, in CreateInput) (Record, error) {
	if in.Weight == nil {
		return Record{}, domain.Validation(msgWeightRequired)
	}
	rec := Record{
		ID:          uuid.NewString(),
		AnimalID:    strings.TrimSpace(in.AnimalID),
		Weight:      *in.Weight,
		Medications: strings.TrimSpace(in.Medications),
		Dosage:      strings.TrimSpace(in.Dosage),
		Notes:       strings.TrimSpace(in.Notes),
	}

	at, err := s.parseAttendedAt(in.AttendedAt)
	if err != nil {
		return Record{}, err
	}
	rec.AttendedAt = at

	if err := validate(rec); err != nil {
		return Record{}, err
	}
	if err := s.authorizeAnimal(ctx, rec.AnimalID, callerID); err != nil {
		return Record{}, err
	}

	now := s.now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := s.repo.Create(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, callerID, id string) (Detail, error) {
	if err := s.authz.Authorize(ctx, ownership.KindRecord, id, callerID); err != nil {
		return Detail{}, err
	}
	d, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return Detail{}, notFound(err)
	}
	return d, nil
}

// Report resuelve el prontuario para el PDF. Si no pertenece al usuario se
// responde como inexistente: no se revela que el id existe.
func (s *Service) Report(ctx context.Context, callerID, id string) (Detail, error) {
	d, err := s.Get(ctx, callerID, id)
	if errors.Is(err, domain.ErrForbidden) {
		return Detail{}, domain.NotFound(domain.MsgRecordNotFound)
	}
	return d, err
}

func (s *Service) List(ctx context.Context, callerID string) ([]Detail, error) {
	return s.repo.ListDetailsByUser(ctx, callerID)
}

type UpdateInput struct {
	Weight      patch.Field[float64]
	Medications patch.Field[string]
	Dosage      patch.Field[string]
	Notes       patch.Field[string]
	AttendedAt  patch.Field[string]
	AnimalID    patch.Field[string]
}

func (s *Service) Update(ctx context.Context, callerID, id string, in UpdateInput) (Record, error) {
	if err := s.authz.Authorize(ctx, ownership.KindRecord, id, callerID); err != nil {
		return Record{}, err
	}
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Record{}, notFound(err)
	}

	if in.Weight.Set {
		if in.Weight.Null {
			return Record{}, domain.Validation(msgWeightRequired)
		}
		rec.Weight = in.Weight.Value
	}
	if in.Medications.Set {
		rec.Medications = strings.TrimSpace(in.Medications.Value)
	}
	if in.Dosage.Set {
		rec.Dosage = strings.TrimSpace(in.Dosage.Value)
	}
	if in.Notes.Set {
		rec.Notes = strings.TrimSpace(in.Notes.Value)
	}
	if in.AttendedAt.Set {
		at, err := s.parseAttendedAt(in.AttendedAt.Value)
		if err != nil {
			return Record{}, err
		}
		rec.AttendedAt = at
	}
	if in.AnimalID.Set {
		rec.AnimalID = strings.TrimSpace(in.AnimalID.Value)
	}

	if err := validate(rec); err != nil {
		return Record{}, err
	}
	if in.AnimalID.Set {
		if err := s.authorizeAnimal(ctx, rec.AnimalID, callerID); err != nil {
			return Record{}, err
		}
	}

	rec.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, rec); err != nil {
		return Record{}, notFound(err)
	}
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	if err := s.authz.Authorize(ctx, ownership.KindRecord, id, callerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	return nil
}

func (s *Service) authorizeAnimal(ctx context.Context, animalID, callerID string) error {
	err := s.authz.Authorize(ctx, ownership.KindAnimal, animalID, callerID)
	if errors.Is(err, domain.ErrForbidden) {
		return domain.Forbidden(msgAnimalForbidden)
	}
	return err
}

func (s *Service) parseAttendedAt(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, domain.Validation(msgAttendedAtRequired)
	}
	t, ok := dates.Parse(raw, s.loc)
	if !ok {
		return time.Time{}, domain.Validation(msgAttendedAtInvalid)
	}
	return t, nil
}

func validate(rec Record) error {
	switch {
	case math.IsNaN(rec.Weight) || math.IsInf(rec.Weight, 0) || rec.Weight <= 0:
		return domain.Validation(msgWeightInvalid)
	case rec.AttendedAt.IsZero():
		return domain.Validation(msgAttendedAtRequired)
	case rec.AnimalID == "":
		return domain.Validation(msgAnimalRequired)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFound(domain.MsgRecordNotFound)
	}
	return err
}
