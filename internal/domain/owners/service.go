package owners

import (
	"context"
	"errors"
	"strings"
	"time"

	"vetly/internal/domain"
	"vetly/internal/domain/ownership"
	"vetly/internal/platform/patch"

	"github.com/google/uuid"
)

const (
	msgNameRequired  = "Nome é obrigatório"
	msgPhoneRequired = "Telefone é obrigatório"
	msgEmailInvalid  = "Email inválido"
)

type Service struct {
	repo  Repository
	authz ownership.Checker
	now   func() time.Time
}

func NewService(repo Repository, authz ownership.Checker) *Service {
	return &Service{
		repo:  repo,
		authz: authz,
		now:   time.Now,
	}
}

type Address struct {
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	State        string
	ZipCode      string
}

type CreateInput struct {
	Name    string
	Phone   string
	Email   string
	Address Address
}

func (s *Service) Create(ctx context.Context, callerID string, in CreateInput) (Owner, error) {
	if strings.TrimSpace(callerID) == "" {
		return Owner{}, domain.Unauthorized("Token não fornecido")
	}

	o := Owner{
		ID:           uuid.NewString(),
		UserID:       callerID,
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		Street:       strings.TrimSpace(in.Address.Street),
		Number:       strings.TrimSpace(in.Address.Number),
		Complement:   strings.TrimSpace(in.Address.Complement),
		Neighborhood: strings.TrimSpace(in.Address.Neighborhood),
		City:         strings.TrimSpace(in.Address.City),
		State:        strings.TrimSpace(in.Address.State),
		ZipCode:      strings.TrimSpace(in.Address.ZipCode),
	}
	email, err := optionalEmail(in.Email)
	if err != nil {
		return Owner{}, err
	}
	o.Email = email

	if err := validate(o); err != nil {
		return Owner{}, err
	}

	now := s.now()
	o.CreatedAt = now
	o.UpdatedAt = now

	if err := s.repo.Create(ctx, o); err != nil {
		return Owner{}, err
	}
	return o, nil
}

func (s *Service) Get(ctx context.Context, callerID, id string) (Owner, error) {
	if err := s.authz.Authorize(ctx, ownership.KindOwner, id, callerID); err != nil {
		return Owner{}, err
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Owner{}, notFound(err)
	}
	return o, nil
}

// List devuelve solo los tutores del usuario autenticado.
func (s *Service) List(ctx context.Context, callerID string) ([]Owner, error) {
	return s.repo.ListByUser(ctx, callerID)
}

// UpdateInput: solo se aplican los campos presentes. "" o null limpian los opcionales.
type UpdateInput struct {
	Name         patch.Field[string]
	Phone        patch.Field[string]
	Email        patch.Field[string]
	Street       patch.Field[string]
	Number       patch.Field[string]
	Complement   patch.Field[string]
	Neighborhood patch.Field[string]
	City         patch.Field[string]
	State        patch.Field[string]
	ZipCode      patch.Field[string]
}

func (s *Service) Update(ctx context.Context, callerID, id string, in UpdateInput) (Owner, error) {
	o, err := s.Get(ctx, callerID, id)
	if err != nil {
		return Owner{}, err
	}

	applyText(in.Name, &o.Name)
	applyText(in.Phone, &o.Phone)
	applyText(in.Street, &o.Street)
	applyText(in.Number, &o.Number)
	applyText(in.Complement, &o.Complement)
	applyText(in.Neighborhood, &o.Neighborhood)
	applyText(in.City, &o.City)
	applyText(in.State, &o.State)
	applyText(in.ZipCode, &o.ZipCode)
	if in.Email.Set {
		email, err := optionalEmail(in.Email.Value)
		if err != nil {
			return Owner{}, err
		}
		o.Email = email
	}

	if err := validate(o); err != nil {
		return Owner{}, err
	}
	o.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, o); err != nil {
		return Owner{}, notFound(err)
	}
	return o, nil
}

func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	if err := s.authz.Authorize(ctx, ownership.KindOwner, id, callerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	return nil
}

func validate(o Owner) error {
	if o.Name == "" {
		return domain.Validation(msgNameRequired)
	}
	if o.Phone == "" {
		return domain.Validation(msgPhoneRequired)
	}
	return nil
}

func optionalEmail(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	email, ok := domain.NormalizeEmail(s)
	if !ok {
		return "", domain.Validation(msgEmailInvalid)
	}
	return email, nil
}

func applyText(f patch.Field[string], dst *string) {
	if !f.Set {
		return
	}
	*dst = strings.TrimSpace(f.Value)
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFound(domain.MsgOwnerNotFound)
	}
	return err
}
