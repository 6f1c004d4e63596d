package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"vetly/internal/domain"
	"vetly/internal/platform/patch"
)

const (
	msgNameRequired  = "Nome é obrigatório"
	msgEmailInvalid  = "Email inválido"
	msgEmailTaken    = "Email já cadastrado"
	msgForbiddenSelf = "Você só pode alterar o seu próprio usuário"
)

type Service struct {
	repo   Repository
	images ImageStore
	now    func() time.Time

	maxImageBytes int64
	observeUpload func(result string)
}

func NewService(repo Repository, images ImageStore, maxImageBytes int64) *Service {
	return &Service{
		repo:          repo,
		images:        images,
		now:           time.Now,
		maxImageBytes: maxImageBytes,
		observeUpload: func(string) {},
	}
}

// OnUpload registra un observador del resultado de cada upload (métricas).
func (s *Service) OnUpload(fn func(result string)) {
	if fn != nil {
		s.observeUpload = fn
	}
}

// MaxImageBytes expone el límite para que el handler acote la lectura del body.
func (s *Service) MaxImageBytes() int64 {
	return s.maxImageBytes
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	u, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return User{}, notFound(err)
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

type UpdateInput struct {
	Name  patch.Field[string]
	Email patch.Field[string]
}

// Update aplica solo los campos presentes. Solo el propio usuario puede editarse.
func (s *Service) Update(ctx context.Context, callerID, id string, in UpdateInput) (User, error) {
	u, err := s.ownedUser(ctx, callerID, id)
	if err != nil {
		return User{}, err
	}

	if in.Name.Set {
		name := strings.TrimSpace(in.Name.Value)
		if in.Name.Null || name == "" {
			return User{}, domain.Validation(msgNameRequired)
		}
		u.Name = name
	}
	if in.Email.Set {
		email, ok := domain.NormalizeEmail(in.Email.Value)
		if in.Email.Null || !ok {
			return User{}, domain.Validation(msgEmailInvalid)
		}
		u.Email = email
	}
	u.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return User{}, domain.Conflict(msgEmailTaken)
		}
		return User{}, notFound(err)
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	if _, err := s.ownedUser(ctx, callerID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	return nil
}

func (s *Service) ownedUser(ctx context.Context, callerID, id string) (User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if u.ID != callerID {
		return User{}, domain.Forbidden(msgForbiddenSelf)
	}
	return u, nil
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFound(domain.MsgUserNotFound)
	}
	return err
}
