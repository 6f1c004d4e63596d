package accounts

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"vetly/internal/domain"
	"vetly/internal/domain/users"
	"vetly/internal/ports/auth"

	"github.com/google/uuid"
)

const (
	MsgInvalidCredentials = "Email ou senha inválidos"

	msgNameRequired  = "Nome é obrigatório"
	msgEmailInvalid  = "Email inválido"
	msgEmailTaken    = "Email já cadastrado"
	msgPasswordShort = "A senha deve ter pelo menos 6 caracteres"

	minPasswordLen = 6
)

// Service cubre registro y login. Implementa users.Registrar.
type Service struct {
	users  users.Repository
	hasher auth.PasswordHasher
	issuer auth.TokenIssuer
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewService(repo users.Repository, hasher auth.PasswordHasher, issuer auth.TokenIssuer) *Service {
	return &Service{
		users:  repo,
		hasher: hasher,
		issuer: issuer,
		now:    time.Now,
	}
}

func (s *Service) Register(ctx context.Context, in users.RegisterInput) (users.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return users.User{}, domain.Validation(msgNameRequired)
	}
	email, ok := domain.NormalizeEmail(in.Email)
	if !ok {
		return users.User{}, domain.Validation(msgEmailInvalid)
	}
	if len(in.Password) < minPasswordLen {
		return users.User{}, domain.Validation(msgPasswordShort)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return users.User{}, domain.Conflict(msgEmailTaken)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return users.User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return users.User{}, err
	}

	now := s.now()
	u := users.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// carrera entre el GetByEmail y el insert: lo resuelve el índice único
		if errors.Is(err, domain.ErrConflict) {
			return users.User{}, domain.Conflict(msgEmailTaken)
		}
		return users.User{}, err
	}
	return u, nil
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      users.User
}

// Login devuelve el mismo error para email inexistente y contraseña incorrecta.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, domain.InvalidCredentials(MsgInvalidCredentials)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return Session{}, err
		}
		// mismo costo de bcrypt que un usuario existente
		_ = s.hasher.Compare(s.dummy(), password)
		return Session{}, domain.InvalidCredentials(MsgInvalidCredentials)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return Session{}, domain.InvalidCredentials(MsgInvalidCredentials)
	}

	token, exp, err := s.issuer.Issue(auth.Claims{UserID: u.ID, Email: u.Email})
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("vetly-dummy-password")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
