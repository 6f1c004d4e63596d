// Package ownership resuelve la cadena Record → Animal → Owner → User y decide
// si el usuario autenticado puede operar sobre el recurso.
package ownership

import (
	"context"
	"errors"
	"fmt"

	"vetly/internal/domain"
)

type Kind string

const (
	KindOwner  Kind = "owner"
	KindAnimal Kind = "animal"
	KindRecord Kind = "record"
)

// Resolver devuelve el userId al final de la cadena del recurso,
// o domain.ErrNotFound si algún eslabón no existe.
type Resolver interface {
	ResolveUserID(ctx context.Context, kind Kind, id string) (string, error)
}

// Checker es lo que consumen los servicios de owners/animals/records.
type Checker interface {
	Authorize(ctx context.Context, kind Kind, id, callerID string) error
}

type Authorizer struct {
	resolver Resolver
}

func NewAuthorizer(r Resolver) *Authorizer {
	return &Authorizer{resolver: r}
}

// Authorize: inexistente → NotFound, de otro usuario → Forbidden.
func (a *Authorizer) Authorize(ctx context.Context, kind Kind, id, callerID string) error {
	notFoundMsg, forbiddenMsg, err := messages(kind)
	if err != nil {
		return err
	}
	if id == "" {
		return domain.NotFound(notFoundMsg)
	}

	userID, err := a.resolver.ResolveUserID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound(notFoundMsg)
		}
		return fmt.Errorf("ownership: resolve %s %s: %w", kind, id, err)
	}

	if callerID == "" || userID != callerID {
		return domain.Forbidden(forbiddenMsg)
	}
	return nil
}

func messages(kind Kind) (notFound, forbidden string, err error) {
	switch kind {
	case KindOwner:
		return domain.MsgOwnerNotFound, "Você não tem permissão para acessar este tutor", nil
	case KindAnimal:
		return domain.MsgAnimalNotFound, "Você não tem permissão para acessar este animal", nil
	case KindRecord:
		return domain.MsgRecordNotFound, "Você não tem permissão para acessar este prontuário", nil
	default:
		return "", "", fmt.Errorf("ownership: unknown kind %q", kind)
	}
}
