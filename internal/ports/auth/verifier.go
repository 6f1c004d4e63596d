package auth

import (
	"context"
	"time"
)

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer firma un token de sesión para las claims dadas.
type TokenIssuer interface {
	Issue(claims Claims) (token string, expiresAt time.Time, err error)
}

// PasswordHasher encapsula el hash lento con salt de las contraseñas.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
