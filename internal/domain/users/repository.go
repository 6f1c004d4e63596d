package users

import (
	"context"
	"io"
)

// Repository devuelve domain.ErrNotFound si el usuario no existe
// y domain.ErrConflict si el email ya está registrado.
type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id string) error
}

// ImageStore sube el archivo al proveedor de storage y devuelve la URL pública.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}
