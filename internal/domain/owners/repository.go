package owners

import "context"

type Repository interface {
	Create(ctx context.Context, o Owner) error
	GetByID(ctx context.Context, id string) (Owner, error)
	ListByUser(ctx context.Context, userID string) ([]Owner, error)
	Update(ctx context.Context, o Owner) error
	// Delete borra en cascada animales y prontuarios del tutor.
	Delete(ctx context.Context, id string) error
}
