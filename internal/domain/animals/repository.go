package animals

import "context"

type Repository interface {
	Create(ctx context.Context, a Animal) error
	GetByID(ctx context.Context, id string) (Animal, error)
	// ListByUser filtra por owner.userId.
	ListByUser(ctx context.Context, userID string) ([]Animal, error)
	Update(ctx context.Context, a Animal) error
	Delete(ctx context.Context, id string) error
}
