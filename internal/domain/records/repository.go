package records

import "context"

type Repository interface {
	Create(ctx context.Context, rec Record) error
	GetByID(ctx context.Context, id string) (Record, error)
	GetDetail(ctx context.Context, id string) (Detail, error)
	// ListDetailsByUser filtra por animal.owner.userId, más recientes primero.
	ListDetailsByUser(ctx context.Context, userID string) ([]Detail, error)
	Update(ctx context.Context, rec Record) error
	Delete(ctx context.Context, id string) error
}
