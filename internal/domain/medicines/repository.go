package medicines

import "context"

type Repository interface {
	Create(ctx context.Context, m Medicine) error
	GetByID(ctx context.Context, id string) (Medicine, error)
	ListByProfile(ctx context.Context, profileID string) ([]Medicine, error)
	Update(ctx context.Context, m Medicine) error
	Delete(ctx context.Context, id string) error
	DeleteByProfile(ctx context.Context, profileID string) error
}
