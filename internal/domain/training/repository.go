package training

import "context"

type TrainingRepository interface {
	Create(ctx context.Context, s Session) (Session, error)
	GetByID(ctx context.Context, id string) (Session, error)
	List(ctx context.Context, filter SessionFilter) ([]Session, error)
	Update(ctx context.Context, s Session) (Session, error)
	Delete(ctx context.Context, id string) error
}
