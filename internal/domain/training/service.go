package training

import "context"

type TrainingService interface {
	Create(ctx context.Context, req CreateSessionRequest) (SessionResponse, error)
	GetByID(ctx context.Context, id string) (SessionResponse, error)
	List(ctx context.Context, filter SessionFilter) ([]SessionResponse, error)
	Update(ctx context.Context, req UpdateSessionRequest) (SessionResponse, error)
	Delete(ctx context.Context, id string) error
}
