package discount

import "context"

type DiscountService interface {
	Create(ctx context.Context, req CreateDiscountRequest) (DiscountResponse, error)
	GetByID(ctx context.Context, id string) (DiscountResponse, error)
	List(ctx context.Context, filter DiscountFilter) ([]DiscountResponse, error)
	TotalByUser(ctx context.Context, userID string, month string) (DiscountTotalResponse, error)
	Update(ctx context.Context, req UpdateDiscountRequest) (DiscountResponse, error)
	Delete(ctx context.Context, id string) error
}
