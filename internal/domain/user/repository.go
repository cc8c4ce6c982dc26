package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context) ([]User, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, newUser User) (User, error)
	ExistsByIDOrEmail(ctx context.Context, id, email *string) (bool, error)
	Update(ctx context.Context, id string, req UpdateUserRequest, passwordHash *string) (User, error)
	Delete(ctx context.Context, id string) error
}
