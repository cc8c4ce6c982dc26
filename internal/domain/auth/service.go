package auth

import (
	"context"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/user"
)

type AuthService interface {
	Register(ctx context.Context, req user.CreateUserRequest, session SessionTrackingRequest) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}
