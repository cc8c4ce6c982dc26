package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/commission-payroll-go/internal/repository/postgresql"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	tx          database.Transactor
	users       user.UserRepository
	userService user.UserService
	jwt.Service
	postgresql.JWTRepository
	logger *zap.Logger
}

func NewAuthService(
	tx database.Transactor,
	userRepository user.UserRepository,
	userService user.UserService,
	jwtService jwt.Service,
	jwtRepository postgresql.JWTRepository,
	logger ...*zap.Logger,
) auth.AuthService {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &AuthServiceImpl{
		tx:            tx,
		users:         userRepository,
		userService:   userService,
		Service:       jwtService,
		JWTRepository: jwtRepository,
		logger:        l,
	}
}

// Register creates the first account, which becomes the administrator.
// Once any user exists, accounts are created through the user endpoints instead.
func (a *AuthServiceImpl) Register(ctx context.Context, req user.CreateUserRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	hasUsers, err := a.userService.HasUsers(ctx)
	if err != nil {
		return auth.TokenResponse{}, err
	}
	if hasUsers {
		return auth.TokenResponse{}, auth.ErrRegistrationClosed
	}

	created, err := a.userService.Create(ctx, req)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	a.logger.Info("administrator registered", zap.String("user_id", created.ID))

	return a.issueTokens(ctx, created.ID, created.Email, user.Role(created.Role), sessionTrackReq)
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	userData, err := a.users.GetByEmail(ctx, loginReq.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if userData.PasswordHash == "" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueTokens(ctx, userData.ID, userData.Email, userData.Role, sessionTrackReq)
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	var accessTokenResponse auth.AccessTokenResponse

	// 1. Verify signature, expiry and token type
	userID, err := a.Service.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 2. Check DB for revocation/expiry
	isRevoked, err := a.JWTRepository.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if isRevoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	// 3. Get user
	userData, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrUserNotFound
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	// 4. Generate new access token
	accessTokenResponse.AccessToken, accessTokenResponse.AccessTokenExpiresIn, err =
		a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessTokenResponse, nil
}

// Logout implements auth.AuthService. Revoking an unknown or already revoked token is a no-op.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	return a.tx.WithinTx(ctx, func(ctx context.Context) error {
		isRevoked, err := a.JWTRepository.IsRefreshTokenRevoked(ctx, token)
		if err != nil {
			return fmt.Errorf("failed to check if refresh token is revoked: %w", err)
		}
		if isRevoked {
			return nil
		}
		if err := a.JWTRepository.RevokeRefreshToken(ctx, token); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
		return nil
	})
}

func (a *AuthServiceImpl) issueTokens(ctx context.Context, userID, email string, role user.Role, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse

	err := a.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(userID, email, role)
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}
		tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(userID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}

		if err := a.CreateRefreshToken(ctx, userID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, sessionTrackReq); err != nil {
			return fmt.Errorf("failed to save refresh token to database: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}
