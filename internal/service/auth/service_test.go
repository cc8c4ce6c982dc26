package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
	testUserID     = "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
)

// ========== fakes ==========

type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeJWTRepository struct {
	stored  map[string]string
	revoked map[string]bool
	failOn  string
}

func newFakeJWTRepository() *fakeJWTRepository {
	return &fakeJWTRepository{stored: map[string]string{}, revoked: map[string]bool{}}
}

func (f *fakeJWTRepository) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	if f.failOn == "create" {
		return errors.New("insert failed")
	}
	f.stored[token] = userID
	return nil
}

func (f *fakeJWTRepository) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	if _, ok := f.stored[token]; !ok {
		return true, nil
	}
	return f.revoked[token], nil
}

func (f *fakeJWTRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	f.revoked[token] = true
	return nil
}

func (f *fakeJWTRepository) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	return 0, nil
}

type fakeUserRepository struct {
	user.UserRepository
	users map[string]user.User
}

func (f *fakeUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return user.User{}, user.ErrUserNotFound
}

type fakeUserService struct {
	user.UserService
	hasUsers bool
	created  []user.CreateUserRequest
}

func (f *fakeUserService) HasUsers(ctx context.Context) (bool, error) {
	return f.hasUsers, nil
}

func (f *fakeUserService) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	f.created = append(f.created, req)
	return user.UserResponse{ID: testUserID, Email: req.Email, Role: string(user.RoleAdmin)}, nil
}

// ========== helpers ==========

type fixture struct {
	svc     auth.AuthService
	jwt     jwt.Service
	tx      *fakeTransactor
	tokens  *fakeJWTRepository
	users   *fakeUserRepository
	userSvc *fakeUserService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	f := fixture{
		jwt:    jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp),
		tx:     &fakeTransactor{},
		tokens: newFakeJWTRepository(),
		users: &fakeUserRepository{users: map[string]user.User{
			testUserID: {ID: testUserID, Email: "admin@example.com", PasswordHash: string(hash), Role: user.RoleAdmin},
		}},
		userSvc: &fakeUserService{hasUsers: true},
	}
	f.svc = NewAuthService(f.tx, f.users, f.userSvc, f.jwt, f.tokens, zap.NewNop())
	return f
}

var session = auth.SessionTrackingRequest{UserAgent: "go-test", IPAddress: "127.0.0.1"}

// ========== tests ==========

func TestAuthService_Register_ClosedOnceUsersExist(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Register(context.Background(), user.CreateUserRequest{Email: "x@example.com"}, session)

	assert.ErrorIs(t, err, auth.ErrRegistrationClosed)
	assert.Empty(t, f.userSvc.created)
}

func TestAuthService_Register_FirstAdmin(t *testing.T) {
	f := newFixture(t)
	f.userSvc.hasUsers = false

	resp, err := f.svc.Register(context.Background(), user.CreateUserRequest{
		Name:     "Admin",
		Email:    "admin@example.com",
		Password: "password123",
	}, session)

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Len(t, f.userSvc.created, 1)
	assert.Equal(t, testUserID, f.tokens.stored[resp.RefreshToken])
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid credentials", email: "admin@example.com", password: "password123"},
		{name: "wrong password", email: "admin@example.com", password: "wrong-password", wantErr: auth.ErrInvalidCredentials},
		{name: "unknown email", email: "ghost@example.com", password: "password123", wantErr: auth.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			resp, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: tt.email, Password: tt.password}, session)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.tokens.stored)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, resp.AccessToken)
			assert.Greater(t, resp.RefreshTokenExpiresIn, resp.AccessTokenExpiresIn)
			assert.Contains(t, f.tokens.stored, resp.RefreshToken)
			assert.Equal(t, 1, f.tx.calls)
		})
	}
}

func TestAuthService_Login_StoreFailureSurfaces(t *testing.T) {
	f := newFixture(t)
	f.tokens.failOn = "create"

	_, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: "admin@example.com", Password: "password123"}, session)

	assert.Error(t, err)
}

func TestAuthService_RefreshToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	login, err := f.svc.Login(ctx, auth.LoginRequest{Email: "admin@example.com", Password: "password123"}, session)
	require.NoError(t, err)

	resp, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: "not-a-jwt"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_Logout_RevokesRefreshToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	login, err := f.svc.Login(ctx, auth.LoginRequest{Email: "admin@example.com", Password: "password123"}, session)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, login.RefreshToken))
	assert.True(t, f.tokens.revoked[login.RefreshToken])

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)

	// Logging out twice is harmless.
	assert.NoError(t, f.svc.Logout(ctx, login.RefreshToken))
}

func TestAuthService_RefreshToken_UnknownUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	refresh, _, err := f.jwt.GenerateRefreshToken("9c8b7a6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d")
	require.NoError(t, err)
	f.tokens.stored[refresh] = "9c8b7a6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: refresh})

	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}
