package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestAccessExp  = "1h"
	handlerTestRefreshExp = "24h"
	handlerTestSecret     = "test-secret-key-for-jwt"
)

type fakeAuthService struct {
	registerFn func(ctx context.Context, req user.CreateUserRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error)
	loginFn    func(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error)
	refreshFn  func(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error)
	logoutFn   func(ctx context.Context, refreshToken string) error
}

func (f *fakeAuthService) Register(ctx context.Context, req user.CreateUserRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	return f.registerFn(ctx, req, session)
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	return f.loginFn(ctx, req, session)
}

func (f *fakeAuthService) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	return f.refreshFn(ctx, req)
}

func (f *fakeAuthService) Logout(ctx context.Context, refreshToken string) error {
	return f.logoutFn(ctx, refreshToken)
}

func newTestJWTService() jwt.Service {
	return jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp)
}

func tokenPair() auth.TokenResponse {
	return auth.TokenResponse{
		AccessToken:           "access-token",
		AccessTokenExpiresIn:  4102444800,
		RefreshToken:          "refresh-token",
		RefreshTokenExpiresIn: 4102444800,
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(body)
}

// ===== REGISTER =====

func TestAuthHandler_Register_Success(t *testing.T) {
	var gotEmail string
	handler := NewAuthHandler(newTestJWTService(), &fakeAuthService{
		registerFn: func(ctx context.Context, req user.CreateUserRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
			gotEmail = req.Email
			return tokenPair(), nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", jsonBody(t, map[string]string{
		"name":     "Ana Souza",
		"email":    "ana@example.com",
		"password": "SecurePass123!",
	}))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "ana@example.com", gotEmail)

	resp := decodeBody(t, w)
	assert.True(t, resp["success"].(bool))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "access-token", data["access_token"])

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "refresh_token", cookies[0].Name)
	assert.Equal(t, "refresh-token", cookies[0].Value)
}

func TestAuthHandler_Register_Closed(t *testing.T) {
	handler := NewAuthHandler(newTestJWTService(), &fakeAuthService{
		registerFn: func(ctx context.Context, req user.CreateUserRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
			return auth.TokenResponse{}, auth.ErrRegistrationClosed
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", jsonBody(t, map[string]string{
		"name":     "Ana Souza",
		"email":    "ana@example.com",
		"password": "SecurePass123!",
	}))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthHandler_Register_InvalidJSON(t *testing.T) {
	handler := NewAuthHandler(newTestJWTService(), &fakeAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte("{invalid")))
	w := httptest.NewRecorder()

	handler.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ===== LOGIN =====

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "success",
			body:       map[string]string{"email": "ana@example.com", "password": "SecurePass123!"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing email",
			body:       map[string]string{"password": "SecurePass123!"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "invalid email",
			body:       map[string]string{"email": "not-an-email", "password": "SecurePass123!"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "wrong password",
			body:       map[string]string{"email": "ana@example.com", "password": "wrong"},
			serviceErr: auth.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var session auth.SessionTrackingRequest
			handler := NewAuthHandler(newTestJWTService(), &fakeAuthService{
				loginFn: func(ctx context.Context, req auth.LoginRequest, s auth.SessionTrackingRequest) (auth.TokenResponse, error) {
					session = s
					if tt.serviceErr != nil {
						return auth.TokenResponse{}, tt.serviceErr
					}
					return tokenPair(), nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", jsonBody(t, tt.body))
			req.Header.Set("User-Agent", "handler-test")
			w := httptest.NewRecorder()

			handler.Login(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "handler-test", session.UserAgent)
				assert.NotEmpty(t, session.IPAddress)
			}
		})
	}
}

// ===== REFRESH =====

func TestAuthHandler_RefreshToken_FromCookie(t *testing.T) {
	var got string
	handler := NewAuthHandler(newTestJWTService(), &fakeAuthService{
		refreshFn: func(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
			got = req.RefreshToken
			return auth.AccessTokenResponse{AccessToken: "new-access"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "cookie-token"})
	w := httptest.NewRecorder()

	handler.RefreshToken(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "cookie-token", got)
}

func TestAuthHandler_RefreshToken_FromBody(t *testing.T) {
	var got string
	handler := NewAuthHandler(newTestJWTService(), &fakeAuthService{
		refreshFn: func(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
			got = req.RefreshToken
			return auth.AccessTokenResponse{AccessToken: "new-access"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", jsonBody(t, map[string]string{"refresh_token": "body-token"}))
	w := httptest.NewRecorder()

	handler.RefreshToken(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "body-token", got)
}

func TestAuthHandler_RefreshToken_Missing(t *testing.T) {
	handler := NewAuthHandler(newTestJWTService(), &fakeAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	w := httptest.NewRecorder()

	handler.RefreshToken(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAuthHandler_RefreshToken_Revoked(t *testing.T) {
	handler := NewAuthHandler(newTestJWTService(), &fakeAuthService{
		refreshFn: func(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
			return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", jsonBody(t, map[string]string{"refresh_token": "old"}))
	w := httptest.NewRecorder()

	handler.RefreshToken(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ===== LOGOUT =====

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	var revoked string
	handler := NewAuthHandler(newTestJWTService(), &fakeAuthService{
		logoutFn: func(ctx context.Context, refreshToken string) error {
			revoked = refreshToken
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "cookie-token"})
	w := httptest.NewRecorder()

	handler.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cookie-token", revoked)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "refresh_token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
}
