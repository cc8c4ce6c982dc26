package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/commission-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired runs after jwtauth.Verifier. It accepts only access tokens that
// carry a user identity, so a refresh token can never be used as a bearer.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, raw, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}
		if token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if tokenType, _ := raw["type"].(string); tokenType != "access" {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		if _, err := jwt.ClaimsFromContext(r.Context()); err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r)
	})
}
