package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/jwt"
)

// RequirePermission lets the request through when the caller's role grants permission.
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := jwt.ClaimsFromContext(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if !user.HasPermission(claims.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("role '%s' lacks permission '%s'", claims.Role, permission))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly guards the cross-employee views, such as the all-users commission summary.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := jwt.ClaimsFromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		if !claims.IsAdmin() {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}
