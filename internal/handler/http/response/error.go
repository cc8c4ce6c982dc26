package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/commissiontemplate"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/discount"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/training"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrRegistrationClosed):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrCannotDeleteSelf):
		BadRequest(w, "You cannot delete your own account", nil)
	case errors.Is(err, user.ErrAdminPrivilegeRequired),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Commission domain errors
	case errors.Is(err, commission.ErrEntryNotFound):
		NotFound(w, "Commission entry not found")
	case errors.Is(err, commission.ErrEntryAccessDenied):
		Forbidden(w, "Commission entry belongs to another user")
	case errors.Is(err, commission.ErrUserNotFound):
		NotFound(w, "User not found")

	// Discount domain errors
	case errors.Is(err, discount.ErrDiscountNotFound):
		NotFound(w, "Discount not found")
	case errors.Is(err, discount.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, discount.ErrTaxCategoryReserved):
		ValidationError(w, map[string]string{"category": err.Error()})

	// Training and template errors
	case errors.Is(err, training.ErrSessionNotFound):
		NotFound(w, "Training not found")
	case errors.Is(err, training.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, commissiontemplate.ErrTemplateNotFound):
		NotFound(w, "Commission template not found")

	// Salary domain errors
	case errors.Is(err, salary.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, salary.ErrUnknownTrigger):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		var calcErr *salary.CalculationError
		if errors.As(err, &calcErr) {
			slog.Error("salary calculation failed", "op", calcErr.Op, "employee_id", calcErr.EmployeeID, "error", calcErr.Err)
			InternalServerError(w, "Salary calculation failed")
			return
		}
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
