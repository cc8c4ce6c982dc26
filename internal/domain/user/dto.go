package user

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Role            string           `json:"role"`
	GrossSalary     decimal.Decimal  `json:"gross_salary"`
	Level           *string          `json:"level"`
	BonusPercentage *decimal.Decimal `json:"bonus_percentage"`
	CreatedAt       string           `json:"created_at"`
	UpdatedAt       string           `json:"updated_at"`
}

func ToResponse(u User) UserResponse {
	var level *string
	if u.Level != nil {
		l := string(*u.Level)
		level = &l
	}
	return UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            string(u.Role),
		GrossSalary:     u.GrossSalary,
		Level:           level,
		BonusPercentage: u.BonusPercentage,
		CreatedAt:       u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       u.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateUserRequest represents request to create a new user.
// Role is never accepted: the first user becomes admin, later ones support.
type CreateUserRequest struct {
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Password        string           `json:"password"`
	GrossSalary     *decimal.Decimal `json:"gross_salary,omitempty"`
	Level           *string          `json:"level,omitempty"`
	BonusPercentage *decimal.Decimal `json:"bonus_percentage,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}

	r.Email = strings.TrimSpace(r.Email)
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	} else if len(r.Password) > 72 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must not exceed 72 characters",
		})
	}

	errs = append(errs, validateCompensation(r.GrossSalary, r.Level, r.BonusPercentage)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateUserRequest represents a partial update. Nil fields are left untouched.
// An empty level string clears the level.
type UpdateUserRequest struct {
	ID              string           `json:"-"`
	Name            *string          `json:"name,omitempty"`
	Email           *string          `json:"email,omitempty"`
	Password        *string          `json:"password,omitempty"`
	Role            *string          `json:"role,omitempty"`
	GrossSalary     *decimal.Decimal `json:"gross_salary,omitempty"`
	Level           *string          `json:"level,omitempty"`
	BonusPercentage *decimal.Decimal `json:"bonus_percentage,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if r.Email != nil {
		email := strings.TrimSpace(*r.Email)
		r.Email = &email
		if validator.IsEmpty(email) {
			errs = append(errs, validator.ValidationError{
				Field:   "email",
				Message: "email must not be empty",
			})
		} else if !validator.IsValidEmail(email) {
			errs = append(errs, validator.ValidationError{
				Field:   "email",
				Message: "invalid email format",
			})
		}
	}

	if r.Password != nil {
		if len(*r.Password) < 8 {
			errs = append(errs, validator.ValidationError{
				Field:   "password",
				Message: "password must be at least 8 characters",
			})
		} else if len(*r.Password) > 72 {
			errs = append(errs, validator.ValidationError{
				Field:   "password",
				Message: "password must not exceed 72 characters",
			})
		}
	}

	if r.Role != nil {
		validRoles := []string{string(RoleAdmin), string(RoleSupport)}
		if !validator.IsInSlice(*r.Role, validRoles) {
			errs = append(errs, validator.ValidationError{
				Field:   "role",
				Message: "role must be one of: admin, support",
			})
		}
	}

	errs = append(errs, validateCompensation(r.GrossSalary, r.Level, r.BonusPercentage)...)

	if r.IsEmpty() {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "at least one field must be provided",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// IsEmpty reports whether no field is being updated.
func (r *UpdateUserRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Password == nil && r.Role == nil &&
		r.GrossSalary == nil && r.Level == nil && r.BonusPercentage == nil
}

// ChangesSalary reports whether the gross salary is part of the update.
func (r *UpdateUserRequest) ChangesSalary() bool {
	return r.GrossSalary != nil
}

// ChangesLevel reports whether the level or its bonus percentage is part of the update.
func (r *UpdateUserRequest) ChangesLevel() bool {
	return r.Level != nil || r.BonusPercentage != nil
}

// NormalizedLevel returns the level to store: nil when cleared.
func NormalizedLevel(level *string) *Level {
	if level == nil || strings.TrimSpace(*level) == "" {
		return nil
	}
	l := Level(strings.TrimSpace(*level))
	return &l
}

func validateCompensation(salary *decimal.Decimal, level *string, bonus *decimal.Decimal) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if salary != nil && salary.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "gross_salary",
			Message: "gross_salary must not be negative",
		})
	}

	if level != nil && strings.TrimSpace(*level) != "" && !Level(strings.TrimSpace(*level)).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "level",
			Message: "level must be one of: 01, 02, 03, 04, 05",
		})
	}

	if bonus != nil && !validator.IsValidPercentage(*bonus) {
		errs = append(errs, validator.ValidationError{
			Field:   "bonus_percentage",
			Message: "bonus_percentage must be between 0 and 100",
		})
	}

	return errs
}
