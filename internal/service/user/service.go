package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/jwt"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	users  user.UserRepository
	recalc salary.Recalculator
	logger *zap.Logger
}

func NewUserService(users user.UserRepository, recalc salary.Recalculator, logger ...*zap.Logger) user.UserService {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &UserServiceImpl{users: users, recalc: recalc, logger: l}
}

// ========== QUERIES ==========

func (s *UserServiceImpl) GetByID(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(u), nil
}

func (s *UserServiceImpl) List(ctx context.Context) ([]user.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, user.ToResponse(u))
	}
	return resp, nil
}

func (s *UserServiceImpl) HasUsers(ctx context.Context) (bool, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ========== MUTATIONS ==========

// Create stores a new account. The very first account is the administrator;
// every later one is a support user.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.users.ExistsByIDOrEmail(ctx, nil, &email)
	if err != nil {
		return user.UserResponse{}, err
	}
	if exists {
		return user.UserResponse{}, user.ErrUserEmailExists
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	role := user.RoleSupport
	if count == 0 {
		role = user.RoleAdmin
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, err
	}

	newUser := user.User{
		Name:            strings.TrimSpace(req.Name),
		Email:           email,
		PasswordHash:    hash,
		Role:            role,
		GrossSalary:     decimal.Zero,
		Level:           user.NormalizedLevel(req.Level),
		BonusPercentage: req.BonusPercentage,
	}
	if req.GrossSalary != nil {
		newUser.GrossSalary = *req.GrossSalary
	}

	created, err := s.users.Create(ctx, newUser)
	if err != nil {
		return user.UserResponse{}, err
	}

	s.logger.Info("user created", zap.String("user_id", created.ID), zap.String("role", string(created.Role)))
	return user.ToResponse(created), nil
}

// Update applies a partial update. A changed salary or level recalculates the current month.
func (s *UserServiceImpl) Update(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	before, err := s.users.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &email
		if email != before.Email {
			exists, err := s.users.ExistsByIDOrEmail(ctx, nil, &email)
			if err != nil {
				return user.UserResponse{}, err
			}
			if exists {
				return user.UserResponse{}, user.ErrUserEmailExists
			}
		}
	}

	var passwordHash *string
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return user.UserResponse{}, err
		}
		passwordHash = &hash
	}

	updated, err := s.users.Update(ctx, req.ID, req, passwordHash)
	if err != nil {
		return user.UserResponse{}, err
	}

	if reason, ok := compensationChange(before, updated); ok {
		s.recalc.HandleTrigger(ctx, salary.Trigger{Reason: reason, EmployeeID: updated.ID})
	}

	return user.ToResponse(updated), nil
}

// Delete removes a user and, through the schema, their commissions and discounts.
func (s *UserServiceImpl) Delete(ctx context.Context, id string) error {
	if claims, err := jwt.ClaimsFromContext(ctx); err == nil && claims.UserID == id {
		return user.ErrCannotDeleteSelf
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

// compensationChange compares the stored values, so resubmitting the same salary is not a change.
func compensationChange(before, after user.User) (salary.TriggerReason, bool) {
	if !before.GrossSalary.Equal(after.GrossSalary) {
		return salary.SalaryChanged, true
	}
	if !sameLevel(before.Level, after.Level) || !sameDecimal(before.BonusPercentage, after.BonusPercentage) {
		return salary.LevelChanged, true
	}
	return 0, false
}

func sameLevel(a, b *user.Level) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameDecimal(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
