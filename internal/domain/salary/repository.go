package salary

import (
	"context"
	"time"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/discount"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
	"github.com/shopspring/decimal"
)

// EmployeeReader loads the employee being recalculated. Absence is user.ErrUserNotFound.
type EmployeeReader interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
}

type CommissionAggregator interface {
	SumFeesForMonth(ctx context.Context, userID string, p period.YearMonth) (decimal.Decimal, error)
}

// DiscountStore is the slice of discount persistence the calculation reads and writes.
type DiscountStore interface {
	ListForMonth(ctx context.Context, userID string, category string, p period.YearMonth) ([]discount.Discount, error)
	SumForMonth(ctx context.Context, userID string, p period.YearMonth, excludeCategories []string) (decimal.Decimal, error)
	Create(ctx context.Context, d discount.Discount) (discount.Discount, error)
	UpdateAmountAndDate(ctx context.Context, id string, amount decimal.Decimal, date time.Time) error
	Delete(ctx context.Context, id string) error
	FindDuplicateGroups(ctx context.Context, categories []string) ([]discount.DuplicateGroup, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}
