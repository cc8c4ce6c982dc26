package discount

import (
	"context"
	"time"

	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
	"github.com/shopspring/decimal"
)

type DiscountRepository interface {
	Create(ctx context.Context, d Discount) (Discount, error)
	GetByID(ctx context.Context, id string) (Discount, error)
	List(ctx context.Context, filter DiscountFilter) ([]Discount, error)
	Update(ctx context.Context, req UpdateDiscountRequest, date *time.Time) (Discount, error)
	Delete(ctx context.Context, id string) error

	// Month-scoped access used by the salary calculation
	ListForMonth(ctx context.Context, userID string, category string, p period.YearMonth) ([]Discount, error)
	SumForMonth(ctx context.Context, userID string, p period.YearMonth, excludeCategories []string) (decimal.Decimal, error)
	UpdateAmountAndDate(ctx context.Context, id string, amount decimal.Decimal, date time.Time) error

	// Maintenance
	FindDuplicateGroups(ctx context.Context, categories []string) ([]DuplicateGroup, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}
