package commission

import (
	"context"

	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
	"github.com/shopspring/decimal"
)

type CommissionRepository interface {
	Create(ctx context.Context, e Entry) (Entry, error)
	GetByID(ctx context.Context, id string) (Entry, error)
	List(ctx context.Context, filter EntryFilter) ([]Entry, error)
	Update(ctx context.Context, e Entry) (Entry, error)
	Delete(ctx context.Context, id string) error

	SumFeesForMonth(ctx context.Context, userID string, p period.YearMonth) (decimal.Decimal, error)
	DailyTotals(ctx context.Context, filter EntryFilter) ([]DailyTotal, error)
	ExistsForDocument(ctx context.Context, document string) (bool, error)
}
