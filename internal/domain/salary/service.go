package salary

import (
	"context"
	"time"

	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
	"github.com/shopspring/decimal"
)

// Recalculator is what CRUD services call after a committed write.
type Recalculator interface {
	HandleTrigger(ctx context.Context, t Trigger) Outcome
}

type SalaryService interface {
	Recalculator

	RecalculateForMonth(ctx context.Context, employeeID string, p period.YearMonth) (Breakdown, error)
	Preview(ctx context.Context, employeeID string, p period.YearMonth) (Breakdown, error)
	RecalculateAfterCommissionChange(ctx context.Context, employeeID string, entryDate time.Time) (Breakdown, error)
	RecalculateAfterDiscountChange(ctx context.Context, employeeID string, entryDate time.Time) (Breakdown, error)
	RecalculateAfterSalaryOrLevelChange(ctx context.Context, employeeID string) (Breakdown, error)

	ManualIRPF(ctx context.Context, employeeID string, gross, inss decimal.Decimal) (TaxQuote, error)
	CleanupDuplicateTaxDiscounts(ctx context.Context) (CleanupResult, error)

	QuoteINSS(gross decimal.Decimal) decimal.Decimal
	QuoteIRPF(gross decimal.Decimal, inss *decimal.Decimal, other decimal.Decimal) TaxQuote
}
