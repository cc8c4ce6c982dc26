package salary

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/discount"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
	"github.com/shopspring/decimal"
)

// PeriodAggregator sums an employee's month from the store. It never writes.
type PeriodAggregator struct {
	commissions salary.CommissionAggregator
	discounts   salary.DiscountStore
}

func NewPeriodAggregator(commissions salary.CommissionAggregator, discounts salary.DiscountStore) *PeriodAggregator {
	return &PeriodAggregator{commissions: commissions, discounts: discounts}
}

// SumCommissionsForMonth totals the fee amounts of entries dated inside the month.
func (a *PeriodAggregator) SumCommissionsForMonth(ctx context.Context, employeeID string, p period.YearMonth) (decimal.Decimal, error) {
	total, err := a.commissions.SumFeesForMonth(ctx, employeeID, p)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum commissions: %w", err)
	}
	return total, nil
}

// SumOtherDiscountsForMonth totals every discount of the month except INSS and IRPF.
func (a *PeriodAggregator) SumOtherDiscountsForMonth(ctx context.Context, employeeID string, p period.YearMonth) (decimal.Decimal, error) {
	total, err := a.discounts.SumForMonth(ctx, employeeID, p, discount.TaxCategories)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum discounts: %w", err)
	}
	return total, nil
}
