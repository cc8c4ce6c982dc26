package salary

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/discount"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TaxReconciler keeps zero or one discount row per (employee, tax, month).
// The row exists only while both the tax and the month's net pay are positive.
type TaxReconciler struct {
	discounts salary.DiscountStore
	logger    *zap.Logger
}

func NewTaxReconciler(discounts salary.DiscountStore, logger *zap.Logger) *TaxReconciler {
	return &TaxReconciler{discounts: discounts, logger: logger}
}

func (r *TaxReconciler) Reconcile(
	ctx context.Context,
	employeeID string,
	category salary.TaxCategory,
	p period.YearMonth,
	amount decimal.Decimal,
	netPay decimal.Decimal,
) (salary.ReconcileResult, error) {
	result := salary.ReconcileResult{Category: category, Amount: amount}

	rows, err := r.discounts.ListForMonth(ctx, employeeID, string(category), p)
	if err != nil {
		return result, fmt.Errorf("failed to list %s discounts: %w", category, err)
	}

	var kept *discount.Discount
	if len(rows) > 0 {
		kept = &rows[0]
		for _, dup := range rows[1:] {
			if err := r.discounts.Delete(ctx, dup.ID); err != nil {
				return result, fmt.Errorf("failed to delete duplicate %s discount %s: %w", category, dup.ID, err)
			}
			result.DuplicatesRemoved++
		}
		if result.DuplicatesRemoved > 0 {
			r.logger.Warn("removed duplicate tax discounts",
				zap.String("employee_id", employeeID),
				zap.String("category", string(category)),
				zap.String("month", p.String()),
				zap.Int("removed", result.DuplicatesRemoved),
			)
		}
	}

	if !netPay.IsPositive() || !amount.IsPositive() {
		result.Amount = decimal.Zero
		if kept == nil {
			result.Action = salary.ActionAbsent
			return result, nil
		}
		if err := r.discounts.Delete(ctx, kept.ID); err != nil {
			return result, fmt.Errorf("failed to delete %s discount %s: %w", category, kept.ID, err)
		}
		result.Action = salary.ActionDeleted
		result.DiscountID = &kept.ID
		return result, nil
	}

	date := p.FirstDay()
	if kept != nil {
		result.DiscountID = &kept.ID
		if kept.Amount.Equal(amount) && kept.Date.Equal(date) {
			result.Action = salary.ActionUnchanged
			return result, nil
		}
		if err := r.discounts.UpdateAmountAndDate(ctx, kept.ID, amount, date); err != nil {
			return result, fmt.Errorf("failed to update %s discount %s: %w", category, kept.ID, err)
		}
		result.Action = salary.ActionUpdated
		return result, nil
	}

	created, err := r.discounts.Create(ctx, discount.Discount{
		UserID:   employeeID,
		Category: string(category),
		Amount:   amount,
		Date:     date,
	})
	if err != nil {
		return result, fmt.Errorf("failed to create %s discount: %w", category, err)
	}
	result.Action = salary.ActionCreated
	result.DiscountID = &created.ID
	return result, nil
}
