package salary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/discount"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type SalaryServiceImpl struct {
	tx         database.Transactor
	employees  salary.EmployeeReader
	discounts  salary.DiscountStore
	aggregator *PeriodAggregator
	reconciler *TaxReconciler
	now        func() time.Time
	logger     *zap.Logger
}

func NewSalaryService(
	tx database.Transactor,
	employees salary.EmployeeReader,
	commissions salary.CommissionAggregator,
	discounts salary.DiscountStore,
	logger ...*zap.Logger,
) *SalaryServiceImpl {
	l := zap.L().Named("salary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salary.service")
	}
	return &SalaryServiceImpl{
		tx:         tx,
		employees:  employees,
		discounts:  discounts,
		aggregator: NewPeriodAggregator(commissions, discounts),
		reconciler: NewTaxReconciler(discounts, l),
		now:        time.Now,
		logger:     l,
	}
}

var _ salary.SalaryService = (*SalaryServiceImpl)(nil)

// ========== RECALCULATION ==========

// RecalculateForMonth computes the month and brings the INSS and IRPF rows in line with it.
// Both rows are written in one transaction.
func (s *SalaryServiceImpl) RecalculateForMonth(ctx context.Context, employeeID string, p period.YearMonth) (salary.Breakdown, error) {
	var b salary.Breakdown
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.compute(ctx, employeeID, p)
		if err != nil {
			return err
		}

		inssResult, err := s.reconciler.Reconcile(ctx, employeeID, salary.TaxINSS, p, b.INSS, b.NetPay)
		if err != nil {
			return s.calcErr("reconcile_inss", employeeID, p, err)
		}
		irpfResult, err := s.reconciler.Reconcile(ctx, employeeID, salary.TaxIRPF, p, b.IRPF, b.NetPay)
		if err != nil {
			return s.calcErr("reconcile_irpf", employeeID, p, err)
		}
		b.INSSResult = &inssResult
		b.IRPFResult = &irpfResult
		return nil
	})
	if err != nil {
		return salary.Breakdown{}, err
	}

	return b, nil
}

// Preview computes the month without touching the tax rows.
func (s *SalaryServiceImpl) Preview(ctx context.Context, employeeID string, p period.YearMonth) (salary.Breakdown, error) {
	return s.compute(ctx, employeeID, p)
}

func (s *SalaryServiceImpl) RecalculateAfterCommissionChange(ctx context.Context, employeeID string, entryDate time.Time) (salary.Breakdown, error) {
	return s.RecalculateForMonth(ctx, employeeID, period.Of(entryDate))
}

func (s *SalaryServiceImpl) RecalculateAfterDiscountChange(ctx context.Context, employeeID string, entryDate time.Time) (salary.Breakdown, error) {
	return s.RecalculateForMonth(ctx, employeeID, period.Of(entryDate))
}

func (s *SalaryServiceImpl) RecalculateAfterSalaryOrLevelChange(ctx context.Context, employeeID string) (salary.Breakdown, error) {
	return s.RecalculateForMonth(ctx, employeeID, s.currentPeriod())
}

func (s *SalaryServiceImpl) compute(ctx context.Context, employeeID string, p period.YearMonth) (salary.Breakdown, error) {
	emp, err := s.loadEmployee(ctx, employeeID, p)
	if err != nil {
		return salary.Breakdown{}, err
	}

	levelBonus := ComputeLevelBonus(emp.GrossSalary, emp.BonusPercentage)

	commissions, err := s.aggregator.SumCommissionsForMonth(ctx, employeeID, p)
	if err != nil {
		return salary.Breakdown{}, s.calcErr("sum_commissions", employeeID, p, err)
	}

	grossTotal := emp.GrossSalary.Add(levelBonus).Add(commissions)

	otherDiscounts, err := s.aggregator.SumOtherDiscountsForMonth(ctx, employeeID, p)
	if err != nil {
		return salary.Breakdown{}, s.calcErr("sum_discounts", employeeID, p, err)
	}

	inss := ComputeINSS(grossTotal)
	irpf := ComputeIRPF(grossTotal, inss, otherDiscounts)
	netPay := grossTotal.Sub(inss).Sub(irpf).Sub(otherDiscounts)

	return salary.Breakdown{
		EmployeeID:     emp.ID,
		EmployeeName:   emp.Name,
		Period:         p,
		BaseSalary:     round(emp.GrossSalary),
		LevelBonus:     levelBonus,
		Commissions:    round(commissions),
		GrossTotal:     round(grossTotal),
		INSS:           inss,
		IRPF:           irpf,
		OtherDiscounts: round(otherDiscounts),
		NetPay:         round(netPay),
	}, nil
}

// ========== MANUAL ==========

// ManualIRPF recomputes only the current month's IRPF row from supplied gross and INSS values.
func (s *SalaryServiceImpl) ManualIRPF(ctx context.Context, employeeID string, gross, inss decimal.Decimal) (salary.TaxQuote, error) {
	p := s.currentPeriod()

	var quote salary.TaxQuote
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.loadEmployee(ctx, employeeID, p); err != nil {
			return err
		}

		other, err := s.aggregator.SumOtherDiscountsForMonth(ctx, employeeID, p)
		if err != nil {
			return s.calcErr("sum_discounts", employeeID, p, err)
		}

		quote = s.quote(gross, inss, other)
		if _, err := s.reconciler.Reconcile(ctx, employeeID, salary.TaxIRPF, p, quote.IRPF, quote.NetPay); err != nil {
			return s.calcErr("reconcile_irpf", employeeID, p, err)
		}
		return nil
	})
	if err != nil {
		return salary.TaxQuote{}, err
	}

	return quote, nil
}

// ========== MAINTENANCE ==========

// CleanupDuplicateTaxDiscounts deletes every INSS/IRPF row beyond the first of its month.
func (s *SalaryServiceImpl) CleanupDuplicateTaxDiscounts(ctx context.Context) (salary.CleanupResult, error) {
	groups, err := s.discounts.FindDuplicateGroups(ctx, discount.TaxCategories)
	if err != nil {
		return salary.CleanupResult{}, fmt.Errorf("failed to find duplicate tax discounts: %w", err)
	}

	var extra []string
	for _, g := range groups {
		if len(g.IDs) > 1 {
			extra = append(extra, g.IDs[1:]...)
		}
	}
	if len(extra) == 0 {
		return salary.CleanupResult{Groups: len(groups)}, nil
	}

	removed, err := s.discounts.DeleteByIDs(ctx, extra)
	if err != nil {
		return salary.CleanupResult{}, fmt.Errorf("failed to delete duplicate tax discounts: %w", err)
	}

	s.logger.Info("duplicate tax discounts removed",
		zap.Int("groups", len(groups)),
		zap.Int64("removed", removed),
	)
	return salary.CleanupResult{Groups: len(groups), Removed: removed}, nil
}

// ========== QUOTES ==========

func (s *SalaryServiceImpl) QuoteINSS(gross decimal.Decimal) decimal.Decimal {
	return ComputeINSS(gross)
}

// QuoteIRPF computes INSS from gross when it is not supplied.
func (s *SalaryServiceImpl) QuoteIRPF(gross decimal.Decimal, inss *decimal.Decimal, other decimal.Decimal) salary.TaxQuote {
	inssValue := ComputeINSS(gross)
	if inss != nil {
		inssValue = *inss
	}
	return s.quote(gross, inssValue, other)
}

func (s *SalaryServiceImpl) quote(gross, inss, other decimal.Decimal) salary.TaxQuote {
	irpf := ComputeIRPF(gross, inss, other)
	return salary.TaxQuote{
		Gross:          round(gross),
		INSS:           round(inss),
		OtherDiscounts: round(other),
		IRPFBase:       round(IRPFBase(gross, inss, other)),
		IRPF:           irpf,
		NetPay:         round(gross.Sub(inss).Sub(irpf).Sub(other)),
	}
}

// ========== HELPERS ==========

func (s *SalaryServiceImpl) loadEmployee(ctx context.Context, employeeID string, p period.YearMonth) (user.User, error) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, salary.ErrEmployeeNotFound
		}
		return user.User{}, s.calcErr("load_employee", employeeID, p, err)
	}
	return emp, nil
}

func (s *SalaryServiceImpl) currentPeriod() period.YearMonth {
	return period.Of(s.now())
}

func (s *SalaryServiceImpl) calcErr(op, employeeID string, p period.YearMonth, err error) error {
	return &salary.CalculationError{Op: op, EmployeeID: employeeID, Period: p, Err: err}
}
