package salary

import (
	"context"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
	"go.uber.org/zap"
)

// HandleTrigger runs the recalculation a committed mutation asked for.
// Failures are logged and reported in the Outcome, never returned as errors.
func (s *SalaryServiceImpl) HandleTrigger(ctx context.Context, t salary.Trigger) salary.Outcome {
	outcome := salary.Outcome{Reason: t.Reason, EmployeeID: t.EmployeeID}

	p, err := s.periodFor(t)
	if err != nil {
		return s.failed(outcome, err)
	}
	outcome.Period = p

	b, err := s.RecalculateForMonth(ctx, t.EmployeeID, p)
	if err != nil {
		return s.failed(outcome, err)
	}

	outcome.Status = salary.OutcomeOK
	outcome.Breakdown = &b
	s.logger.Debug("salary recalculated",
		zap.String("reason", t.Reason.String()),
		zap.String("employee_id", t.EmployeeID),
		zap.String("month", p.String()),
		zap.String("net_pay", b.NetPay.StringFixed(2)),
	)
	return outcome
}

func (s *SalaryServiceImpl) periodFor(t salary.Trigger) (period.YearMonth, error) {
	switch t.Reason {
	case salary.CommissionChanged, salary.DiscountChanged:
		if t.RecordDate.IsZero() {
			return s.currentPeriod(), nil
		}
		return period.Of(t.RecordDate), nil
	case salary.SalaryChanged, salary.LevelChanged:
		return s.currentPeriod(), nil
	}
	return period.YearMonth{}, salary.ErrUnknownTrigger
}

func (s *SalaryServiceImpl) failed(outcome salary.Outcome, err error) salary.Outcome {
	outcome.Status = salary.OutcomeRecalculationFailed
	outcome.Err = err
	s.logger.Error("salary recalculation failed",
		zap.String("reason", outcome.Reason.String()),
		zap.String("employee_id", outcome.EmployeeID),
		zap.String("month", outcome.Period.String()),
		zap.Error(err),
	)
	return outcome
}
