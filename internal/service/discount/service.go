package discount

import (
	"context"
	"time"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/discount"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/validator"
	"go.uber.org/zap"
)

type DiscountServiceImpl struct {
	discounts discount.DiscountRepository
	recalc    salary.Recalculator
	now       func() time.Time
	logger    *zap.Logger
}

func NewDiscountService(discounts discount.DiscountRepository, recalc salary.Recalculator, logger ...*zap.Logger) *DiscountServiceImpl {
	l := zap.L().Named("discount.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("discount.service")
	}
	return &DiscountServiceImpl{
		discounts: discounts,
		recalc:    recalc,
		now:       time.Now,
		logger:    l,
	}
}

var _ discount.DiscountService = (*DiscountServiceImpl)(nil)

// ========== MUTATIONS ==========

func (s *DiscountServiceImpl) Create(ctx context.Context, req discount.CreateDiscountRequest) (discount.DiscountResponse, error) {
	if err := req.Validate(); err != nil {
		return discount.DiscountResponse{}, err
	}

	created, err := s.discounts.Create(ctx, discount.Discount{
		UserID:   req.UserID,
		Category: req.Category,
		Amount:   req.Amount,
		Date:     req.ResolvedDate(s.now()),
	})
	if err != nil {
		return discount.DiscountResponse{}, err
	}

	s.trigger(ctx, created.UserID, created.Date)
	return discount.ToResponse(created), nil
}

// Update edits a discount. INSS and IRPF rows accept only amount and date changes
// and never start a recalculation.
func (s *DiscountServiceImpl) Update(ctx context.Context, req discount.UpdateDiscountRequest) (discount.DiscountResponse, error) {
	if err := req.Validate(); err != nil {
		return discount.DiscountResponse{}, err
	}

	before, err := s.discounts.GetByID(ctx, req.ID)
	if err != nil {
		return discount.DiscountResponse{}, err
	}

	if before.IsTax() {
		if req.Category != nil {
			return discount.DiscountResponse{}, validator.Single("category", discount.ErrTaxCategoryReserved.Error())
		}
		if req.UserID != nil && *req.UserID != before.UserID {
			return discount.DiscountResponse{}, validator.Single("user_id", discount.ErrTaxCategoryReserved.Error())
		}
	}

	updated, err := s.discounts.Update(ctx, req, req.ParsedDate())
	if err != nil {
		return discount.DiscountResponse{}, err
	}

	if !before.IsTax() {
		s.trigger(ctx, before.UserID, before.Date)
		if updated.UserID != before.UserID || period.Of(updated.Date) != period.Of(before.Date) {
			s.trigger(ctx, updated.UserID, updated.Date)
		}
	}

	return discount.ToResponse(updated), nil
}

func (s *DiscountServiceImpl) Delete(ctx context.Context, id string) error {
	existing, err := s.discounts.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.discounts.Delete(ctx, id); err != nil {
		return err
	}

	if existing.IsTax() {
		s.logger.Info("tax discount deleted manually",
			zap.String("discount_id", id),
			zap.String("user_id", existing.UserID),
			zap.String("category", existing.Category),
		)
		return nil
	}

	s.trigger(ctx, existing.UserID, existing.Date)
	return nil
}

// ========== QUERIES ==========

func (s *DiscountServiceImpl) GetByID(ctx context.Context, id string) (discount.DiscountResponse, error) {
	d, err := s.discounts.GetByID(ctx, id)
	if err != nil {
		return discount.DiscountResponse{}, err
	}
	return discount.ToResponse(d), nil
}

func (s *DiscountServiceImpl) List(ctx context.Context, filter discount.DiscountFilter) ([]discount.DiscountResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	discounts, err := s.discounts.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]discount.DiscountResponse, 0, len(discounts))
	for _, d := range discounts {
		resp = append(resp, discount.ToResponse(d))
	}
	return resp, nil
}

// TotalByUser sums every discount of the month, tax rows included. The month defaults to the current one.
func (s *DiscountServiceImpl) TotalByUser(ctx context.Context, userID string, month string) (discount.DiscountTotalResponse, error) {
	filter := discount.DiscountFilter{UserID: userID, Month: month}
	if err := filter.Validate(); err != nil {
		return discount.DiscountTotalResponse{}, err
	}

	p := period.Of(s.now())
	if fp := filter.Period(); fp != nil {
		p = *fp
	}

	total, err := s.discounts.SumForMonth(ctx, userID, p, nil)
	if err != nil {
		return discount.DiscountTotalResponse{}, err
	}

	return discount.DiscountTotalResponse{UserID: userID, Month: p.String(), Total: total}, nil
}

func (s *DiscountServiceImpl) trigger(ctx context.Context, employeeID string, date time.Time) {
	s.recalc.HandleTrigger(ctx, salary.Trigger{
		Reason:     salary.DiscountChanged,
		EmployeeID: employeeID,
		RecordDate: date,
	})
}
