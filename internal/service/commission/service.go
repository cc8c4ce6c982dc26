package commission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/discount"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/document"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// summaryConcurrency bounds the per-user queries of the all-users summary.
const summaryConcurrency = 8

type CommissionServiceImpl struct {
	commissions commission.CommissionRepository
	discounts   discount.DiscountRepository
	users       user.UserRepository
	recalc      salary.Recalculator
	now         func() time.Time
	logger      *zap.Logger
}

func NewCommissionService(
	commissions commission.CommissionRepository,
	discounts discount.DiscountRepository,
	users user.UserRepository,
	recalc salary.Recalculator,
	logger ...*zap.Logger,
) *CommissionServiceImpl {
	l := zap.L().Named("commission.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("commission.service")
	}
	return &CommissionServiceImpl{
		commissions: commissions,
		discounts:   discounts,
		users:       users,
		recalc:      recalc,
		now:         time.Now,
		logger:      l,
	}
}

var _ commission.CommissionService = (*CommissionServiceImpl)(nil)

// ========== MUTATIONS ==========

// Create stores an entry for the caller, or for any user when the caller is an admin.
func (s *CommissionServiceImpl) Create(ctx context.Context, req commission.CreateEntryRequest) (commission.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return commission.EntryResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return commission.EntryResponse{}, err
	}

	entry := req.ToEntry()
	switch {
	case entry.UserID == "":
		entry.UserID = claims.UserID
	case entry.UserID != claims.UserID && !claims.IsAdmin():
		return commission.EntryResponse{}, commission.ErrEntryAccessDenied
	}

	created, err := s.commissions.Create(ctx, entry)
	if err != nil {
		return commission.EntryResponse{}, err
	}

	s.trigger(ctx, created.UserID, created.Date)
	return commission.ToResponse(created), nil
}

// Update recalculates both the month the entry left and the month it landed in.
func (s *CommissionServiceImpl) Update(ctx context.Context, req commission.UpdateEntryRequest) (commission.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return commission.EntryResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return commission.EntryResponse{}, err
	}

	before, err := s.owned(ctx, claims, req.ID)
	if err != nil {
		return commission.EntryResponse{}, err
	}
	if req.UserID != nil && *req.UserID != before.UserID && !claims.IsAdmin() {
		return commission.EntryResponse{}, commission.ErrEntryAccessDenied
	}

	merged, err := req.Merge(before)
	if err != nil {
		return commission.EntryResponse{}, err
	}

	updated, err := s.commissions.Update(ctx, merged)
	if err != nil {
		return commission.EntryResponse{}, err
	}

	s.trigger(ctx, before.UserID, before.Date)
	if updated.UserID != before.UserID || period.Of(updated.Date) != period.Of(before.Date) {
		s.trigger(ctx, updated.UserID, updated.Date)
	}

	return commission.ToResponse(updated), nil
}

func (s *CommissionServiceImpl) Delete(ctx context.Context, id string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	entry, err := s.owned(ctx, claims, id)
	if err != nil {
		return err
	}

	if err := s.commissions.Delete(ctx, id); err != nil {
		return err
	}

	s.trigger(ctx, entry.UserID, entry.Date)
	return nil
}

// ========== QUERIES ==========

func (s *CommissionServiceImpl) GetByID(ctx context.Context, id string) (commission.EntryResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return commission.EntryResponse{}, err
	}

	entry, err := s.owned(ctx, claims, id)
	if err != nil {
		return commission.EntryResponse{}, err
	}
	return commission.ToResponse(entry), nil
}

func (s *CommissionServiceImpl) List(ctx context.Context, filter commission.EntryFilter) ([]commission.EntryResponse, error) {
	if err := s.scope(ctx, &filter); err != nil {
		return nil, err
	}

	entries, err := s.commissions.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toResponses(entries), nil
}

// Chart returns per-day fee totals.
func (s *CommissionServiceImpl) Chart(ctx context.Context, filter commission.EntryFilter) ([]commission.DailyTotalResponse, error) {
	if err := s.scope(ctx, &filter); err != nil {
		return nil, err
	}

	totals, err := s.commissions.DailyTotals(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]commission.DailyTotalResponse, 0, len(totals))
	for _, t := range totals {
		resp = append(resp, commission.DailyTotalResponse{
			Date:      t.Date.Format(time.DateOnly),
			FeeAmount: t.FeeAmount,
		})
	}
	return resp, nil
}

// Summary totals one user's month. It defaults to the caller and the current month.
func (s *CommissionServiceImpl) Summary(ctx context.Context, filter commission.EntryFilter) (commission.SummaryResponse, error) {
	if err := s.scope(ctx, &filter); err != nil {
		return commission.SummaryResponse{}, err
	}
	if filter.UserID == "" {
		claims, _ := jwt.ClaimsFromContext(ctx)
		filter.UserID = claims.UserID
	}
	if filter.Month == "" {
		filter.Month = period.Of(s.now()).String()
	}

	u, err := s.users.GetByID(ctx, filter.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return commission.SummaryResponse{}, commission.ErrUserNotFound
		}
		return commission.SummaryResponse{}, err
	}

	entries, err := s.commissions.List(ctx, filter)
	if err != nil {
		return commission.SummaryResponse{}, err
	}

	totalCommissions := decimal.Zero
	for _, e := range entries {
		totalCommissions = totalCommissions.Add(e.FeeAmount)
	}

	totalDiscounts, err := s.discounts.SumForMonth(ctx, u.ID, *filter.Period(), nil)
	if err != nil {
		return commission.SummaryResponse{}, err
	}

	return commission.SummaryResponse{
		Items:            toResponses(entries),
		TotalCommissions: totalCommissions,
		GrossSalary:      u.GrossSalary,
		TotalDiscounts:   totalDiscounts,
		NetTotal:         u.GrossSalary.Add(totalCommissions).Sub(totalDiscounts).Round(2),
	}, nil
}

// AllUsersSummary totals the month of every user. Users are queried concurrently
// and returned in the repository's order.
func (s *CommissionServiceImpl) AllUsersSummary(ctx context.Context, month string) ([]commission.UserSummaryResponse, error) {
	p := period.Of(s.now())
	if month != "" {
		parsed, err := period.Parse(month)
		if err != nil {
			return nil, validator.Single("month", "month must be in YYYY-MM format")
		}
		p = parsed
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]commission.UserSummaryResponse, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(summaryConcurrency)

	for i, u := range users {
		g.Go(func() error {
			fees, err := s.commissions.SumFeesForMonth(gctx, u.ID, p)
			if err != nil {
				return fmt.Errorf("failed to sum commissions for %s: %w", u.ID, err)
			}
			discounts, err := s.discounts.SumForMonth(gctx, u.ID, p, nil)
			if err != nil {
				return fmt.Errorf("failed to sum discounts for %s: %w", u.ID, err)
			}

			resp[i] = commission.UserSummaryResponse{
				UserID:           u.ID,
				Name:             u.Name,
				Email:            u.Email,
				Month:            p.String(),
				TotalCommissions: fees,
				GrossSalary:      u.GrossSalary,
				TotalDiscounts:   discounts,
				NetTotal:         u.GrossSalary.Add(fees).Sub(discounts).Round(2),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resp, nil
}

// HasCommissionsForDocument accepts a formatted or bare CPF/CNPJ; the type follows the digit count.
func (s *CommissionServiceImpl) HasCommissionsForDocument(ctx context.Context, doc string) (bool, error) {
	t, digits, ok := document.Resolve("", doc)
	if !ok {
		return false, validator.Single("document", document.Message(t))
	}
	return s.commissions.ExistsForDocument(ctx, digits)
}

// ========== HELPERS ==========

// owned loads an entry the caller may see: their own, or any entry for admins.
func (s *CommissionServiceImpl) owned(ctx context.Context, claims jwt.Claims, id string) (commission.Entry, error) {
	entry, err := s.commissions.GetByID(ctx, id)
	if err != nil {
		return commission.Entry{}, err
	}
	if !claims.IsAdmin() && entry.UserID != claims.UserID {
		return commission.Entry{}, commission.ErrEntryAccessDenied
	}
	return entry, nil
}

// scope validates the filter and pins non-admins to their own entries.
func (s *CommissionServiceImpl) scope(ctx context.Context, filter *commission.EntryFilter) error {
	if err := filter.Validate(); err != nil {
		return err
	}
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	if !claims.IsAdmin() {
		filter.UserID = claims.UserID
	}
	return nil
}

func (s *CommissionServiceImpl) trigger(ctx context.Context, employeeID string, date time.Time) {
	s.recalc.HandleTrigger(ctx, salary.Trigger{
		Reason:     salary.CommissionChanged,
		EmployeeID: employeeID,
		RecordDate: date,
	})
}

func toResponses(entries []commission.Entry) []commission.EntryResponse {
	resp := make([]commission.EntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, commission.ToResponse(e))
	}
	return resp
}
