package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type SalaryHandler interface {
	// Per employee
	Preview(w http.ResponseWriter, r *http.Request)
	Recalculate(w http.ResponseWriter, r *http.Request)
	ManualIRPF(w http.ResponseWriter, r *http.Request)

	// Ad-hoc tax quotes
	QuoteINSS(w http.ResponseWriter, r *http.Request)
	QuoteIRPF(w http.ResponseWriter, r *http.Request)
	QuoteTaxes(w http.ResponseWriter, r *http.Request)

	// Maintenance
	CleanupDuplicates(w http.ResponseWriter, r *http.Request)
}

type salaryHandlerImpl struct {
	salaryService salary.SalaryService
}

func NewSalaryHandler(salaryService salary.SalaryService) SalaryHandler {
	return &salaryHandlerImpl{salaryService: salaryService}
}

// ========== PER EMPLOYEE ==========

// Preview computes the month's breakdown without writing tax rows.
func (h *salaryHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	userID, p, ok := h.employeeAndPeriod(w, r)
	if !ok {
		return
	}

	result, err := h.salaryService.Preview(r.Context(), userID, p)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, salary.ToBreakdownResponse(result))
}

func (h *salaryHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	userID, p, ok := h.employeeAndPeriod(w, r)
	if !ok {
		return
	}

	result, err := h.salaryService.RecalculateForMonth(r.Context(), userID, p)
	if err != nil {
		slog.Error("Recalculate salary error", "error", err, "user_id", userID, "month", p.String())
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary recalculated", salary.ToBreakdownResponse(result))
}

func (h *salaryHandlerImpl) ManualIRPF(w http.ResponseWriter, r *http.Request) {
	var req salary.ManualIRPFRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "userId")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.salaryService.ManualIRPF(r.Context(), req.EmployeeID, req.Gross, req.INSS)
	if err != nil {
		slog.Error("Manual IRPF error", "error", err, "user_id", req.EmployeeID)
		response.HandleError(w, err)
		return
	}

	response.Success(w, salary.ToTaxQuoteResponse(result))
}

// ========== QUOTES ==========

func (h *salaryHandlerImpl) QuoteINSS(w http.ResponseWriter, r *http.Request) {
	var req salary.INSSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, salary.INSSResponse{
		Gross: req.Gross,
		INSS:  h.salaryService.QuoteINSS(req.Gross),
	})
}

// QuoteIRPF reads gross, inss and other from the query. INSS is derived from gross when absent.
func (h *salaryHandlerImpl) QuoteIRPF(w http.ResponseWriter, r *http.Request) {
	q, ok := irpfQuery(w, r, true)
	if !ok {
		return
	}

	response.Success(w, salary.ToTaxQuoteResponse(h.salaryService.QuoteIRPF(q.Gross, q.INSS, q.Other)))
}

// QuoteTaxes returns the full breakdown for a gross amount, INSS always derived.
func (h *salaryHandlerImpl) QuoteTaxes(w http.ResponseWriter, r *http.Request) {
	q, ok := irpfQuery(w, r, false)
	if !ok {
		return
	}

	response.Success(w, salary.ToTaxQuoteResponse(h.salaryService.QuoteIRPF(q.Gross, nil, q.Other)))
}

// ========== MAINTENANCE ==========

func (h *salaryHandlerImpl) CleanupDuplicates(w http.ResponseWriter, r *http.Request) {
	result, err := h.salaryService.CleanupDuplicateTaxDiscounts(r.Context())
	if err != nil {
		slog.Error("Cleanup duplicate tax discounts error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, salary.CleanupResponse{Groups: result.Groups, Removed: result.Removed})
}

// ========== HELPERS ==========

// employeeAndPeriod reads {userId} and the optional month, defaulting to the current one.
// Support users may only address themselves.
func (h *salaryHandlerImpl) employeeAndPeriod(w http.ResponseWriter, r *http.Request) (string, period.YearMonth, bool) {
	userID := chi.URLParam(r, "userId")
	if !validator.IsValidUUID(userID) {
		response.HandleError(w, validator.Single("user_id", "user_id must be a valid UUID"))
		return "", period.YearMonth{}, false
	}

	claims, err := jwt.ClaimsFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Invalid or expired token")
		return "", period.YearMonth{}, false
	}
	if !claims.IsAdmin() && claims.UserID != userID {
		response.HandleError(w, user.ErrInsufficientPermissions)
		return "", period.YearMonth{}, false
	}

	month, err := monthFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return "", period.YearMonth{}, false
	}

	p := period.Of(time.Now())
	if month != "" {
		p, err = period.Parse(month)
		if err != nil {
			response.HandleError(w, validator.Single("month", "month must be in YYYY-MM format"))
			return "", period.YearMonth{}, false
		}
	}
	return userID, p, true
}

func irpfQuery(w http.ResponseWriter, r *http.Request, withINSS bool) (salary.IRPFQuery, bool) {
	var q salary.IRPFQuery

	gross, err := decimalQuery(r, "gross")
	if err != nil {
		response.HandleError(w, err)
		return q, false
	}
	if gross == nil {
		response.HandleError(w, validator.Single("gross", "gross is required"))
		return q, false
	}
	q.Gross = *gross

	if withINSS {
		if q.INSS, err = decimalQuery(r, "inss"); err != nil {
			response.HandleError(w, err)
			return q, false
		}
	}

	other, err := decimalQuery(r, "other")
	if err != nil {
		response.HandleError(w, err)
		return q, false
	}
	q.Other = decimal.Zero
	if other != nil {
		q.Other = *other
	}

	if err := q.Validate(); err != nil {
		response.HandleError(w, err)
		return q, false
	}
	return q, true
}
