package salary

import (
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ReconcileResultResponse struct {
	Category          string          `json:"category"`
	Action            string          `json:"action"`
	DiscountID        *string         `json:"discount_id,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	DuplicatesRemoved int             `json:"duplicates_removed,omitempty"`
}

type BreakdownResponse struct {
	EmployeeID     string                   `json:"employee_id"`
	EmployeeName   string                   `json:"employee_name"`
	Month          string                   `json:"month"`
	BaseSalary     decimal.Decimal          `json:"base_salary"`
	LevelBonus     decimal.Decimal          `json:"level_bonus"`
	Commissions    decimal.Decimal          `json:"commissions"`
	GrossTotal     decimal.Decimal          `json:"gross_total"`
	INSS           decimal.Decimal          `json:"inss"`
	IRPF           decimal.Decimal          `json:"irpf"`
	OtherDiscounts decimal.Decimal          `json:"other_discounts"`
	NetPay         decimal.Decimal          `json:"net_pay"`
	INSSDiscount   *ReconcileResultResponse `json:"inss_discount,omitempty"`
	IRPFDiscount   *ReconcileResultResponse `json:"irpf_discount,omitempty"`
}

func ToBreakdownResponse(b Breakdown) BreakdownResponse {
	return BreakdownResponse{
		EmployeeID:     b.EmployeeID,
		EmployeeName:   b.EmployeeName,
		Month:          b.Period.String(),
		BaseSalary:     b.BaseSalary,
		LevelBonus:     b.LevelBonus,
		Commissions:    b.Commissions,
		GrossTotal:     b.GrossTotal,
		INSS:           b.INSS,
		IRPF:           b.IRPF,
		OtherDiscounts: b.OtherDiscounts,
		NetPay:         b.NetPay,
		INSSDiscount:   toReconcileResponse(b.INSSResult),
		IRPFDiscount:   toReconcileResponse(b.IRPFResult),
	}
}

func toReconcileResponse(r *ReconcileResult) *ReconcileResultResponse {
	if r == nil {
		return nil
	}
	return &ReconcileResultResponse{
		Category:          string(r.Category),
		Action:            string(r.Action),
		DiscountID:        r.DiscountID,
		Amount:            r.Amount,
		DuplicatesRemoved: r.DuplicatesRemoved,
	}
}

type TaxQuoteResponse struct {
	Gross          decimal.Decimal `json:"gross"`
	INSS           decimal.Decimal `json:"inss"`
	OtherDiscounts decimal.Decimal `json:"other_discounts"`
	IRPFBase       decimal.Decimal `json:"irpf_base"`
	IRPF           decimal.Decimal `json:"irpf"`
	NetPay         decimal.Decimal `json:"net_pay"`
}

func ToTaxQuoteResponse(q TaxQuote) TaxQuoteResponse {
	return TaxQuoteResponse{
		Gross:          q.Gross,
		INSS:           q.INSS,
		OtherDiscounts: q.OtherDiscounts,
		IRPFBase:       q.IRPFBase,
		IRPF:           q.IRPF,
		NetPay:         q.NetPay,
	}
}

type INSSRequest struct {
	Gross decimal.Decimal `json:"gross"`
}

func (r *INSSRequest) Validate() error {
	if r.Gross.IsNegative() {
		return validator.Single("gross", "gross must not be negative")
	}
	return nil
}

type INSSResponse struct {
	Gross decimal.Decimal `json:"gross"`
	INSS  decimal.Decimal `json:"inss"`
}

// IRPFQuery carries the ad-hoc IRPF inputs. INSS is computed from Gross when nil.
type IRPFQuery struct {
	Gross decimal.Decimal
	INSS  *decimal.Decimal
	Other decimal.Decimal
}

func (q *IRPFQuery) Validate() error {
	var errs validator.ValidationErrors
	if q.Gross.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "gross", Message: "gross must not be negative"})
	}
	if q.INSS != nil && q.INSS.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "inss", Message: "inss must not be negative"})
	}
	if q.Other.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "other", Message: "other must not be negative"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ManualIRPFRequest struct {
	EmployeeID string          `json:"-"`
	Gross      decimal.Decimal `json:"gross"`
	INSS       decimal.Decimal `json:"inss"`
}

func (r *ManualIRPFRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id must be a valid UUID"})
	}
	if !r.Gross.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "gross", Message: "gross must be greater than 0"})
	}
	if r.INSS.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "inss", Message: "inss must not be negative"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CleanupResponse struct {
	Groups  int   `json:"groups"`
	Removed int64 `json:"removed"`
}
