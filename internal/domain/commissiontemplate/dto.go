package commissiontemplate

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type TemplateResponse struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Amount     *decimal.Decimal `json:"amount"`
	Percentage *decimal.Decimal `json:"percentage"`
	HasFee     bool             `json:"has_fee"`
	CreatedAt  string           `json:"created_at"`
	UpdatedAt  string           `json:"updated_at"`
}

func ToResponse(t Template) TemplateResponse {
	return TemplateResponse{
		ID:         t.ID,
		Title:      t.Title,
		Amount:     t.Amount,
		Percentage: t.Percentage,
		HasFee:     t.HasFee,
		CreatedAt:  t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  t.UpdatedAt.Format(time.RFC3339),
	}
}

type CreateTemplateRequest struct {
	Title      string           `json:"title"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	HasFee     bool             `json:"has_fee"`
}

func (r *CreateTemplateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	} else if len(r.Title) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title must not exceed 255 characters",
		})
	}
	errs = append(errs, validateValues(r.Amount, r.Percentage)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *CreateTemplateRequest) ToTemplate() Template {
	return Template{
		Title:      strings.TrimSpace(r.Title),
		Amount:     r.Amount,
		Percentage: r.Percentage,
		HasFee:     r.HasFee,
	}
}

type UpdateTemplateRequest struct {
	ID         string           `json:"-"`
	Title      *string          `json:"title,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	HasFee     *bool            `json:"has_fee,omitempty"`
}

func (r *UpdateTemplateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.Title != nil && validator.IsEmpty(*r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title must not be empty",
		})
	}
	errs = append(errs, validateValues(r.Amount, r.Percentage)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *UpdateTemplateRequest) Merge(t Template) Template {
	if r.Title != nil {
		t.Title = strings.TrimSpace(*r.Title)
	}
	if r.Amount != nil {
		t.Amount = r.Amount
	}
	if r.Percentage != nil {
		t.Percentage = r.Percentage
	}
	if r.HasFee != nil {
		t.HasFee = *r.HasFee
	}
	return t
}

func validateValues(amount, percentage *decimal.Decimal) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if amount != nil && amount.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must not be negative",
		})
	}
	if percentage != nil && !validator.IsValidPercentage(*percentage) {
		errs = append(errs, validator.ValidationError{
			Field:   "percentage",
			Message: "percentage must be between 0 and 100",
		})
	}
	return errs
}
