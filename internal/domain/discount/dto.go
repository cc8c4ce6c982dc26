package discount

import (
	"time"

	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type DiscountResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	UserName  *string         `json:"user_name,omitempty"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	IsTax     bool            `json:"is_tax"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

func ToResponse(d Discount) DiscountResponse {
	return DiscountResponse{
		ID:        d.ID,
		UserID:    d.UserID,
		UserName:  d.UserName,
		Category:  d.Category,
		Amount:    d.Amount,
		Date:      d.Date.Format(time.RFC3339),
		IsTax:     d.IsTax(),
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
		UpdatedAt: d.UpdatedAt.Format(time.RFC3339),
	}
}

type DiscountTotalResponse struct {
	UserID string          `json:"user_id"`
	Month  string          `json:"month"`
	Total  decimal.Decimal `json:"total"`
}

// DiscountFilter narrows listings. Month is "YYYY-MM".
type DiscountFilter struct {
	UserID   string
	Month    string
	Category string
}

func (f *DiscountFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.UserID != "" && !validator.IsValidUUID(f.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}
	if f.Month != "" {
		if _, err := period.Parse(f.Month); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "month must be in YYYY-MM format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Period returns the parsed month, or nil when the filter has none.
func (f *DiscountFilter) Period() *period.YearMonth {
	if f.Month == "" {
		return nil
	}
	p, err := period.Parse(f.Month)
	if err != nil {
		return nil
	}
	return &p
}

type CreateDiscountRequest struct {
	UserID   string          `json:"user_id"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date,omitempty"`
}

func (r *CreateDiscountRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	} else if !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	errs = append(errs, validateCategory(r.Category)...)

	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be greater than 0",
		})
	}

	if r.Date != "" {
		if _, ok := validator.ParseDateOrDateTime(r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be YYYY-MM-DD or an RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ResolvedDate returns the parsed date, or now when none was supplied.
func (r *CreateDiscountRequest) ResolvedDate(now time.Time) time.Time {
	if t, ok := validator.ParseDateOrDateTime(r.Date); ok {
		return t
	}
	return now
}

type UpdateDiscountRequest struct {
	ID       string           `json:"-"`
	UserID   *string          `json:"user_id,omitempty"`
	Category *string          `json:"category,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Date     *string          `json:"date,omitempty"`
}

func (r *UpdateDiscountRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.UserID != nil && !validator.IsValidUUID(*r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}
	if r.Category != nil {
		errs = append(errs, validateCategory(*r.Category)...)
	}
	if r.Amount != nil && !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be greater than 0",
		})
	}
	if r.Date != nil {
		if _, ok := validator.ParseDateOrDateTime(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be YYYY-MM-DD or an RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParsedDate returns the new date, or nil when the update leaves it unchanged.
func (r *UpdateDiscountRequest) ParsedDate() *time.Time {
	if r.Date == nil {
		return nil
	}
	t, ok := validator.ParseDateOrDateTime(*r.Date)
	if !ok {
		return nil
	}
	return &t
}

func validateCategory(category string) validator.ValidationErrors {
	switch {
	case validator.IsEmpty(category):
		return validator.Single("category", "category is required")
	case len(category) > 255:
		return validator.Single("category", "category must not exceed 255 characters")
	case IsTaxCategory(category):
		return validator.Single("category", ErrTaxCategoryReserved.Error())
	}
	return nil
}
