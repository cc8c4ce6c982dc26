package commission

import (
	"time"

	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/document"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EntryResponse struct {
	ID           string          `json:"id"`
	DocumentType string          `json:"document_type"`
	Document     string          `json:"document"`
	Date         string          `json:"date"`
	UserID       string          `json:"user_id"`
	UserName     *string         `json:"user_name,omitempty"`
	HasFee       bool            `json:"has_fee"`
	Amount       decimal.Decimal `json:"amount"`
	Percentage   decimal.Decimal `json:"percentage"`
	FeeAmount    decimal.Decimal `json:"fee_amount"`
	Title        *string         `json:"title"`
}

func ToResponse(e Entry) EntryResponse {
	return EntryResponse{
		ID:           e.ID,
		DocumentType: string(e.DocumentType),
		Document:     e.Document,
		Date:         e.Date.Format(time.RFC3339),
		UserID:       e.UserID,
		UserName:     e.UserName,
		HasFee:       e.HasFee,
		Amount:       e.Amount,
		Percentage:   e.Percentage,
		FeeAmount:    e.FeeAmount,
		Title:        e.Title,
	}
}

type DailyTotalResponse struct {
	Date      string          `json:"date"`
	FeeAmount decimal.Decimal `json:"fee_amount"`
}

// SummaryResponse totals the caller's month: gross salary plus commissions minus every discount.
type SummaryResponse struct {
	Items            []EntryResponse `json:"items"`
	TotalCommissions decimal.Decimal `json:"total_commissions"`
	GrossSalary      decimal.Decimal `json:"gross_salary"`
	TotalDiscounts   decimal.Decimal `json:"total_discounts"`
	NetTotal         decimal.Decimal `json:"net_total"`
}

type UserSummaryResponse struct {
	UserID           string          `json:"user_id"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	Month            string          `json:"month"`
	TotalCommissions decimal.Decimal `json:"total_commissions"`
	GrossSalary      decimal.Decimal `json:"gross_salary"`
	TotalDiscounts   decimal.Decimal `json:"total_discounts"`
	NetTotal         decimal.Decimal `json:"net_total"`
}

// EntryFilter narrows listings. Month is "YYYY-MM"; UserID is forced to the caller for non-admins.
type EntryFilter struct {
	Month  string
	UserID string
}

func (f *EntryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != "" {
		if _, err := period.Parse(f.Month); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "month must be in YYYY-MM format",
			})
		}
	}
	if f.UserID != "" && !validator.IsValidUUID(f.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Period returns the parsed month, or nil when the filter has none.
func (f *EntryFilter) Period() *period.YearMonth {
	if f.Month == "" {
		return nil
	}
	p, err := period.Parse(f.Month)
	if err != nil {
		return nil
	}
	return &p
}

type CreateEntryRequest struct {
	DocumentType string           `json:"document_type"`
	Document     string           `json:"document"`
	Date         string           `json:"date"`
	UserID       string           `json:"user_id,omitempty"`
	HasFee       bool             `json:"has_fee"`
	Amount       decimal.Decimal  `json:"amount"`
	Percentage   *decimal.Decimal `json:"percentage,omitempty"`
	Title        *string          `json:"title,omitempty"`
}

func (r *CreateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Document) {
		errs = append(errs, validator.ValidationError{
			Field:   "document",
			Message: "document is required",
		})
	} else if t, _, ok := document.Resolve(r.DocumentType, r.Document); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "document",
			Message: document.Message(t),
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.ParseDateOrDateTime(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be YYYY-MM-DD or an RFC3339 timestamp",
		})
	}

	if r.UserID != "" && !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	if r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must not be negative",
		})
	}

	if r.Percentage != nil && !validator.IsValidPercentage(*r.Percentage) {
		errs = append(errs, validator.ValidationError{
			Field:   "percentage",
			Message: "percentage must be between 0 and 100",
		})
	}

	if r.Title != nil && len(*r.Title) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEntry builds the entity; the caller sets UserID when the request left it empty.
func (r *CreateEntryRequest) ToEntry() Entry {
	docType, digits, _ := document.Resolve(r.DocumentType, r.Document)
	date, _ := validator.ParseDateOrDateTime(r.Date)

	percentage := DefaultPercentage
	if r.Percentage != nil {
		percentage = *r.Percentage
	}

	e := Entry{
		DocumentType: docType,
		Document:     digits,
		Date:         date,
		UserID:       r.UserID,
		HasFee:       r.HasFee,
		Amount:       r.Amount,
		Percentage:   percentage,
		Title:        r.Title,
	}
	e.ApplyFee()
	return e
}

type UpdateEntryRequest struct {
	ID           string           `json:"-"`
	DocumentType *string          `json:"document_type,omitempty"`
	Document     *string          `json:"document,omitempty"`
	Date         *string          `json:"date,omitempty"`
	UserID       *string          `json:"user_id,omitempty"`
	HasFee       *bool            `json:"has_fee,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	Percentage   *decimal.Decimal `json:"percentage,omitempty"`
	Title        *string          `json:"title,omitempty"`
}

func (r *UpdateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.DocumentType != nil && !document.Type(*r.DocumentType).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "document_type",
			Message: "document_type must be cpf or cnpj",
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
	if r.UserID != nil && !validator.IsValidUUID(*r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}
	if r.Amount != nil && r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must not be negative",
		})
	}
	if r.Percentage != nil && !validator.IsValidPercentage(*r.Percentage) {
		errs = append(errs, validator.ValidationError{
			Field:   "percentage",
			Message: "percentage must be between 0 and 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Merge applies the update onto an existing entry and recomputes the fee.
// The document is re-checked against the resulting type.
func (r *UpdateEntryRequest) Merge(e Entry) (Entry, error) {
	if r.DocumentType != nil || r.Document != nil {
		rawType := string(e.DocumentType)
		if r.DocumentType != nil {
			rawType = *r.DocumentType
		}
		raw := e.Document
		if r.Document != nil {
			raw = *r.Document
		}
		t, digits, ok := document.Resolve(rawType, raw)
		if !ok {
			return Entry{}, validator.Single("document", document.Message(t))
		}
		e.DocumentType = t
		e.Document = digits
	}
	if r.Date != nil {
		date, _ := validator.ParseDateOrDateTime(*r.Date)
		e.Date = date
	}
	if r.UserID != nil {
		e.UserID = *r.UserID
	}
	if r.HasFee != nil {
		e.HasFee = *r.HasFee
	}
	if r.Amount != nil {
		e.Amount = *r.Amount
	}
	if r.Percentage != nil {
		e.Percentage = *r.Percentage
	}
	if r.Title != nil {
		e.Title = r.Title
	}
	e.ApplyFee()
	return e, nil
}
