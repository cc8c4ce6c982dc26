package commission

import (
	"time"

	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/document"
	"github.com/shopspring/decimal"
)

// DefaultPercentage applies when an entry is created without a fee percentage.
var DefaultPercentage = decimal.RequireFromString("0.1")

var hundred = decimal.NewFromInt(100)

// Entry is a scheduled commission tied to a client document.
type Entry struct {
	ID           string
	DocumentType document.Type
	Document     string
	Date         time.Time
	UserID       string
	HasFee       bool
	Amount       decimal.Decimal
	Percentage   decimal.Decimal
	FeeAmount    decimal.Decimal
	Title        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined fields
	UserName *string
}

// ComputeFee derives the fee amount: amount × percentage / 100 rounded to cents, or 0 without fee.
func ComputeFee(hasFee bool, amount, percentage decimal.Decimal) decimal.Decimal {
	if !hasFee {
		return decimal.Zero
	}
	return amount.Mul(percentage).Div(hundred).Round(2)
}

// ApplyFee recomputes FeeAmount from the other fields.
func (e *Entry) ApplyFee() {
	e.FeeAmount = ComputeFee(e.HasFee, e.Amount, e.Percentage)
}

// DailyTotal is a per-day fee sum for the chart view.
type DailyTotal struct {
	Date      time.Time
	FeeAmount decimal.Decimal
}
