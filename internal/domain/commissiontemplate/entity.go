package commissiontemplate

import (
	"time"

	"github.com/shopspring/decimal"
)

// Template is reference data copied into new commission entries by the client.
type Template struct {
	ID         string
	Title      string
	Amount     *decimal.Decimal
	Percentage *decimal.Decimal
	HasFee     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
