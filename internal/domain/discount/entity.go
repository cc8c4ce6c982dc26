package discount

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// System-managed categories, written only by the salary reconciler.
const (
	CategoryINSS = "INSS"
	CategoryIRPF = "IRPF"
)

var TaxCategories = []string{CategoryINSS, CategoryIRPF}

// IsTaxCategory matches INSS and IRPF regardless of case and surrounding spaces.
func IsTaxCategory(category string) bool {
	c := strings.ToUpper(strings.TrimSpace(category))
	return c == CategoryINSS || c == CategoryIRPF
}

type Discount struct {
	ID        string
	UserID    string
	Category  string
	Amount    decimal.Decimal
	Date      time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	UserName *string
}

func (d Discount) IsTax() bool {
	return IsTaxCategory(d.Category)
}

// DuplicateGroup is a (user, category, month) key holding more than one row.
// IDs are ordered so the first one is the row to keep.
type DuplicateGroup struct {
	UserID   string
	Category string
	Year     int
	Month    int
	IDs      []string
}
