package salary

import (
	"time"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/discount"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
	"github.com/shopspring/decimal"
)

// TaxCategory names the discount row a tax is stored under.
type TaxCategory string

const (
	TaxINSS TaxCategory = discount.CategoryINSS
	TaxIRPF TaxCategory = discount.CategoryIRPF
)

// Breakdown is the result of a monthly salary calculation. Every amount is rounded to cents.
type Breakdown struct {
	EmployeeID     string
	EmployeeName   string
	Period         period.YearMonth
	BaseSalary     decimal.Decimal
	LevelBonus     decimal.Decimal
	Commissions    decimal.Decimal
	GrossTotal     decimal.Decimal
	INSS           decimal.Decimal
	IRPF           decimal.Decimal
	OtherDiscounts decimal.Decimal
	NetPay         decimal.Decimal

	// Set only when the tax rows were reconciled.
	INSSResult *ReconcileResult
	IRPFResult *ReconcileResult
}

type ReconcileAction string

const (
	ActionCreated   ReconcileAction = "created"
	ActionUpdated   ReconcileAction = "updated"
	ActionUnchanged ReconcileAction = "unchanged"
	ActionDeleted   ReconcileAction = "deleted"
	ActionAbsent    ReconcileAction = "absent"
)

// ReconcileResult describes what happened to one (employee, tax, month) row.
type ReconcileResult struct {
	Category          TaxCategory
	Action            ReconcileAction
	DiscountID        *string
	Amount            decimal.Decimal
	DuplicatesRemoved int
}

// TriggerReason says which kind of mutation asked for a recalculation.
type TriggerReason int

const (
	CommissionChanged TriggerReason = iota + 1
	DiscountChanged
	SalaryChanged
	LevelChanged
)

func (r TriggerReason) String() string {
	switch r {
	case CommissionChanged:
		return "commission_changed"
	case DiscountChanged:
		return "discount_changed"
	case SalaryChanged:
		return "salary_changed"
	case LevelChanged:
		return "level_changed"
	}
	return "unknown"
}

// Trigger is emitted by CRUD services after a committed write.
// RecordDate is the mutated record's own date; it is ignored for salary and level changes.
type Trigger struct {
	Reason     TriggerReason
	EmployeeID string
	RecordDate time.Time
}

type OutcomeStatus string

const (
	OutcomeOK                  OutcomeStatus = "ok"
	OutcomeRecalculationFailed OutcomeStatus = "recalculation_failed"
)

// Outcome reports a triggered recalculation without failing the mutation that caused it.
type Outcome struct {
	Status     OutcomeStatus
	Reason     TriggerReason
	EmployeeID string
	Period     period.YearMonth
	Breakdown  *Breakdown
	Err        error
}

func (o Outcome) OK() bool {
	return o.Status == OutcomeOK
}

// TaxQuote is an ad-hoc calculation that touches no stored data.
type TaxQuote struct {
	Gross          decimal.Decimal
	INSS           decimal.Decimal
	OtherDiscounts decimal.Decimal
	IRPFBase       decimal.Decimal
	IRPF           decimal.Decimal
	NetPay         decimal.Decimal
}

type CleanupResult struct {
	Groups  int
	Removed int64
}
