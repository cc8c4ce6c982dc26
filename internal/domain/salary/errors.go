package salary

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrUnknownTrigger   = errors.New("unknown recalculation trigger")
)

// CalculationError wraps an unexpected failure inside the recalculation pipeline.
type CalculationError struct {
	Op         string
	EmployeeID string
	Period     period.YearMonth
	Err        error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("salary calculation failed at %s for employee %s (%s): %v", e.Op, e.EmployeeID, e.Period, e.Err)
}

func (e *CalculationError) Unwrap() error {
	return e.Err
}
