package salary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/discount"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const empID = "7f1c0a52-3b8e-4d3f-9a44-0d2b6f9c1e01"

var march = period.YearMonth{Year: 2025, Month: time.March}

func on(day int) time.Time {
	return time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
}

func newTestService(store *memoryStore) *SalaryServiceImpl {
	svc := NewSalaryService(store, store, store, store, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, time.March, 18, 14, 30, 0, 0, time.UTC) }
	return svc
}

func seedEmployee(store *memoryStore, gross string) {
	store.addUser(user.User{
		ID:          empID,
		Name:        "Ana Souza",
		Email:       "ana@example.com",
		Role:        user.RoleSupport,
		GrossSalary: decimal.RequireFromString(gross),
	})
}

func TestSalaryService_RecalculateForMonth_CreatesINSSOnly(t *testing.T) {
	// Arrange
	store := newMemoryStore()
	seedEmployee(store, "1553.20")
	store.addCommission(empID, on(10), "50.00")
	svc := newTestService(store)

	// Act
	b, err := svc.RecalculateForMonth(context.Background(), empID, march)

	// Assert
	require.NoError(t, err)
	assert.True(t, b.GrossTotal.Equal(d("1603.20")))
	assert.True(t, b.INSS.Equal(d("121.52")))
	assert.True(t, b.IRPF.IsZero())
	assert.True(t, b.NetPay.Equal(d("1481.68")))
	assert.Equal(t, salary.ActionCreated, b.INSSResult.Action)
	assert.Equal(t, salary.ActionAbsent, b.IRPFResult.Action)

	inss := store.taxRows(empID, discount.CategoryINSS, march)
	require.Len(t, inss, 1)
	assert.True(t, inss[0].Amount.Equal(d("121.52")))
	assert.True(t, inss[0].Date.Equal(on(1)))
	assert.Empty(t, store.taxRows(empID, discount.CategoryIRPF, march))
}

func TestSalaryService_RecalculateForMonth_Idempotent(t *testing.T) {
	store := newMemoryStore()
	seedEmployee(store, "1553.20")
	store.addCommission(empID, on(10), "50.00")
	svc := newTestService(store)

	first, err := svc.RecalculateForMonth(context.Background(), empID, march)
	require.NoError(t, err)
	second, err := svc.RecalculateForMonth(context.Background(), empID, march)
	require.NoError(t, err)

	assert.Equal(t, salary.ActionUnchanged, second.INSSResult.Action)
	assert.Equal(t, *first.INSSResult.DiscountID, *second.INSSResult.DiscountID)
	assert.Len(t, store.taxRows(empID, discount.CategoryINSS, march), 1)
}

func TestSalaryService_RecalculateForMonth_UpdatesAfterCommissionRemoved(t *testing.T) {
	store := newMemoryStore()
	seedEmployee(store, "1553.20")
	entryID := store.addCommission(empID, on(10), "50.00")
	svc := newTestService(store)

	_, err := svc.RecalculateForMonth(context.Background(), empID, march)
	require.NoError(t, err)

	store.removeCommission(entryID)
	b, err := svc.RecalculateForMonth(context.Background(), empID, march)

	require.NoError(t, err)
	assert.True(t, b.GrossTotal.Equal(d("1553.20")))
	assert.Equal(t, salary.ActionUpdated, b.INSSResult.Action)
	rows := store.taxRows(empID, discount.CategoryINSS, march)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Amount.Equal(d("117.02")))
}

func TestSalaryService_RecalculateForMonth_HighEarnerGetsBothRows(t *testing.T) {
	store := newMemoryStore()
	seedEmployee(store, "10000")
	svc := newTestService(store)

	b, err := svc.RecalculateForMonth(context.Background(), empID, march)

	require.NoError(t, err)
	assert.True(t, b.INSS.Equal(d("1205.43")))
	assert.True(t, b.IRPF.Equal(d("1509.77")))
	assert.True(t, b.NetPay.Equal(d("7284.80")))
	assert.Len(t, store.taxRows(empID, discount.CategoryINSS, march), 1)
	assert.Len(t, store.taxRows(empID, discount.CategoryIRPF, march), 1)
}

func TestSalaryService_RecalculateForMonth_LevelBonusIncluded(t *testing.T) {
	store := newMemoryStore()
	bonus := d("10")
	level := user.LevelTwo
	store.addUser(user.User{ID: empID, Name: "Ana", GrossSalary: d("2000"), Level: &level, BonusPercentage: &bonus})
	svc := newTestService(store)

	b, err := svc.Preview(context.Background(), empID, march)

	require.NoError(t, err)
	assert.True(t, b.LevelBonus.Equal(d("200")))
	assert.True(t, b.GrossTotal.Equal(d("2200")))
}

func TestSalaryService_RecalculateForMonth_OtherDiscountsLowerIRPFBase(t *testing.T) {
	store := newMemoryStore()
	seedEmployee(store, "3000")
	store.addDiscount(empID, "Health plan", on(5), "400")
	// Tax rows never count as other discounts.
	store.addDiscount(empID, discount.CategoryINSS, on(1), "999")
	svc := newTestService(store)

	b, err := svc.RecalculateForMonth(context.Background(), empID, march)

	require.NoError(t, err)
	assert.True(t, b.OtherDiscounts.Equal(d("400")))
	assert.True(t, b.INSS.Equal(d("251.36")))
	assert.True(t, b.IRPF.IsZero())
	assert.Equal(t, salary.ActionUpdated, b.INSSResult.Action)
}

func TestSalaryService_RecalculateForMonth_NonPositiveNetRemovesRows(t *testing.T) {
	store := newMemoryStore()
	seedEmployee(store, "1000")
	inssID := store.addDiscount(empID, discount.CategoryINSS, on(1), "75")
	store.addDiscount(empID, "Advance", on(12), "5000")
	svc := newTestService(store)

	b, err := svc.RecalculateForMonth(context.Background(), empID, march)

	require.NoError(t, err)
	assert.True(t, b.NetPay.IsNegative())
	assert.Equal(t, salary.ActionDeleted, b.INSSResult.Action)
	assert.Equal(t, inssID, *b.INSSResult.DiscountID)
	assert.Equal(t, salary.ActionAbsent, b.IRPFResult.Action)
	assert.Empty(t, store.taxRows(empID, discount.CategoryINSS, march))
	assert.Empty(t, store.taxRows(empID, discount.CategoryIRPF, march))
}

func TestSalaryService_RecalculateForMonth_RepairsDuplicates(t *testing.T) {
	store := newMemoryStore()
	seedEmployee(store, "1553.20")
	keep := store.addDiscount(empID, discount.CategoryINSS, on(1), "100")
	store.addDiscount(empID, discount.CategoryINSS, on(1), "100")
	store.addDiscount(empID, discount.CategoryINSS, on(20), "117.02")
	svc := newTestService(store)

	b, err := svc.RecalculateForMonth(context.Background(), empID, march)

	require.NoError(t, err)
	assert.Equal(t, 2, b.INSSResult.DuplicatesRemoved)
	assert.Equal(t, salary.ActionUpdated, b.INSSResult.Action)
	rows := store.taxRows(empID, discount.CategoryINSS, march)
	require.Len(t, rows, 1)
	assert.Equal(t, keep, rows[0].ID)
	assert.True(t, rows[0].Amount.Equal(d("117.02")))
}

func TestSalaryService_RecalculateForMonth_OtherMonthsUntouched(t *testing.T) {
	store := newMemoryStore()
	seedEmployee(store, "1553.20")
	feb := period.YearMonth{Year: 2025, Month: time.February}
	store.addDiscount(empID, discount.CategoryINSS, feb.FirstDay(), "42")
	svc := newTestService(store)

	_, err := svc.RecalculateForMonth(context.Background(), empID, march)

	require.NoError(t, err)
	rows := store.taxRows(empID, discount.CategoryINSS, feb)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Amount.Equal(d("42")))
}

func TestSalaryService_RecalculateForMonth_EmployeeNotFound(t *testing.T) {
	svc := newTestService(newMemoryStore())

	_, err := svc.RecalculateForMonth(context.Background(), empID, march)

	assert.ErrorIs(t, err, salary.ErrEmployeeNotFound)
}

func TestSalaryService_RecalculateForMonth_StoreFailureIsCalculationError(t *testing.T) {
	store := newMemoryStore()
	seedEmployee(store, "1553.20")
	store.failSumFees = errStoreDown
	svc := newTestService(store)

	_, err := svc.RecalculateForMonth(context.Background(), empID, march)

	var calcErr *salary.CalculationError
	require.True(t, errors.As(err, &calcErr))
	assert.Equal(t, "sum_commissions", calcErr.Op)
	assert.Equal(t, march, calcErr.Period)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestSalaryService_Preview_DoesNotWrite(t *testing.T) {
	store := newMemoryStore()
	seedEmployee(store, "10000")
	svc := newTestService(store)

	b, err := svc.Preview(context.Background(), empID, march)

	require.NoError(t, err)
	assert.Nil(t, b.INSSResult)
	assert.Nil(t, b.IRPFResult)
	assert.Empty(t, store.discounts)
}

func TestSalaryService_HandleTrigger_CommissionUsesRecordMonth(t *testing.T) {
	store := newMemoryStore()
	seedEmployee(store, "1553.20")
	svc := newTestService(store)
	jan := time.Date(2025, time.January, 31, 23, 0, 0, 0, time.UTC)

	out := svc.HandleTrigger(context.Background(), salary.Trigger{
		Reason:     salary.CommissionChanged,
		EmployeeID: empID,
		RecordDate: jan,
	})

	require.True(t, out.OK())
	assert.Equal(t, period.YearMonth{Year: 2025, Month: time.January}, out.Period)
	assert.Len(t, store.taxRows(empID, discount.CategoryINSS, out.Period), 1)
}

func TestSalaryService_HandleTrigger_SalaryChangeUsesCurrentMonth(t *testing.T) {
	store := newMemoryStore()
	seedEmployee(store, "1553.20")
	svc := newTestService(store)

	out := svc.HandleTrigger(context.Background(), salary.Trigger{Reason: salary.SalaryChanged, EmployeeID: empID})

	require.True(t, out.OK())
	assert.Equal(t, march, out.Period)
	require.NotNil(t, out.Breakdown)
	assert.True(t, out.Breakdown.INSS.Equal(d("117.02")))
}

func TestSalaryService_HandleTrigger_FailureReportedNotReturned(t *testing.T) {
	store := newMemoryStore()
	seedEmployee(store, "1553.20")
	store.failCreateTax = errStoreDown
	svc := newTestService(store)

	out := svc.HandleTrigger(context.Background(), salary.Trigger{
		Reason:     salary.DiscountChanged,
		EmployeeID: empID,
		RecordDate: on(3),
	})

	assert.False(t, out.OK())
	assert.Equal(t, salary.OutcomeRecalculationFailed, out.Status)
	assert.Equal(t, salary.DiscountChanged, out.Reason)
	assert.ErrorIs(t, out.Err, errStoreDown)
	assert.Nil(t, out.Breakdown)
}

func TestSalaryService_HandleTrigger_UnknownReason(t *testing.T) {
	svc := newTestService(newMemoryStore())

	out := svc.HandleTrigger(context.Background(), salary.Trigger{Reason: salary.TriggerReason(99), EmployeeID: empID})

	assert.False(t, out.OK())
	assert.ErrorIs(t, out.Err, salary.ErrUnknownTrigger)
}

func TestSalaryService_ManualIRPF_ReconcilesCurrentMonth(t *testing.T) {
	store := newMemoryStore()
	seedEmployee(store, "5000")
	svc := newTestService(store)

	q, err := svc.ManualIRPF(context.Background(), empID, d("5000"), d("500"))

	require.NoError(t, err)
	assert.True(t, q.IRPFBase.Equal(d("4500")))
	assert.True(t, q.IRPF.Equal(d("337.09")))
	rows := store.taxRows(empID, discount.CategoryIRPF, march)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Amount.Equal(d("337.09")))
	assert.Empty(t, store.taxRows(empID, discount.CategoryINSS, march))
}

func TestSalaryService_ManualIRPF_EmployeeNotFound(t *testing.T) {
	svc := newTestService(newMemoryStore())

	_, err := svc.ManualIRPF(context.Background(), empID, d("5000"), d("500"))

	assert.ErrorIs(t, err, salary.ErrEmployeeNotFound)
}

func TestSalaryService_CleanupDuplicateTaxDiscounts(t *testing.T) {
	store := newMemoryStore()
	other := "0b6e3d7a-1c2f-4e5a-8b9c-7d6e5f4a3b21"
	store.addDiscount(empID, discount.CategoryINSS, on(1), "100")
	store.addDiscount(empID, discount.CategoryINSS, on(1), "100")
	store.addDiscount(empID, discount.CategoryINSS, on(1), "100")
	store.addDiscount(other, discount.CategoryIRPF, on(1), "10")
	store.addDiscount(other, discount.CategoryIRPF, on(2), "10")
	store.addDiscount(other, "Advance", on(2), "10")
	store.addDiscount(other, "Advance", on(2), "10")
	svc := newTestService(store)

	res, err := svc.CleanupDuplicateTaxDiscounts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, res.Groups)
	assert.Equal(t, int64(3), res.Removed)
	assert.Len(t, store.taxRows(empID, discount.CategoryINSS, march), 1)
	assert.Len(t, store.taxRows(other, discount.CategoryIRPF, march), 1)
	assert.Len(t, store.discounts, 4)
}

func TestSalaryService_QuoteIRPF_ComputesINSSWhenMissing(t *testing.T) {
	svc := newTestService(newMemoryStore())

	q := svc.QuoteIRPF(d("3000"), nil, decimal.Zero)

	assert.True(t, q.INSS.Equal(d("251.36")))
	assert.True(t, q.IRPF.Equal(d("23.99")))
	assert.True(t, q.NetPay.Equal(d("2724.65")))
}

func TestSalaryService_QuoteIRPF_UsesSuppliedINSS(t *testing.T) {
	svc := newTestService(newMemoryStore())
	inss := d("500")

	q := svc.QuoteIRPF(d("5000"), &inss, decimal.Zero)

	assert.True(t, q.IRPF.Equal(d("337.09")))
}
