package salary

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/discount"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
	"github.com/shopspring/decimal"
)

var errStoreDown = errors.New("store unavailable")

// memoryStore backs the three salary ports with slices so the pipeline runs end to end.
type memoryStore struct {
	mu          sync.Mutex
	users       map[string]user.User
	commissions []commission.Entry
	discounts   []discount.Discount
	seq         int

	failGetUser   error
	failSumFees   error
	failSumOthers error
	failListTaxes error
	failCreateTax error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: map[string]user.User{}}
}

func (m *memoryStore) addUser(u user.User) {
	m.users[u.ID] = u
}

func (m *memoryStore) addCommission(userID string, date time.Time, fee string) string {
	m.seq++
	e := commission.Entry{
		ID:        fmt.Sprintf("c-%03d", m.seq),
		UserID:    userID,
		Date:      date,
		HasFee:    true,
		FeeAmount: decimal.RequireFromString(fee),
	}
	m.commissions = append(m.commissions, e)
	return e.ID
}

func (m *memoryStore) removeCommission(id string) {
	for i, e := range m.commissions {
		if e.ID == id {
			m.commissions = append(m.commissions[:i], m.commissions[i+1:]...)
			return
		}
	}
}

func (m *memoryStore) addDiscount(userID, category string, date time.Time, amount string) string {
	m.seq++
	d := discount.Discount{
		ID:        fmt.Sprintf("d-%03d", m.seq),
		UserID:    userID,
		Category:  category,
		Amount:    decimal.RequireFromString(amount),
		Date:      date,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, m.seq, 0, time.UTC),
	}
	m.discounts = append(m.discounts, d)
	return d.ID
}

// WithinTx runs fn directly; the store has no rollback.
func (m *memoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *memoryStore) taxRows(userID, category string, p period.YearMonth) []discount.Discount {
	rows, _ := m.ListForMonth(context.Background(), userID, category, p)
	return rows
}

// ========== EmployeeReader ==========

func (m *memoryStore) GetByID(_ context.Context, id string) (user.User, error) {
	if m.failGetUser != nil {
		return user.User{}, m.failGetUser
	}
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (m *memoryStore) List(_ context.Context) ([]user.User, error) {
	out := make([]user.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ========== CommissionAggregator ==========

func (m *memoryStore) SumFeesForMonth(_ context.Context, userID string, p period.YearMonth) (decimal.Decimal, error) {
	if m.failSumFees != nil {
		return decimal.Zero, m.failSumFees
	}
	start, end := p.Bounds()
	total := decimal.Zero
	for _, e := range m.commissions {
		if e.UserID == userID && !e.Date.Before(start) && e.Date.Before(end) {
			total = total.Add(e.FeeAmount)
		}
	}
	return total, nil
}

// ========== DiscountStore ==========

func (m *memoryStore) ListForMonth(_ context.Context, userID, category string, p period.YearMonth) ([]discount.Discount, error) {
	if m.failListTaxes != nil {
		return nil, m.failListTaxes
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	start, end := p.Bounds()
	var out []discount.Discount
	for _, d := range m.discounts {
		if d.UserID == userID && d.Category == category && !d.Date.Before(start) && d.Date.Before(end) {
			out = append(out, d)
		}
	}
	sortDiscounts(out)
	return out, nil
}

func (m *memoryStore) SumForMonth(_ context.Context, userID string, p period.YearMonth, exclude []string) (decimal.Decimal, error) {
	if m.failSumOthers != nil {
		return decimal.Zero, m.failSumOthers
	}
	start, end := p.Bounds()
	total := decimal.Zero
	for _, d := range m.discounts {
		if d.UserID != userID || d.Date.Before(start) || !d.Date.Before(end) {
			continue
		}
		if contains(exclude, d.Category) {
			continue
		}
		total = total.Add(d.Amount)
	}
	return total, nil
}

func (m *memoryStore) Create(_ context.Context, d discount.Discount) (discount.Discount, error) {
	if m.failCreateTax != nil {
		return discount.Discount{}, m.failCreateTax
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	d.ID = fmt.Sprintf("d-%03d", m.seq)
	d.CreatedAt = time.Date(2025, 1, 1, 0, 0, m.seq, 0, time.UTC)
	m.discounts = append(m.discounts, d)
	return d, nil
}

func (m *memoryStore) UpdateAmountAndDate(_ context.Context, id string, amount decimal.Decimal, date time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.discounts {
		if m.discounts[i].ID == id {
			m.discounts[i].Amount = amount
			m.discounts[i].Date = date
			return nil
		}
	}
	return discount.ErrDiscountNotFound
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, d := range m.discounts {
		if d.ID == id {
			m.discounts = append(m.discounts[:i], m.discounts[i+1:]...)
			return nil
		}
	}
	return discount.ErrDiscountNotFound
}

func (m *memoryStore) FindDuplicateGroups(_ context.Context, categories []string) ([]discount.DuplicateGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	type key struct {
		userID, category string
		month            period.YearMonth
	}
	rows := make([]discount.Discount, 0, len(m.discounts))
	for _, d := range m.discounts {
		if contains(categories, d.Category) {
			rows = append(rows, d)
		}
	}
	sortDiscounts(rows)

	index := map[key]int{}
	var groups []discount.DuplicateGroup
	for _, d := range rows {
		k := key{d.UserID, d.Category, period.Of(d.Date)}
		i, ok := index[k]
		if !ok {
			index[k] = len(groups)
			groups = append(groups, discount.DuplicateGroup{
				UserID:   d.UserID,
				Category: d.Category,
				Year:     k.month.Year,
				Month:    int(k.month.Month),
			})
			i = len(groups) - 1
		}
		groups[i].IDs = append(groups[i].IDs, d.ID)
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g.IDs) > 1 {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memoryStore) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if err := m.Delete(ctx, id); err == nil {
			n++
		}
	}
	return n, nil
}

func sortDiscounts(rows []discount.Discount) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].ID < rows[j].ID
	})
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
