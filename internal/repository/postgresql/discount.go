package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/discount"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const discountColumns = `d.id, d.user_id, d.category, d.amount, d.date, d.created_at, d.updated_at, u.name`

type discountRepositoryImpl struct {
	db *database.DB
}

func NewDiscountRepository(db *database.DB) discount.DiscountRepository {
	return &discountRepositoryImpl{db: db}
}

func scanDiscount(row pgx.Row) (discount.Discount, error) {
	var d discount.Discount
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Category,
		&d.Amount,
		&d.Date,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.UserName,
	)
	return d, err
}

// Create implements discount.DiscountRepository.
func (r *discountRepositoryImpl) Create(ctx context.Context, d discount.Discount) (discount.Discount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO discounts (id, user_id, category, amount, date)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING *
		)
		SELECT ` + discountColumns + `
		FROM inserted d
		LEFT JOIN users u ON u.id = d.user_id
	`

	created, err := scanDiscount(q.QueryRow(ctx, query, uuid.NewString(), d.UserID, strings.TrimSpace(d.Category), d.Amount, d.Date.UTC()))
	if err != nil {
		if isForeignKeyViolation(err) {
			return discount.Discount{}, discount.ErrUserNotFound
		}
		return discount.Discount{}, fmt.Errorf("failed to create discount: %w", err)
	}

	return created, nil
}

// GetByID implements discount.DiscountRepository.
func (r *discountRepositoryImpl) GetByID(ctx context.Context, id string) (discount.Discount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + discountColumns + `
		FROM discounts d
		LEFT JOIN users u ON u.id = d.user_id
		WHERE d.id = $1
	`

	found, err := scanDiscount(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return discount.Discount{}, discount.ErrDiscountNotFound
		}
		return discount.Discount{}, fmt.Errorf("failed to get discount: %w", err)
	}

	return found, nil
}

// List implements discount.DiscountRepository.
func (r *discountRepositoryImpl) List(ctx context.Context, filter discount.DiscountFilter) ([]discount.Discount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + discountColumns + `
		FROM discounts d
		LEFT JOIN users u ON u.id = d.user_id
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != "" {
		query += fmt.Sprintf(" AND d.user_id = $%d", argIdx)
		args = append(args, filter.UserID)
		argIdx++
	}
	if p := filter.Period(); p != nil {
		start, end := p.Bounds()
		query += fmt.Sprintf(" AND d.date >= $%d AND d.date < $%d", argIdx, argIdx+1)
		args = append(args, start, end)
		argIdx += 2
	}
	if filter.Category != "" {
		query += fmt.Sprintf(" AND UPPER(TRIM(d.category)) = UPPER(TRIM($%d))", argIdx)
		args = append(args, filter.Category)
		argIdx++
	}

	query += " ORDER BY d.date DESC, d.created_at DESC, d.id ASC"

	return r.queryDiscounts(ctx, q, query, args...)
}

// Update implements discount.DiscountRepository.
func (r *discountRepositoryImpl) Update(ctx context.Context, req discount.UpdateDiscountRequest, date *time.Time) (discount.Discount, error) {
	q := GetQuerier(ctx, r.db)

	// Build dynamic update query
	set := `updated_at = NOW()`
	args := []interface{}{}
	argIdx := 1

	if req.UserID != nil {
		set += fmt.Sprintf(", user_id = $%d", argIdx)
		args = append(args, *req.UserID)
		argIdx++
	}
	if req.Category != nil {
		set += fmt.Sprintf(", category = $%d", argIdx)
		args = append(args, strings.TrimSpace(*req.Category))
		argIdx++
	}
	if req.Amount != nil {
		set += fmt.Sprintf(", amount = $%d", argIdx)
		args = append(args, *req.Amount)
		argIdx++
	}
	if date != nil {
		set += fmt.Sprintf(", date = $%d", argIdx)
		args = append(args, date.UTC())
		argIdx++
	}

	query := fmt.Sprintf(`
		WITH updated AS (
			UPDATE discounts SET %s
			WHERE id = $%d
			RETURNING *
		)
		SELECT %s
		FROM updated d
		LEFT JOIN users u ON u.id = d.user_id
	`, set, argIdx, discountColumns)
	args = append(args, req.ID)

	updated, err := scanDiscount(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return discount.Discount{}, discount.ErrDiscountNotFound
		}
		if isForeignKeyViolation(err) {
			return discount.Discount{}, discount.ErrUserNotFound
		}
		return discount.Discount{}, fmt.Errorf("failed to update discount: %w", err)
	}

	return updated, nil
}

// Delete implements discount.DiscountRepository.
func (r *discountRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM discounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete discount: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return discount.ErrDiscountNotFound
	}

	return nil
}

// ========== SALARY CALCULATION ==========

// ListForMonth returns the month's rows of one category, oldest first.
func (r *discountRepositoryImpl) ListForMonth(ctx context.Context, userID string, category string, p period.YearMonth) ([]discount.Discount, error) {
	q := GetQuerier(ctx, r.db)

	start, end := p.Bounds()
	query := `
		SELECT ` + discountColumns + `
		FROM discounts d
		LEFT JOIN users u ON u.id = d.user_id
		WHERE d.user_id = $1
		  AND UPPER(TRIM(d.category)) = UPPER($2)
		  AND d.date >= $3 AND d.date < $4
		ORDER BY d.date ASC, d.created_at ASC, d.id ASC
	`

	return r.queryDiscounts(ctx, q, query, userID, category, start, end)
}

func (r *discountRepositoryImpl) SumForMonth(ctx context.Context, userID string, p period.YearMonth, excludeCategories []string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	if excludeCategories == nil {
		excludeCategories = []string{}
	}

	start, end := p.Bounds()
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM discounts
		WHERE user_id = $1
		  AND date >= $2 AND date < $3
		  AND NOT (UPPER(TRIM(category)) = ANY($4))
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, userID, start, end, excludeCategories).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum discounts: %w", err)
	}
	return total, nil
}

func (r *discountRepositoryImpl) UpdateAmountAndDate(ctx context.Context, id string, amount decimal.Decimal, date time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE discounts SET amount = $1, date = $2, updated_at = NOW() WHERE id = $3`

	commandTag, err := q.Exec(ctx, query, amount, date.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update discount amount: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return discount.ErrDiscountNotFound
	}
	return nil
}

// ========== MAINTENANCE ==========

// FindDuplicateGroups lists every (user, category, month) holding more than one row.
// IDs within a group use the same order as ListForMonth.
func (r *discountRepositoryImpl) FindDuplicateGroups(ctx context.Context, categories []string) ([]discount.DuplicateGroup, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id::text,
		       UPPER(TRIM(category)) AS category,
		       EXTRACT(YEAR FROM date AT TIME ZONE 'UTC')::int AS year,
		       EXTRACT(MONTH FROM date AT TIME ZONE 'UTC')::int AS month,
		       array_agg(id::text ORDER BY date ASC, created_at ASC, id ASC) AS ids
		FROM discounts
		WHERE UPPER(TRIM(category)) = ANY($1)
		GROUP BY 1, 2, 3, 4
		HAVING COUNT(*) > 1
		ORDER BY 1, 2, 3, 4
	`

	rows, err := q.Query(ctx, query, categories)
	if err != nil {
		return nil, fmt.Errorf("failed to find duplicate discounts: %w", err)
	}
	defer rows.Close()

	var groups []discount.DuplicateGroup
	for rows.Next() {
		var g discount.DuplicateGroup
		if err := rows.Scan(&g.UserID, &g.Category, &g.Year, &g.Month, &g.IDs); err != nil {
			return nil, fmt.Errorf("failed to scan duplicate group: %w", err)
		}
		groups = append(groups, g)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return groups, nil
}

func (r *discountRepositoryImpl) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM discounts WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete discounts: %w", err)
	}
	return commandTag.RowsAffected(), nil
}

func (r *discountRepositoryImpl) queryDiscounts(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]discount.Discount, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list discounts: %w", err)
	}
	defer rows.Close()

	var discounts []discount.Discount
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan discount: %w", err)
		}
		discounts = append(discounts, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return discounts, nil
}
