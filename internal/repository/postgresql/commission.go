package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const commissionColumns = `c.id, c.document_type, c.document, c.date, c.user_id, c.has_fee, c.amount,
	c.percentage, c.fee_amount, c.title, c.created_at, c.updated_at, u.name`

type commissionRepositoryImpl struct {
	db *database.DB
}

func NewCommissionRepository(db *database.DB) commission.CommissionRepository {
	return &commissionRepositoryImpl{db: db}
}

func scanEntry(row pgx.Row) (commission.Entry, error) {
	var e commission.Entry
	err := row.Scan(
		&e.ID,
		&e.DocumentType,
		&e.Document,
		&e.Date,
		&e.UserID,
		&e.HasFee,
		&e.Amount,
		&e.Percentage,
		&e.FeeAmount,
		&e.Title,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.UserName,
	)
	return e, err
}

// Create implements commission.CommissionRepository.
func (r *commissionRepositoryImpl) Create(ctx context.Context, e commission.Entry) (commission.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO commission_entries (
				id, document_type, document, date, user_id, has_fee, amount, percentage, fee_amount, title
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING *
		)
		SELECT ` + commissionColumns + `
		FROM inserted c
		LEFT JOIN users u ON u.id = c.user_id
	`

	created, err := scanEntry(q.QueryRow(ctx, query,
		uuid.NewString(),
		e.DocumentType,
		e.Document,
		e.Date.UTC(),
		e.UserID,
		e.HasFee,
		e.Amount,
		e.Percentage,
		e.FeeAmount,
		e.Title,
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return commission.Entry{}, commission.ErrUserNotFound
		}
		return commission.Entry{}, fmt.Errorf("failed to create commission entry: %w", err)
	}

	return created, nil
}

// GetByID implements commission.CommissionRepository.
func (r *commissionRepositoryImpl) GetByID(ctx context.Context, id string) (commission.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + commissionColumns + `
		FROM commission_entries c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`

	found, err := scanEntry(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return commission.Entry{}, commission.ErrEntryNotFound
		}
		return commission.Entry{}, fmt.Errorf("failed to get commission entry: %w", err)
	}

	return found, nil
}

// List implements commission.CommissionRepository.
func (r *commissionRepositoryImpl) List(ctx context.Context, filter commission.EntryFilter) ([]commission.Entry, error) {
	q := GetQuerier(ctx, r.db)

	where, args := commissionFilterClause(filter)
	query := `
		SELECT ` + commissionColumns + `
		FROM commission_entries c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE 1=1` + where + `
		ORDER BY c.date DESC, c.created_at DESC, c.id ASC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list commission entries: %w", err)
	}
	defer rows.Close()

	var entries []commission.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan commission entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}

// Update implements commission.CommissionRepository. The caller passes the fully merged entry.
func (r *commissionRepositoryImpl) Update(ctx context.Context, e commission.Entry) (commission.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH updated AS (
			UPDATE commission_entries
			SET document_type = $1, document = $2, date = $3, user_id = $4, has_fee = $5,
			    amount = $6, percentage = $7, fee_amount = $8, title = $9, updated_at = NOW()
			WHERE id = $10
			RETURNING *
		)
		SELECT ` + commissionColumns + `
		FROM updated c
		LEFT JOIN users u ON u.id = c.user_id
	`

	updated, err := scanEntry(q.QueryRow(ctx, query,
		e.DocumentType,
		e.Document,
		e.Date.UTC(),
		e.UserID,
		e.HasFee,
		e.Amount,
		e.Percentage,
		e.FeeAmount,
		e.Title,
		e.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return commission.Entry{}, commission.ErrEntryNotFound
		}
		if isForeignKeyViolation(err) {
			return commission.Entry{}, commission.ErrUserNotFound
		}
		return commission.Entry{}, fmt.Errorf("failed to update commission entry: %w", err)
	}

	return updated, nil
}

// Delete implements commission.CommissionRepository.
func (r *commissionRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM commission_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete commission entry: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return commission.ErrEntryNotFound
	}

	return nil
}

// SumFeesForMonth totals fee_amount of the entries dated inside the month.
func (r *commissionRepositoryImpl) SumFeesForMonth(ctx context.Context, userID string, p period.YearMonth) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	start, end := p.Bounds()
	query := `
		SELECT COALESCE(SUM(fee_amount), 0)
		FROM commission_entries
		WHERE user_id = $1 AND date >= $2 AND date < $3
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, userID, start, end).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum commission fees: %w", err)
	}
	return total, nil
}

// DailyTotals groups fee amounts by UTC day for the chart view.
func (r *commissionRepositoryImpl) DailyTotals(ctx context.Context, filter commission.EntryFilter) ([]commission.DailyTotal, error) {
	q := GetQuerier(ctx, r.db)

	where, args := commissionFilterClause(filter)
	query := `
		SELECT date_trunc('day', c.date AT TIME ZONE 'UTC') AS day, COALESCE(SUM(c.fee_amount), 0)
		FROM commission_entries c
		WHERE 1=1` + where + `
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily commission totals: %w", err)
	}
	defer rows.Close()

	var totals []commission.DailyTotal
	for rows.Next() {
		var t commission.DailyTotal
		if err := rows.Scan(&t.Date, &t.FeeAmount); err != nil {
			return nil, fmt.Errorf("failed to scan daily total: %w", err)
		}
		totals = append(totals, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return totals, nil
}

func (r *commissionRepositoryImpl) ExistsForDocument(ctx context.Context, document string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM commission_entries WHERE document = $1)`, document).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check commissions for document: %w", err)
	}
	return exists, nil
}

func commissionFilterClause(filter commission.EntryFilter) (string, []interface{}) {
	clause := ""
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != "" {
		clause += fmt.Sprintf(" AND c.user_id = $%d", argIdx)
		args = append(args, filter.UserID)
		argIdx++
	}
	if p := filter.Period(); p != nil {
		start, end := p.Bounds()
		clause += fmt.Sprintf(" AND c.date >= $%d AND c.date < $%d", argIdx, argIdx+1)
		args = append(args, start, end)
	}

	return clause, args
}
