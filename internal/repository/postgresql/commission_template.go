package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/commissiontemplate"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const templateColumns = `id, title, amount, percentage, has_fee, created_at, updated_at`

type templateRepositoryImpl struct {
	db *database.DB
}

func NewCommissionTemplateRepository(db *database.DB) commissiontemplate.TemplateRepository {
	return &templateRepositoryImpl{db: db}
}

func scanTemplate(row pgx.Row) (commissiontemplate.Template, error) {
	var t commissiontemplate.Template
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Amount,
		&t.Percentage,
		&t.HasFee,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func (r *templateRepositoryImpl) Create(ctx context.Context, t commissiontemplate.Template) (commissiontemplate.Template, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO commission_templates (id, title, amount, percentage, has_fee)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + templateColumns

	created, err := scanTemplate(q.QueryRow(ctx, query, uuid.NewString(), t.Title, t.Amount, t.Percentage, t.HasFee))
	if err != nil {
		return commissiontemplate.Template{}, fmt.Errorf("failed to create commission template: %w", err)
	}
	return created, nil
}

func (r *templateRepositoryImpl) GetByID(ctx context.Context, id string) (commissiontemplate.Template, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanTemplate(q.QueryRow(ctx, `SELECT `+templateColumns+` FROM commission_templates WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return commissiontemplate.Template{}, commissiontemplate.ErrTemplateNotFound
		}
		return commissiontemplate.Template{}, fmt.Errorf("failed to get commission template: %w", err)
	}
	return found, nil
}

func (r *templateRepositoryImpl) List(ctx context.Context) ([]commissiontemplate.Template, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+templateColumns+` FROM commission_templates ORDER BY title ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list commission templates: %w", err)
	}
	defer rows.Close()

	var templates []commissiontemplate.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan commission template: %w", err)
		}
		templates = append(templates, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return templates, nil
}

func (r *templateRepositoryImpl) Update(ctx context.Context, t commissiontemplate.Template) (commissiontemplate.Template, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE commission_templates
		SET title = $1, amount = $2, percentage = $3, has_fee = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING ` + templateColumns

	updated, err := scanTemplate(q.QueryRow(ctx, query, t.Title, t.Amount, t.Percentage, t.HasFee, t.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return commissiontemplate.Template{}, commissiontemplate.ErrTemplateNotFound
		}
		return commissiontemplate.Template{}, fmt.Errorf("failed to update commission template: %w", err)
	}
	return updated, nil
}

func (r *templateRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM commission_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete commission template: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return commissiontemplate.ErrTemplateNotFound
	}
	return nil
}
