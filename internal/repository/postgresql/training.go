package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/training"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const trainingColumns = `t.id, t.title, t.document_type, t.document, t.user_id, t.starts_at, t.ends_at,
	t.status, t.created_at, t.updated_at, u.name`

type trainingRepositoryImpl struct {
	db *database.DB
}

func NewTrainingRepository(db *database.DB) training.TrainingRepository {
	return &trainingRepositoryImpl{db: db}
}

func scanSession(row pgx.Row) (training.Session, error) {
	var s training.Session
	err := row.Scan(
		&s.ID,
		&s.Title,
		&s.DocumentType,
		&s.Document,
		&s.UserID,
		&s.StartsAt,
		&s.EndsAt,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.UserName,
	)
	return s, err
}

// Create implements training.TrainingRepository.
func (r *trainingRepositoryImpl) Create(ctx context.Context, s training.Session) (training.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO trainings (id, title, document_type, document, user_id, starts_at, ends_at, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING *
		)
		SELECT ` + trainingColumns + `
		FROM inserted t
		LEFT JOIN users u ON u.id = t.user_id
	`

	created, err := scanSession(q.QueryRow(ctx, query,
		uuid.NewString(),
		s.Title,
		s.DocumentType,
		s.Document,
		s.UserID,
		s.StartsAt,
		s.EndsAt,
		s.Status,
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return training.Session{}, training.ErrUserNotFound
		}
		return training.Session{}, fmt.Errorf("failed to create training: %w", err)
	}

	return created, nil
}

// GetByID implements training.TrainingRepository.
func (r *trainingRepositoryImpl) GetByID(ctx context.Context, id string) (training.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + trainingColumns + `
		FROM trainings t
		LEFT JOIN users u ON u.id = t.user_id
		WHERE t.id = $1
	`

	found, err := scanSession(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return training.Session{}, training.ErrSessionNotFound
		}
		return training.Session{}, fmt.Errorf("failed to get training: %w", err)
	}

	return found, nil
}

// List implements training.TrainingRepository.
func (r *trainingRepositoryImpl) List(ctx context.Context, filter training.SessionFilter) ([]training.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + trainingColumns + `
		FROM trainings t
		LEFT JOIN users u ON u.id = t.user_id
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != "" {
		query += fmt.Sprintf(" AND t.user_id = $%d", argIdx)
		args = append(args, filter.UserID)
		argIdx++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND t.status = $%d", argIdx)
		args = append(args, filter.Status)
	}

	query += " ORDER BY t.starts_at ASC, t.id ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trainings: %w", err)
	}
	defer rows.Close()

	var sessions []training.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan training: %w", err)
		}
		sessions = append(sessions, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return sessions, nil
}

// Update implements training.TrainingRepository.
func (r *trainingRepositoryImpl) Update(ctx context.Context, s training.Session) (training.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH updated AS (
			UPDATE trainings
			SET title = $1, document_type = $2, document = $3, user_id = $4,
			    starts_at = $5, ends_at = $6, status = $7, updated_at = NOW()
			WHERE id = $8
			RETURNING *
		)
		SELECT ` + trainingColumns + `
		FROM updated t
		LEFT JOIN users u ON u.id = t.user_id
	`

	updated, err := scanSession(q.QueryRow(ctx, query,
		s.Title,
		s.DocumentType,
		s.Document,
		s.UserID,
		s.StartsAt,
		s.EndsAt,
		s.Status,
		s.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return training.Session{}, training.ErrSessionNotFound
		}
		if isForeignKeyViolation(err) {
			return training.Session{}, training.ErrUserNotFound
		}
		return training.Session{}, fmt.Errorf("failed to update training: %w", err)
	}

	return updated, nil
}

// Delete implements training.TrainingRepository.
func (r *trainingRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM trainings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete training: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return training.ErrSessionNotFound
	}

	return nil
}
