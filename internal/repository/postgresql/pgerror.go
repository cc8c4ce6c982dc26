package postgresql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}

func isUniqueViolation(err error) bool {
	return isPgCode(err, codeUniqueViolation)
}

// isForeignKeyViolation is how a write against a deleted or unknown user surfaces.
func isForeignKeyViolation(err error) bool {
	return isPgCode(err, codeForeignKeyViolation)
}
