package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/commission-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// monthFromQuery accepts either month=YYYY-MM or year=YYYY&month=M and returns "YYYY-MM",
// or "" when neither is given.
func monthFromQuery(r *http.Request) (string, error) {
	q := r.URL.Query()
	month := strings.TrimSpace(q.Get("month"))
	year := strings.TrimSpace(q.Get("year"))

	if year == "" {
		return month, nil
	}

	y, err := strconv.Atoi(year)
	if err != nil {
		return "", validator.Single("year", "year must be a number")
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return "", validator.Single("month", "month must be a number between 1 and 12 when year is given")
	}
	p, err := period.FromParts(y, m)
	if err != nil {
		return "", validator.Single("month", err.Error())
	}
	return p.String(), nil
}

// decimalQuery parses an optional decimal query parameter.
func decimalQuery(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, validator.Single(key, key+" must be a decimal number")
	}
	return &d, nil
}

// uuidParam reads a path parameter that must be a UUID. It writes a 422 and
// returns false otherwise, so malformed ids never reach the database.
func uuidParam(w http.ResponseWriter, r *http.Request, key, field string) (string, bool) {
	id := chi.URLParam(r, key)
	if !validator.IsValidUUID(id) {
		response.HandleError(w, validator.Single(field, field+" must be a valid UUID"))
		return "", false
	}
	return id, true
}
