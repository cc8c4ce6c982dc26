package validator

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// Single builds a one-field ValidationErrors.
func Single(field, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message}}
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidUUID accepts any RFC 4122 UUID in canonical form.
func IsValidUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

var nonDigitRegex = regexp.MustCompile(`[^0-9]`)

// OnlyDigits strips punctuation such as "12.345.678/0001-90".
func OnlyDigits(s string) string {
	return nonDigitRegex.ReplaceAllString(s, "")
}

// CPF: 11 digits once punctuation is removed.
func IsValidCPF(doc string) bool {
	return len(OnlyDigits(doc)) == 11
}

// CNPJ: 14 digits once punctuation is removed.
func IsValidCNPJ(doc string) bool {
	return len(OnlyDigits(doc)) == 14
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsValidDateTime checks if a string is a valid ISO8601 timestamp.
// Accepts formats like: "2024-01-15T10:30:00Z" or "2024-01-15T10:30:00-03:00"
func IsValidDateTime(dateTimeStr string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, dateTimeStr)
	if err == nil {
		return t, true
	}

	t, err = time.Parse(time.RFC3339Nano, dateTimeStr)
	if err == nil {
		return t, true
	}

	return time.Time{}, false
}

// ParseDateOrDateTime accepts either "YYYY-MM-DD" (midnight UTC) or an RFC3339 timestamp.
func ParseDateOrDateTime(s string) (time.Time, bool) {
	if t, ok := IsValidDate(s); ok {
		return t, true
	}
	return IsValidDateTime(s)
}

// IsWeekend reports whether the calendar date of t, in t's own location, is Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

var (
	zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)
)

// IsValidPercentage checks 0 <= p <= 100.
func IsValidPercentage(p decimal.Decimal) bool {
	return !p.LessThan(zero) && !p.GreaterThan(hundred)
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// Itoa converts an integer to a string.
func Itoa(i int) string {
	return strconv.Itoa(i)
}
