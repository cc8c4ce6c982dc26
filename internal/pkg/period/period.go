package period

import (
	"errors"
	"fmt"
	"time"
)

const layout = "2006-01"

var ErrInvalidYearMonth = errors.New("month must be in YYYY-MM format")

// YearMonth is a calendar month bucket. Entries are assigned to the month of their own date.
type YearMonth struct {
	Year  int
	Month time.Month
}

// Parse reads a "YYYY-MM" string.
func Parse(s string) (YearMonth, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// Of returns the UTC month t falls in. Stored timestamps are compared against UTC bounds.
func Of(t time.Time) YearMonth {
	u := t.UTC()
	return YearMonth{Year: u.Year(), Month: u.Month()}
}

// FromParts builds a YearMonth from numeric year and month, validating the month.
func FromParts(year, month int) (YearMonth, error) {
	if year < 1 || month < 1 || month > 12 {
		return YearMonth{}, fmt.Errorf("%w: %04d-%02d", ErrInvalidYearMonth, year, month)
	}
	return YearMonth{Year: year, Month: time.Month(month)}, nil
}

// FirstDay returns midnight UTC on the first day of the month.
func (ym YearMonth) FirstDay() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Bounds returns the half-open range [start, end) covering the month.
func (ym YearMonth) Bounds() (start, end time.Time) {
	start = ym.FirstDay()
	return start, start.AddDate(0, 1, 0)
}

func (ym YearMonth) Next() YearMonth {
	return Of(ym.FirstDay().AddDate(0, 1, 0))
}

func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

func (ym *YearMonth) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}
