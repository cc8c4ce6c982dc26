package period

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	ym, err := Parse("2025-03")
	require.NoError(t, err)
	assert.Equal(t, 2025, ym.Year)
	assert.Equal(t, time.March, ym.Month)
	assert.Equal(t, "2025-03", ym.String())

	for _, bad := range []string{"", "2025-13", "2025/03", "03-2025", "2025-3-1"} {
		_, err := Parse(bad)
		assert.True(t, errors.Is(err, ErrInvalidYearMonth), "Parse(%q)", bad)
	}
}

func TestYearMonth_Bounds(t *testing.T) {
	ym := YearMonth{Year: 2024, Month: time.December}
	start, end := ym.Bounds()

	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), end)
	assert.Equal(t, YearMonth{Year: 2025, Month: time.January}, ym.Next())
}

func TestOf_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	assert.Equal(t, "2025-02", Of(time.Date(2025, time.January, 31, 23, 30, 0, 0, loc)).String())
	assert.Equal(t, "2025-01", Of(time.Date(2025, time.January, 31, 20, 0, 0, 0, loc)).String())
}

func TestFromParts(t *testing.T) {
	ym, err := FromParts(2025, 7)
	require.NoError(t, err)
	assert.Equal(t, "2025-07", ym.String())

	_, err = FromParts(2025, 0)
	assert.ErrorIs(t, err, ErrInvalidYearMonth)
}

func TestYearMonth_TextRoundTrip(t *testing.T) {
	var ym YearMonth
	require.NoError(t, ym.UnmarshalText([]byte("2023-11")))
	b, err := ym.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2023-11", string(b))
	assert.Error(t, ym.UnmarshalText([]byte("nope")))
}
