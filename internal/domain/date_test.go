package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/carrylink/internal/domain"
)

func TestParseDate(t *testing.T) {
	got, err := domain.ParseDate(" 2025-03-10 ")

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDate_Malformed(t *testing.T) {
	for _, in := range []string{"", "2025-3-10", "10/03/2025", "2025-02-30", "2025-03-10T10:00:00Z"} {
		_, err := domain.ParseDate(in)
		assert.ErrorIs(t, err, domain.ErrParse, "input %q", in)
	}
}

func TestParseOptionalDate(t *testing.T) {
	got, err := domain.ParseOptionalDate("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = domain.ParseOptionalDate("2025-03-10")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2025-03-10", domain.FormatDate(*got))

	_, err = domain.ParseOptionalDate("nope")
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, 2, 27, 23, 30, 0, 0, time.UTC)
	b := time.Date(2025, 3, 2, 0, 15, 0, 0, time.UTC)

	assert.Equal(t, 3, domain.DaysBetween(a, b))
	assert.Equal(t, -3, domain.DaysBetween(b, a))
	assert.Equal(t, 0, domain.DaysBetween(a, a))
}

func TestDateOf_DropsLocation(t *testing.T) {
	paris := time.FixedZone("CET", 3600)
	in := time.Date(2025, 3, 10, 0, 30, 0, 0, paris)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), domain.DateOf(in))
}
