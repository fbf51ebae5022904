package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestExpandMonthlyOverOneYear(t *testing.T) {
	start := date(2024, time.January, 1)
	horizon := date(2024, time.December, 31)

	got := Expand(UnitMonths, 1, start, horizon, 100)

	require.Len(t, got, 11)
	assert.Equal(t, date(2024, time.February, 1), got[0])
	assert.Equal(t, date(2024, time.December, 1), got[10])
	for i, d := range got {
		assert.Equal(t, date(2024, time.Month(i+2), 1), d)
	}
}

func TestExpandStartIsNeverADueDate(t *testing.T) {
	start := date(2024, time.June, 15)
	got := Expand(UnitDays, 7, start, date(2024, time.August, 1), 100)

	require.NotEmpty(t, got)
	for _, d := range got {
		assert.True(t, d.After(start))
	}
	assert.Equal(t, date(2024, time.June, 22), got[0])
}

func TestExpandHorizonIsInclusive(t *testing.T) {
	start := date(2024, time.January, 1)
	horizon := date(2024, time.February, 1)

	got := Expand(UnitMonths, 1, start, horizon, 100)

	require.Len(t, got, 1)
	assert.Equal(t, horizon, got[0])
}

func TestExpandRespectsOccurrenceCap(t *testing.T) {
	start := date(2024, time.January, 1)
	horizon := date(2034, time.January, 1)

	got := Expand(UnitDays, 1, start, horizon, 5)

	require.Len(t, got, 5)
	assert.Equal(t, date(2024, time.January, 6), got[4])
}

func TestExpandMonthEndClamping(t *testing.T) {
	start := date(2024, time.January, 31)
	horizon := date(2024, time.June, 30)

	got := Expand(UnitMonths, 1, start, horizon, 100)

	require.Len(t, got, 5)
	assert.Equal(t, date(2024, time.February, 29), got[0]) // leap year
	assert.Equal(t, date(2024, time.March, 31), got[1])
	assert.Equal(t, date(2024, time.April, 30), got[2])
	assert.Equal(t, date(2024, time.May, 31), got[3])
	assert.Equal(t, date(2024, time.June, 30), got[4])
}

func TestExpandYearlyClampsLeapDay(t *testing.T) {
	start := date(2024, time.February, 29)
	horizon := date(2027, time.January, 1)

	got := Expand(UnitYears, 1, start, horizon, 100)

	require.Len(t, got, 2)
	assert.Equal(t, date(2025, time.February, 28), got[0])
	assert.Equal(t, date(2026, time.February, 28), got[1])
}

func TestExpandWeeklySpacing(t *testing.T) {
	start := date(2024, time.March, 4)
	got := Expand(UnitWeeks, 2, start, date(2024, time.May, 1), 100)

	require.NotEmpty(t, got)
	for i, d := range got {
		assert.Equal(t, start.AddDate(0, 0, 14*(i+1)), d)
	}
}

func TestExpandStrictlyAscending(t *testing.T) {
	units := []Unit{UnitDays, UnitWeeks, UnitMonths, UnitYears}
	start := date(2023, time.July, 31)
	horizon := date(2033, time.July, 31)

	for _, unit := range units {
		got := Expand(unit, 3, start, horizon, 40)
		require.NotEmpty(t, got, "unit %s", unit)
		assert.LessOrEqual(t, len(got), 40)
		for i := 1; i < len(got); i++ {
			assert.True(t, got[i].After(got[i-1]), "unit %s not ascending at %d", unit, i)
		}
		for _, d := range got {
			assert.False(t, d.After(horizon))
		}
	}
}

func TestExpandInvalidRules(t *testing.T) {
	start := date(2024, time.January, 1)
	horizon := date(2025, time.January, 1)

	tests := []struct {
		name  string
		unit  Unit
		value int
		max   int
	}{
		{"zero value", UnitDays, 0, 100},
		{"negative value", UnitMonths, -2, 100},
		{"unknown unit", Unit("fortnights"), 1, 100},
		{"empty unit", Unit(""), 1, 100},
		{"zero cap", UnitDays, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, Expand(tt.unit, tt.value, start, horizon, tt.max))
		})
	}
}

func TestValidRule(t *testing.T) {
	assert.True(t, ValidRule(UnitDays, 1))
	assert.True(t, ValidRule(UnitYears, 10))
	assert.False(t, ValidRule(UnitDays, 0))
	assert.False(t, ValidRule(Unit("hours"), 1))
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{"plain", date(2024, time.March, 15), 1, date(2024, time.April, 15)},
		{"clamp to february", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"clamp non-leap", date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{"across year boundary", date(2024, time.November, 30), 3, date(2025, time.February, 28)},
		{"several years", date(2024, time.May, 10), 25, date(2026, time.June, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.in, tt.n))
		})
	}
}
