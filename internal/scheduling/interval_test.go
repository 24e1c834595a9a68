package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dentalbright/booking-api/pkg/errors"
)

func mustInterval(t *testing.T, start, end string) Interval {
	t.Helper()
	s, err := time.Parse(DateTimeLayout, start)
	require.NoError(t, err)
	e, err := time.Parse(DateTimeLayout, end)
	require.NoError(t, err)
	iv, err := NewInterval(s, e)
	require.NoError(t, err)
	return iv
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Interval
		overlap bool
	}{
		{
			name:    "identical intervals",
			a:       mustInterval(t, "2026-09-01 09:00", "2026-09-01 09:30"),
			b:       mustInterval(t, "2026-09-01 09:00", "2026-09-01 09:30"),
			overlap: true,
		},
		{
			name:    "partial overlap",
			a:       mustInterval(t, "2026-09-01 09:00", "2026-09-01 10:00"),
			b:       mustInterval(t, "2026-09-01 09:30", "2026-09-01 10:30"),
			overlap: true,
		},
		{
			name:    "contained",
			a:       mustInterval(t, "2026-09-01 09:00", "2026-09-01 11:00"),
			b:       mustInterval(t, "2026-09-01 09:30", "2026-09-01 10:00"),
			overlap: true,
		},
		{
			name:    "adjacent slots do not conflict",
			a:       mustInterval(t, "2026-09-01 09:00", "2026-09-01 09:30"),
			b:       mustInterval(t, "2026-09-01 09:30", "2026-09-01 10:00"),
			overlap: false,
		},
		{
			name:    "disjoint",
			a:       mustInterval(t, "2026-09-01 09:00", "2026-09-01 09:30"),
			b:       mustInterval(t, "2026-09-01 14:00", "2026-09-01 14:30"),
			overlap: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlap, tt.a.Overlaps(tt.b))
			// Overlap is symmetric.
			assert.Equal(t, tt.overlap, tt.b.Overlaps(tt.a))
		})
	}
}

func TestNewIntervalRejectsEmptyAndInverted(t *testing.T) {
	at := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	_, err := NewInterval(at, at)
	assert.True(t, apperrors.IsValidation(err))

	_, err = NewInterval(at, at.Add(-time.Minute))
	assert.True(t, apperrors.IsValidation(err))
}

func TestIntervalAt(t *testing.T) {
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	iv, err := IntervalAt(start, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, start, iv.Start)
	assert.Equal(t, start.Add(30*time.Minute), iv.End)
}

func TestContains(t *testing.T) {
	iv := mustInterval(t, "2026-09-01 09:00", "2026-09-01 09:30")

	assert.True(t, iv.Contains(iv.Start))
	assert.True(t, iv.Contains(iv.Start.Add(15*time.Minute)))
	// Half-open: the end is not inside.
	assert.False(t, iv.Contains(iv.End))
}

func TestParseDateTime(t *testing.T) {
	parsed, err := ParseDateTime("2026-09-01", "14:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC), parsed)

	_, err = ParseDateTime("2026-09-01", "2:30 PM")
	assert.True(t, apperrors.IsValidation(err))

	_, err = ParseDateTime("tomorrow", "14:30")
	assert.True(t, apperrors.IsValidation(err))
}

func TestDayWindow(t *testing.T) {
	at := time.Date(2026, 9, 1, 14, 30, 45, 0, time.UTC)
	window := DayWindow(at)

	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), window.End)
	assert.True(t, window.Contains(at))
}

func TestBeforeToday(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, BeforeToday(now.AddDate(0, 0, -1), now))
	// Earlier the same day is not past: same-day changes stay allowed.
	assert.False(t, BeforeToday(now.Add(-3*time.Hour), now))
	assert.False(t, BeforeToday(now.AddDate(0, 0, 1), now))
}
