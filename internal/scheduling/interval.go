package scheduling

import (
	"time"

	apperrors "github.com/dentalbright/booking-api/pkg/errors"
)

// DateTimeLayout is the wire format for appointment date+time inputs,
// interpreted in UTC.
const DateTimeLayout = "2006-01-02 15:04"

// DateLayout is the wire format for date-only inputs.
const DateLayout = "2006-01-02"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds a validated interval. End must be strictly after Start;
// zero-length and inverted ranges are rejected.
func NewInterval(start, end time.Time) (Interval, error) {
	if !end.After(start) {
		return Interval{}, apperrors.Validation("interval end %s must be after start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return Interval{Start: start, End: end}, nil
}

// IntervalAt builds the interval [start, start+duration).
func IntervalAt(start time.Time, duration time.Duration) (Interval, error) {
	return NewInterval(start, start.Add(duration))
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints do not overlap: [09:00,09:30) and [09:30,10:00) are adjacent,
// not conflicting.
func (i Interval) Overlaps(other Interval) bool {
	return i.End.After(other.Start) && i.Start.Before(other.End)
}

// Contains reports whether t falls inside the interval.
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// ParseDateTime parses "YYYY-MM-DD HH:MM" in UTC.
func ParseDateTime(date, clock string) (time.Time, error) {
	t, err := time.Parse(DateTimeLayout, date+" "+clock)
	if err != nil {
		return time.Time{}, apperrors.Validation("invalid date/time %q %q", date, clock)
	}
	return t, nil
}

// ParseDate parses "YYYY-MM-DD" in UTC.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, apperrors.Validation("invalid date %q", date)
	}
	return t, nil
}

// DayWindow returns the UTC calendar-day interval containing t.
func DayWindow(t time.Time) Interval {
	day := t.UTC().Truncate(24 * time.Hour)
	return Interval{Start: day, End: day.Add(24 * time.Hour)}
}

// BeforeToday compares date-only in UTC, so a time earlier today is not
// considered past. Same-day reschedules and cancellations stay allowed.
func BeforeToday(t time.Time, now time.Time) bool {
	return DayWindow(t).End.Sub(DayWindow(now).End) < 0
}
