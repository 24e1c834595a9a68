package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Dentist is read-only from the booking core's perspective; profiles and
// working hours are managed through the dashboard.
type Dentist struct {
	Base
	Name           string       `db:"name" json:"name"`
	Email          string       `db:"email" json:"email"`
	PasswordHash   string       `db:"password_hash" json:"-"`
	Specialization string       `db:"specialization" json:"specialization"`
	PriceRange     string       `db:"price_range" json:"price_range"`
	WorkingHours   WorkingHours `db:"-" json:"working_hours"`

	// Raw JSON column backing WorkingHours.
	WorkingHoursJSON string `db:"working_hours" json:"-"`
}

// WorkingHours maps lowercase weekday names to that day's opening window.
// Days absent from the map are non-working days.
type WorkingHours map[string]DayHours

// DayHours holds a day's opening window as minutes since midnight. All
// external time representations are normalized into this form at ingestion.
type DayHours struct {
	Start Minutes `json:"start"`
	End   Minutes `json:"end"`
}

// Minutes is a clock time expressed as minutes since midnight.
type Minutes int

func (m Minutes) String() string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func (m Minutes) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Minutes) UnmarshalText(text []byte) error {
	v, err := ParseClock(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseClock parses a clock time in either 24-hour "HH:MM" or 12-hour
// "H:MM AM"/"H:MM PM" form into minutes since midnight. Both forms occur in
// stored working-hours data.
func ParseClock(s string) (Minutes, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty clock value")
	}

	var suffix string
	if n := len(s); n > 2 {
		switch strings.ToUpper(s[n-2:]) {
		case "AM", "PM":
			suffix = strings.ToUpper(s[n-2:])
			s = strings.TrimSpace(s[:n-2])
		}
	}

	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("minute out of range in %q", s)
	}

	switch suffix {
	case "AM":
		if hours < 1 || hours > 12 {
			return 0, fmt.Errorf("hour out of range in %q", s)
		}
		if hours == 12 {
			hours = 0
		}
	case "PM":
		if hours < 1 || hours > 12 {
			return 0, fmt.Errorf("hour out of range in %q", s)
		}
		if hours != 12 {
			hours += 12
		}
	default:
		if hours < 0 || hours > 23 {
			return 0, fmt.Errorf("hour out of range in %q", s)
		}
	}

	return Minutes(hours*60 + minutes), nil
}
