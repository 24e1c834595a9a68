package scheduling

import (
	"time"

	"github.com/dentalbright/booking-api/internal/model"
)

// Bucket boundaries for the booking page, in minutes since midnight.
const (
	afternoonStart = 12 * 60
	eveningStart   = 18 * 60
)

// GenerateDaySlots steps the dentist's working window for the given date in
// duration-sized increments and marks slots that intersect a scheduled
// appointment as unavailable. The date's weekday selects the working-hours
// entry; days absent from the map yield no slots.
func GenerateDaySlots(hours model.WorkingHours, date time.Time, duration time.Duration, booked []*model.Appointment) model.DaySlots {
	var slots model.DaySlots

	day := date.UTC().Truncate(24 * time.Hour)
	weekday := dayKey(day)

	dayHours, ok := hours[weekday]
	if !ok {
		return slots
	}

	open := day.Add(time.Duration(dayHours.Start) * time.Minute)
	close := day.Add(time.Duration(dayHours.End) * time.Minute)

	for start := open; !start.Add(duration).After(close); start = start.Add(duration) {
		slot := model.TimeSlot{
			Start:     start,
			End:       start.Add(duration),
			Available: true,
		}

		candidate := Interval{Start: slot.Start, End: slot.End}
		for _, appt := range booked {
			if appt.Status != model.AppointmentStatusScheduled {
				continue
			}
			if candidate.Overlaps(Interval{Start: appt.StartTime, End: appt.EndTime}) {
				slot.Available = false
				break
			}
		}

		minutes := start.Hour()*60 + start.Minute()
		switch {
		case minutes < afternoonStart:
			slots.Morning = append(slots.Morning, slot)
		case minutes < eveningStart:
			slots.Afternoon = append(slots.Afternoon, slot)
		default:
			slots.Evening = append(slots.Evening, slot)
		}
	}

	return slots
}

func dayKey(t time.Time) string {
	switch t.Weekday() {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}
