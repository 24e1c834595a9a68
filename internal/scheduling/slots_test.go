package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalbright/booking-api/internal/model"
)

// 2026-09-01 is a Tuesday.
var testDay = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func workingTuesday(start, end model.Minutes) model.WorkingHours {
	return model.WorkingHours{
		"tuesday": model.DayHours{Start: start, End: end},
	}
}

func TestGenerateDaySlotsSteppedByDuration(t *testing.T) {
	hours := workingTuesday(9*60, 12*60)

	slots := GenerateDaySlots(hours, testDay, 30*time.Minute, nil)

	require.Len(t, slots.Morning, 6)
	assert.Empty(t, slots.Afternoon)
	assert.Empty(t, slots.Evening)

	first := slots.Morning[0]
	assert.Equal(t, testDay.Add(9*time.Hour), first.Start)
	assert.Equal(t, testDay.Add(9*time.Hour+30*time.Minute), first.End)
	for _, s := range slots.Morning {
		assert.True(t, s.Available)
	}
}

func TestGenerateDaySlotsLongerService(t *testing.T) {
	hours := workingTuesday(9*60, 12*60)

	// 90-minute slots in a 3-hour window: 09:00 and 10:30 fit.
	slots := GenerateDaySlots(hours, testDay, 90*time.Minute, nil)
	require.Len(t, slots.Morning, 2)
	assert.Equal(t, testDay.Add(9*time.Hour), slots.Morning[0].Start)
	assert.Equal(t, testDay.Add(10*time.Hour+30*time.Minute), slots.Morning[1].Start)
}

func TestGenerateDaySlotsBucketBoundaries(t *testing.T) {
	hours := workingTuesday(11*60, 19*60)

	slots := GenerateDaySlots(hours, testDay, 30*time.Minute, nil)

	// 11:00 and 11:30 are morning; 12:00 starts the afternoon; 18:00 the
	// evening.
	require.Len(t, slots.Morning, 2)
	assert.Equal(t, testDay.Add(12*time.Hour), slots.Afternoon[0].Start)
	require.NotEmpty(t, slots.Evening)
	assert.Equal(t, testDay.Add(18*time.Hour), slots.Evening[0].Start)
}

func TestGenerateDaySlotsMarksBooked(t *testing.T) {
	hours := workingTuesday(9*60, 11*60)

	booked := []*model.Appointment{
		{
			StartTime: testDay.Add(9*time.Hour + 30*time.Minute),
			EndTime:   testDay.Add(10 * time.Hour),
			Status:    model.AppointmentStatusScheduled,
		},
	}

	slots := GenerateDaySlots(hours, testDay, 30*time.Minute, booked)
	require.Len(t, slots.Morning, 4)
	assert.True(t, slots.Morning[0].Available)
	assert.False(t, slots.Morning[1].Available)
	assert.True(t, slots.Morning[2].Available)
	assert.True(t, slots.Morning[3].Available)
}

func TestGenerateDaySlotsIgnoresCanceled(t *testing.T) {
	hours := workingTuesday(9*60, 10*60)

	booked := []*model.Appointment{
		{
			StartTime: testDay.Add(9 * time.Hour),
			EndTime:   testDay.Add(9*time.Hour + 30*time.Minute),
			Status:    model.AppointmentStatusCanceled,
		},
	}

	slots := GenerateDaySlots(hours, testDay, 30*time.Minute, booked)
	require.Len(t, slots.Morning, 2)
	assert.True(t, slots.Morning[0].Available)
}

func TestGenerateDaySlotsDayOff(t *testing.T) {
	hours := model.WorkingHours{
		"monday": model.DayHours{Start: 9 * 60, End: 17 * 60},
	}

	slots := GenerateDaySlots(hours, testDay, 30*time.Minute, nil)
	assert.Empty(t, slots.Morning)
	assert.Empty(t, slots.Afternoon)
	assert.Empty(t, slots.Evening)
}
