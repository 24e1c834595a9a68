package mcpserver

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalbright/booking-api/internal/model"
	bookingsvc "github.com/dentalbright/booking-api/internal/service/booking"
	dentistsvc "github.com/dentalbright/booking-api/internal/service/dentist"
	patientsvc "github.com/dentalbright/booking-api/internal/service/patient"
	apperrors "github.com/dentalbright/booking-api/pkg/errors"
)

type fakeAppointments struct {
	byID map[uuid.UUID]*model.Appointment
}

func (r *fakeAppointments) Create(_ context.Context, a *model.Appointment) error {
	clone := *a
	r.byID[a.ID] = &clone
	return nil
}

func (r *fakeAppointments) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound("appointment not found")
	}
	clone := *a
	return &clone, nil
}

func (r *fakeAppointments) Update(_ context.Context, a *model.Appointment) error {
	clone := *a
	r.byID[a.ID] = &clone
	return nil
}

func (r *fakeAppointments) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}

func (r *fakeAppointments) FindConflicting(_ context.Context, dentistID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range r.byID {
		if a.DentistID != dentistID || a.Status != model.AppointmentStatusScheduled {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if a.EndTime.After(start) && a.StartTime.Before(end) {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeAppointments) ListDay(ctx context.Context, dentistID uuid.UUID, dayStart, dayEnd time.Time) ([]*model.Appointment, error) {
	return r.FindConflicting(ctx, dentistID, dayStart, dayEnd, nil)
}

func (r *fakeAppointments) CreateIfSlotFree(ctx context.Context, a *model.Appointment) (bool, error) {
	conflicts, _ := r.FindConflicting(ctx, a.DentistID, a.StartTime, a.EndTime, nil)
	if len(conflicts) > 0 {
		return false, nil
	}
	return true, r.Create(ctx, a)
}

func (r *fakeAppointments) UpdateTimesIfSlotFree(ctx context.Context, id uuid.UUID, start, end time.Time) (bool, error) {
	a, ok := r.byID[id]
	if !ok {
		return false, apperrors.NotFound("appointment not found")
	}
	conflicts, _ := r.FindConflicting(ctx, a.DentistID, start, end, &id)
	if len(conflicts) > 0 {
		return false, nil
	}
	a.StartTime = start
	a.EndTime = end
	return true, nil
}

type fakeDentists struct {
	dentists []*model.Dentist
}

func (r *fakeDentists) Get(_ context.Context, id uuid.UUID) (*model.Dentist, error) {
	for _, d := range r.dentists {
		if d.ID == id {
			clone := *d
			return &clone, nil
		}
	}
	return nil, apperrors.NotFound("dentist not found")
}

func (r *fakeDentists) GetByEmail(_ context.Context, email string) (*model.Dentist, error) {
	return nil, apperrors.NotFound("dentist not found")
}

func (r *fakeDentists) List(_ context.Context) ([]*model.Dentist, error) {
	out := make([]*model.Dentist, 0, len(r.dentists))
	for _, d := range r.dentists {
		clone := *d
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeDentists) Search(_ context.Context, name string) ([]*model.Dentist, error) {
	var out []*model.Dentist
	for _, d := range r.dentists {
		if strings.Contains(strings.ToLower(d.Name), strings.ToLower(name)) {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

type fakePatients struct {
	patients []*model.Patient
}

func (r *fakePatients) Create(_ context.Context, p *model.Patient) error {
	clone := *p
	r.patients = append(r.patients, &clone)
	return nil
}

func (r *fakePatients) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	for _, p := range r.patients {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, apperrors.NotFound("patient not found")
}

func (r *fakePatients) FindByNameAndPhone(_ context.Context, fullName, phone string) (*model.Patient, error) {
	for _, p := range r.patients {
		if p.FullName == fullName && p.Phone == phone {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

// futureTuesday returns a Tuesday roughly a year out, so past-date
// validation in the booking flow never trips.
func futureTuesday() time.Time {
	day := time.Now().UTC().AddDate(1, 0, 0).Truncate(24 * time.Hour)
	for day.Weekday() != time.Tuesday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

func newTestToolset() (*Toolset, *fakeAppointments) {
	appointments := &fakeAppointments{byID: make(map[uuid.UUID]*model.Appointment)}
	dentists := &fakeDentists{dentists: []*model.Dentist{
		{
			Base:           model.Base{ID: uuid.New()},
			Name:           "Dr. Sarah Smith",
			Specialization: "Orthodontics",
			PriceRange:     "$$",
			WorkingHoursJSON: `{
				"tuesday": {"start": "09:00", "end": "17:00"}
			}`,
		},
		{
			Base:           model.Base{ID: uuid.New()},
			Name:           "Dr. James Lee",
			Specialization: "Endodontics",
			WorkingHoursJSON: `{
				"tuesday": {"start": "10:00", "end": "18:00"}
			}`,
		},
	}}

	dentistService := dentistsvc.NewService(dentists)
	bookingService := bookingsvc.NewService(appointments, nil, patientsvc.NewService(&fakePatients{}), dentistService)

	toolset := NewToolset(bookingService, dentistService)
	toolset.now = func() time.Time {
		return time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)
	}
	return toolset, appointments
}

func TestCreateAppointmentTool(t *testing.T) {
	toolset, appointments := newTestToolset()

	text, isErr := toolset.CreateAppointment(context.Background(),
		"Smith", "John Doe", "+15551234567", futureTuesday().Format("2006-01-02"), "09:00", "", "first visit")

	assert.False(t, isErr)
	assert.Contains(t, text, "scheduled")
	require.Len(t, appointments.byID, 1)

	for _, a := range appointments.byID {
		assert.True(t, a.BookedByCall)
		assert.Equal(t, model.ServiceTypeCheckup, a.ServiceType)
		assert.Equal(t, 30*time.Minute, a.EndTime.Sub(a.StartTime))
	}
}

func TestCreateAppointmentToolConflict(t *testing.T) {
	toolset, _ := newTestToolset()

	_, isErr := toolset.CreateAppointment(context.Background(),
		"Smith", "John Doe", "+15551234567", futureTuesday().Format("2006-01-02"), "09:00", "", "")
	require.False(t, isErr)

	text, isErr := toolset.CreateAppointment(context.Background(),
		"Smith", "Jane Roe", "+15559876543", futureTuesday().Format("2006-01-02"), "09:15", "", "")
	assert.True(t, isErr)
	assert.Contains(t, text, "another appointment already exists between 09:15 and 09:45")
}

func TestCreateAppointmentToolUnknownDentist(t *testing.T) {
	toolset, _ := newTestToolset()

	text, isErr := toolset.CreateAppointment(context.Background(),
		"Garcia", "John Doe", "+15551234567", futureTuesday().Format("2006-01-02"), "09:00", "", "")
	assert.True(t, isErr)
	assert.Contains(t, text, "no dentist found with the name Garcia")
}

func TestCreateAppointmentToolBadDate(t *testing.T) {
	toolset, _ := newTestToolset()

	_, isErr := toolset.CreateAppointment(context.Background(),
		"Smith", "John Doe", "+15551234567", "next tuesday", "09:00", "", "")
	assert.True(t, isErr)
}

func TestRescheduleAppointmentTool(t *testing.T) {
	toolset, appointments := newTestToolset()

	_, isErr := toolset.CreateAppointment(context.Background(),
		"Smith", "John Doe", "+15551234567", futureTuesday().Format("2006-01-02"), "09:00", "", "")
	require.False(t, isErr)

	text, isErr := toolset.RescheduleAppointment(context.Background(),
		"Smith", "John Doe", "+15551234567", futureTuesday().Format("2006-01-02"), "09:00", futureTuesday().Format("2006-01-02"), "11:00")
	assert.False(t, isErr)
	assert.Contains(t, text, "11:00")

	for _, a := range appointments.byID {
		assert.Equal(t, 11, a.StartTime.Hour())
	}
}

func TestCancelAppointmentTool(t *testing.T) {
	toolset, appointments := newTestToolset()

	_, isErr := toolset.CreateAppointment(context.Background(),
		"Smith", "John Doe", "+15551234567", futureTuesday().Format("2006-01-02"), "09:00", "", "")
	require.False(t, isErr)

	_, isErr = toolset.CancelAppointment(context.Background(),
		"Smith", "John Doe", "+15551234567", futureTuesday().Format("2006-01-02"), "09:00")
	assert.False(t, isErr)

	for _, a := range appointments.byID {
		assert.Equal(t, model.AppointmentStatusCanceled, a.Status)
	}
}

func TestGetDentistListTool(t *testing.T) {
	toolset, _ := newTestToolset()

	text, isErr := toolset.GetDentistList(context.Background())
	assert.False(t, isErr)
	assert.Contains(t, text, "Dr. Sarah Smith")
	assert.Contains(t, text, "Dr. James Lee")
	assert.Contains(t, text, "Orthodontics")
}

func TestGetDentistDetailsTool(t *testing.T) {
	toolset, _ := newTestToolset()

	text, isErr := toolset.GetDentistDetails(context.Background(), "Lee")
	assert.False(t, isErr)
	assert.Contains(t, text, "Dr. James Lee")
	assert.Contains(t, text, "working_hours")
}

func TestCheckDentistAvailabilityTool(t *testing.T) {
	toolset, _ := newTestToolset()

	_, isErr := toolset.CreateAppointment(context.Background(),
		"Smith", "John Doe", "+15551234567", futureTuesday().Format("2006-01-02"), "09:00", "", "")
	require.False(t, isErr)

	text, isErr := toolset.CheckDentistAvailability(context.Background(), "Smith", futureTuesday().Format("2006-01-02"), "")
	assert.False(t, isErr)
	assert.Contains(t, text, "Morning:")
	// The booked 09:00 slot is gone; the next one is offered.
	assert.NotContains(t, text, "Morning: 09:00")
	assert.Contains(t, text, "09:30")
}

func TestCheckDentistAvailabilityDayOff(t *testing.T) {
	toolset, _ := newTestToolset()

	// The day after the test Tuesday is a Wednesday; the fixture dentists
	// only work Tuesdays.
	text, isErr := toolset.CheckDentistAvailability(context.Background(), "Smith", futureTuesday().AddDate(0, 0, 1).Format("2006-01-02"), "")
	assert.False(t, isErr)
	assert.Contains(t, text, "does not work on this day")
}

func TestCurrentDateAndTimeTools(t *testing.T) {
	toolset, _ := newTestToolset()

	date, isErr := toolset.GetCurrentDate()
	assert.False(t, isErr)
	assert.Equal(t, "2026-08-31", date)

	clock, isErr := toolset.GetCurrentTime()
	assert.False(t, isErr)
	assert.Equal(t, "10:30:00", clock)
}
