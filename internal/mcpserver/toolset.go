package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dentalbright/booking-api/internal/model"
	"github.com/dentalbright/booking-api/internal/scheduling"
	"github.com/dentalbright/booking-api/internal/service/booking"
	"github.com/dentalbright/booking-api/internal/service/dentist"
)

// Toolset implements the conversational tool operations over the booking
// core. Every method returns the text to speak back to the agent plus an
// error flag; domain errors become error-flagged text, never Go errors, so
// the agent can relay them to the caller.
type Toolset struct {
	bookings *booking.Service
	dentists *dentist.Service
	now      func() time.Time
}

func NewToolset(bookings *booking.Service, dentists *dentist.Service) *Toolset {
	return &Toolset{
		bookings: bookings,
		dentists: dentists,
		now:      time.Now,
	}
}

// CreateAppointment books a slot described by dentist name, patient natural
// key and date+time. The service type defaults to a standard checkup when
// the caller does not name one.
func (t *Toolset) CreateAppointment(ctx context.Context, dentistName, patientName, patientPhone, date, clock, serviceType, notes string) (string, bool) {
	d, err := t.dentists.Resolve(ctx, dentistName)
	if err != nil {
		return errText(err)
	}

	start, err := scheduling.ParseDateTime(date, clock)
	if err != nil {
		return errText(err)
	}

	appointment, err := t.bookings.Book(ctx, booking.BookingParams{
		DentistID:    d.ID,
		PatientName:  patientName,
		PatientPhone: patientPhone,
		Start:        start,
		ServiceType:  model.ServiceType(serviceType),
		Notes:        notes,
		BookedByCall: true,
	})
	if err != nil {
		return errText(err)
	}

	return jsonText(appointment)
}

// RescheduleAppointment moves an existing appointment, located by dentist,
// patient and the old date+time, to a new date+time.
func (t *Toolset) RescheduleAppointment(ctx context.Context, dentistName, patientName, patientPhone, oldDate, oldClock, newDate, newClock string) (string, bool) {
	oldStart, err := scheduling.ParseDateTime(oldDate, oldClock)
	if err != nil {
		return errText(err)
	}
	newStart, err := scheduling.ParseDateTime(newDate, newClock)
	if err != nil {
		return errText(err)
	}

	appointment, err := t.bookings.RescheduleByLookup(ctx, dentistName, patientName, patientPhone, oldStart, newStart)
	if err != nil {
		return errText(err)
	}

	return jsonText(appointment)
}

// CancelAppointment cancels the appointment located by dentist, patient and
// date+time.
func (t *Toolset) CancelAppointment(ctx context.Context, dentistName, patientName, patientPhone, date, clock string) (string, bool) {
	start, err := scheduling.ParseDateTime(date, clock)
	if err != nil {
		return errText(err)
	}

	appointment, err := t.bookings.CancelByLookup(ctx, dentistName, patientName, patientPhone, start)
	if err != nil {
		return errText(err)
	}

	return jsonText(appointment)
}

// GetDentistList returns the directory of dentists with their specialties.
func (t *Toolset) GetDentistList(ctx context.Context) (string, bool) {
	dentists, err := t.dentists.List(ctx)
	if err != nil {
		return errText(err)
	}

	summaries := make([]dentistSummary, 0, len(dentists))
	for _, d := range dentists {
		summaries = append(summaries, dentistSummary{
			Name:           d.Name,
			Specialization: d.Specialization,
			PriceRange:     d.PriceRange,
		})
	}
	return jsonText(summaries)
}

// GetDentistDetails returns a single dentist's profile including working
// hours, located by name.
func (t *Toolset) GetDentistDetails(ctx context.Context, dentistName string) (string, bool) {
	d, err := t.dentists.Resolve(ctx, dentistName)
	if err != nil {
		return errText(err)
	}

	return jsonText(dentistDetails{
		Name:           d.Name,
		Specialization: d.Specialization,
		PriceRange:     d.PriceRange,
		WorkingHours:   d.WorkingHours,
	})
}

// CheckDentistAvailability lists the free slots of a dentist on a date,
// bucketed into morning, afternoon and evening.
func (t *Toolset) CheckDentistAvailability(ctx context.Context, dentistName, date, serviceType string) (string, bool) {
	d, err := t.dentists.Resolve(ctx, dentistName)
	if err != nil {
		return errText(err)
	}

	day, err := scheduling.ParseDate(date)
	if err != nil {
		return errText(err)
	}

	slots, err := t.bookings.Availability(ctx, d.ID, day, model.ServiceType(serviceType))
	if err != nil {
		return errText(err)
	}

	return formatDaySlots(d.Name, date, slots), false
}

// GetCurrentDate reports today's date so the agent can anchor relative
// expressions like "tomorrow".
func (t *Toolset) GetCurrentDate() (string, bool) {
	return t.now().UTC().Format(scheduling.DateLayout), false
}

// GetCurrentTime reports the current wall-clock time.
func (t *Toolset) GetCurrentTime() (string, bool) {
	return t.now().UTC().Format("15:04:05"), false
}

type dentistSummary struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	PriceRange     string `json:"price_range,omitempty"`
}

type dentistDetails struct {
	Name           string             `json:"name"`
	Specialization string             `json:"specialization"`
	PriceRange     string             `json:"price_range,omitempty"`
	WorkingHours   model.WorkingHours `json:"working_hours"`
}

func errText(err error) (string, bool) {
	return err.Error(), true
}

func jsonText(v interface{}) (string, bool) {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("failed to encode result: %v", err), true
	}
	return string(encoded), false
}

func formatDaySlots(dentistName, date string, slots model.DaySlots) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Availability for %s on %s:\n", dentistName, date)
	writeBucket(&b, "Morning", slots.Morning)
	writeBucket(&b, "Afternoon", slots.Afternoon)
	writeBucket(&b, "Evening", slots.Evening)
	if len(slots.Morning)+len(slots.Afternoon)+len(slots.Evening) == 0 {
		b.WriteString("The dentist does not work on this day.\n")
	}
	return b.String()
}

func writeBucket(b *strings.Builder, label string, slots []model.TimeSlot) {
	free := make([]string, 0, len(slots))
	for _, s := range slots {
		if s.Available {
			free = append(free, s.Start.Format("15:04"))
		}
	}
	if len(free) == 0 {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(free, ", "))
}
