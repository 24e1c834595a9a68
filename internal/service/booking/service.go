package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dentalbright/booking-api/internal/model"
	"github.com/dentalbright/booking-api/internal/repository"
	"github.com/dentalbright/booking-api/internal/scheduling"
	dentistsvc "github.com/dentalbright/booking-api/internal/service/dentist"
	patientsvc "github.com/dentalbright/booking-api/internal/service/patient"
	apperrors "github.com/dentalbright/booking-api/pkg/errors"
)

// Service owns every appointment mutation. The web booking flow, the
// dashboard, and the agent tool layer all route through it, so the
// fetch-check-mutate sequence exists exactly once.
type Service struct {
	appointments repository.AppointmentRepository
	outbox       repository.OutboxRepository
	patients     *patientsvc.Service
	dentists     *dentistsvc.Service
	checker      *scheduling.Checker
	now          func() time.Time
}

func NewService(
	appointments repository.AppointmentRepository,
	outbox repository.OutboxRepository,
	patients *patientsvc.Service,
	dentists *dentistsvc.Service,
) *Service {
	return &Service{
		appointments: appointments,
		outbox:       outbox,
		patients:     patients,
		dentists:     dentists,
		checker:      scheduling.NewChecker(appointments),
		now:          time.Now,
	}
}

// BookingParams carries everything needed to reserve a slot. Callers parse
// wire formats before building it.
type BookingParams struct {
	DentistID    uuid.UUID
	PatientName  string
	PatientPhone string
	PatientEmail string
	Start        time.Time
	ServiceType  model.ServiceType
	Notes        string
	BookedByCall bool
}

// Book resolves or creates the patient, computes the service-type interval
// and reserves the slot. No appointment is persisted when a conflict is
// detected.
func (s *Service) Book(ctx context.Context, params BookingParams) (*model.Appointment, error) {
	dentist, err := s.dentists.Get(ctx, params.DentistID)
	if err != nil {
		return nil, err
	}

	patient, err := s.patients.FindOrCreate(ctx, params.PatientName, params.PatientPhone, params.PatientEmail)
	if err != nil {
		return nil, err
	}

	interval, err := scheduling.IntervalAt(params.Start, params.ServiceType.Duration())
	if err != nil {
		return nil, err
	}

	appointment := &model.Appointment{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		PatientID:    patient.ID,
		DentistID:    dentist.ID,
		StartTime:    interval.Start,
		EndTime:      interval.End,
		Status:       model.AppointmentStatusScheduled,
		ServiceType:  params.ServiceType,
		Notes:        params.Notes,
		BookedByCall: params.BookedByCall,
	}

	if err := s.checker.CheckAndReserve(ctx, appointment); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, model.EventAppointmentCreated, appointment, dentist, patient)
	return appointment, nil
}

// Reschedule moves an appointment found by id to a new start time. Both the
// current and the new date must not be in the past (date-only comparison,
// so same-day moves are allowed). The appointment's own interval is
// excluded from the conflict check.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, newStart time.Time) (*model.Appointment, error) {
	appointment, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Cancellation is permanent; moving a canceled appointment would
	// resurrect it through the conditional update.
	if appointment.Status == model.AppointmentStatusCanceled {
		return nil, apperrors.Validation("canceled appointment cannot be rescheduled")
	}

	if err := s.validateRescheduleDates(appointment.StartTime, newStart); err != nil {
		return nil, err
	}

	interval, err := scheduling.IntervalAt(newStart, appointment.ServiceType.Duration())
	if err != nil {
		return nil, err
	}

	if err := s.checker.CheckAndMove(ctx, id, interval); err != nil {
		return nil, err
	}

	appointment.StartTime = interval.Start
	appointment.EndTime = interval.End
	appointment.Status = model.AppointmentStatusScheduled
	appointment.UpdatedAt = time.Now()

	s.publishAppointmentEvent(ctx, model.EventAppointmentRescheduled, appointment)
	return appointment, nil
}

// RescheduleByLookup locates the appointment the way a caller without an id
// describes it: dentist, patient natural key, old date+time. Rescheduling
// requires a pre-existing patient.
func (s *Service) RescheduleByLookup(ctx context.Context, dentistName, patientName, patientPhone string, oldStart, newStart time.Time) (*model.Appointment, error) {
	if err := s.validateRescheduleDates(oldStart, newStart); err != nil {
		return nil, err
	}

	dentist, err := s.dentists.Resolve(ctx, dentistName)
	if err != nil {
		return nil, err
	}

	patient, err := s.requirePatient(ctx, patientName, patientPhone)
	if err != nil {
		return nil, err
	}

	appointment, err := s.locate(ctx, dentist.ID, patient.ID, oldStart)
	if err != nil {
		return nil, err
	}

	interval, err := scheduling.IntervalAt(newStart, appointment.ServiceType.Duration())
	if err != nil {
		return nil, err
	}

	if err := s.checker.CheckAndMove(ctx, appointment.ID, interval); err != nil {
		return nil, err
	}

	appointment.StartTime = interval.Start
	appointment.EndTime = interval.End
	appointment.Status = model.AppointmentStatusScheduled
	appointment.UpdatedAt = time.Now()

	s.publishEvent(ctx, model.EventAppointmentRescheduled, appointment, dentist, patient)
	return appointment, nil
}

// Cancel soft-cancels by id. The record is kept; canceled appointments are
// excluded from all conflict checks, so the slot frees immediately and
// permanently.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if appointment.Status == model.AppointmentStatusCanceled {
		return nil, apperrors.Validation("appointment is already canceled")
	}

	appointment.Status = model.AppointmentStatusCanceled
	appointment.UpdatedAt = time.Now()
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, err
	}

	s.publishAppointmentEvent(ctx, model.EventAppointmentCanceled, appointment)
	return appointment, nil
}

// CancelByLookup cancels the appointment described by dentist, patient
// natural key and date+time. Past dates are rejected.
func (s *Service) CancelByLookup(ctx context.Context, dentistName, patientName, patientPhone string, start time.Time) (*model.Appointment, error) {
	if scheduling.BeforeToday(start, s.now()) {
		return nil, apperrors.Validation("appointment date cannot be in the past")
	}

	dentist, err := s.dentists.Resolve(ctx, dentistName)
	if err != nil {
		return nil, err
	}

	patient, err := s.requirePatient(ctx, patientName, patientPhone)
	if err != nil {
		return nil, err
	}

	appointment, err := s.locate(ctx, dentist.ID, patient.ID, start)
	if err != nil {
		return nil, err
	}

	appointment.Status = model.AppointmentStatusCanceled
	appointment.UpdatedAt = time.Now()
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, model.EventAppointmentCanceled, appointment, dentist, patient)
	return appointment, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.appointments.Get(ctx, id)
}

// List serves the dashboard: filter by dentist, patient, status, date range,
// sorted by start time.
func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.appointments.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// Availability renders the bookable day grid for a dentist. The result is
// advisory: the authoritative check happens at reservation time.
func (s *Service) Availability(ctx context.Context, dentistID uuid.UUID, date time.Time, serviceType model.ServiceType) (model.DaySlots, error) {
	dentist, err := s.dentists.Get(ctx, dentistID)
	if err != nil {
		return model.DaySlots{}, err
	}

	window := scheduling.DayWindow(date)
	booked, err := s.appointments.ListDay(ctx, dentistID, window.Start, window.End)
	if err != nil {
		return model.DaySlots{}, fmt.Errorf("failed to load day appointments: %w", err)
	}

	return scheduling.GenerateDaySlots(dentist.WorkingHours, date, serviceType.Duration(), booked), nil
}

// locate finds the scheduled appointment belonging to the patient that
// overlaps the interval starting at start. The search reuses the conflict
// query over the described slot rather than an id lookup.
func (s *Service) locate(ctx context.Context, dentistID, patientID uuid.UUID, start time.Time) (*model.Appointment, error) {
	interval, err := scheduling.IntervalAt(start, model.ServiceTypeCheckup.Duration())
	if err != nil {
		return nil, err
	}

	candidates, err := s.checker.FindConflicts(ctx, dentistID, interval, nil)
	if err != nil {
		return nil, err
	}

	for _, appointment := range candidates {
		if appointment.PatientID == patientID {
			return appointment, nil
		}
	}
	return nil, apperrors.NotFound("no existing appointment found at %s", start.Format(scheduling.DateTimeLayout))
}

func (s *Service) requirePatient(ctx context.Context, fullName, phone string) (*model.Patient, error) {
	patient, err := s.patients.Find(ctx, fullName, phone)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperrors.NotFound("no patient found with the name %s and phone %s", fullName, phone)
	}
	return patient, nil
}

func (s *Service) validateRescheduleDates(oldStart, newStart time.Time) error {
	now := s.now()
	if scheduling.BeforeToday(newStart, now) {
		return apperrors.Validation("new appointment date cannot be in the past")
	}
	if scheduling.BeforeToday(oldStart, now) {
		return apperrors.Validation("appointment in the past cannot be rescheduled")
	}
	return nil
}

// publishAppointmentEvent resolves dentist and patient for the payload
// before publishing. Event failures never fail the booking.
func (s *Service) publishAppointmentEvent(ctx context.Context, eventType string, appointment *model.Appointment) {
	dentist, err := s.dentists.Get(ctx, appointment.DentistID)
	if err != nil {
		return
	}
	patient, err := s.patients.Get(ctx, appointment.PatientID)
	if err != nil {
		return
	}
	s.publishEvent(ctx, eventType, appointment, dentist, patient)
}

func (s *Service) publishEvent(ctx context.Context, eventType string, appointment *model.Appointment, dentist *model.Dentist, patient *model.Patient) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(model.AppointmentEventPayload{
		AppointmentID: appointment.ID,
		DentistName:   dentist.Name,
		PatientName:   patient.FullName,
		PatientPhone:  patient.Phone,
		PatientEmail:  patient.Email,
		StartTime:     appointment.StartTime,
		EndTime:       appointment.EndTime,
		BookedByCall:  appointment.BookedByCall,
	})
	if err != nil {
		return
	}

	_ = s.outbox.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	})
}
