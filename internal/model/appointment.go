package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	// Statuses written by the booking core.
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCanceled  AppointmentStatus = "canceled"

	// Display-only statuses surfaced by the dashboard. The core never
	// persists these; the dashboard derives them from scheduled rows.
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// ServiceType determines appointment duration. Duration is resolved from the
// service type on every path, tool-layer bookings included.
type ServiceType string

const (
	ServiceTypeCheckup   ServiceType = "checkup"
	ServiceTypeCleaning  ServiceType = "cleaning"
	ServiceTypeFilling   ServiceType = "filling"
	ServiceTypeRootCanal ServiceType = "root_canal"
)

var serviceDurations = map[ServiceType]time.Duration{
	ServiceTypeCheckup:   30 * time.Minute,
	ServiceTypeCleaning:  60 * time.Minute,
	ServiceTypeFilling:   90 * time.Minute,
	ServiceTypeRootCanal: 120 * time.Minute,
}

// Duration returns the slot length for the service type. Unknown or empty
// types fall back to the standard 30-minute checkup slot.
func (s ServiceType) Duration() time.Duration {
	if d, ok := serviceDurations[s]; ok {
		return d
	}
	return serviceDurations[ServiceTypeCheckup]
}

func (s ServiceType) Valid() bool {
	_, ok := serviceDurations[s]
	return ok
}

// Appointment occupies the half-open interval [StartTime, EndTime) on a
// dentist's calendar. For any dentist, no two scheduled appointments may
// overlap.
type Appointment struct {
	Base
	PatientID    uuid.UUID         `db:"patient_id" json:"patient_id"`
	DentistID    uuid.UUID         `db:"dentist_id" json:"dentist_id"`
	StartTime    time.Time         `db:"start_time" json:"start_time"`
	EndTime      time.Time         `db:"end_time" json:"end_time"`
	Status       AppointmentStatus `db:"status" json:"status"`
	ServiceType  ServiceType       `db:"service_type" json:"service_type"`
	Notes        string            `db:"notes" json:"notes,omitempty"`
	BookedByCall bool              `db:"booked_by_call" json:"booked_by_call"`
}

type CreateAppointmentRequest struct {
	DentistID   string      `json:"dentist_id" binding:"required,uuid"`
	PatientName string      `json:"patient_name" binding:"required"`
	Phone       string      `json:"phone" binding:"required"`
	Email       string      `json:"email" binding:"omitempty,email"`
	Date        string      `json:"date" binding:"required"`
	Time        string      `json:"time" binding:"required"`
	ServiceType ServiceType `json:"service_type" binding:"omitempty,servicetype"`
	Notes       string      `json:"notes" binding:"max=1000"`
}

type RescheduleAppointmentRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

type AppointmentFilters struct {
	DentistID  uuid.UUID
	PatientID  uuid.UUID
	Status     AppointmentStatus
	StartDate  time.Time
	EndDate    time.Time
	Pagination Pagination
}

// TimeSlot is a bookable window, rendered by the booking page.
type TimeSlot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// DaySlots buckets a day's slots by fixed clock boundaries: morning before
// 12:00, afternoon 12:00-18:00, evening from 18:00.
type DaySlots struct {
	Morning   []TimeSlot `json:"morning"`
	Afternoon []TimeSlot `json:"afternoon"`
	Evening   []TimeSlot `json:"evening"`
}
