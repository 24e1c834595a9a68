package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

const (
	EventAppointmentCreated     = "appointment.created"
	EventAppointmentRescheduled = "appointment.rescheduled"
	EventAppointmentCanceled    = "appointment.canceled"
)

type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}

// AppointmentEventPayload is what the worker consumes to place confirmation
// calls and send emails.
type AppointmentEventPayload struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	DentistName   string    `json:"dentist_name"`
	PatientName   string    `json:"patient_name"`
	PatientPhone  string    `json:"patient_phone"`
	PatientEmail  string    `json:"patient_email,omitempty"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	BookedByCall  bool      `json:"booked_by_call"`
}
