package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/dentalbright/booking-api/internal/repository"
)

type appointmentRepository struct {
	db *sqlx.DB
}

type dentistRepository struct {
	db *sqlx.DB
}

type patientRepository struct {
	db *sqlx.DB
}

type outboxRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewDentistRepository(db *sqlx.DB) repository.DentistRepository {
	return &dentistRepository{db: db}
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}
