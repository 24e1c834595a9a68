package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dentalbright/booking-api/internal/model"
)

// All repository interfaces in one file
type (
	// AppointmentRepository is the query/mutation contract the booking core
	// relies on. FindConflicting applies the half-open overlap predicate
	// (end > start' AND start < end') restricted to scheduled rows; the
	// *IfSlotFree mutations re-apply the same predicate inside a single
	// conditional statement so concurrent callers cannot double-book.
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		FindConflicting(ctx context.Context, dentistID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*model.Appointment, error)
		ListDay(ctx context.Context, dentistID uuid.UUID, dayStart, dayEnd time.Time) ([]*model.Appointment, error)
		CreateIfSlotFree(ctx context.Context, appointment *model.Appointment) (bool, error)
		UpdateTimesIfSlotFree(ctx context.Context, id uuid.UUID, start, end time.Time) (bool, error)
	}

	// DentistRepository is read-only from the core's perspective.
	DentistRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Dentist, error)
		GetByEmail(ctx context.Context, email string) (*model.Dentist, error)
		List(ctx context.Context) ([]*model.Dentist, error)
		Search(ctx context.Context, name string) ([]*model.Dentist, error)
	}

	// PatientRepository looks patients up by the (full name, phone) natural
	// key. FindByNameAndPhone returns (nil, nil) when no record matches.
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		FindByNameAndPhone(ctx context.Context, fullName, phone string) (*model.Patient, error)
	}

	// OutboxRepository stores booking events for asynchronous delivery.
	// ProcessPending claims a batch under a row lock held for the whole
	// call, invokes handle per event and records processed or failed, so
	// two workers never deliver the same event.
	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		ProcessPending(ctx context.Context, limit int, handle func(event *model.OutboxEvent) error) error
	}
)
