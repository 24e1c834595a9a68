package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dentalbright/booking-api/internal/model"
	apperrors "github.com/dentalbright/booking-api/pkg/errors"
)

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, dentist_id, start_time, end_time,
			status, service_type, notes, booked_by_call,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.PatientID,
		appointment.DentistID,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
		appointment.ServiceType,
		appointment.Notes,
		appointment.BookedByCall,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// CreateIfSlotFree inserts the appointment only when no scheduled
// appointment for the same dentist overlaps it. Returns false without
// inserting when the slot is already taken. The overlap predicate and the
// insert run in one statement, so two concurrent bookings for the same slot
// cannot both succeed.
func (r *appointmentRepository) CreateIfSlotFree(ctx context.Context, appointment *model.Appointment) (bool, error) {
	query := `
		INSERT INTO appointments (
			id, patient_id, dentist_id, start_time, end_time,
			status, service_type, notes, booked_by_call,
			created_at, updated_at
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		WHERE NOT EXISTS (
			SELECT 1 FROM appointments
			WHERE dentist_id = $3
			AND status = 'scheduled'
			AND end_time > $4
			AND start_time < $5
		)
	`
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.PatientID,
		appointment.DentistID,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
		appointment.ServiceType,
		appointment.Notes,
		appointment.BookedByCall,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// UpdateTimesIfSlotFree moves an appointment to a new interval only when no
// other scheduled appointment for the same dentist overlaps it. The moving
// appointment is excluded from the overlap check so it never conflicts with
// itself.
func (r *appointmentRepository) UpdateTimesIfSlotFree(ctx context.Context, id uuid.UUID, start, end time.Time) (bool, error) {
	query := `
		UPDATE appointments
		SET start_time = $2, end_time = $3, status = 'scheduled', updated_at = $4
		WHERE id = $1
		AND NOT EXISTS (
			SELECT 1 FROM appointments other
			WHERE other.dentist_id = appointments.dentist_id
			AND other.id <> appointments.id
			AND other.status = 'scheduled'
			AND other.end_time > $2
			AND other.start_time < $3
		)
	`
	result, err := r.db.ExecContext(ctx, query, id, start, end, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to reschedule appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, dentist_id, start_time, end_time,
			   status, service_type, notes, booked_by_call,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("appointment %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET start_time = $1, end_time = $2, status = $3, notes = $4, updated_at = $5
		WHERE id = $6
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
		appointment.Notes,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment %s not found", appointment.ID)
	}

	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT id, patient_id, dentist_id, start_time, end_time,
			   status, service_type, notes, booked_by_call,
			   created_at, updated_at
		FROM appointments
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters.DentistID != uuid.Nil {
		query += fmt.Sprintf(" AND dentist_id = $%d", argCount)
		args = append(args, filters.DentistID)
		argCount++
	}

	if filters.PatientID != uuid.Nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, filters.PatientID)
		argCount++
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	if !filters.StartDate.IsZero() {
		query += fmt.Sprintf(" AND start_time >= $%d", argCount)
		args = append(args, filters.StartDate)
		argCount++
	}

	if !filters.EndDate.IsZero() {
		query += fmt.Sprintf(" AND end_time <= $%d", argCount)
		args = append(args, filters.EndDate)
		argCount++
	}

	query += " ORDER BY start_time ASC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filters.Pagination.Limit(), filters.Pagination.Offset())

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// FindConflicting returns scheduled appointments for the dentist whose
// interval intersects [start, end) under half-open semantics. Touching
// endpoints do not conflict.
func (r *appointmentRepository) FindConflicting(ctx context.Context, dentistID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT id, patient_id, dentist_id, start_time, end_time,
			   status, service_type, notes, booked_by_call,
			   created_at, updated_at
		FROM appointments
		WHERE dentist_id = $1
		AND status = 'scheduled'
		AND end_time > $2
		AND start_time < $3
	`
	args := []interface{}{dentistID, start, end}

	if excludeID != nil {
		query += " AND id <> $4"
		args = append(args, *excludeID)
	}

	query += " ORDER BY start_time ASC"

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find conflicting appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListDay(ctx context.Context, dentistID uuid.UUID, dayStart, dayEnd time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT id, patient_id, dentist_id, start_time, end_time,
			   status, service_type, notes, booked_by_call,
			   created_at, updated_at
		FROM appointments
		WHERE dentist_id = $1
		AND start_time >= $2
		AND end_time <= $3
		ORDER BY start_time ASC
	`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, dentistID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list day appointments: %w", err)
	}
	return appointments, nil
}
