package scheduling

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dentalbright/booking-api/internal/model"
	"github.com/dentalbright/booking-api/internal/repository"
	apperrors "github.com/dentalbright/booking-api/pkg/errors"
)

// Checker is the single conflict-detection path shared by the web booking
// flow, the dashboard, and the agent tool layer. The decision rule is
// uniform: a non-empty conflict set blocks the mutation.
type Checker struct {
	repo repository.AppointmentRepository
}

func NewChecker(repo repository.AppointmentRepository) *Checker {
	return &Checker{repo: repo}
}

// FindConflicts returns the scheduled appointments for the dentist whose
// intervals intersect the candidate. Canceled appointments never conflict.
// excludeID, when non-nil, removes that appointment from consideration so a
// reschedule cannot collide with the appointment being moved.
func (c *Checker) FindConflicts(ctx context.Context, dentistID uuid.UUID, interval Interval, excludeID *uuid.UUID) ([]*model.Appointment, error) {
	conflicts, err := c.repo.FindConflicting(ctx, dentistID, interval.Start, interval.End, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check conflicts: %w", err)
	}
	return conflicts, nil
}

// CheckAndReserve creates the appointment if its slot is free. The check and
// the insert are a single conditional write at the repository, so two
// concurrent reservations of the same slot cannot both pass.
func (c *Checker) CheckAndReserve(ctx context.Context, appointment *model.Appointment) error {
	interval, err := NewInterval(appointment.StartTime, appointment.EndTime)
	if err != nil {
		return err
	}

	created, err := c.repo.CreateIfSlotFree(ctx, appointment)
	if err != nil {
		return fmt.Errorf("failed to reserve slot: %w", err)
	}
	if !created {
		return apperrors.Conflict("another appointment already exists between %s and %s",
			interval.Start.Format("15:04"), interval.End.Format("15:04"))
	}
	return nil
}

// CheckAndMove reschedules an existing appointment into the new interval,
// excluding the appointment itself from the conflict check.
func (c *Checker) CheckAndMove(ctx context.Context, id uuid.UUID, interval Interval) error {
	moved, err := c.repo.UpdateTimesIfSlotFree(ctx, id, interval.Start, interval.End)
	if err != nil {
		return fmt.Errorf("failed to move appointment: %w", err)
	}
	if !moved {
		return apperrors.Conflict("another appointment already exists between %s and %s",
			interval.Start.Format("15:04"), interval.End.Format("15:04"))
	}
	return nil
}
