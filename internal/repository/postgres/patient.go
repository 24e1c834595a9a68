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

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (id, full_name, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.FullName,
		patient.Phone,
		patient.Email,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT id, full_name, phone, email, created_at, updated_at FROM patients WHERE id = $1`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("patient %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

// FindByNameAndPhone probes the (full_name, phone) natural key. A missing
// record is not an error here; it signals the caller to create one.
func (r *patientRepository) FindByNameAndPhone(ctx context.Context, fullName, phone string) (*model.Patient, error) {
	query := `
		SELECT id, full_name, phone, email, created_at, updated_at
		FROM patients
		WHERE full_name = $1 AND phone = $2
		ORDER BY created_at ASC
		LIMIT 1
	`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, fullName, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find patient: %w", err)
	}
	return &patient, nil
}
