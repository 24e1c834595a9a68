package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dentalbright/booking-api/internal/model"
	apperrors "github.com/dentalbright/booking-api/pkg/errors"
)

func (r *dentistRepository) Get(ctx context.Context, id uuid.UUID) (*model.Dentist, error) {
	query := `
		SELECT id, name, email, password_hash, specialization, price_range,
			   working_hours, created_at, updated_at
		FROM dentists
		WHERE id = $1
	`
	var dentist model.Dentist
	err := r.db.GetContext(ctx, &dentist, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("dentist %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dentist: %w", err)
	}
	return &dentist, nil
}

func (r *dentistRepository) GetByEmail(ctx context.Context, email string) (*model.Dentist, error) {
	query := `
		SELECT id, name, email, password_hash, specialization, price_range,
			   working_hours, created_at, updated_at
		FROM dentists
		WHERE email = $1
	`
	var dentist model.Dentist
	err := r.db.GetContext(ctx, &dentist, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("dentist with email %s not found", email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dentist by email: %w", err)
	}
	return &dentist, nil
}

func (r *dentistRepository) List(ctx context.Context) ([]*model.Dentist, error) {
	query := `
		SELECT id, name, email, password_hash, specialization, price_range,
			   working_hours, created_at, updated_at
		FROM dentists
		ORDER BY name ASC
	`
	var dentists []*model.Dentist
	err := r.db.SelectContext(ctx, &dentists, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list dentists: %w", err)
	}
	return dentists, nil
}

// Search matches dentist names case-insensitively by substring, ordered by
// name so "first match wins" is deterministic.
func (r *dentistRepository) Search(ctx context.Context, name string) ([]*model.Dentist, error) {
	query := `
		SELECT id, name, email, password_hash, specialization, price_range,
			   working_hours, created_at, updated_at
		FROM dentists
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name ASC
	`
	var dentists []*model.Dentist
	err := r.db.SelectContext(ctx, &dentists, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search dentists: %w", err)
	}
	return dentists, nil
}
