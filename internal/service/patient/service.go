package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dentalbright/booking-api/internal/model"
	"github.com/dentalbright/booking-api/internal/repository"
)

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

// FindOrCreate resolves a patient by the (fullName, phone) natural key,
// creating the record on first booking. Repeat bookings with the identical
// name and phone reuse the existing record; a variation in either field
// produces a new one.
func (s *Service) FindOrCreate(ctx context.Context, fullName, phone, email string) (*model.Patient, error) {
	existing, err := s.repo.FindByNameAndPhone(ctx, fullName, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to look up patient: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	patient := &model.Patient{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		FullName: fullName,
		Phone:    phone,
		Email:    email,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

// Find resolves a patient by natural key without creating one. Returns
// (nil, nil) when no record matches.
func (s *Service) Find(ctx context.Context, fullName, phone string) (*model.Patient, error) {
	return s.repo.FindByNameAndPhone(ctx, fullName, phone)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}
