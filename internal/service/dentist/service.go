package dentist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/dentalbright/booking-api/internal/model"
	"github.com/dentalbright/booking-api/internal/repository"
	apperrors "github.com/dentalbright/booking-api/pkg/errors"
)

const (
	listCacheKey = "dentists:list"
	cacheTTL     = 5 * time.Minute
)

type Service struct {
	repo  repository.DentistRepository
	cache *cache.Cache
}

func NewService(repo repository.DentistRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(cacheTTL, 10*time.Minute),
	}
}

// List returns all dentists, served from an in-process cache between
// refreshes. The directory changes rarely; the booking page hits it often.
func (s *Service) List(ctx context.Context) ([]*model.Dentist, error) {
	if cached, ok := s.cache.Get(listCacheKey); ok {
		return cached.([]*model.Dentist), nil
	}

	dentists, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dentists: %w", err)
	}
	for _, d := range dentists {
		if err := decodeWorkingHours(d); err != nil {
			return nil, err
		}
	}

	s.cache.Set(listCacheKey, dentists, cache.DefaultExpiration)
	return dentists, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Dentist, error) {
	dentist, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := decodeWorkingHours(dentist); err != nil {
		return nil, err
	}
	return dentist, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*model.Dentist, error) {
	dentist, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := decodeWorkingHours(dentist); err != nil {
		return nil, err
	}
	return dentist, nil
}

// Search returns all dentists whose name contains the query, by name order.
func (s *Service) Search(ctx context.Context, name string) ([]*model.Dentist, error) {
	matches, err := s.repo.Search(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search dentists: %w", err)
	}
	for _, d := range matches {
		if err := decodeWorkingHours(d); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

// Resolve finds a dentist by substring name match; the first match wins.
// Ambiguity is not an error: callers supplying "Smith" get the first
// "Dr. Smith" by name order.
func (s *Service) Resolve(ctx context.Context, name string) (*model.Dentist, error) {
	matches, err := s.repo.Search(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search dentists: %w", err)
	}
	if len(matches) == 0 {
		return nil, apperrors.NotFound("no dentist found with the name %s", name)
	}

	dentist := matches[0]
	if err := decodeWorkingHours(dentist); err != nil {
		return nil, err
	}
	return dentist, nil
}

func decodeWorkingHours(d *model.Dentist) error {
	if d.WorkingHoursJSON == "" {
		d.WorkingHours = model.WorkingHours{}
		return nil
	}

	var hours model.WorkingHours
	if err := json.Unmarshal([]byte(d.WorkingHoursJSON), &hours); err != nil {
		return fmt.Errorf("failed to decode working hours for dentist %s: %w", d.ID, err)
	}
	d.WorkingHours = hours
	return nil
}
