package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dentalbright/booking-api/internal/model"
	dentistsvc "github.com/dentalbright/booking-api/internal/service/dentist"
	apperrors "github.com/dentalbright/booking-api/pkg/errors"
)

type fakeDentistRepo struct {
	dentist *model.Dentist
}

func (r *fakeDentistRepo) Get(_ context.Context, id uuid.UUID) (*model.Dentist, error) {
	if r.dentist != nil && r.dentist.ID == id {
		clone := *r.dentist
		return &clone, nil
	}
	return nil, apperrors.NotFound("dentist not found")
}

func (r *fakeDentistRepo) GetByEmail(_ context.Context, email string) (*model.Dentist, error) {
	if r.dentist != nil && r.dentist.Email == email {
		clone := *r.dentist
		return &clone, nil
	}
	return nil, apperrors.NotFound("dentist not found")
}

func (r *fakeDentistRepo) List(_ context.Context) ([]*model.Dentist, error) {
	return []*model.Dentist{r.dentist}, nil
}

func (r *fakeDentistRepo) Search(_ context.Context, name string) ([]*model.Dentist, error) {
	return nil, nil
}

func newTestService(t *testing.T, password string) (*Service, *model.Dentist) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	dentist := &model.Dentist{
		Base:         model.Base{ID: uuid.New()},
		Name:         "Dr. Sarah Smith",
		Email:        "sarah@dentalbright.example",
		PasswordHash: string(hash),
	}

	dentists := dentistsvc.NewService(&fakeDentistRepo{dentist: dentist})
	return NewService(dentists, "test-secret", time.Hour), dentist
}

func TestLoginSuccess(t *testing.T) {
	svc, dentist := newTestService(t, "correct horse battery staple")

	resp, err := svc.Login(context.Background(), dentist.Email, "correct horse battery staple")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, dentist.ID, resp.Dentist.ID)
	// The hash never leaves the service.
	assert.Empty(t, resp.Dentist.PasswordHash)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, dentist := newTestService(t, "correct horse battery staple")

	_, err := svc.Login(context.Background(), dentist.Email, "wrong")
	assert.True(t, apperrors.IsValidation(err))
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestService(t, "correct horse battery staple")

	_, err := svc.Login(context.Background(), "nobody@dentalbright.example", "whatever")
	require.Error(t, err)
	// Unknown email and wrong password are indistinguishable to the caller.
	assert.True(t, apperrors.IsValidation(err))
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc, dentist := newTestService(t, "correct horse battery staple")

	resp, err := svc.Login(context.Background(), dentist.Email, "correct horse battery staple")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, dentist.ID, claims.DentistID)
	assert.Equal(t, dentist.Email, claims.Email)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t, "correct horse battery staple")

	_, err := svc.ValidateToken("not-a-token")
	assert.True(t, apperrors.IsValidation(err))
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc, dentist := newTestService(t, "correct horse battery staple")
	svc.tokenTTL = -time.Hour

	resp, err := svc.Login(context.Background(), dentist.Email, "correct horse battery staple")
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	assert.True(t, apperrors.IsValidation(err))
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	svc, dentist := newTestService(t, "correct horse battery staple")
	other, _ := newTestService(t, "correct horse battery staple")
	other.secret = []byte("different-secret")

	resp, err := svc.Login(context.Background(), dentist.Email, "correct horse battery staple")
	require.NoError(t, err)

	_, err = other.ValidateToken(resp.AccessToken)
	assert.True(t, apperrors.IsValidation(err))
}
