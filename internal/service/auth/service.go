package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dentalbright/booking-api/internal/model"
	dentistsvc "github.com/dentalbright/booking-api/internal/service/dentist"
	apperrors "github.com/dentalbright/booking-api/pkg/errors"
)

// Service authenticates dentists for the dashboard. Tokens are HS256 JWTs
// carrying the dentist id and email.
type Service struct {
	dentists *dentistsvc.Service
	secret   []byte
	tokenTTL time.Duration
}

func NewService(dentists *dentistsvc.Service, secret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{
		dentists: dentists,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

type claims struct {
	DentistID string `json:"dentist_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// Login verifies the password against the stored bcrypt hash and issues a
// session token. A wrong email and a wrong password produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	dentist, err := s.dentists.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Validation("invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(dentist.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Validation("invalid email or password")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		DentistID: dentist.ID.String(),
		Email:     dentist.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   dentist.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	dentist.PasswordHash = ""
	return &model.TokenResponse{
		AccessToken: signed,
		Dentist:     dentist,
	}, nil
}

// ValidateToken parses and verifies a bearer token, returning the session
// claims embedded in it.
func (s *Service) ValidateToken(tokenString string) (*model.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, apperrors.Validation("invalid or expired token")
	}

	tokenClaims, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return nil, apperrors.Validation("invalid or expired token")
	}

	dentistID, err := uuid.Parse(tokenClaims.DentistID)
	if err != nil {
		return nil, apperrors.Validation("invalid or expired token")
	}

	return &model.TokenClaims{
		DentistID: dentistID,
		Email:     tokenClaims.Email,
	}, nil
}
