package model

import "github.com/google/uuid"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string   `json:"access_token"`
	Dentist     *Dentist `json:"dentist"`
}

type TokenClaims struct {
	DentistID uuid.UUID
	Email     string
}
