package dto

import (
	"time"

	"scholar-match/internal/domain/user"
	"scholar-match/internal/usecase"

	"github.com/google/uuid"
)

type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

func NewAuthResponse(u user.User, tokens usecase.TokenPair) AuthResponse {
	return AuthResponse{
		User:         UserResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt},
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}
}
