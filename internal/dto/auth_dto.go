package dto

import (
	"tutor-cerdas-console/internal/entity"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name"`
}

type RegisterResponse struct {
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Email      string          `json:"email"`
	Role       entity.UserRole `json:"role"`
	RedirectTo string          `json:"redirect_to"`

	// Transported as an HttpOnly cookie, never in the body.
	SessionID string `json:"-"`
}

type AuthPageResponse struct {
	Page string `json:"page"`
}

type ConsolePageResponse struct {
	Page  string          `json:"page"`
	Email string          `json:"email"`
	Role  entity.UserRole `json:"role"`
}

type LoadingResponse struct {
	Status string `json:"status"`
}
