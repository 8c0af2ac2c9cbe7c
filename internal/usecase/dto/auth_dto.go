package dto

import "github.com/country-explorer/internal/domain"

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse - wire shape of successful register/login:
// {"token": "...", "user": {"id", "username", "email"}}.
type AuthResponse struct {
	Token string          `json:"token"`
	User  domain.UserInfo `json:"user"`
}
