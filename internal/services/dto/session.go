package dto

import "pinkcollar_backend/internal/models"

type SignInFields struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignInRequest - {"user": {"email": "...", "password": "..."}}
type SignInRequest struct {
	User *SignInFields `json:"user"`
}

// SignInResponse - данные успешного входа
type SignInResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}
