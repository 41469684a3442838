package dto

type PasswordResetFields struct {
	Email string `json:"email" validate:"required"`
}

// PasswordResetRequest - {"user": {"email": "..."}}
type PasswordResetRequest struct {
	User *PasswordResetFields `json:"user"`
}

type PasswordUpdateFields struct {
	ResetPasswordToken   string `json:"reset_password_token"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// PasswordUpdateRequest - смена пароля по токену из письма
type PasswordUpdateRequest struct {
	User *PasswordUpdateFields `json:"user"`
}

type PasswordResetResponse struct {
	Email string `json:"email"`
}
