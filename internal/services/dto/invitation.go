package dto

type InvitationFields struct {
	Email string `json:"email" validate:"required,email"`
}

// CreateInvitationRequest - {"invitation": {"email": "..."}}
type CreateInvitationRequest struct {
	Invitation *InvitationFields `json:"invitation"`
}

type RegisterUserFields struct {
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	Contact              string `json:"contact"`
}

// RegisterInvitedUserRequest - регистрация по токену приглашения
type RegisterInvitedUserRequest struct {
	Token string              `json:"token" validate:"required"`
	User  *RegisterUserFields `json:"user"`
}
