package services

import "time"

// Mailer - доменные письма (реализация в internal/email)
type Mailer interface {
	SendInvitation(to, token string, expiresAt time.Time) error
	SendResetPassword(to, name, token string) error
	SendApplicationConfirmation(to, name string, submittedAt time.Time) error
}
