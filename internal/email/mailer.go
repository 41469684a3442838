package email

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	SubjectInvitation              = "Invitation to join Admin Panel"
	SubjectResetPassword           = "Reset Password Instructions"
	SubjectApplicationConfirmation = "Application Submitted Successfully"
)

// Mailer собирает доменные письма поверх Provider
type Mailer struct {
	provider    Provider
	publicURL   string
	frontendURL string
}

func NewMailer(provider Provider, publicURL, frontendURL string) *Mailer {
	return &Mailer{
		provider:    provider,
		publicURL:   strings.TrimRight(publicURL, "/"),
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// InvitationURL - ссылка accept на стороне API, она сама редиректит на фронтенд
func (m *Mailer) InvitationURL(token, email string) string {
	return fmt.Sprintf("%s/api/v1/invitations/%s/accept?email=%s",
		m.publicURL, url.PathEscape(token), url.QueryEscape(email))
}

// ResetPasswordURL - страница смены пароля на фронтенде
func (m *Mailer) ResetPasswordURL(token string) string {
	return fmt.Sprintf("%s/reset-password?reset_password_token=%s", m.frontendURL, url.QueryEscape(token))
}

func (m *Mailer) SendInvitation(to, token string, expiresAt time.Time) error {
	return m.provider.SendTemplate([]string{to}, SubjectInvitation, TemplateInvitation, TemplateData{
		"URL":       m.InvitationURL(token, to),
		"Email":     to,
		"ExpiresAt": expiresAt.Format("January 02, 2006 15:04 MST"),
	})
}

func (m *Mailer) SendResetPassword(to, name, token string) error {
	return m.provider.SendTemplate([]string{to}, SubjectResetPassword, TemplateResetPassword, TemplateData{
		"URL":   m.ResetPasswordURL(token),
		"Name":  name,
		"Email": to,
	})
}

func (m *Mailer) SendApplicationConfirmation(to, name string, submittedAt time.Time) error {
	return m.provider.SendTemplate([]string{to}, SubjectApplicationConfirmation, TemplateApplicationConfirmation, TemplateData{
		"Name":            name,
		"ApplicationDate": submittedAt.Format("January 02, 2006"),
	})
}
