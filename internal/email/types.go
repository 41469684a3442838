package email

// Email - одно письмо
type Email struct {
	From     string
	To       []string
	Cc       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData представляет данные для шаблонов писем
type TemplateData map[string]interface{}

// Имена встроенных шаблонов
const (
	TemplateInvitation              = "invitation"
	TemplateResetPassword           = "reset_password"
	TemplateApplicationConfirmation = "application_confirmation"
)
