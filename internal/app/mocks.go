package app

import (
	"strings"

	"pinkcollar_backend/internal/email"
	"pinkcollar_backend/internal/logger"
)

// LogEmailProvider используется, когда SMTP не настроен: письма только пишутся в лог.
type LogEmailProvider struct {
	renderer email.TemplateRenderer
}

func NewLogEmailProvider(renderer email.TemplateRenderer) *LogEmailProvider {
	return &LogEmailProvider{renderer: renderer}
}

func (m *LogEmailProvider) Send(e *email.Email) error {
	logger.Info("Email not sent (SMTP disabled)", "to", strings.Join(e.To, ","), "subject", e.Subject)
	return nil
}

// SendTemplate рендерит шаблон, чтобы ошибки шаблонов были видны без SMTP
func (m *LogEmailProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	if m.renderer != nil {
		if _, err := m.renderer.Render(templateName, data); err != nil {
			return err
		}
	}
	logger.Info("Email not sent (SMTP disabled)",
		"to", strings.Join(to, ","),
		"subject", subject,
		"template", templateName,
		"url", data["URL"],
	)
	return nil
}

func (m *LogEmailProvider) Validate() error { return nil }
func (m *LogEmailProvider) Close() error    { return nil }
