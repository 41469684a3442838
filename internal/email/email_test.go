package email

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMail struct {
	to       []string
	subject  string
	template string
	data     TemplateData
}

type recordingProvider struct {
	sent []recordedMail
}

func (p *recordingProvider) Send(*Email) error { return nil }

func (p *recordingProvider) SendTemplate(to []string, subject, templateName string, data TemplateData) error {
	p.sent = append(p.sent, recordedMail{to: to, subject: subject, template: templateName, data: data})
	return nil
}

func (p *recordingProvider) Validate() error { return nil }
func (p *recordingProvider) Close() error    { return nil }

func TestDefaultTemplateManager_RendersEmbeddedTemplates(t *testing.T) {
	tm, err := NewDefaultTemplateManager("")
	require.NoError(t, err)

	assert.Equal(t, []string{TemplateApplicationConfirmation, TemplateInvitation, TemplateResetPassword}, tm.TemplateNames())

	html, err := tm.Render(TemplateResetPassword, TemplateData{
		"URL":   "https://app.pinkcollar.live/reset-password?reset_password_token=abc123",
		"Email": "admin@pinkcollar.live",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "Hello admin@pinkcollar.live!")
	assert.Contains(t, html, "reset_password_token=abc123")
	assert.Contains(t, html, "Pink Collar Team")

	_, err = tm.Render("missing", nil)
	assert.EqualError(t, err, "template not found: missing")
}

func TestTemplateManager_OverridesFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "invitation.html"),
		[]byte(`{{template "layout_start" .}}Join us: {{.URL}}{{template "layout_end" .}}`), 0o600))

	tm, err := NewDefaultTemplateManager(dir)
	require.NoError(t, err)

	html, err := tm.Render(TemplateInvitation, TemplateData{"URL": "https://api/accept"})
	require.NoError(t, err)
	assert.Contains(t, html, "Join us: https://api/accept")
	assert.Contains(t, html, "</html>")
}

func TestMailer_BuildsLinks(t *testing.T) {
	// 1. Подготовка
	provider := &recordingProvider{}
	m := NewMailer(provider, "https://api.pinkcollar.live/", "https://app.pinkcollar.live/")
	expires := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)

	// 2. Действие
	require.NoError(t, m.SendInvitation("new@pinkcollar.live", "tok", expires))
	require.NoError(t, m.SendResetPassword("admin@pinkcollar.live", "Sana", "reset tok"))
	require.NoError(t, m.SendApplicationConfirmation("ayesha@example.com", "Ayesha", expires))

	// 3. Проверка
	require.Len(t, provider.sent, 3)

	invite := provider.sent[0]
	assert.Equal(t, SubjectInvitation, invite.subject)
	assert.Equal(t, TemplateInvitation, invite.template)
	assert.Equal(t, "https://api.pinkcollar.live/api/v1/invitations/tok/accept?email=new%40pinkcollar.live", invite.data["URL"])
	assert.Equal(t, "May 02, 2026 09:00 UTC", invite.data["ExpiresAt"])

	reset := provider.sent[1]
	assert.Equal(t, []string{"admin@pinkcollar.live"}, reset.to)
	assert.Equal(t, "https://app.pinkcollar.live/reset-password?reset_password_token=reset+tok", reset.data["URL"])

	confirmation := provider.sent[2]
	assert.Equal(t, SubjectApplicationConfirmation, confirmation.subject)
	assert.Equal(t, "May 02, 2026", confirmation.data["ApplicationDate"])
}

func TestGomailProvider_Validate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, NewGomailProvider(cfg, nil).Validate())

	cfg.Host = ""
	assert.EqualError(t, NewGomailProvider(cfg, nil).Validate(), "SMTP host is required")

	cfg = DefaultConfig()
	cfg.Port = 70000
	assert.EqualError(t, NewGomailProvider(cfg, nil).Validate(), "invalid SMTP port: 70000")

	err := NewGomailProvider(DefaultConfig(), nil).SendTemplate([]string{"a@b.c"}, "s", TemplateInvitation, nil)
	assert.EqualError(t, err, "template renderer is not configured")
}

func TestSMTPConfig_From(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "Pink Collar Team<info@pinkcollar.live>", cfg.From())

	cfg.FromName = ""
	assert.Equal(t, "info@pinkcollar.live", cfg.From())
}
