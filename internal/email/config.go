package email

import (
	"fmt"
	"time"
)

// SMTPConfig содержит конфигурацию SMTP сервера
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	Timeout   time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *SMTPConfig {
	return &SMTPConfig{
		Host:      "localhost",
		Port:      587,
		FromEmail: "info@pinkcollar.live",
		FromName:  "Pink Collar Team",
		UseTLS:    true,
		Timeout:   30 * time.Second,
	}
}

// From - заголовок отправителя в виде "Pink Collar Team<info@pinkcollar.live>"
func (c *SMTPConfig) From() string {
	if c.FromName == "" {
		return c.FromEmail
	}
	return fmt.Sprintf("%s<%s>", c.FromName, c.FromEmail)
}
