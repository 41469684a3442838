package validator

import (
	"context"
	"net"
	"strings"
)

// MXResolver - часть net.Resolver, нужная для проверки домена
type MXResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// EmailChecker проверяет, что адрес корректен и домен принимает почту
type EmailChecker struct {
	v        *Validator
	resolver MXResolver
}

func NewEmailChecker(v *Validator, resolver MXResolver) *EmailChecker {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &EmailChecker{v: v, resolver: resolver}
}

// EmailDeliverable - формат адреса валиден и у домена есть хотя бы одна MX-запись
func (c *EmailChecker) EmailDeliverable(ctx context.Context, email string) bool {
	email = strings.TrimSpace(email)
	if err := c.v.Var(email, "required,email"); err != nil {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return false
	}
	records, err := c.resolver.LookupMX(ctx, email[at+1:])
	if err != nil {
		return false
	}
	return len(records) > 0
}
