package services

import (
	"fmt"

	"pinkcollar_backend/internal/auth"
)

// passwordErrors - тексты в порядке проверок: присутствие, длина, подтверждение
func passwordErrors(password, confirmation string) []string {
	var msgs []string
	switch {
	case password == "":
		msgs = append(msgs, "Password can't be blank")
	case len(password) < auth.MinPasswordLength:
		msgs = append(msgs, fmt.Sprintf("Password is too short (minimum is %d characters)", auth.MinPasswordLength))
	}
	if confirmation != password {
		msgs = append(msgs, "Password confirmation doesn't match Password")
	}
	return msgs
}
