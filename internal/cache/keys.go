package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

const (
	DashboardPrefix = "dashboard:summary:"
	GeocodePrefix   = "geocode:"
	DenylistPrefix  = "jwt:denylist:"
)

// NormalizeValue: trim, lower, схлопывание пробелов
func NormalizeValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// HashKey - prefix + sha256 от JSON-представления входа.
// Вход должен быть уже нормализован вызывающей стороной.
func HashKey(prefix string, in any) string {
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return prefix + hex.EncodeToString(sum[:])
}

// GeocodeKey - ключ кеша координат города
func GeocodeKey(city, state string) string {
	return GeocodePrefix + NormalizeValue(city) + "|" + NormalizeValue(state)
}

func DenylistKey(jti string) string {
	return DenylistPrefix + jti
}
