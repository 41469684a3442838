package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - ключ, по которому хранится *gorm.DB в context
	DBContextKey = contextKey("db")

	// UserIDKey и RoleKey выставляет AuthMiddleware
	UserIDKey = "userID"
	RoleKey   = "role"
	// TokenClaimsKey - распарсенные claims текущего bearer-токена
	TokenClaimsKey = "tokenClaims"
)
