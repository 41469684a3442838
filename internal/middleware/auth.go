package middleware

import (
	"context"
	"errors"
	"strings"

	"pinkcollar_backend/internal/auth"
	"pinkcollar_backend/internal/logger"
	"pinkcollar_backend/pkg/apperrors"
	"pinkcollar_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Authenticator проверяет bearer-токен (реализует services.SessionService)
type Authenticator interface {
	Authenticate(ctx context.Context, db *gorm.DB, token string) (*auth.Claims, error)
}

// AuthMiddleware - middleware проверки JWT. Должен стоять после DBMiddleware.
func AuthMiddleware(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.ErrUnauthenticated)
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		db, _ := c.Get(string(contextkeys.DBContextKey))
		gormDB, ok := db.(*gorm.DB)
		if !ok {
			apperrors.HandleError(c, apperrors.InternalError(errors.New("db is not set in request context")))
			return
		}

		claims, err := authenticator.Authenticate(c.Request.Context(), gormDB, tokenStr)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		// Сохраняем claims в контекст
		c.Set(contextkeys.UserIDKey, claims.UserID)
		c.Set(contextkeys.RoleKey, claims.Role)
		c.Set(contextkeys.TokenClaimsKey, claims)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(contextkeys.UserIDKey)
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}

	return id
}
