package services

import (
	"context"
	"errors"
	"time"

	"pinkcollar_backend/internal/auth"
	"pinkcollar_backend/internal/cache"
	"pinkcollar_backend/internal/logger"
	"pinkcollar_backend/internal/models"
	"pinkcollar_backend/internal/repositories"
	"pinkcollar_backend/internal/services/dto"
	"pinkcollar_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// TokenDenylist - отозванные jti в Redis; при ErrUnavailable используется таблица в БД
type TokenDenylist interface {
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

type SessionService interface {
	SignIn(ctx context.Context, db *gorm.DB, req *dto.SignInRequest) (*dto.SignInResponse, error)
	SignOut(ctx context.Context, db *gorm.DB, token string) error
	// Authenticate проверяет bearer-токен: подпись, срок, отзыв, существование админа
	Authenticate(ctx context.Context, db *gorm.DB, token string) (*auth.Claims, error)
}

type SessionServiceImpl struct {
	userRepo     repositories.UserRepository
	denylistRepo repositories.DenylistRepository
	tokens       auth.TokenService
	denylist     TokenDenylist
	now          func() time.Time
}

func NewSessionService(
	userRepo repositories.UserRepository,
	denylistRepo repositories.DenylistRepository,
	tokens auth.TokenService,
	denylist TokenDenylist,
) *SessionServiceImpl {
	return &SessionServiceImpl{
		userRepo:     userRepo,
		denylistRepo: denylistRepo,
		tokens:       tokens,
		denylist:     denylist,
		now:          time.Now,
	}
}

func (s *SessionServiceImpl) SignIn(ctx context.Context, db *gorm.DB, req *dto.SignInRequest) (*dto.SignInResponse, error) {
	if req.User == nil {
		return nil, missingParam("user")
	}

	user, err := s.userRepo.FindByEmail(db, req.User.Email)
	if err != nil {
		return nil, handleUserError(err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountInactive
	}

	now := s.now()
	if user.IsLocked(now) {
		return nil, apperrors.ErrAccountLocked
	}

	if !auth.CheckPasswordHash(req.User.Password, user.PasswordHash) {
		return nil, s.registerFailedAttempt(ctx, db, user, now)
	}

	if user.FailedAttempts > 0 || user.LockedAt != nil {
		err := s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{
			"failed_attempts": 0,
			"locked_at":       nil,
		})
		if err != nil {
			return nil, handleUserError(err)
		}
		user.FailedAttempts, user.LockedAt = 0, nil
	}

	token, _, err := s.tokens.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Admin signed in", "user_id", user.ID)
	return &dto.SignInResponse{User: user, Token: token}, nil
}

// registerFailedAttempt считает неверные пароли и блокирует учетку на MaxFailedAttempts
func (s *SessionServiceImpl) registerFailedAttempt(ctx context.Context, db *gorm.DB, user *models.User, now time.Time) error {
	attempts := user.FailedAttempts + 1
	// блокировка истекла: счетчик начинается заново
	if user.LockedAt != nil {
		attempts = 1
	}

	fields := map[string]interface{}{"failed_attempts": attempts, "locked_at": nil}
	locked := attempts >= models.MaxFailedAttempts
	if locked {
		fields["locked_at"] = now
	}
	if err := s.userRepo.UpdateFields(db, user.ID, fields); err != nil {
		return handleUserError(err)
	}

	if locked {
		logger.CtxWarn(ctx, "Admin account locked", "user_id", user.ID, "attempts", attempts)
		return apperrors.ErrAccountLocked
	}
	return apperrors.ErrInvalidCredentials
}

func (s *SessionServiceImpl) SignOut(ctx context.Context, db *gorm.DB, token string) error {
	claims, err := s.Authenticate(ctx, db, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionExpired) {
			return err
		}
		return apperrors.ErrNoActiveSession
	}

	expiresAt := claims.ExpiresAtTime()
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return apperrors.ErrSessionExpired
	}

	if s.denylist != nil {
		err = s.denylist.SetString(ctx, cache.DenylistKey(claims.ID), "1", ttl)
	} else {
		err = cache.ErrUnavailable
	}
	if err != nil {
		if dbErr := s.denylistRepo.Add(db, claims.ID, expiresAt); dbErr != nil {
			return apperrors.InternalError(dbErr)
		}
	}

	logger.CtxInfo(ctx, "Admin signed out", "user_id", claims.UserID)
	return nil
}

func (s *SessionServiceImpl) Authenticate(ctx context.Context, db *gorm.DB, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperrors.ErrSessionExpired
		}
		return nil, apperrors.ErrUnauthenticated
	}

	revoked, err := s.isRevoked(ctx, db, claims.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if revoked {
		return nil, apperrors.ErrUnauthenticated
	}

	user, err := s.userRepo.FindByID(db, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, apperrors.InternalError(err)
	}
	// деактивированный админ теряет доступ сразу, не дожидаясь истечения токена
	if !user.IsActive {
		return nil, apperrors.ErrUnauthenticated
	}
	return claims, nil
}

// isRevoked: сначала Redis, затем таблица (туда пишется, когда Redis недоступен)
func (s *SessionServiceImpl) isRevoked(ctx context.Context, db *gorm.DB, jti string) (bool, error) {
	if s.denylist != nil {
		revoked, err := s.denylist.Exists(ctx, cache.DenylistKey(jti))
		if err == nil && revoked {
			return true, nil
		}
	}
	return s.denylistRepo.Exists(db, jti)
}
