package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pinkcollar_backend/internal/auth"
	"pinkcollar_backend/internal/logger"
	"pinkcollar_backend/internal/repositories"
	"pinkcollar_backend/internal/services/dto"
	"pinkcollar_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ResetPasswordWithin - срок жизни ссылки сброса пароля
const ResetPasswordWithin = 6 * time.Hour

const resetTokenBytes = 20

type PasswordService interface {
	RequestReset(ctx context.Context, db *gorm.DB, req *dto.PasswordResetRequest) (*dto.PasswordResetResponse, error)
	Reset(ctx context.Context, db *gorm.DB, req *dto.PasswordUpdateRequest) error
}

type PasswordServiceImpl struct {
	userRepo repositories.UserRepository
	mailer   Mailer
	now      func() time.Time
}

func NewPasswordService(userRepo repositories.UserRepository, mailer Mailer) *PasswordServiceImpl {
	return &PasswordServiceImpl{userRepo: userRepo, mailer: mailer, now: time.Now}
}

// ResetSentMessage - ответ на запрос ссылки сброса
func ResetSentMessage(email string) string {
	return fmt.Sprintf("We have sent an email to %s with a link to reset your password.", email)
}

func (s *PasswordServiceImpl) RequestReset(ctx context.Context, db *gorm.DB, req *dto.PasswordResetRequest) (*dto.PasswordResetResponse, error) {
	if req.User == nil {
		return nil, missingParam("user")
	}
	email := strings.TrimSpace(req.User.Email)
	if email == "" {
		return nil, apperrors.ValidationFailed("Email can't be blank")
	}

	user, err := s.userRepo.FindByEmail(db, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrEmailNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	token, err := auth.RandomHex(resetTokenBytes)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	err = s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{
		"reset_password_digest":  auth.DigestToken(token),
		"reset_password_sent_at": s.now(),
	})
	if err != nil {
		return nil, handleUserError(err)
	}

	name := user.Name()
	sendAsync(ctx, "reset_password", user.Email, func() error {
		return s.mailer.SendResetPassword(user.Email, name, token)
	})

	return &dto.PasswordResetResponse{Email: user.Email}, nil
}

func (s *PasswordServiceImpl) Reset(ctx context.Context, db *gorm.DB, req *dto.PasswordUpdateRequest) error {
	if req.User == nil {
		return missingParam("user")
	}
	token := strings.TrimSpace(req.User.ResetPasswordToken)
	if token == "" {
		return apperrors.NewDomainError("auth", "Reset password token can't be blank")
	}

	user, err := s.userRepo.FindByResetDigest(db, auth.DigestToken(token))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrResetTokenInvalid
		}
		return apperrors.InternalError(err)
	}
	if user.ResetPasswordSentAt == nil || s.now().After(user.ResetPasswordSentAt.Add(ResetPasswordWithin)) {
		return apperrors.ErrResetTokenExpired
	}

	if msgs := passwordErrors(req.User.Password, req.User.PasswordConfirmation); len(msgs) > 0 {
		return apperrors.NewDomainError("auth", msgs[0])
	}

	hash, err := auth.HashPassword(req.User.Password)
	if err != nil {
		return apperrors.InternalError(err)
	}

	err = s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{
		"password_hash":          hash,
		"reset_password_digest":  "",
		"reset_password_sent_at": nil,
		"failed_attempts":        0,
		"locked_at":              nil,
	})
	if err != nil {
		return handleUserError(err)
	}

	logger.CtxInfo(ctx, "Password reset", "user_id", user.ID)
	return nil
}
