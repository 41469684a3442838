package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"pinkcollar_backend/internal/auth"
	"pinkcollar_backend/internal/logger"
	"pinkcollar_backend/internal/models"
	"pinkcollar_backend/internal/repositories"
	"pinkcollar_backend/internal/services/dto"
	"pinkcollar_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	// DefaultInvitationTTL - срок действия приглашения
	DefaultInvitationTTL = 24 * time.Hour

	invitationTokenBytes = 16
	tempPasswordBytes    = 8
)

type InvitationService interface {
	Create(ctx context.Context, db *gorm.DB, inviterID string, req *dto.CreateInvitationRequest) (*models.Invitation, error)
	// Accept возвращает адрес фронтенда, куда нужно перенаправить
	Accept(ctx context.Context, db *gorm.DB, token string) (string, error)
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterInvitedUserRequest) (*models.User, error)
	// ExpireStale - фоновый проход по просроченным pending-приглашениям
	ExpireStale(ctx context.Context, db *gorm.DB, limit int) (int, error)
}

type InvitationConfig struct {
	TTL               time.Duration
	AcceptRedirectURL string
}

type InvitationServiceImpl struct {
	userRepo       repositories.UserRepository
	invitationRepo repositories.InvitationRepository
	mailer         Mailer
	config         InvitationConfig
	now            func() time.Time
}

func NewInvitationService(
	userRepo repositories.UserRepository,
	invitationRepo repositories.InvitationRepository,
	mailer Mailer,
	config InvitationConfig,
) *InvitationServiceImpl {
	if config.TTL <= 0 {
		config.TTL = DefaultInvitationTTL
	}
	config.AcceptRedirectURL = strings.TrimRight(config.AcceptRedirectURL, "/")
	return &InvitationServiceImpl{
		userRepo:       userRepo,
		invitationRepo: invitationRepo,
		mailer:         mailer,
		config:         config,
		now:            time.Now,
	}
}

// Create заводит учетку-заглушку с временным паролем и приглашение в одной транзакции
func (s *InvitationServiceImpl) Create(ctx context.Context, db *gorm.DB, inviterID string, req *dto.CreateInvitationRequest) (*models.Invitation, error) {
	if req.Invitation == nil {
		return nil, missingParam("invitation")
	}
	email := strings.ToLower(strings.TrimSpace(req.Invitation.Email))

	exists, err := s.userRepo.ExistsByEmail(db, email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrAdminEmailTaken
	}

	tempPassword, err := auth.RandomHex(tempPasswordBytes)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	hash, err := auth.HashPassword(tempPassword)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	token, err := auth.RandomHex(invitationTokenBytes)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	invitation := &models.Invitation{
		Email:     email,
		Token:     token,
		Status:    models.InvitationStatusPending,
		ExpiresAt: s.now().Add(s.config.TTL),
	}
	if inviterID != "" {
		invitation.InvitedBy = &inviterID
	}

	err = inTransaction(db, func(tx *gorm.DB) error {
		user := &models.User{
			Email:        email,
			PasswordHash: hash,
			Role:         models.UserRoleAdmin,
			InviteStatus: models.InviteStatusPending,
			IsActive:     true,
		}
		if err := s.userRepo.Create(tx, user); err != nil {
			if errors.Is(err, repositories.ErrUserAlreadyExists) {
				return apperrors.ErrAdminEmailTaken
			}
			return err
		}
		// Старое истекшее приглашение не мешает пригласить повторно
		if err := s.invitationRepo.DeleteExpiredByEmail(tx, email); err != nil {
			return err
		}
		return s.invitationRepo.Create(tx, invitation)
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Invitation created", "email", email, "invitation_id", invitation.ID)

	expiresAt := invitation.ExpiresAt
	sendAsync(ctx, "invitation", email, func() error {
		return s.mailer.SendInvitation(email, token, expiresAt)
	})
	return invitation, nil
}

func (s *InvitationServiceImpl) Accept(ctx context.Context, db *gorm.DB, token string) (string, error) {
	invitation, err := s.findValid(ctx, db, token)
	if err != nil {
		return "", err
	}
	return s.config.AcceptRedirectURL + "/" + invitation.Token, nil
}

// Register задает пароль и профиль, переводит приглашение и админа в accepted
func (s *InvitationServiceImpl) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterInvitedUserRequest) (*models.User, error) {
	if req.User == nil {
		return nil, missingParam("user")
	}
	if _, err := s.findValid(ctx, db, req.Token); err != nil {
		return nil, err
	}

	fields := req.User
	if msgs := passwordErrors(fields.Password, fields.PasswordConfirmation); len(msgs) > 0 {
		return nil, apperrors.NewDomainError("invitation", msgs[0])
	}
	hash, err := auth.HashPassword(fields.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	var userID string
	err = inTransaction(db, func(tx *gorm.DB) error {
		// Повторная проверка под блокировкой: токен одноразовый
		invitation, err := s.invitationRepo.FindByTokenForUpdate(tx, req.Token)
		if err != nil {
			return handleInvitationError(err)
		}
		if !invitation.IsPending() || invitation.IsExpired(s.now()) {
			return apperrors.ErrInvitationInvalid
		}

		user, err := s.userRepo.FindByEmail(tx, invitation.Email)
		if err != nil {
			return handleUserError(err)
		}
		userID = user.ID

		err = s.userRepo.UpdateFields(tx, user.ID, map[string]interface{}{
			"password_hash": hash,
			"first_name":    strings.TrimSpace(fields.FirstName),
			"last_name":     strings.TrimSpace(fields.LastName),
			"contact":       strings.TrimSpace(fields.Contact),
			"invite_status": models.InviteStatusAccepted,
			"accepted_at":   s.now(),
		})
		if err != nil {
			return handleUserError(err)
		}
		if err := s.invitationRepo.UpdateStatus(tx, invitation.ID, models.InvitationStatusAccepted); err != nil {
			return handleInvitationError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Invited admin registered", "user_id", userID)

	registered, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}
	return registered, nil
}

func (s *InvitationServiceImpl) ExpireStale(ctx context.Context, db *gorm.DB, limit int) (int, error) {
	stale, err := s.invitationRepo.FindStalePending(db, s.now(), limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		inv, err := s.checkExpiration(ctx, db, &stale[i])
		if err != nil {
			logger.CtxWithError(ctx, "Failed to expire invitation", err, "invitation_id", stale[i].ID)
			continue
		}
		if inv.Status == models.InvitationStatusExpired {
			expired++
		}
	}
	return expired, nil
}

// findValid - приглашение по токену после ленивой проверки срока, только pending
func (s *InvitationServiceImpl) findValid(ctx context.Context, db *gorm.DB, token string) (*models.Invitation, error) {
	invitation, err := s.invitationRepo.FindByToken(db, token)
	if err != nil {
		return nil, handleInvitationError(err)
	}
	invitation, err = s.checkExpiration(ctx, db, invitation)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !invitation.IsPending() {
		return nil, apperrors.ErrInvitationInvalid
	}
	return invitation, nil
}

// checkExpiration: pending с прошедшим сроком -> удалить заглушку админа и пометить expired.
// Строка блокируется, поэтому переход выполняется ровно один раз.
func (s *InvitationServiceImpl) checkExpiration(ctx context.Context, db *gorm.DB, invitation *models.Invitation) (*models.Invitation, error) {
	now := s.now()
	if !invitation.IsExpired(now) {
		return invitation, nil
	}

	var (
		locked  *models.Invitation
		removed int64
	)
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if locked, err = s.invitationRepo.FindByTokenForUpdate(tx, invitation.Token); err != nil {
			return err
		}
		// Параллельный запрос уже перевел приглашение
		if !locked.IsExpired(now) {
			return nil
		}
		if removed, err = s.userRepo.DeletePendingByEmail(tx, locked.Email); err != nil {
			return err
		}
		return s.invitationRepo.UpdateStatus(tx, locked.ID, models.InvitationStatusExpired)
	})
	if err != nil {
		return nil, err
	}
	if !locked.IsExpired(now) {
		return locked, nil
	}

	locked.Status = models.InvitationStatusExpired
	logger.CtxInfo(ctx, "Invitation expired", "invitation_id", locked.ID, "placeholder_removed", removed)
	return locked, nil
}

func handleInvitationError(err error) error {
	if errors.Is(err, repositories.ErrInvitationNotFound) {
		return apperrors.ErrNotFound("Invitation")
	}
	return apperrors.InternalError(err)
}
