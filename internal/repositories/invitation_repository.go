package repositories

import (
	"errors"
	"time"

	"pinkcollar_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvitationNotFound = errors.New("invitation not found")

type InvitationRepository interface {
	Create(db *gorm.DB, invitation *models.Invitation) error
	FindByToken(db *gorm.DB, token string) (*models.Invitation, error)
	// FindByTokenForUpdate блокирует строку до конца транзакции
	FindByTokenForUpdate(db *gorm.DB, token string) (*models.Invitation, error)
	UpdateStatus(db *gorm.DB, id string, status models.InvitationStatus) error
	DeleteByEmail(db *gorm.DB, email string) error
	DeleteExpiredByEmail(db *gorm.DB, email string) error
	// FindStalePending - pending-приглашения с прошедшим сроком, для фоновой чистки
	FindStalePending(db *gorm.DB, now time.Time, limit int) ([]models.Invitation, error)
}

type InvitationRepositoryImpl struct{}

func NewInvitationRepository() InvitationRepository {
	return &InvitationRepositoryImpl{}
}

func (r *InvitationRepositoryImpl) Create(db *gorm.DB, invitation *models.Invitation) error {
	invitation.Email = normalizeEmail(invitation.Email)
	return db.Create(invitation).Error
}

func (r *InvitationRepositoryImpl) FindByToken(db *gorm.DB, token string) (*models.Invitation, error) {
	return r.findByToken(db, token)
}

func (r *InvitationRepositoryImpl) FindByTokenForUpdate(db *gorm.DB, token string) (*models.Invitation, error) {
	return r.findByToken(db.Clauses(clause.Locking{Strength: "UPDATE"}), token)
}

func (r *InvitationRepositoryImpl) findByToken(db *gorm.DB, token string) (*models.Invitation, error) {
	if token == "" {
		return nil, ErrInvitationNotFound
	}
	var inv models.Invitation
	if err := db.First(&inv, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *InvitationRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.InvitationStatus) error {
	result := db.Model(&models.Invitation{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvitationNotFound
	}
	return nil
}

func (r *InvitationRepositoryImpl) DeleteByEmail(db *gorm.DB, email string) error {
	return db.Where("email = ?", normalizeEmail(email)).Delete(&models.Invitation{}).Error
}

func (r *InvitationRepositoryImpl) DeleteExpiredByEmail(db *gorm.DB, email string) error {
	return db.Where("email = ? AND status = ?", normalizeEmail(email), models.InvitationStatusExpired).
		Delete(&models.Invitation{}).Error
}

func (r *InvitationRepositoryImpl) FindStalePending(db *gorm.DB, now time.Time, limit int) ([]models.Invitation, error) {
	var invitations []models.Invitation
	q := db.Where("status = ? AND expires_at < ?", models.InvitationStatusPending, now).
		Order("expires_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&invitations).Error
	return invitations, err
}
