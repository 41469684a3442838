package repositories

import (
	"time"

	"pinkcollar_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DenylistRepository - отозванные jti в БД, когда Redis недоступен
type DenylistRepository interface {
	Add(db *gorm.DB, jti string, expiresAt time.Time) error
	Exists(db *gorm.DB, jti string) (bool, error)
	PurgeExpired(db *gorm.DB, now time.Time) (int64, error)
}

type DenylistRepositoryImpl struct{}

func NewDenylistRepository() DenylistRepository {
	return &DenylistRepositoryImpl{}
}

func (r *DenylistRepositoryImpl) Add(db *gorm.DB, jti string, expiresAt time.Time) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.JwtDenylist{Jti: jti, ExpiresAt: expiresAt}).Error
}

func (r *DenylistRepositoryImpl) Exists(db *gorm.DB, jti string) (bool, error) {
	var count int64
	err := db.Model(&models.JwtDenylist{}).Where("jti = ?", jti).Count(&count).Error
	return count > 0, err
}

func (r *DenylistRepositoryImpl) PurgeExpired(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at < ?", now).Delete(&models.JwtDenylist{})
	return result.RowsAffected, result.Error
}
