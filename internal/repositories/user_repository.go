package repositories

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"pinkcollar_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByResetDigest(db *gorm.DB, digest string) (*models.User, error)
	ExistsByEmail(db *gorm.DB, email string) (bool, error)
	Create(db *gorm.DB, user *models.User) error
	// UpdateFields - частичное обновление, ключи - имена колонок
	UpdateFields(db *gorm.DB, id string, fields map[string]interface{}) error
	Delete(db *gorm.DB, id string) error
	// DeletePendingByEmail удаляет учетку-заглушку, только пока приглашение не принято
	DeletePendingByEmail(db *gorm.DB, email string) (int64, error)

	// Админы для дашборда; за последней страницей отдается последняя
	ListAdmins(db *gorm.DB, filter AdminFilter, page PageRequest) ([]models.User, PageMeta, error)
	ListAllAdmins(db *gorm.DB, filter AdminFilter) ([]models.User, error)
}

type AdminFilter struct {
	ExcludeID    string
	InviteStatus *models.InviteStatus
	Search       string
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	if !validID(id) {
		return nil, ErrUserNotFound
	}
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "email = ?", normalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByResetDigest(db *gorm.DB, digest string) (*models.User, error) {
	if digest == "" {
		return nil, ErrUserNotFound
	}
	var user models.User
	if err := db.First(&user, "reset_password_digest = ?", digest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) ExistsByEmail(db *gorm.DB, email string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).Where("email = ?", normalizeEmail(email)).Count(&count).Error
	return count > 0, err
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	if err := db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateFields(db *gorm.DB, id string, fields map[string]interface{}) error {
	if !validID(id) {
		return ErrUserNotFound
	}
	fields["updated_at"] = time.Now()
	result := db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) Delete(db *gorm.DB, id string) error {
	if !validID(id) {
		return ErrUserNotFound
	}
	result := db.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) DeletePendingByEmail(db *gorm.DB, email string) (int64, error) {
	result := db.Where("email = ? AND accepted_at IS NULL", normalizeEmail(email)).
		Delete(&models.User{})
	return result.RowsAffected, result.Error
}

func (r *UserRepositoryImpl) adminScope(db *gorm.DB, filter AdminFilter) *gorm.DB {
	q := db.Model(&models.User{})
	if filter.ExcludeID != "" {
		q = q.Where("users.id <> ?", filter.ExcludeID)
	}
	if filter.InviteStatus != nil {
		q = q.Where("users.invite_status = ?", *filter.InviteStatus)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		q = q.Where(
			"(users.first_name ILIKE @term OR users.last_name ILIKE @term OR users.contact ILIKE @term OR users.email ILIKE @term)",
			sql.Named("term", likePattern(term)),
		)
	}
	return q
}

func (r *UserRepositoryImpl) ListAdmins(db *gorm.DB, filter AdminFilter, page PageRequest) ([]models.User, PageMeta, error) {
	page = page.normalized()

	var total int64
	if err := r.adminScope(db, filter).Count(&total).Error; err != nil {
		return nil, PageMeta{}, err
	}

	current, offset := ResolvePage(total, page, OverflowLastPage)

	users := make([]models.User, 0, page.Limit)
	err := r.adminScope(db, filter).
		Order("users.created_at DESC").
		Limit(page.Limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, PageMeta{}, err
	}

	return users, NewPageMeta(total, current, page.Limit, len(users)), nil
}

func (r *UserRepositoryImpl) ListAllAdmins(db *gorm.DB, filter AdminFilter) ([]models.User, error) {
	var users []models.User
	err := r.adminScope(db, filter).Order("users.created_at DESC").Find(&users).Error
	return users, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
