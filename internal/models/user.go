package models

import (
	"strings"
	"time"
)

// MaxFailedAttempts - после стольких неверных паролей учетка блокируется
const MaxFailedAttempts = 20

// UnlockAfter - блокировка снимается автоматически по прошествии этого времени
const UnlockAfter = time.Hour

// User - учетная запись сотрудника (админа)
type User struct {
	BaseModel
	Email        string       `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string       `gorm:"not null" json:"-"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Contact      string       `json:"contact"`
	Role         UserRole     `gorm:"type:varchar(20);default:'admin'" json:"role"`
	InviteStatus InviteStatus `gorm:"type:varchar(20);index" json:"invite_status"`
	IsActive     bool         `gorm:"not null;default:true" json:"is_active"`
	// AcceptedAt ставится при регистрации по приглашению и не сбрасывается деактивацией
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`

	ResetPasswordDigest string     `gorm:"index" json:"-"`
	ResetPasswordSentAt *time.Time `json:"-"`
	FailedAttempts      int        `gorm:"not null;default:0" json:"-"`
	LockedAt            *time.Time `json:"-"`
}

// Name - полное имя для писем
func (u *User) Name() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsLocked - учетка заблокирована и время автоснятия еще не наступило
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedAt != nil && now.Before(u.LockedAt.Add(UnlockAfter))
}

// CanActivate - нельзя активировать админа, который еще не принял приглашение,
// даже если его успели деактивировать
func (u *User) CanActivate() bool {
	return u.AcceptedAt != nil
}

// JwtDenylist - отозванные при logout токены (fallback, если Redis выключен)
type JwtDenylist struct {
	ID        uint      `gorm:"primaryKey"`
	Jti       string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}
