package models

import "time"

// Invitation - одноразовое приглашение в админку
type Invitation struct {
	BaseModel
	Email     string           `gorm:"index;not null" json:"email"`
	Token     string           `gorm:"uniqueIndex;not null" json:"token"`
	Status    InvitationStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ExpiresAt time.Time        `gorm:"index;not null" json:"expires_at"`
	InvitedBy *string          `gorm:"type:uuid" json:"invited_by,omitempty"`
}

func (i *Invitation) IsPending() bool {
	return i.Status == InvitationStatusPending
}

// IsExpired - приглашение еще pending, но срок уже прошел (ленивый переход в expired)
func (i *Invitation) IsExpired(now time.Time) bool {
	return i.IsPending() && i.ExpiresAt.Before(now)
}
