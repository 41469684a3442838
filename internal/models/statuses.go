package models

type UserRole string
type InviteStatus string
type InvitationStatus string

const (
	UserRoleAdmin UserRole = "admin"

	// Статус приглашения на стороне учетной записи админа
	InviteStatusPending     InviteStatus = "pending"
	InviteStatusAccepted    InviteStatus = "accepted"
	InviteStatusDeactivated InviteStatus = "deactivated"

	// Статус самого приглашения
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusExpired  InvitationStatus = "expired"
)

// ParseInviteStatus принимает только pending/accepted/deactivated
func ParseInviteStatus(s string) (InviteStatus, bool) {
	switch InviteStatus(s) {
	case InviteStatusPending, InviteStatusAccepted, InviteStatusDeactivated:
		return InviteStatus(s), true
	default:
		return "", false
	}
}
