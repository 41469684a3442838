package services

import (
	"pinkcollar_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	CandidateService  CandidateService
	DashboardService  DashboardService
	AdminService      AdminService
	InvitationService InvitationService
	SessionService    SessionService
	PasswordService   PasswordService
	Storage           storage.Storage
}
