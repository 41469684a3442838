package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	HealthHandler     *HealthHandler
	CandidateHandler  *CandidateHandler
	DashboardHandler  *DashboardHandler
	InvitationHandler *InvitationHandler
	SessionHandler    *SessionHandler
	FileHandler       *FileHandler
}
