package services

import (
	"context"
	"fmt"

	"pinkcollar_backend/internal/geocoder"
	"pinkcollar_backend/internal/logger"
	"pinkcollar_backend/internal/models"
	"pinkcollar_backend/internal/repositories"

	"gorm.io/gorm"
)

// CandidateHook - побочный эффект после успешного создания кандидата.
// Ошибка хука логируется и не влияет ни на запись, ни на остальные хуки.
type CandidateHook interface {
	Name() string
	AfterCreate(ctx context.Context, db *gorm.DB, candidate *models.Candidate) error
}

// RunCandidateHooks выполняет хуки по порядку
func RunCandidateHooks(ctx context.Context, db *gorm.DB, hooks []CandidateHook, candidate *models.Candidate) {
	for _, hook := range hooks {
		if err := runHook(ctx, db, hook, candidate); err != nil {
			logger.CtxWithError(ctx, "Candidate hook failed", err,
				"hook", hook.Name(),
				"candidate_id", candidate.ID,
			)
		}
	}
}

func runHook(ctx context.Context, db *gorm.DB, hook CandidateHook, candidate *models.Candidate) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook panicked: %v", r)
		}
	}()
	return hook.AfterCreate(ctx, db, candidate)
}

// --- Геокодирование ---

type GeocodeHook struct {
	geocoder      geocoder.Geocoder
	candidateRepo repositories.CandidateRepository
}

func NewGeocodeHook(g geocoder.Geocoder, candidateRepo repositories.CandidateRepository) *GeocodeHook {
	return &GeocodeHook{geocoder: g, candidateRepo: candidateRepo}
}

func (h *GeocodeHook) Name() string { return "geocode" }

// AfterCreate ищет координаты по городу и штату и сохраняет их у кандидата
func (h *GeocodeHook) AfterCreate(ctx context.Context, db *gorm.DB, candidate *models.Candidate) error {
	point, err := h.geocoder.Lookup(ctx, candidate.City, candidate.State)
	if err != nil {
		return err
	}
	if point == nil {
		logger.CtxInfo(ctx, "City not found by geocoder", "city", candidate.City, "state", candidate.State)
		return nil
	}
	if err := h.candidateRepo.UpdateCoordinates(db, candidate.ID, point.Lat, point.Lng); err != nil {
		return err
	}
	candidate.Latitude = &point.Lat
	candidate.Longitude = &point.Lng
	return nil
}

// --- Письмо-подтверждение ---

type ConfirmationMailHook struct {
	mailer Mailer
}

func NewConfirmationMailHook(mailer Mailer) *ConfirmationMailHook {
	return &ConfirmationMailHook{mailer: mailer}
}

func (h *ConfirmationMailHook) Name() string { return "confirmation_email" }

func (h *ConfirmationMailHook) AfterCreate(ctx context.Context, _ *gorm.DB, candidate *models.Candidate) error {
	to, name, submittedAt := candidate.Email, candidate.FirstName, candidate.CreatedAt
	sendAsync(ctx, "application_confirmation", to, func() error {
		return h.mailer.SendApplicationConfirmation(to, name, submittedAt)
	})
	return nil
}

// --- Сброс кеша дашборда ---

type DashboardCacheHook struct {
	dashboard DashboardInvalidator
}

func NewDashboardCacheHook(dashboard DashboardInvalidator) *DashboardCacheHook {
	return &DashboardCacheHook{dashboard: dashboard}
}

func (h *DashboardCacheHook) Name() string { return "dashboard_cache" }

func (h *DashboardCacheHook) AfterCreate(ctx context.Context, _ *gorm.DB, _ *models.Candidate) error {
	h.dashboard.Invalidate(ctx)
	return nil
}
