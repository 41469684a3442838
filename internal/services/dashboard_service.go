package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"pinkcollar_backend/internal/analytics"
	"pinkcollar_backend/internal/cache"
	"pinkcollar_backend/internal/logger"
	"pinkcollar_backend/internal/models"
	"pinkcollar_backend/internal/repositories"
	"pinkcollar_backend/internal/services/dto"
	"pinkcollar_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// previousPeriodYears - глубина прошлого периода, если кандидатов еще нет
const previousPeriodYears = 10

type DashboardService interface {
	Summary(ctx context.Context, db *gorm.DB, req *dto.DashboardRequest) (*analytics.Summary, error)
}

// DashboardInvalidator сбрасывает закешированные сводки
type DashboardInvalidator interface {
	Invalidate(ctx context.Context)
}

type DashboardServiceImpl struct {
	candidateRepo  repositories.CandidateRepository
	attachmentRepo repositories.AttachmentRepository
	cache          JSONCache
	cacheTTL       time.Duration
	now            func() time.Time
}

func NewDashboardService(
	candidateRepo repositories.CandidateRepository,
	attachmentRepo repositories.AttachmentRepository,
	cache JSONCache,
	cacheTTL time.Duration,
) *DashboardServiceImpl {
	return &DashboardServiceImpl{
		candidateRepo:  candidateRepo,
		attachmentRepo: attachmentRepo,
		cache:          cache,
		cacheTTL:       cacheTTL,
		now:            time.Now,
	}
}

// dashboardQuery - нормализованный фильтр, он же вход ключа кеша
type dashboardQuery struct {
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	Function   string     `json:"function"`
	Industries []string   `json:"industries"`
}

func (s *DashboardServiceImpl) Summary(ctx context.Context, db *gorm.DB, req *dto.DashboardRequest) (*analytics.Summary, error) {
	q, err := s.normalize(req)
	if err != nil {
		return nil, err
	}

	key := cache.HashKey(cache.DashboardPrefix, q)
	if s.cache != nil && s.cacheTTL > 0 {
		var cached analytics.Summary
		if ok, _ := s.cache.GetJSON(ctx, key, &cached); ok {
			logger.CtxDebug(ctx, "Dashboard served from cache", "key", key)
			return &cached, nil
		}
	}

	in, err := s.buildInput(db, q)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	summary := analytics.BuildSummary(*in)

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.SetJSON(ctx, key, summary, s.cacheTTL); err != nil {
			logger.CtxWarn(ctx, "Failed to cache dashboard summary", "error", err)
		}
	}
	return &summary, nil
}

// Invalidate удаляет все сводки: любая новая анкета меняет цифры
func (s *DashboardServiceImpl) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, cache.DashboardPrefix+"*"); err != nil {
		logger.CtxWarn(ctx, "Failed to invalidate dashboard cache", "error", err)
	}
}

func (s *DashboardServiceImpl) normalize(req *dto.DashboardRequest) (dashboardQuery, error) {
	var q dashboardQuery

	// Диапазон учитывается только целиком
	if strings.TrimSpace(req.StartDate) != "" && strings.TrimSpace(req.EndDate) != "" {
		start, err := parseStartDate(req.StartDate)
		if err != nil {
			return q, err
		}
		end, err := parseEndDate(req.EndDate)
		if err != nil {
			return q, err
		}
		q.StartDate, q.EndDate = start, end
	}

	if fn := strings.TrimSpace(req.Function); fn != "" {
		parsed, ok := models.ParseJobFunction(fn)
		if !ok {
			return q, apperrors.ValidationFailed("Function is not included in the list")
		}
		q.Function = parsed.String()
	}

	for _, ind := range req.Industries {
		if ind = cache.NormalizeValue(ind); ind != "" {
			q.Industries = append(q.Industries, ind)
		}
	}
	sort.Strings(q.Industries)
	return q, nil
}

func (q dashboardQuery) filter() repositories.CandidateFilter {
	f := repositories.CandidateFilter{
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		Industries: q.Industries,
	}
	if fn, ok := models.ParseJobFunction(q.Function); ok {
		f.Function = &fn
	}
	return f
}

func (q dashboardQuery) hasRange() bool {
	return q.StartDate != nil && q.EndDate != nil
}

// buildInput - все запросы к БД за один проход, дальше только чистые функции
func (s *DashboardServiceImpl) buildInput(db *gorm.DB, q dashboardQuery) (*analytics.Input, error) {
	filter := q.filter()

	current, err := s.periodCounts(db, filter)
	if err != nil {
		return nil, err
	}

	in := &analytics.Input{
		Current:   current,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
	}

	if in.BirthYears, err = s.candidateRepo.BirthYearCounts(db, filter); err != nil {
		return nil, err
	}
	if in.Facets, err = s.candidateRepo.Facets(db, filter); err != nil {
		return nil, err
	}
	if in.Cities, err = s.candidateRepo.CityGroups(db, filter); err != nil {
		return nil, err
	}

	if q.hasRange() {
		prevFilter, err := s.previousPeriod(db, *q.StartDate)
		if err != nil {
			return nil, err
		}
		prev, err := s.periodCounts(db, prevFilter)
		if err != nil {
			return nil, err
		}
		in.Previous = &prev
	}
	return in, nil
}

func (s *DashboardServiceImpl) periodCounts(db *gorm.DB, filter repositories.CandidateFilter) (analytics.Counts, error) {
	total, err := s.candidateRepo.Count(db, filter)
	if err != nil {
		return analytics.Counts{}, err
	}
	rows, err := s.attachmentRepo.Presence(db, filter)
	if err != nil {
		return analytics.Counts{}, err
	}
	return analytics.CountPresence(int(total), rows), nil
}

// previousPeriod - от первой анкеты (или 10 лет назад) до конца дня перед start.
// Фильтры по функции и индустриям к прошлому периоду не применяются.
func (s *DashboardServiceImpl) previousPeriod(db *gorm.DB, start time.Time) (repositories.CandidateFilter, error) {
	first, err := s.candidateRepo.MinCreatedAt(db)
	if err != nil {
		return repositories.CandidateFilter{}, err
	}

	var from time.Time
	if first != nil {
		from = beginningOfDay(*first)
	} else {
		from = beginningOfDay(s.now().AddDate(-previousPeriodYears, 0, 0))
	}
	to := endOfDay(start.AddDate(0, 0, -1))

	return repositories.CandidateFilter{StartDate: &from, EndDate: &to}, nil
}
