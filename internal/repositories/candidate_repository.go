package repositories

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"pinkcollar_backend/internal/analytics"
	"pinkcollar_backend/internal/models"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrCandidateNotFound    = errors.New("candidate not found")
	ErrCandidateEmailExists = errors.New("candidate email already exists")
)

type CandidateRepository interface {
	Create(db *gorm.DB, candidate *models.Candidate) error
	FindByID(db *gorm.DB, id string) (*models.Candidate, error)
	ExistsByEmail(db *gorm.DB, email string) (bool, error)
	Delete(db *gorm.DB, id string) error
	UpdateCoordinates(db *gorm.DB, id string, lat, lng float64) error

	// List - страница с фильтром и сортировкой; за последней страницей пусто
	List(db *gorm.DB, filter CandidateFilter, page PageRequest) ([]models.Candidate, PageMeta, error)
	// ListAll - весь отфильтрованный набор для экспорта
	ListAll(db *gorm.DB, filter CandidateFilter) ([]models.Candidate, error)

	// Статистика для дашборда
	Count(db *gorm.DB, filter CandidateFilter) (int64, error)
	BirthYearCounts(db *gorm.DB, filter CandidateFilter) ([]analytics.YearCount, error)
	Facets(db *gorm.DB, filter CandidateFilter) ([]analytics.Facet, error)
	CityGroups(db *gorm.DB, filter CandidateFilter) ([]analytics.CityGroup, error)
	MinCreatedAt(db *gorm.DB) (*time.Time, error)
}

type CandidateRepositoryImpl struct{}

func NewCandidateRepository() CandidateRepository {
	return &CandidateRepositoryImpl{}
}

func (r *CandidateRepositoryImpl) scope(db *gorm.DB, filter CandidateFilter) *gorm.DB {
	return ApplyCandidateFilter(db.Model(&models.Candidate{}), filter)
}

func (r *CandidateRepositoryImpl) Create(db *gorm.DB, candidate *models.Candidate) error {
	if err := db.Omit("Attachments").Create(candidate).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrCandidateEmailExists
		}
		return err
	}
	return nil
}

func (r *CandidateRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Candidate, error) {
	if !validID(id) {
		return nil, ErrCandidateNotFound
	}
	var c models.Candidate
	err := db.Preload("Attachments").First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CandidateRepositoryImpl) ExistsByEmail(db *gorm.DB, email string) (bool, error) {
	var count int64
	err := db.Model(&models.Candidate{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

func (r *CandidateRepositoryImpl) Delete(db *gorm.DB, id string) error {
	if !validID(id) {
		return ErrCandidateNotFound
	}
	result := db.Delete(&models.Candidate{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCandidateNotFound
	}
	return nil
}

func (r *CandidateRepositoryImpl) UpdateCoordinates(db *gorm.DB, id string, lat, lng float64) error {
	return db.Model(&models.Candidate{}).Where("id = ?", id).
		Updates(map[string]interface{}{"latitude": lat, "longitude": lng}).Error
}

func (r *CandidateRepositoryImpl) List(db *gorm.DB, filter CandidateFilter, page PageRequest) ([]models.Candidate, PageMeta, error) {
	page = page.normalized()

	var total int64
	if err := r.scope(db, filter).Count(&total).Error; err != nil {
		return nil, PageMeta{}, err
	}

	current, offset := ResolvePage(total, page, OverflowEmptyPage)

	candidates := make([]models.Candidate, 0, page.Limit)
	if int64(offset) < total {
		err := ApplyCandidateSort(r.scope(db, filter), filter.Sort).
			Limit(page.Limit).Offset(offset).
			Find(&candidates).Error
		if err != nil {
			return nil, PageMeta{}, err
		}
	}

	return candidates, NewPageMeta(total, current, page.Limit, len(candidates)), nil
}

func (r *CandidateRepositoryImpl) ListAll(db *gorm.DB, filter CandidateFilter) ([]models.Candidate, error) {
	var candidates []models.Candidate
	err := ApplyCandidateSort(r.scope(db, filter), filter.Sort).Find(&candidates).Error
	return candidates, err
}

// Stats

func (r *CandidateRepositoryImpl) Count(db *gorm.DB, filter CandidateFilter) (int64, error) {
	var total int64
	err := r.scope(db, filter).Count(&total).Error
	return total, err
}

func (r *CandidateRepositoryImpl) BirthYearCounts(db *gorm.DB, filter CandidateFilter) ([]analytics.YearCount, error) {
	var rows []analytics.YearCount
	err := r.scope(db, filter).
		Select("CAST(EXTRACT(YEAR FROM candidates.dob) AS INTEGER) AS year, COUNT(*) AS count").
		Group("year").
		Scan(&rows).Error
	return rows, err
}

func (r *CandidateRepositoryImpl) Facets(db *gorm.DB, filter CandidateFilter) ([]analytics.Facet, error) {
	var rows []struct {
		Function   *models.JobFunction
		Industries pq.StringArray
	}
	err := r.scope(db, filter).
		Select("candidates.function, candidates.industries").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	facets := make([]analytics.Facet, 0, len(rows))
	for _, row := range rows {
		f := analytics.Facet{Industries: row.Industries}
		if row.Function != nil {
			f.Function = row.Function.String()
		}
		facets = append(facets, f)
	}
	return facets, nil
}

func (r *CandidateRepositoryImpl) CityGroups(db *gorm.DB, filter CandidateFilter) ([]analytics.CityGroup, error) {
	var rows []analytics.CityGroup
	err := r.scope(db, filter).
		Select("candidates.city AS city, candidates.latitude AS latitude, candidates.longitude AS longitude, COUNT(*) AS count").
		Group("candidates.city, candidates.latitude, candidates.longitude").
		Order("count DESC, city ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *CandidateRepositoryImpl) MinCreatedAt(db *gorm.DB) (*time.Time, error) {
	var min sql.NullTime
	err := db.Model(&models.Candidate{}).Select("MIN(candidates.created_at)").Scan(&min).Error
	if err != nil || !min.Valid {
		return nil, err
	}
	return &min.Time, nil
}

// isUniqueViolation - SQLSTATE 23505 от Postgres (через pgx или lib/pq)
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") || strings.Contains(msg, "duplicate key value")
}
