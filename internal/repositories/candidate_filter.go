package repositories

import (
	"database/sql"
	"strings"
	"time"

	"pinkcollar_backend/internal/models"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// CandidateFilter - явная спецификация фильтра кандидатов. Одна и та же
// спецификация используется списком, экспортом и дашбордом.
type CandidateFilter struct {
	// Search - подстрока без учета регистра по текстовым полям
	Search string

	Experience     *models.Experience
	Function       *models.JobFunction
	ExpectedSalary string
	CurrentSalary  string
	CareerPhase    string

	// Institute, City - ILIKE по подстроке
	Institute string
	City      string

	// Industries - пересечение массивов (хотя бы одна общая индустрия)
	Industries []string

	// StartDate, EndDate - включительный диапазон created_at
	StartDate *time.Time
	EndDate   *time.Time

	Sort []SortKey
}

// searchColumns - поля свободного поиска. Все в одной таблице, поэтому
// OR-условие не размножает строки и DISTINCT не нужен.
var searchColumns = []string{
	"candidates.first_name",
	"candidates.last_name",
	"candidates.contact_number",
	"candidates.email",
	"candidates.address",
	"candidates.city",
	"candidates.institute",
	"candidates.current_employer",
}

// ApplyCandidateFilter добавляет к запросу все WHERE-условия фильтра (без ORDER BY)
func ApplyCandidateFilter(db *gorm.DB, f CandidateFilter) *gorm.DB {
	q := db

	if term := strings.TrimSpace(f.Search); term != "" {
		conds := make([]string, len(searchColumns))
		for i, col := range searchColumns {
			conds[i] = col + " ILIKE @term"
		}
		q = q.Where("("+strings.Join(conds, " OR ")+")", sql.Named("term", likePattern(term)))
	}

	if f.Experience != nil {
		q = q.Where("candidates.experience = ?", int(*f.Experience))
	}
	if f.Function != nil {
		q = q.Where("candidates.function = ?", int(*f.Function))
	}
	if f.ExpectedSalary != "" {
		q = q.Where("candidates.expected_salary = ?", f.ExpectedSalary)
	}
	if f.CurrentSalary != "" {
		q = q.Where("candidates.current_salary = ?", f.CurrentSalary)
	}
	if f.CareerPhase != "" {
		q = q.Where("candidates.career_phase = ?", f.CareerPhase)
	}

	if v := strings.TrimSpace(f.Institute); v != "" {
		q = q.Where("candidates.institute ILIKE ?", likePattern(v))
	}
	if v := strings.TrimSpace(f.City); v != "" {
		q = q.Where("candidates.city ILIKE ?", likePattern(v))
	}

	if inds := compact(f.Industries); len(inds) > 0 {
		q = q.Where("candidates.industries && ?::text[]", pq.StringArray(inds))
	}

	if f.StartDate != nil {
		q = q.Where("candidates.created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("candidates.created_at <= ?", *f.EndDate)
	}

	return q
}

// ApplyCandidateSort - сначала явная сортировка, затем всегда новые сверху
func ApplyCandidateSort(db *gorm.DB, keys []SortKey) *gorm.DB {
	q := db
	for _, k := range keys {
		if expr, ok := candidateSortColumns[k.Field]; ok {
			q = q.Order(expr + " " + k.direction())
		}
	}
	return q.Order("candidates.created_at DESC")
}

// likePattern экранирует спецсимволы LIKE и оборачивает в %...%
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
