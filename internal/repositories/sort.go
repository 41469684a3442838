package repositories

import (
	"strings"

	"pinkcollar_backend/internal/models"
)

// SortKey - поле из белого списка и направление
type SortKey struct {
	Field string
	Desc  bool
}

func (k SortKey) direction() string {
	if k.Desc {
		return "DESC"
	}
	return "ASC"
}

// candidateSortColumns - разрешенные ключи сортировки и их SQL-выражения
var candidateSortColumns = map[string]string{
	"first_name":       "candidates.first_name",
	"last_name":        "candidates.last_name",
	"email":            "candidates.email",
	"contact_number":   "candidates.contact_number",
	"education":        "candidates.education",
	"institute":        "candidates.institute",
	"current_employer": "candidates.current_employer",
	"address":          "candidates.address",
	"city":             "candidates.city",
	"experience":       "candidates.experience",
	"career_phase":     "candidates.career_phase",
	"created_at":       "candidates.created_at",
	"experience_label": models.ExperienceLabelSQL(),
	"education_text":   models.EducationTextSQL(),
}

// ParseSort разбирает "first_name asc" или "city desc, created_at asc".
// Неизвестные поля молча отбрасываются.
func ParseSort(raw string) []SortKey {
	var keys []SortKey
	for _, part := range strings.Split(raw, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		name := strings.ToLower(fields[0])
		if _, ok := candidateSortColumns[name]; !ok {
			continue
		}
		key := SortKey{Field: name}
		if len(fields) > 1 && strings.EqualFold(fields[1], "desc") {
			key.Desc = true
		}
		keys = append(keys, key)
	}
	return keys
}

// SortNames - имена активных сортировок для ответа (current_sort)
func SortNames(keys []SortKey) []string {
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.Field)
	}
	return names
}
