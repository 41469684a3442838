package repositories

import (
	"strings"
	"testing"
	"time"

	"pinkcollar_backend/internal/analytics"
	"pinkcollar_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// dryRunDB - gorm без подключения: запросы только собираются в SQL
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  "host=localhost user=test dbname=test sslmode=disable",
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)
	return db
}

func candidateSQL(db *gorm.DB, f CandidateFilter) string {
	return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var out []models.Candidate
		return ApplyCandidateSort(ApplyCandidateFilter(tx.Model(&models.Candidate{}), f), f.Sort).Find(&out)
	})
}

func TestApplyCandidateFilter_SearchIsSingleOrGroup(t *testing.T) {
	db := dryRunDB(t)

	sql := candidateSQL(db, CandidateFilter{Search: "ali_50%"})

	// один OR-блок по восьми колонкам, без JOIN и DISTINCT
	assert.Equal(t, 8, strings.Count(sql, "ILIKE"))
	assert.Contains(t, sql, "candidates.current_employer ILIKE")
	assert.Contains(t, sql, `'%ali\_50\%%'`)
	assert.NotContains(t, strings.ToUpper(sql), "DISTINCT")
	assert.NotContains(t, strings.ToUpper(sql), "JOIN")
	assert.Contains(t, sql, "ORDER BY candidates.created_at DESC")
}

func TestApplyCandidateFilter_AllPredicates(t *testing.T) {
	db := dryRunDB(t)
	exp := models.Experience3To5
	fn, ok := models.ParseJobFunction("it")
	require.True(t, ok)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	sql := candidateSQL(db, CandidateFilter{
		Experience:     &exp,
		Function:       &fn,
		ExpectedSalary: "100k",
		CurrentSalary:  "80k",
		CareerPhase:    "Mid",
		Institute:      "lums",
		City:           "lahore",
		Industries:     []string{"textile", " ", "aviation"},
		StartDate:      &start,
		EndDate:        &end,
		Sort:           ParseSort("experience_label desc"),
	})

	assert.Contains(t, sql, "candidates.experience = 2")
	assert.Contains(t, sql, "candidates.function = 7")
	assert.Contains(t, sql, "candidates.expected_salary = '100k'")
	assert.Contains(t, sql, "candidates.current_salary = '80k'")
	assert.Contains(t, sql, "candidates.career_phase = 'Mid'")
	assert.Contains(t, sql, "candidates.institute ILIKE '%lums%'")
	assert.Contains(t, sql, "candidates.city ILIKE '%lahore%'")
	assert.Contains(t, sql, "candidates.industries && '{\"textile\",\"aviation\"}'::text[]")
	assert.Contains(t, sql, "candidates.created_at >=")
	assert.Contains(t, sql, "candidates.created_at <=")
	assert.Contains(t, sql, "ORDER BY CASE candidates.experience WHEN 0 THEN 'Fresh'")
	assert.Contains(t, sql, "END DESC")
	assert.Less(t, strings.Index(sql, "END DESC"), strings.LastIndex(sql, "candidates.created_at DESC"))
}

func TestPresenceQuery_JoinsEverySlot(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []analytics.Presence
		return presenceQuery(tx, CandidateFilter{City: "karachi"}).Find(&rows)
	})

	for _, alias := range []string{"resume_attach", "video_attach", "photo_attach"} {
		assert.Contains(t, sql, "LEFT JOIN attachments "+alias+" ON "+alias+".record_id = candidates.id")
		assert.Contains(t, sql, "COUNT(DISTINCT "+alias+".id)")
	}
	assert.Contains(t, sql, "resume_attach.name = 'resume'")
	assert.Contains(t, sql, "video_attach.name = 'intro_video'")
	assert.Contains(t, sql, "photo_attach.record_type = 'Candidate'")
	assert.Contains(t, sql, "candidates.city ILIKE '%karachi%'")
	assert.Contains(t, sql, `GROUP BY "candidates"."id"`)
}
