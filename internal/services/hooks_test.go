package services

import (
	"context"
	"errors"
	"testing"

	"pinkcollar_backend/internal/geocoder"
	"pinkcollar_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingGeocoder struct {
	city, state string
	point       *geocoder.Point
	err         error
}

func (g *recordingGeocoder) Lookup(_ context.Context, city, state string) (*geocoder.Point, error) {
	g.city, g.state = city, state
	return g.point, g.err
}

type panickingHook struct{}

func (panickingHook) Name() string { return "panicking" }

func (panickingHook) AfterCreate(context.Context, *gorm.DB, *models.Candidate) error {
	panic("boom")
}

func TestGeocodeHook_SendsCityAndState(t *testing.T) {
	// 1. Подготовка
	geo := &recordingGeocoder{point: &geocoder.Point{Lat: 31.52, Lng: 74.35}}
	repo := newFakeCandidateRepo()
	hook := NewGeocodeHook(geo, repo)
	candidate := &models.Candidate{BaseModel: models.BaseModel{ID: "c-1"}, City: "Lahore", State: "Punjab"}

	// 2. Действие
	err := hook.AfterCreate(context.Background(), nil, candidate)

	// 3. Проверка
	require.NoError(t, err)
	assert.Equal(t, "Lahore", geo.city)
	assert.Equal(t, "Punjab", geo.state)
	assert.Equal(t, [2]float64{31.52, 74.35}, repo.coords["c-1"])
	require.NotNil(t, candidate.Latitude)
	assert.Equal(t, 31.52, *candidate.Latitude)
}

func TestGeocodeHook_UnknownCityLeavesCoordinates(t *testing.T) {
	geo := &recordingGeocoder{}
	repo := newFakeCandidateRepo()
	candidate := &models.Candidate{BaseModel: models.BaseModel{ID: "c-2"}, City: "Nowhere"}

	err := NewGeocodeHook(geo, repo).AfterCreate(context.Background(), nil, candidate)

	require.NoError(t, err)
	assert.Empty(t, geo.state)
	assert.Empty(t, repo.coords)
	assert.Nil(t, candidate.Latitude)
}

func TestRunCandidateHooks_FailureDoesNotStopOthers(t *testing.T) {
	// 1. Подготовка
	geo := &recordingGeocoder{err: errors.New("nominatim down")}
	dashboard := &countingInvalidator{}
	hooks := []CandidateHook{
		NewGeocodeHook(geo, newFakeCandidateRepo()),
		panickingHook{},
		NewDashboardCacheHook(dashboard),
	}

	// 2. Действие
	RunCandidateHooks(context.Background(), nil, hooks, &models.Candidate{BaseModel: models.BaseModel{ID: "c-3"}, City: "Karachi"})

	// 3. Проверка
	assert.Equal(t, "Karachi", geo.city)
	assert.Equal(t, 1, dashboard.calls)
}
