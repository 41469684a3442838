package services

import (
	"context"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"
	"time"

	"pinkcollar_backend/internal/models"
	"pinkcollar_backend/internal/services/dto"
	"pinkcollar_backend/internal/validator"
	"pinkcollar_backend/pkg/apperrors"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCandidateFixture(deliverable bool) (CandidateService, *fakeCandidateRepo) {
	repo := newFakeCandidateRepo()
	svc := NewCandidateService(
		repo,
		&fakeAttachmentRepo{},
		nil,
		validator.New(),
		fakeVerifier(deliverable),
		UploadConfig{
			MaxSize:      1024,
			MaxVideoSize: 4096,
			AllowedTypes: map[string][]string{"photo": {"image/jpeg", "image/png"}},
		},
		nil,
	)
	return svc, repo
}

func validCandidateRequest() *dto.CreateCandidateRequest {
	return &dto.CreateCandidateRequest{
		FirstName:     "Ayesha",
		LastName:      "Khan",
		Email:         "ayesha@example.com",
		ContactNumber: "+923001234567",
		Dob:           "1996-04-12",
		Education:     "bachelors_degree",
		Experience:    "3-5 Years",
		CareerPhase:   "mid_career",
		Institute:     "LUMS",
		Address:       "12 Main Boulevard",
		City:          "Lahore",
		State:         "Punjab",
		Industries:    []string{"information_technology"},
	}
}

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: name,
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": {contentType}},
	}
}

func validFiles() dto.CandidateFiles {
	return dto.CandidateFiles{
		models.SlotResume: fileHeader("cv.pdf", "application/pdf", 100),
		models.SlotPhoto:  fileHeader("me.jpg", "image/jpeg", 100),
	}
}

func assertValidation(t *testing.T, err error, message string) {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPCode)
	assert.Equal(t, message, appErr.Message)
}

func TestCreateCandidate_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *dto.CreateCandidateRequest, files dto.CandidateFiles)
		message string
	}{
		{
			name: "presence comes first",
			mutate: func(req *dto.CreateCandidateRequest, files dto.CandidateFiles) {
				*req = dto.CreateCandidateRequest{}
				delete(files, models.SlotPhoto)
			},
			message: "First name can't be blank",
		},
		{
			name: "invalid email format",
			mutate: func(req *dto.CreateCandidateRequest, _ dto.CandidateFiles) {
				req.Email = "not-an-email"
			},
			message: "Email is invalid",
		},
		{
			name: "fresh graduate needs expected salary",
			mutate: func(req *dto.CreateCandidateRequest, _ dto.CandidateFiles) {
				req.Experience = "fresh"
			},
			message: "Expected salary can't be blank",
		},
		{
			name: "fresh graduate needs function",
			mutate: func(req *dto.CreateCandidateRequest, _ dto.CandidateFiles) {
				req.Experience = "Fresh"
				req.ExpectedSalary = "80000"
			},
			message: "Function can't be blank",
		},
		{
			name: "employed candidate needs current salary",
			mutate: func(req *dto.CreateCandidateRequest, _ dto.CandidateFiles) {
				req.CurrentlyEmployed = true
				req.CurrentEmployer = "Acme"
			},
			message: "Current salary can't be blank",
		},
		{
			name: "photo is required",
			mutate: func(_ *dto.CreateCandidateRequest, files dto.CandidateFiles) {
				delete(files, models.SlotPhoto)
			},
			message: "Photo can't be blank",
		},
		{
			name: "one resume only",
			mutate: func(_ *dto.CreateCandidateRequest, files dto.CandidateFiles) {
				files[models.SlotResumeImage] = fileHeader("cv.jpg", "image/jpeg", 100)
			},
			message: "Cannot attach both resume and captured resume. Please provide only one.",
		},
		{
			name: "some resume is required",
			mutate: func(_ *dto.CreateCandidateRequest, files dto.CandidateFiles) {
				delete(files, models.SlotResume)
			},
			message: "Either resume or captured resume must be attached.",
		},
		{
			name: "unknown experience",
			mutate: func(req *dto.CreateCandidateRequest, _ dto.CandidateFiles) {
				req.Experience = "forever"
			},
			message: "Experience is not included in the list",
		},
		{
			name: "unknown industry",
			mutate: func(req *dto.CreateCandidateRequest, _ dto.CandidateFiles) {
				req.Industries = []string{"space_tourism"}
			},
			message: "Industries space_tourism is not a valid industry",
		},
		{
			name: "unparseable dob",
			mutate: func(req *dto.CreateCandidateRequest, _ dto.CandidateFiles) {
				req.Dob = "twelfth of april"
			},
			message: "Dob can't be blank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newCandidateFixture(true)
			req, files := validCandidateRequest(), validFiles()
			tt.mutate(req, files)

			_, err := svc.Create(context.Background(), nil, req, files)

			assertValidation(t, err, tt.message)
		})
	}
}

func TestCreateCandidate_DuplicateEmail(t *testing.T) {
	svc, repo := newCandidateFixture(true)
	repo.emails["ayesha@example.com"] = true
	req := validCandidateRequest()
	req.Email = "  Ayesha@Example.com "

	_, err := svc.Create(context.Background(), nil, req, validFiles())

	assertValidation(t, err, "Email has already been used to submit an application")
}

func TestCreateCandidate_FileLimits(t *testing.T) {
	svc, _ := newCandidateFixture(true)

	files := validFiles()
	files[models.SlotResume] = fileHeader("cv.pdf", "application/pdf", 2048)
	_, err := svc.Create(context.Background(), nil, validCandidateRequest(), files)
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)

	files = validFiles()
	files[models.SlotPhoto] = fileHeader("me.gif", "image/gif", 100)
	_, err = svc.Create(context.Background(), nil, validCandidateRequest(), files)
	assertValidation(t, err, "Photo has an invalid content type")
}

func TestValidateEmail(t *testing.T) {
	svc, repo := newCandidateFixture(true)
	repo.emails["taken@example.com"] = true
	ctx := context.Background()

	assert.ErrorIs(t, svc.ValidateEmail(ctx, nil, " "), apperrors.ErrEmailRequired)
	assert.ErrorIs(t, svc.ValidateEmail(ctx, nil, "taken@example.com"), apperrors.ErrApplicantEmailTaken)
	assert.NoError(t, svc.ValidateEmail(ctx, nil, "free@example.com"))

	undeliverable, _ := newCandidateFixture(false)
	assert.ErrorIs(t, undeliverable.ValidateEmail(ctx, nil, "free@nowhere.invalid"), apperrors.ErrEmailUndeliverable)
}

func TestShowCandidate_NotFound(t *testing.T) {
	svc, _ := newCandidateFixture(true)

	_, err := svc.Show(context.Background(), nil, "missing")

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPCode)
	assert.Equal(t, "Candidate does not exist", appErr.Message)
}

func TestBuildCandidateFilter(t *testing.T) {
	filter, err := BuildCandidateFilter(&dto.CandidateListRequest{
		Experience: "5-8 years",
		Function:   "marketing",
		StartDate:  "2026-01-01",
		EndDate:    "2026-01-31",
		Sort:       "created_at asc",
		QSort:      "first_name desc",
	})

	require.NoError(t, err)
	require.NotNil(t, filter.Experience)
	assert.Equal(t, models.Experience5To8, *filter.Experience)
	require.NotNil(t, filter.Function)
	assert.Equal(t, "marketing", filter.Function.String())
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *filter.StartDate)
	assert.Equal(t, time.Date(2026, 1, 31, 23, 59, 59, 999999999, time.UTC), *filter.EndDate)
	require.Len(t, filter.Sort, 1)
	assert.Equal(t, "first_name", filter.Sort[0].Field)

	_, err = BuildCandidateFilter(&dto.CandidateListRequest{Function: "astronaut"})
	assertValidation(t, err, "Function is not included in the list")

	_, err = BuildCandidateFilter(&dto.CandidateListRequest{EndDate: "31/01/2026"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid date format", appErr.Message)
}

func TestCandidateTable(t *testing.T) {
	fn := models.JobFunction(0)
	table := CandidateTable([]models.Candidate{
		{FirstName: "Ayesha", Dob: time.Date(1996, 4, 12, 0, 0, 0, 0, time.UTC), Function: &fn, Industries: pq.StringArray{"textile"}},
		{FirstName: "Bilal", Dob: time.Date(2001, 1, 2, 0, 0, 0, 0, time.UTC)},
	})

	require.Len(t, table.Rows, 2)
	assert.Equal(t, candidateExportColumns, table.Columns)
	assert.Equal(t, "1996-04-12", table.Rows[0][4])
	assert.Equal(t, "marketing", table.Rows[0][14])
	assert.Equal(t, []string{"textile"}, table.Rows[0][18])
	assert.Nil(t, table.Rows[1][14])
	assert.Equal(t, []string{}, table.Rows[1][18])
}
