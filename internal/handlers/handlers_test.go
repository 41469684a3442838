package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pinkcollar_backend/internal/analytics"
	"pinkcollar_backend/internal/auth"
	"pinkcollar_backend/internal/export"
	"pinkcollar_backend/internal/models"
	"pinkcollar_backend/internal/services/dto"
	"pinkcollar_backend/internal/validator"
	"pinkcollar_backend/pkg/apperrors"
	"pinkcollar_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- заглушки сервисов ---

type fakeCandidateService struct {
	created *dto.CreateCandidateRequest
	files   dto.CandidateFiles
	table   export.Table
	showErr error
}

func (f *fakeCandidateService) List(_ *gorm.DB, _ *dto.CandidateListRequest) (*dto.CandidateListResponse, error) {
	return &dto.CandidateListResponse{Candidates: []models.Candidate{}}, nil
}

func (f *fakeCandidateService) Export(_ *gorm.DB, _ *dto.CandidateListRequest) (export.Table, error) {
	return f.table, nil
}

func (f *fakeCandidateService) Show(_ context.Context, _ *gorm.DB, _ string) (*dto.CandidateDetails, error) {
	if f.showErr != nil {
		return nil, f.showErr
	}
	return &dto.CandidateDetails{}, nil
}

func (f *fakeCandidateService) Create(_ context.Context, _ *gorm.DB, req *dto.CreateCandidateRequest, files dto.CandidateFiles) (*models.Candidate, error) {
	f.created = req
	f.files = files
	return &models.Candidate{FirstName: req.FirstName}, nil
}

func (f *fakeCandidateService) Delete(_ context.Context, _ *gorm.DB, _ string) (*models.Candidate, error) {
	return nil, apperrors.ErrNotFound("Candidate")
}

func (f *fakeCandidateService) ValidateEmail(_ context.Context, _ *gorm.DB, email string) error {
	if email == "" {
		return apperrors.ErrEmailRequired
	}
	return nil
}

type fakeSessionService struct {
	signedOut string
}

func (f *fakeSessionService) SignIn(_ context.Context, _ *gorm.DB, req *dto.SignInRequest) (*dto.SignInResponse, error) {
	if req.User == nil {
		return nil, apperrors.NewBadRequestError("param is missing or the value is empty: user")
	}
	return &dto.SignInResponse{User: &models.User{Email: req.User.Email}, Token: "signed-token"}, nil
}

func (f *fakeSessionService) SignOut(_ context.Context, _ *gorm.DB, token string) error {
	if token == "" {
		return apperrors.ErrNoActiveSession
	}
	f.signedOut = token
	return nil
}

func (f *fakeSessionService) Authenticate(_ context.Context, _ *gorm.DB, token string) (*auth.Claims, error) {
	if token != "signed-token" {
		return nil, apperrors.ErrUnauthenticated
	}
	return &auth.Claims{UserID: "admin-1"}, nil
}

type fakeInvitationService struct{}

func (fakeInvitationService) Create(_ context.Context, _ *gorm.DB, _ string, _ *dto.CreateInvitationRequest) (*models.Invitation, error) {
	return &models.Invitation{}, nil
}

func (fakeInvitationService) Accept(_ context.Context, _ *gorm.DB, token string) (string, error) {
	if token == "expired" {
		return "", apperrors.ErrInvitationInvalid
	}
	return "https://app.pinkcollar.live/accept-invite/" + token, nil
}

func (fakeInvitationService) Register(_ context.Context, _ *gorm.DB, _ *dto.RegisterInvitedUserRequest) (*models.User, error) {
	return &models.User{}, nil
}

func (fakeInvitationService) ExpireStale(_ context.Context, _ *gorm.DB, _ int) (int, error) {
	return 0, nil
}

type fakeDashboardService struct {
	req *dto.DashboardRequest
}

func (f *fakeDashboardService) Summary(_ context.Context, _ *gorm.DB, req *dto.DashboardRequest) (*analytics.Summary, error) {
	f.req = req
	return &analytics.Summary{}, nil
}

type fakeAdminService struct {
	currentUserID string
}

func (f *fakeAdminService) List(_ *gorm.DB, currentUserID string, _ *dto.AdminListRequest) (*dto.AdminListResponse, error) {
	f.currentUserID = currentUserID
	return &dto.AdminListResponse{Admins: []models.User{}}, nil
}

func (f *fakeAdminService) Export(_ *gorm.DB, _ string, _ *dto.AdminListRequest) (export.Table, error) {
	return export.Table{Columns: []string{"email"}, Rows: [][]any{{"a@pinkcollar.live"}}}, nil
}

func (f *fakeAdminService) Show(_ *gorm.DB, _ string) (*models.User, error) {
	return nil, apperrors.ErrNotFound("User")
}

func (f *fakeAdminService) Deactivate(_ *gorm.DB, _ string) (*models.User, error) {
	return &models.User{}, nil
}

func (f *fakeAdminService) Activate(_ *gorm.DB, _ string) (*models.User, error) {
	return nil, apperrors.ErrInviteNotAccepted
}

func (f *fakeAdminService) Delete(_ *gorm.DB, _ string) (*models.User, error) {
	return &models.User{}, nil
}

// --- окружение ---

type testEnv struct {
	router     *gin.Engine
	candidates *fakeCandidateService
	sessions   *fakeSessionService
	dashboard  *fakeDashboardService
	admins     *fakeAdminService
}

// newTestEnv собирает роутер; requireAuth подставляет userID без проверки токена
func newTestEnv(userID string) *testEnv {
	gin.SetMode(gin.TestMode)

	requireAuth := func(c *gin.Context) {
		if userID == "" {
			apperrors.HandleError(c, apperrors.ErrUnauthenticated)
			return
		}
		c.Set(contextkeys.UserIDKey, userID)
		c.Next()
	}

	env := &testEnv{
		router:     gin.New(),
		candidates: &fakeCandidateService{},
		sessions:   &fakeSessionService{},
		dashboard:  &fakeDashboardService{},
		admins:     &fakeAdminService{},
	}
	env.router.Use(func(c *gin.Context) {
		c.Set(string(contextkeys.DBContextKey), (*gorm.DB)(nil))
		c.Next()
	})

	base := NewBaseHandler(validator.New(), requireAuth)
	api := env.router.Group("/")
	NewHealthHandler().RegisterRoutes(api)
	NewCandidateHandler(base, env.candidates).RegisterRoutes(api)
	NewSessionHandler(base, env.sessions, nil).RegisterRoutes(api)
	NewInvitationHandler(base, fakeInvitationService{}).RegisterRoutes(api)
	NewDashboardHandler(base, env.dashboard, env.admins).RegisterRoutes(api)
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func multipartRequest(t *testing.T, fields [][2]string, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range fields {
		require.NoError(t, mw.WriteField(f[0], f[1]))
	}
	for field, name := range files {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("content"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/candidates", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// --- тесты ---

func TestHealthCheck(t *testing.T) {
	env := newTestEnv("")

	w := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Pink Collar is running smoothly", body["message"])
	assert.Equal(t, "success", body["status"])
}

func TestCreateCandidate_MissingRootParam(t *testing.T) {
	env := newTestEnv("")

	w := env.do(multipartRequest(t, [][2]string{{"first_name", "Ayesha"}}, nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "param is missing or the value is empty: candidate", body["error"])
	assert.Nil(t, env.candidates.created)
}

func TestCreateCandidate_CollectsIndexedIndustriesAndFiles(t *testing.T) {
	// 1. Подготовка
	env := newTestEnv("")
	req := multipartRequest(t, [][2]string{
		{"candidate[first_name]", "Ayesha"},
		{"candidate[industries][]", "textile"},
		{"candidate[industries][1]", "aviation"},
		{"candidate[industries][0]", "information_technology"},
	}, map[string]string{
		"candidate[resume]": "cv.pdf",
		"candidate[photo]":  "me.jpg",
	})

	// 2. Действие
	w := env.do(req)

	// 3. Проверка
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, env.candidates.created)
	assert.Equal(t, "Ayesha", env.candidates.created.FirstName)
	assert.Equal(t, []string{"textile", "information_technology", "aviation"}, env.candidates.created.Industries)
	assert.Contains(t, env.candidates.files, models.SlotResume)
	assert.Contains(t, env.candidates.files, models.SlotPhoto)
	assert.NotContains(t, env.candidates.files, models.SlotIntroVideo)
	assert.Equal(t, "Candidate created successfully", decodeBody(t, w)["message"])
}

func TestCandidateRoutes_RequireAuth(t *testing.T) {
	env := newTestEnv("")

	w := env.do(httptest.NewRequest(http.MethodGet, "/candidates", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "You need to sign in or sign up before continuing.", decodeBody(t, w)["message"])
}

func TestGetCandidate_NotFound(t *testing.T) {
	env := newTestEnv("admin-1")
	env.candidates.showErr = apperrors.ErrNotFound("Candidate")

	w := env.do(httptest.NewRequest(http.MethodGet, "/candidates/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Candidate does not exist", body["message"])
	assert.Equal(t, "Candidate does not exist", body["error"])
}

func TestListCandidates_InvalidFunction(t *testing.T) {
	env := newTestEnv("admin-1")

	w := env.do(httptest.NewRequest(http.MethodGet, "/candidates?function=astronaut", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Function is not included in the list", decodeBody(t, w)["message"])
}

func TestListCandidates_ExportFormats(t *testing.T) {
	env := newTestEnv("admin-1")
	env.candidates.table = export.Table{
		Columns: []string{"first_name", "email"},
		Rows:    [][]any{{"Ayesha", "ayesha@example.com"}},
	}

	csvResp := env.do(httptest.NewRequest(http.MethodGet, "/candidates?export=true&format=csv", nil))
	require.Equal(t, http.StatusOK, csvResp.Code)
	assert.Equal(t, export.ContentTypeCSV, csvResp.Header().Get("Content-Type"))
	assert.Contains(t, csvResp.Header().Get("Content-Disposition"), `attachment; filename="candidates-`)
	assert.Equal(t, "first_name,email\nAyesha,ayesha@example.com\n", csvResp.Body.String())

	jsonResp := env.do(httptest.NewRequest(http.MethodGet, "/candidates?export=true", nil))
	require.Equal(t, http.StatusOK, jsonResp.Code)
	body := decodeBody(t, jsonResp)
	assert.Equal(t, "CSV data generated successfully", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, []any{map[string]any{"first_name": "Ayesha", "email": "ayesha@example.com"}}, data["csv_data"])
	assert.True(t, strings.HasSuffix(data["filename"].(string), ".csv"))
}

func TestSignIn_ReturnsTokenInHeader(t *testing.T) {
	env := newTestEnv("")
	req := httptest.NewRequest(http.MethodPost, "/users/sign_in",
		strings.NewReader(`{"user":{"email":"admin@pinkcollar.live","password":"secret123"}}`))
	req.Header.Set("Content-Type", "application/json")

	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Bearer signed-token", w.Header().Get("Authorization"))
	assert.Equal(t, "Logged in successfully!", decodeBody(t, w)["message"])
}

func TestSignOut(t *testing.T) {
	env := newTestEnv("")

	req := httptest.NewRequest(http.MethodDelete, "/users/sign_out", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	w := env.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc.def.ghi", env.sessions.signedOut)

	w = env.do(httptest.NewRequest(http.MethodDelete, "/users/sign_out", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Couldn't find an active session!", decodeBody(t, w)["message"])
}

func TestAcceptInvitation(t *testing.T) {
	env := newTestEnv("")

	w := env.do(httptest.NewRequest(http.MethodGet, "/invitations/abc123/accept", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://app.pinkcollar.live/accept-invite/abc123", w.Header().Get("Location"))

	w = env.do(httptest.NewRequest(http.MethodGet, "/invitations/expired/accept", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateInvitation_RequiresAuth(t *testing.T) {
	env := newTestEnv("")

	req := httptest.NewRequest(http.MethodPost, "/invitations", strings.NewReader(`{"invitation":{"email":"x@pinkcollar.live"}}`))
	req.Header.Set("Content-Type", "application/json")
	w := env.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDashboardSummary_BindsIndustries(t *testing.T) {
	env := newTestEnv("admin-1")

	w := env.do(httptest.NewRequest(http.MethodGet,
		"/dashboard?start_date=2026-01-01&end_date=2026-01-31&industry[]=textile&industry[]=aviation", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, env.dashboard.req)
	assert.Equal(t, []string{"textile", "aviation"}, env.dashboard.req.Industries)
	assert.Equal(t, "2026-01-01", env.dashboard.req.StartDate)
}

func TestAdminRoutes(t *testing.T) {
	env := newTestEnv("admin-1")

	w := env.do(httptest.NewRequest(http.MethodGet, "/dashboard/admins_list", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin-1", env.admins.currentUserID)

	w = env.do(httptest.NewRequest(http.MethodGet, "/dashboard/show_admin", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User does not exist", decodeBody(t, w)["message"])

	w = env.do(httptest.NewRequest(http.MethodPatch, "/dashboard/42/activate_admin", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(httptest.NewRequest(http.MethodGet, "/dashboard/admins_list?export=true&format=xlsx", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentTypeXLSX, w.Header().Get("Content-Type"))
	assert.NotZero(t, w.Body.Len())
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Empty(t, BearerToken(c))

	c.Request.Header.Set("Authorization", "Token abc")
	assert.Empty(t, BearerToken(c))

	c.Request.Header.Set("Authorization", "Bearer  abc ")
	assert.Equal(t, "abc", BearerToken(c))
}
