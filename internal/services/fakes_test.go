package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"pinkcollar_backend/internal/analytics"
	"pinkcollar_backend/internal/cache"
	"pinkcollar_backend/internal/models"
	"pinkcollar_backend/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Тестовые заглушки: все репозитории в памяти, *gorm.DB не используется

// --- Users ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) get(id string) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := *r.users[id]
	return &u
}

func (r *fakeUserRepo) FindByID(_ *gorm.DB, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ *gorm.DB, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByResetDigest(_ *gorm.DB, digest string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if digest != "" && u.ResetPasswordDigest == digest {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByEmail(db *gorm.DB, email string) (bool, error) {
	_, err := r.FindByEmail(db, email)
	return err == nil, nil
}

func (r *fakeUserRepo) Create(_ *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdateFields(_ *gorm.DB, id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	for k, v := range fields {
		switch k {
		case "failed_attempts":
			u.FailedAttempts = v.(int)
		case "locked_at":
			u.LockedAt = timePtr(v)
		case "reset_password_digest":
			u.ResetPasswordDigest = v.(string)
		case "reset_password_sent_at":
			u.ResetPasswordSentAt = timePtr(v)
		case "password_hash":
			u.PasswordHash = v.(string)
		case "is_active":
			u.IsActive = v.(bool)
		case "invite_status":
			u.InviteStatus = v.(models.InviteStatus)
		case "accepted_at":
			u.AcceptedAt = timePtr(v)
		case "first_name":
			u.FirstName = v.(string)
		case "last_name":
			u.LastName = v.(string)
		case "contact":
			u.Contact = v.(string)
		}
	}
	return nil
}

func timePtr(v interface{}) *time.Time {
	switch t := v.(type) {
	case time.Time:
		return &t
	case *time.Time:
		return t
	default:
		return nil
	}
}

func (r *fakeUserRepo) Delete(_ *gorm.DB, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) DeletePendingByEmail(_ *gorm.DB, email string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, u := range r.users {
		if u.Email == email && u.AcceptedAt == nil {
			delete(r.users, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) ListAdmins(db *gorm.DB, filter repositories.AdminFilter, page repositories.PageRequest) ([]models.User, repositories.PageMeta, error) {
	all, _ := r.ListAllAdmins(db, filter)
	return all, repositories.NewPageMeta(int64(len(all)), 1, repositories.DefaultPageSize, len(all)), nil
}

func (r *fakeUserRepo) ListAllAdmins(_ *gorm.DB, filter repositories.AdminFilter) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if u.ID == filter.ExcludeID {
			continue
		}
		if filter.InviteStatus != nil && u.InviteStatus != *filter.InviteStatus {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

// --- Denylist ---

type fakeDenylistRepo struct {
	mu   sync.Mutex
	jtis map[string]time.Time
}

func newFakeDenylistRepo() *fakeDenylistRepo {
	return &fakeDenylistRepo{jtis: map[string]time.Time{}}
}

func (r *fakeDenylistRepo) Add(_ *gorm.DB, jti string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jtis[jti] = expiresAt
	return nil
}

func (r *fakeDenylistRepo) Exists(_ *gorm.DB, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.jtis[jti]
	return ok, nil
}

func (r *fakeDenylistRepo) PurgeExpired(_ *gorm.DB, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for jti, exp := range r.jtis {
		if exp.Before(now) {
			delete(r.jtis, jti)
			n++
		}
	}
	return n, nil
}

// fakeRedis - TokenDenylist и JSONCache; down имитирует недоступный Redis
type fakeRedis struct {
	mu   sync.Mutex
	down bool
	data map[string]string
	json map[string]any

	gets, sets int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, json: map[string]any{}}
}

func (f *fakeRedis) SetString(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return cache.ErrUnavailable
	}
	f.data[key] = value
	return nil
}

func (f *fakeRedis) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return false, cache.ErrUnavailable
	}
	_, ok := f.data[key]
	return ok, nil
}

func (f *fakeRedis) GetJSON(_ context.Context, key string, out any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	v, ok := f.json[key]
	if !ok {
		return false, nil
	}
	if s, ok := out.(*analytics.Summary); ok {
		*s = v.(analytics.Summary)
	}
	return true, nil
}

func (f *fakeRedis) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	f.json[key] = value
	return nil
}

func (f *fakeRedis) DeleteByPattern(_ context.Context, pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range f.json {
		if strings.HasPrefix(k, prefix) {
			delete(f.json, k)
		}
	}
	return nil
}

// --- Mailer ---

type sentMail struct {
	Kind string
	To   string
	Arg  string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) record(kind, to, arg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{Kind: kind, To: to, Arg: arg})
	return nil
}

func (m *fakeMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

func (m *fakeMailer) SendInvitation(to, token string, _ time.Time) error {
	return m.record("invitation", to, token)
}

func (m *fakeMailer) SendResetPassword(to, _ string, token string) error {
	return m.record("reset_password", to, token)
}

func (m *fakeMailer) SendApplicationConfirmation(to, name string, _ time.Time) error {
	return m.record("application_confirmation", to, name)
}

// --- Candidates ---

type fakeCandidateRepo struct {
	mu      sync.Mutex
	emails  map[string]bool
	total   int64
	years   []analytics.YearCount
	facets  []analytics.Facet
	cities  []analytics.CityGroup
	minDate *time.Time

	counts []repositories.CandidateFilter
	coords map[string][2]float64
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{emails: map[string]bool{}, coords: map[string][2]float64{}}
}

func (r *fakeCandidateRepo) Create(_ *gorm.DB, c *models.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emails[c.Email] {
		return repositories.ErrCandidateEmailExists
	}
	r.emails[c.Email] = true
	c.ID = uuid.NewString()
	return nil
}

func (r *fakeCandidateRepo) FindByID(_ *gorm.DB, _ string) (*models.Candidate, error) {
	return nil, repositories.ErrCandidateNotFound
}

func (r *fakeCandidateRepo) ExistsByEmail(_ *gorm.DB, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.emails[email], nil
}

func (r *fakeCandidateRepo) Delete(_ *gorm.DB, _ string) error { return nil }

func (r *fakeCandidateRepo) UpdateCoordinates(_ *gorm.DB, id string, lat, lng float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coords[id] = [2]float64{lat, lng}
	return nil
}

func (r *fakeCandidateRepo) List(_ *gorm.DB, _ repositories.CandidateFilter, _ repositories.PageRequest) ([]models.Candidate, repositories.PageMeta, error) {
	return nil, repositories.PageMeta{}, nil
}

func (r *fakeCandidateRepo) ListAll(_ *gorm.DB, _ repositories.CandidateFilter) ([]models.Candidate, error) {
	return nil, nil
}

func (r *fakeCandidateRepo) Count(_ *gorm.DB, filter repositories.CandidateFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = append(r.counts, filter)
	return r.total, nil
}

func (r *fakeCandidateRepo) BirthYearCounts(_ *gorm.DB, _ repositories.CandidateFilter) ([]analytics.YearCount, error) {
	return r.years, nil
}

func (r *fakeCandidateRepo) Facets(_ *gorm.DB, _ repositories.CandidateFilter) ([]analytics.Facet, error) {
	return r.facets, nil
}

func (r *fakeCandidateRepo) CityGroups(_ *gorm.DB, _ repositories.CandidateFilter) ([]analytics.CityGroup, error) {
	return r.cities, nil
}

func (r *fakeCandidateRepo) MinCreatedAt(_ *gorm.DB) (*time.Time, error) {
	return r.minDate, nil
}

type fakeAttachmentRepo struct {
	presence []analytics.Presence
}

func (r *fakeAttachmentRepo) Create(_ *gorm.DB, _ *models.Attachment) error { return nil }

func (r *fakeAttachmentRepo) FindByID(_ *gorm.DB, _ string) (*models.Attachment, error) {
	return nil, repositories.ErrAttachmentNotFound
}

func (r *fakeAttachmentRepo) FindByRecord(_ *gorm.DB, _, _ string) ([]models.Attachment, error) {
	return nil, nil
}

func (r *fakeAttachmentRepo) DeleteByRecord(_ *gorm.DB, _, _ string) error { return nil }

func (r *fakeAttachmentRepo) Presence(_ *gorm.DB, _ repositories.CandidateFilter) ([]analytics.Presence, error) {
	return r.presence, nil
}

// fakeVerifier - EmailVerifier с фиксированным ответом
type fakeVerifier bool

func (v fakeVerifier) EmailDeliverable(_ context.Context, _ string) bool { return bool(v) }
