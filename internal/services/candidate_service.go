package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"pinkcollar_backend/internal/export"
	"pinkcollar_backend/internal/logger"
	"pinkcollar_backend/internal/models"
	"pinkcollar_backend/internal/repositories"
	"pinkcollar_backend/internal/services/dto"
	"pinkcollar_backend/internal/storage"
	"pinkcollar_backend/internal/validator"
	"pinkcollar_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	msgEmailAlreadyUsed = "Email has already been used to submit an application"
	msgBothResumes      = "Cannot attach both resume and captured resume. Please provide only one."
	msgNoResume         = "Either resume or captured resume must be attached."
	msgPhotoBlank       = "Photo can't be blank"
	msgDobBlank         = "Dob can't be blank"

	// CandidateExportSheet - имя листа в XLSX-выгрузке
	CandidateExportSheet = "Candidates"
)

// candidateExportColumns - все колонки кандидата, кроме id, дат и координат
var candidateExportColumns = []string{
	"first_name", "last_name", "email", "contact_number", "dob", "education",
	"experience", "expected_salary", "career_phase", "additional_notes", "institute",
	"currently_employed", "current_salary", "current_employer", "function",
	"address", "city", "state", "industries",
}

type CandidateService interface {
	List(db *gorm.DB, req *dto.CandidateListRequest) (*dto.CandidateListResponse, error)
	Export(db *gorm.DB, req *dto.CandidateListRequest) (export.Table, error)
	Show(ctx context.Context, db *gorm.DB, id string) (*dto.CandidateDetails, error)
	Create(ctx context.Context, db *gorm.DB, req *dto.CreateCandidateRequest, files dto.CandidateFiles) (*models.Candidate, error)
	Delete(ctx context.Context, db *gorm.DB, id string) (*models.Candidate, error)
	ValidateEmail(ctx context.Context, db *gorm.DB, email string) error
}

// UploadConfig - ограничения на вложения анкеты
type UploadConfig struct {
	MaxSize      int64
	MaxVideoSize int64
	// AllowedTypes - слот -> разрешенные MIME-типы, пустой список = любой
	AllowedTypes map[string][]string
}

type CandidateServiceImpl struct {
	candidateRepo  repositories.CandidateRepository
	attachmentRepo repositories.AttachmentRepository
	storage        storage.Storage
	validator      *validator.Validator
	emailVerifier  EmailVerifier
	uploadConfig   UploadConfig
	hooks          []CandidateHook
	dashboard      DashboardInvalidator
}

func NewCandidateService(
	candidateRepo repositories.CandidateRepository,
	attachmentRepo repositories.AttachmentRepository,
	storage storage.Storage,
	v *validator.Validator,
	emailVerifier EmailVerifier,
	uploadConfig UploadConfig,
	dashboard DashboardInvalidator,
	hooks ...CandidateHook,
) CandidateService {
	return &CandidateServiceImpl{
		candidateRepo:  candidateRepo,
		attachmentRepo: attachmentRepo,
		storage:        storage,
		validator:      v,
		emailVerifier:  emailVerifier,
		uploadConfig:   uploadConfig,
		hooks:          hooks,
		dashboard:      dashboard,
	}
}

// ============================================
// Список и экспорт
// ============================================

func (s *CandidateServiceImpl) List(db *gorm.DB, req *dto.CandidateListRequest) (*dto.CandidateListResponse, error) {
	filter, err := BuildCandidateFilter(req)
	if err != nil {
		return nil, err
	}

	candidates, meta, err := s.candidateRepo.List(db, filter, repositories.PageRequest{
		Page:  req.Page,
		Limit: repositories.DefaultPageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.CandidateListResponse{
		Candidates: candidates,
		Pagination: meta,
		Sorting: dto.SortingInfo{
			ExperienceOptions: models.ExperienceOptions(),
			CurrentSort:       repositories.SortNames(filter.Sort),
		},
	}, nil
}

func (s *CandidateServiceImpl) Export(db *gorm.DB, req *dto.CandidateListRequest) (export.Table, error) {
	filter, err := BuildCandidateFilter(req)
	if err != nil {
		return export.Table{}, err
	}

	candidates, err := s.candidateRepo.ListAll(db, filter)
	if err != nil {
		return export.Table{}, apperrors.InternalError(err)
	}
	return CandidateTable(candidates), nil
}

// CandidateTable - плоские строки для выгрузки, без служебных колонок
func CandidateTable(candidates []models.Candidate) export.Table {
	t := export.Table{Columns: candidateExportColumns, Rows: make([][]any, 0, len(candidates))}
	for _, c := range candidates {
		var function any
		if c.Function != nil {
			function = c.Function.String()
		}
		industries := []string(c.Industries)
		if industries == nil {
			industries = []string{}
		}
		t.Rows = append(t.Rows, []any{
			c.FirstName, c.LastName, c.Email, c.ContactNumber, c.Dob.Format(dateLayout),
			c.Education.String(), c.Experience.String(), c.ExpectedSalary, c.CareerPhase,
			c.AdditionalNotes, c.Institute, c.CurrentlyEmployed, c.CurrentSalary,
			c.CurrentEmployer, function, c.Address, c.City, c.State, industries,
		})
	}
	return t
}

// BuildCandidateFilter переводит query-параметры в спецификацию фильтра
func BuildCandidateFilter(req *dto.CandidateListRequest) (repositories.CandidateFilter, error) {
	filter := repositories.CandidateFilter{
		Search:         req.Search,
		ExpectedSalary: strings.TrimSpace(req.ExpectedSalary),
		CurrentSalary:  strings.TrimSpace(req.CurrentSalary),
		CareerPhase:    strings.TrimSpace(req.CareerPhase),
		Institute:      req.Institute,
		City:           req.City,
		Industries:     req.Industries,
		Sort:           repositories.ParseSort(req.SortParam()),
	}

	if req.Experience != "" {
		exp, ok := models.ParseExperience(req.Experience)
		if !ok {
			return filter, apperrors.ValidationFailed("Experience is not included in the list")
		}
		filter.Experience = &exp
	}
	if req.Function != "" {
		fn, ok := models.ParseJobFunction(req.Function)
		if !ok {
			return filter, apperrors.ValidationFailed("Function is not included in the list")
		}
		filter.Function = &fn
	}

	var err error
	if filter.StartDate, err = parseStartDate(req.StartDate); err != nil {
		return filter, err
	}
	if filter.EndDate, err = parseEndDate(req.EndDate); err != nil {
		return filter, err
	}
	return filter, nil
}

// ============================================
// Карточка
// ============================================

func (s *CandidateServiceImpl) Show(ctx context.Context, db *gorm.DB, id string) (*dto.CandidateDetails, error) {
	candidate, err := s.candidateRepo.FindByID(db, id)
	if err != nil {
		return nil, handleCandidateError(err)
	}

	resume := candidate.Attachment(models.SlotResume)
	if resume == nil {
		resume = candidate.Attachment(models.SlotResumeImage)
	}

	return &dto.CandidateDetails{
		Candidate: candidate,
		URLDetails: dto.URLDetails{
			ResumeURL:     s.attachmentURL(ctx, resume),
			PhotoURL:      s.attachmentURL(ctx, candidate.Attachment(models.SlotPhoto)),
			IntroVideoURL: s.attachmentURL(ctx, candidate.Attachment(models.SlotIntroVideo)),
		},
	}, nil
}

func (s *CandidateServiceImpl) attachmentURL(ctx context.Context, a *models.Attachment) *string {
	if a == nil {
		return nil
	}
	url, err := s.storage.GetURL(ctx, a.StorageKey)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to resolve attachment URL", err, "attachment_id", a.ID)
		return nil
	}
	return &url
}

// ============================================
// Создание
// ============================================

func (s *CandidateServiceImpl) Create(ctx context.Context, db *gorm.DB, req *dto.CreateCandidateRequest, files dto.CandidateFiles) (*models.Candidate, error) {
	candidate, err := s.buildCandidate(db, req, files)
	if err != nil {
		return nil, err
	}
	if err := s.validateFiles(files); err != nil {
		return nil, err
	}

	var stored []string
	err = inTransaction(db, func(tx *gorm.DB) error {
		if err := s.candidateRepo.Create(tx, candidate); err != nil {
			if errors.Is(err, repositories.ErrCandidateEmailExists) {
				return apperrors.ValidationFailed(msgEmailAlreadyUsed)
			}
			return err
		}
		for _, slot := range models.AttachmentSlots {
			fh := files[slot]
			if fh == nil {
				continue
			}
			attachment, err := s.storeAttachment(ctx, tx, candidate.ID, slot, fh)
			if err != nil {
				return err
			}
			stored = append(stored, attachment.StorageKey)
			candidate.Attachments = append(candidate.Attachments, *attachment)
		}
		return nil
	})
	if err != nil {
		// запись откатилась, загруженные блобы больше никому не нужны
		s.deleteBlobs(ctx, stored)
		return nil, err
	}

	logger.CtxInfo(ctx, "Candidate created", "candidate_id", candidate.ID, "attachments", len(stored))

	RunCandidateHooks(ctx, db, s.hooks, candidate)
	return candidate, nil
}

// buildCandidate нормализует форму и собирает все ошибки в порядке правил модели
func (s *CandidateServiceImpl) buildCandidate(db *gorm.DB, req *dto.CreateCandidateRequest, files dto.CandidateFiles) (*models.Candidate, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if exp, ok := models.ParseExperience(req.Experience); ok {
		req.Experience = exp.String()
	}

	vErr := validator.NewValidationError()
	if err := s.validator.Validate(req); err != nil {
		var ve *validator.ValidationError
		if !errors.As(err, &ve) {
			return nil, apperrors.InternalError(err)
		}
		vErr = ve
	}

	var dob time.Time
	if req.Dob != "" {
		parsed, _, err := parseDate(req.Dob)
		if err != nil {
			vErr.Add(validator.RankPresence, "dob", msgDobBlank)
		}
		dob = parsed
	}

	if _, bad := vErr.Errors["email"]; !bad {
		exists, err := s.candidateRepo.ExistsByEmail(db, req.Email)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if exists {
			vErr.Add(validator.RankFormat, "email", msgEmailAlreadyUsed)
		}
	}

	if files[models.SlotPhoto] == nil {
		vErr.Add(validator.RankConditional, "photo", msgPhotoBlank)
	}
	hasResume := files[models.SlotResume] != nil
	hasResumeImage := files[models.SlotResumeImage] != nil
	switch {
	case hasResume && hasResumeImage:
		vErr.Add(validator.RankConditional, "", msgBothResumes)
	case !hasResume && !hasResumeImage:
		vErr.Add(validator.RankConditional, "", msgNoResume)
	}

	if !vErr.Empty() {
		return nil, apperrors.ValidationFailed(vErr.Messages...)
	}

	education, _ := models.ParseEducation(req.Education)
	experience, _ := models.ParseExperience(req.Experience)

	candidate := &models.Candidate{
		FirstName:         strings.TrimSpace(req.FirstName),
		LastName:          strings.TrimSpace(req.LastName),
		Email:             req.Email,
		ContactNumber:     strings.TrimSpace(req.ContactNumber),
		Dob:               dob,
		Education:         education,
		Experience:        experience,
		ExpectedSalary:    strings.TrimSpace(req.ExpectedSalary),
		CareerPhase:       strings.TrimSpace(req.CareerPhase),
		AdditionalNotes:   req.AdditionalNotes,
		Institute:         strings.TrimSpace(req.Institute),
		CurrentlyEmployed: req.CurrentlyEmployed,
		CurrentSalary:     strings.TrimSpace(req.CurrentSalary),
		CurrentEmployer:   strings.TrimSpace(req.CurrentEmployer),
		Address:           strings.TrimSpace(req.Address),
		City:              strings.TrimSpace(req.City),
		State:             strings.TrimSpace(req.State),
		Industries:        req.Industries,
	}
	if fn, ok := models.ParseJobFunction(req.Function); ok {
		candidate.Function = &fn
	}
	return candidate, nil
}

func (s *CandidateServiceImpl) validateFiles(files dto.CandidateFiles) error {
	for slot, fh := range files {
		if fh == nil {
			continue
		}
		limit := s.uploadConfig.MaxSize
		if slot == models.SlotIntroVideo && s.uploadConfig.MaxVideoSize > 0 {
			limit = s.uploadConfig.MaxVideoSize
		}
		if limit > 0 && fh.Size > limit {
			return apperrors.ErrFileTooLarge
		}

		allowed := s.uploadConfig.AllowedTypes[string(slot)]
		if len(allowed) > 0 && !contains(allowed, detectContentType(fh)) {
			return apperrors.ErrInvalidFileType(string(slot))
		}
	}
	return nil
}

// storeAttachment пишет блоб и строку вложения в рамках транзакции tx
func (s *CandidateServiceImpl) storeAttachment(ctx context.Context, tx *gorm.DB, candidateID string, slot models.AttachmentSlot, fh *multipart.FileHeader) (*models.Attachment, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	contentType := detectContentType(fh)
	key := storage.ObjectKey(models.CandidateRecordType, candidateID, string(slot), fh.Filename)

	hash := sha256.New()
	if err := s.storage.Save(ctx, key, io.TeeReader(src, hash), contentType); err != nil {
		return nil, err
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"original_filename": fh.Filename,
		"identified":        true,
	})

	attachment := &models.Attachment{
		RecordType:      models.CandidateRecordType,
		RecordID:        candidateID,
		Name:            slot,
		StorageKey:      key,
		StorageProvider: s.storage.Provider(),
		Filename:        filepath.Base(fh.Filename),
		ContentType:     contentType,
		ByteSize:        fh.Size,
		Checksum:        hex.EncodeToString(hash.Sum(nil)),
		Metadata:        datatypes.JSON(metadata),
	}
	if err := s.attachmentRepo.Create(tx, attachment); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logger.CtxWithError(ctx, "Failed to delete orphaned blob", delErr, "key", key)
		}
		return nil, err
	}
	return attachment, nil
}

func (s *CandidateServiceImpl) deleteBlobs(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			logger.CtxWithError(ctx, "Failed to delete blob", err, "key", key)
		}
	}
}

// ============================================
// Удаление
// ============================================

func (s *CandidateServiceImpl) Delete(ctx context.Context, db *gorm.DB, id string) (*models.Candidate, error) {
	var candidate *models.Candidate
	err := inTransaction(db, func(tx *gorm.DB) error {
		var err error
		if candidate, err = s.candidateRepo.FindByID(tx, id); err != nil {
			return handleCandidateError(err)
		}
		if err := s.attachmentRepo.DeleteByRecord(tx, models.CandidateRecordType, candidate.ID); err != nil {
			return err
		}
		if err := s.candidateRepo.Delete(tx, candidate.ID); err != nil {
			return handleCandidateError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Блобы удаляются после коммита: запись уже удалена, ошибки только в лог
	keys := make([]string, 0, len(candidate.Attachments))
	for _, a := range candidate.Attachments {
		keys = append(keys, a.StorageKey)
	}
	s.deleteBlobs(ctx, keys)

	if s.dashboard != nil {
		s.dashboard.Invalidate(ctx)
	}
	return candidate, nil
}

// ============================================
// Предварительная проверка email
// ============================================

func (s *CandidateServiceImpl) ValidateEmail(ctx context.Context, db *gorm.DB, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperrors.ErrEmailRequired
	}
	if !s.emailVerifier.EmailDeliverable(ctx, email) {
		return apperrors.ErrEmailUndeliverable
	}

	exists, err := s.candidateRepo.ExistsByEmail(db, email)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if exists {
		return apperrors.ErrApplicantEmailTaken
	}
	return nil
}

// ============================================
// Вспомогательные функции
// ============================================

func handleCandidateError(err error) error {
	if errors.Is(err, repositories.ErrCandidateNotFound) {
		return apperrors.ErrNotFound("Candidate")
	}
	return apperrors.InternalError(err)
}

func detectContentType(fh *multipart.FileHeader) string {
	ct := fh.Header.Get("Content-Type")
	if ct != "" && ct != "application/octet-stream" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
			return mediaType
		}
		return ct
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename))); byExt != "" {
		mediaType, _, _ := mime.ParseMediaType(byExt)
		return mediaType
	}
	return "application/octet-stream"
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
