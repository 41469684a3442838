package handlers

import (
	"sort"
	"strconv"
	"strings"

	"pinkcollar_backend/internal/models"
	"pinkcollar_backend/internal/services"
	"pinkcollar_backend/internal/services/dto"
	"pinkcollar_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const (
	candidateExportPrefix = "candidates"
	candidateFormRoot     = "candidate"
	industriesIndexedKey  = "candidate[industries]["
)

type CandidateHandler struct {
	*BaseHandler
	candidateService services.CandidateService
}

func NewCandidateHandler(base *BaseHandler, candidateService services.CandidateService) *CandidateHandler {
	return &CandidateHandler{
		BaseHandler:      base,
		candidateService: candidateService,
	}
}

func (h *CandidateHandler) RegisterRoutes(r *gin.RouterGroup) {
	candidates := r.Group("/candidates")
	{
		// Публичная анкета
		candidates.POST("", h.CreateCandidate)

		protected := candidates.Group("")
		protected.Use(h.RequireAuth())
		{
			protected.GET("", h.ListCandidates)
			protected.GET("/validate_email", h.ValidateEmail)
			protected.GET("/:id", h.GetCandidate)
			protected.DELETE("/:id", h.DeleteCandidate)
		}
	}
}

// ListCandidates godoc
// @Summary Список кандидатов
// @Description Поиск, фильтры, сортировка и пагинация по 12. С export=true отдает выгрузку (format=json|csv|xlsx).
// @Tags candidates
// @Produce json
// @Security BearerAuth
// @Param search query string false "Поиск по имени, email, телефону, адресу, городу, вузу, работодателю"
// @Param experience query string false "Fresh | 1-3 Years | 3-5 Years | ..."
// @Param function query string false "Функция"
// @Param industries[] query []string false "Отрасли (пересечение)"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Param sort query string false "\"field dir\""
// @Param page query int false "Страница"
// @Param export query bool false "Выгрузка"
// @Param format query string false "json | csv | xlsx"
// @Success 200 {object} SuccessResponse{data=dto.CandidateListResponse}
// @Failure 401 {object} apperrors.ErrorResponse
// @Failure 422 {object} apperrors.ErrorResponse
// @Router /candidates [get]
func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	var req dto.CandidateListRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	db := h.GetDB(c)

	if req.Export {
		table, err := h.candidateService.Export(db, &req)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		writeExport(c, req.Format, candidateExportPrefix, services.CandidateExportSheet, table)
		return
	}

	resp, err := h.candidateService.List(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, "Fetched candidates successfully", resp)
}

// GetCandidate godoc
// @Summary Карточка кандидата
// @Tags candidates
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID кандидата"
// @Success 200 {object} SuccessResponse{data=dto.CandidateDetails}
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /candidates/{id} [get]
func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	details, err := h.candidateService.Show(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, "Fetched candidate info successfully", details)
}

// CreateCandidate godoc
// @Summary Отправка анкеты кандидата
// @Description multipart/form-data с полями candidate[...] и файлами candidate[resume] | candidate[resume_image], candidate[photo], candidate[intro_video]
// @Tags candidates
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} SuccessResponse{data=models.Candidate}
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 422 {object} apperrors.ErrorResponse
// @Router /candidates [post]
func (h *CandidateHandler) CreateCandidate(c *gin.Context) {
	var req dto.CreateCandidateRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}
	if !hasFormRoot(c, candidateFormRoot) {
		apperrors.HandleError(c, apperrors.NewBadRequestError("param is missing or the value is empty: "+candidateFormRoot))
		return
	}
	req.Industries = append(req.Industries, indexedFormValues(c, industriesIndexedKey)...)

	candidate, err := h.candidateService.Create(c.Request.Context(), h.GetDB(c), &req, candidateFiles(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, "Candidate created successfully", candidate)
}

// DeleteCandidate godoc
// @Summary Удаление кандидата вместе с файлами
// @Tags candidates
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID кандидата"
// @Success 200 {object} SuccessResponse{data=models.Candidate}
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /candidates/{id} [delete]
func (h *CandidateHandler) DeleteCandidate(c *gin.Context) {
	candidate, err := h.candidateService.Delete(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, "Candidate deleted successfully", candidate)
}

// ValidateEmail godoc
// @Summary Проверка email до отправки анкеты
// @Description Формат, MX-записи домена и уникальность среди кандидатов
// @Tags candidates
// @Produce json
// @Security BearerAuth
// @Param email query string true "Email"
// @Success 200 {object} SuccessResponse
// @Failure 422 {object} apperrors.ErrorResponse
// @Router /candidates/validate_email [get]
func (h *CandidateHandler) ValidateEmail(c *gin.Context) {
	if err := h.candidateService.ValidateEmail(c.Request.Context(), h.GetDB(c), c.Query("email")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, "Email is valid and available", nil)
}

// candidateFiles собирает вложения по слотам; отсутствующий слот не попадает в map
func candidateFiles(c *gin.Context) dto.CandidateFiles {
	files := dto.CandidateFiles{}
	for _, slot := range models.AttachmentSlots {
		fh, err := c.FormFile(candidateFormRoot + "[" + string(slot) + "]")
		if err != nil {
			continue
		}
		files[slot] = fh
	}
	return files
}

func hasFormRoot(c *gin.Context, root string) bool {
	prefix := root + "["
	// значения multipart-формы уже скопированы в PostForm
	if form := c.Request.MultipartForm; form != nil {
		for key := range form.File {
			if strings.HasPrefix(key, prefix) {
				return true
			}
		}
	}
	for key := range c.Request.PostForm {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// indexedFormValues - значения вида prefix0], prefix1] ... в порядке индексов.
// Ключ prefix] (пустой индекс) сюда не входит, его привязывает ShouldBind.
func indexedFormValues(c *gin.Context, prefix string) []string {
	type entry struct {
		index string
		value string
	}
	var entries []entry
	for key, values := range c.Request.PostForm {
		if !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, "]") {
			continue
		}
		index := strings.TrimSuffix(strings.TrimPrefix(key, prefix), "]")
		if index == "" || len(values) == 0 {
			continue
		}
		entries = append(entries, entry{index: index, value: values[0]})
	}

	sort.Slice(entries, func(a, b int) bool {
		ia, errA := strconv.Atoi(entries[a].index)
		ib, errB := strconv.Atoi(entries[b].index)
		if errA == nil && errB == nil {
			return ia < ib
		}
		return entries[a].index < entries[b].index
	})

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.value)
	}
	return out
}
