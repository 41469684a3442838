package handlers

import (
	"errors"
	"net/http"
	"time"

	"pinkcollar_backend/internal/repositories"
	"pinkcollar_backend/internal/storage"
	"pinkcollar_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// signedURLExpiry - срок жизни подписанной ссылки на вложение
const signedURLExpiry = 15 * time.Minute

// FileHandler отдает вложения кандидатов через временные ссылки хранилища
type FileHandler struct {
	*BaseHandler
	storage        storage.Storage
	attachmentRepo repositories.AttachmentRepository
}

func NewFileHandler(base *BaseHandler, storage storage.Storage, attachmentRepo repositories.AttachmentRepository) *FileHandler {
	return &FileHandler{
		BaseHandler:    base,
		storage:        storage,
		attachmentRepo: attachmentRepo,
	}
}

func (h *FileHandler) RegisterRoutes(r *gin.RouterGroup) {
	files := r.Group("/attachments")
	files.Use(h.RequireAuth())
	{
		files.GET("/:id", h.RedirectToFile)
		files.HEAD("/:id", h.CheckFileExists)
	}
}

// RedirectToFile godoc
// @Summary Временная ссылка на вложение
// @Tags files
// @Security BearerAuth
// @Param id path string true "ID вложения"
// @Success 302
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /attachments/{id} [get]
func (h *FileHandler) RedirectToFile(c *gin.Context) {
	ctx := c.Request.Context()

	attachment, err := h.attachmentRepo.FindByID(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.handleAttachmentError(c, err)
		return
	}

	url, err := h.storage.GetSignedURL(ctx, attachment.StorageKey, signedURLExpiry)
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	c.Redirect(http.StatusFound, url)
}

// CheckFileExists - 200, если блоб на месте, иначе 404
func (h *FileHandler) CheckFileExists(c *gin.Context) {
	attachment, err := h.attachmentRepo.FindByID(h.GetDB(c), c.Param("id"))
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	exists, err := h.storage.Exists(c.Request.Context(), attachment.StorageKey)
	if err != nil || !exists {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Content-Type", attachment.ContentType)
	c.Status(http.StatusOK)
}

func (h *FileHandler) handleAttachmentError(c *gin.Context, err error) {
	if errors.Is(err, repositories.ErrAttachmentNotFound) {
		h.HandleServiceError(c, apperrors.ErrNotFound("Attachment"))
		return
	}
	h.HandleServiceError(c, apperrors.InternalError(err))
}
