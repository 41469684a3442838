package handlers

import (
	"net/http"

	"pinkcollar_backend/internal/services"
	"pinkcollar_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type InvitationHandler struct {
	*BaseHandler
	invitationService services.InvitationService
}

func NewInvitationHandler(base *BaseHandler, invitationService services.InvitationService) *InvitationHandler {
	return &InvitationHandler{
		BaseHandler:       base,
		invitationService: invitationService,
	}
}

func (h *InvitationHandler) RegisterRoutes(r *gin.RouterGroup) {
	invitations := r.Group("/invitations")
	{
		invitations.POST("", h.RequireAuth(), h.CreateInvitation)
		invitations.GET("/:token/accept", h.AcceptInvitation)
		invitations.POST("/register_invited_user", h.RegisterInvitedUser)
	}
}

// CreateInvitation godoc
// @Summary Приглашение нового админа
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateInvitationRequest true "Email приглашаемого"
// @Success 200 {object} SuccessResponse{data=models.Invitation}
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 422 {object} apperrors.ErrorResponse
// @Router /invitations [post]
func (h *InvitationHandler) CreateInvitation(c *gin.Context) {
	inviterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateInvitationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	invitation, err := h.invitationService.Create(c.Request.Context(), h.GetDB(c), inviterID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, "Invitation sent successfully", invitation)
}

// AcceptInvitation godoc
// @Summary Переход по ссылке из письма
// @Description Проверяет срок приглашения и перенаправляет на страницу регистрации фронтенда
// @Tags invitations
// @Param token path string true "Токен приглашения"
// @Success 302
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /invitations/{token}/accept [get]
func (h *InvitationHandler) AcceptInvitation(c *gin.Context) {
	location, err := h.invitationService.Accept(c.Request.Context(), h.GetDB(c), c.Param("token"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, location)
}

// RegisterInvitedUser godoc
// @Summary Регистрация по приглашению
// @Tags invitations
// @Accept json
// @Produce json
// @Param request body dto.RegisterInvitedUserRequest true "Токен и данные админа"
// @Success 200 {object} SuccessResponse{data=models.User}
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /invitations/register_invited_user [post]
func (h *InvitationHandler) RegisterInvitedUser(c *gin.Context) {
	var req dto.RegisterInvitedUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.invitationService.Register(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, "User registered successfully", user)
}
