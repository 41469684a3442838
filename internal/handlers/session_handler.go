package handlers

import (
	"strings"

	"pinkcollar_backend/internal/services"
	"pinkcollar_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// SessionHandler - вход, выход и сброс пароля админов
type SessionHandler struct {
	*BaseHandler
	sessionService  services.SessionService
	passwordService services.PasswordService
}

func NewSessionHandler(base *BaseHandler, sessionService services.SessionService, passwordService services.PasswordService) *SessionHandler {
	return &SessionHandler{
		BaseHandler:     base,
		sessionService:  sessionService,
		passwordService: passwordService,
	}
}

func (h *SessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("/sign_in", h.SignIn)
		users.DELETE("/sign_out", h.SignOut)

		users.POST("/password", h.RequestPasswordReset)
		users.PUT("/password", h.ResetPassword)
		users.PATCH("/password", h.ResetPassword)
	}
}

// BearerToken - токен из заголовка Authorization: Bearer <token>
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// SignIn godoc
// @Summary Вход админа
// @Description Токен возвращается в теле и в заголовке Authorization
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body dto.SignInRequest true "Email и пароль"
// @Success 200 {object} SuccessResponse{data=dto.SignInResponse}
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /users/sign_in [post]
func (h *SessionHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.sessionService.SignIn(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Header("Authorization", "Bearer "+resp.Token)
	respondOK(c, "Logged in successfully!", resp)
}

// SignOut godoc
// @Summary Выход (отзыв токена)
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /users/sign_out [delete]
func (h *SessionHandler) SignOut(c *gin.Context) {
	if err := h.sessionService.SignOut(c.Request.Context(), h.GetDB(c), BearerToken(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, "Logged out successfully!", nil)
}

// RequestPasswordReset godoc
// @Summary Письмо со ссылкой сброса пароля
// @Tags passwords
// @Accept json
// @Produce json
// @Param request body dto.PasswordResetRequest true "Email"
// @Success 200 {object} SuccessResponse{data=dto.PasswordResetResponse}
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /users/password [post]
func (h *SessionHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.passwordService.RequestReset(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, services.ResetSentMessage(resp.Email), resp)
}

// ResetPassword godoc
// @Summary Смена пароля по токену из письма
// @Tags passwords
// @Accept json
// @Produce json
// @Param request body dto.PasswordUpdateRequest true "Токен и новый пароль"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /users/password [put]
func (h *SessionHandler) ResetPassword(c *gin.Context) {
	var req dto.PasswordUpdateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.passwordService.Reset(c.Request.Context(), h.GetDB(c), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, "Password has been reset successfully", nil)
}
