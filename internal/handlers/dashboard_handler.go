package handlers

import (
	"pinkcollar_backend/internal/services"
	"pinkcollar_backend/internal/services/dto"
	"pinkcollar_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const adminExportPrefix = "admins"

// DashboardHandler - сводка по кандидатам и управление админами
type DashboardHandler struct {
	*BaseHandler
	dashboardService services.DashboardService
	adminService     services.AdminService
}

func NewDashboardHandler(base *BaseHandler, dashboardService services.DashboardService, adminService services.AdminService) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      base,
		dashboardService: dashboardService,
		adminService:     adminService,
	}
}

func (h *DashboardHandler) RegisterRoutes(r *gin.RouterGroup) {
	dashboard := r.Group("/dashboard")
	dashboard.Use(h.RequireAuth())
	{
		dashboard.GET("", h.GetSummary)

		dashboard.GET("/admins_list", h.ListAdmins)
		dashboard.GET("/show_admin", h.GetAdmin)
		dashboard.PATCH("/:id/deactivate_admin", h.DeactivateAdmin)
		dashboard.PATCH("/:id/activate_admin", h.ActivateAdmin)
		dashboard.DELETE("/:id/delete_admin", h.DeleteAdmin)
	}
}

// GetSummary godoc
// @Summary Сводка дашборда
// @Description Диапазон учитывается, только если заданы обе даты. Тренд считается относительно всего периода до start_date.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Param function query string false "Функция"
// @Param industry[] query []string false "Отрасли"
// @Success 200 {object} SuccessResponse{data=analytics.Summary}
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /dashboard [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	var req dto.DashboardRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	summary, err := h.dashboardService.Summary(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, "Dashboard loaded successfully", summary)
}

// ListAdmins godoc
// @Summary Список админов (без текущего)
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param search query string false "Поиск по имени, телефону, email"
// @Param invite_status query string false "pending | accepted | deactivated"
// @Param page query int false "Страница"
// @Param export query bool false "Выгрузка"
// @Param format query string false "json | csv | xlsx"
// @Success 200 {object} SuccessResponse{data=dto.AdminListResponse}
// @Router /dashboard/admins_list [get]
func (h *DashboardHandler) ListAdmins(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AdminListRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	db := h.GetDB(c)

	if req.Export {
		table, err := h.adminService.Export(db, userID, &req)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		writeExport(c, req.Format, adminExportPrefix, services.AdminExportSheet, table)
		return
	}

	resp, err := h.adminService.List(db, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, "Fetched admins successfully", resp)
}

// GetAdmin godoc
// @Summary Карточка админа
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param id query string true "ID админа"
// @Success 200 {object} SuccessResponse{data=models.User}
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /dashboard/show_admin [get]
func (h *DashboardHandler) GetAdmin(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		apperrors.HandleError(c, apperrors.ErrNotFound("User"))
		return
	}

	admin, err := h.adminService.Show(h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, "Fetched admin successfully", admin)
}

// DeactivateAdmin godoc
// @Summary Деактивация админа
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID админа"
// @Success 200 {object} SuccessResponse{data=models.User}
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /dashboard/{id}/deactivate_admin [patch]
func (h *DashboardHandler) DeactivateAdmin(c *gin.Context) {
	admin, err := h.adminService.Deactivate(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, "Admin deactivated successfully", admin)
}

// ActivateAdmin godoc
// @Summary Активация админа
// @Description Админа с непринятым приглашением активировать нельзя
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID админа"
// @Success 200 {object} SuccessResponse{data=models.User}
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /dashboard/{id}/activate_admin [patch]
func (h *DashboardHandler) ActivateAdmin(c *gin.Context) {
	admin, err := h.adminService.Activate(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, "Admin activated successfully", admin)
}

// DeleteAdmin godoc
// @Summary Удаление админа и его приглашений
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID админа"
// @Success 200 {object} SuccessResponse{data=models.User}
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /dashboard/{id}/delete_admin [delete]
func (h *DashboardHandler) DeleteAdmin(c *gin.Context) {
	admin, err := h.adminService.Delete(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	respondOK(c, "Admin deleted successfully", admin)
}
