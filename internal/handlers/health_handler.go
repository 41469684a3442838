package handlers

import (
	"github.com/gin-gonic/gin"
)

const healthMessage = "Pink Collar is running smoothly"

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/health", h.HealthCheck)
}

// HealthCheck godoc
// @Summary Проверка доступности
// @Tags health
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	respondOK(c, healthMessage, gin.H{})
}
