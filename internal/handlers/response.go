package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SuccessResponse - конверт успешного ответа, data опускается если nil
type SuccessResponse struct {
	Message string      `json:"message"`
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
}

func respondSuccess(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, SuccessResponse{
		Message: message,
		Status:  "success",
		Data:    data,
	})
}

func respondOK(c *gin.Context, message string, data interface{}) {
	respondSuccess(c, http.StatusOK, message, data)
}
