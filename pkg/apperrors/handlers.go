package apperrors

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - единый конверт ответа об ошибке
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Error   interface{} `json:"error,omitempty"`
}

// GinErrorHandler - обработчик ошибок для Gin
type GinErrorHandler struct {
	Debug bool
}

// HandleGinError - основная логика обработки ошибок для Gin
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	details := appErr.Details
	if appErr.HTTPCode >= 500 {
		slog.ErrorContext(c.Request.Context(), "Server error",
			"error", appErr.Unwrap(),
			"path", c.Request.URL.Path,
			"stack", string(debug.Stack()),
		)
		if !h.Debug {
			details = nil
		}
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{
		Status:  "error",
		Message: appErr.Message,
		Error:   details,
	})
}

var defaultHandler = &GinErrorHandler{Debug: true}

// SetDebug переключает выдачу деталей 500-х ошибок клиенту
func SetDebug(debug bool) {
	defaultHandler = &GinErrorHandler{Debug: debug}
}

// HandleError - быстрая функция-помощник для Gin
func HandleError(c *gin.Context, err error) {
	defaultHandler.HandleGinError(c, err)
}

// AsAppError - пытается преобразовать error в *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
