package routes

import (
	_ "pinkcollar_backend/docs"
	"pinkcollar_backend/internal/handlers"
	"pinkcollar_backend/internal/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options - необязательные маршруты
type Options struct {
	// LocalFilesDir раздается по LocalFilesPath, когда блобы лежат на диске
	LocalFilesDir  string
	LocalFilesPath string
	EnableSwagger  bool
}

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers, opts Options) {
	ginRouter.GET("/", appHandlers.HealthHandler.HealthCheck)

	// Регистрация HTTP API v1
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.HealthHandler.RegisterRoutes(api)
		appHandlers.CandidateHandler.RegisterRoutes(api)
		appHandlers.DashboardHandler.RegisterRoutes(api)
		appHandlers.InvitationHandler.RegisterRoutes(api)
		appHandlers.SessionHandler.RegisterRoutes(api)
		appHandlers.FileHandler.RegisterRoutes(api)
	}

	if opts.LocalFilesDir != "" && opts.LocalFilesPath != "" {
		ginRouter.Static(opts.LocalFilesPath, opts.LocalFilesDir)
		logger.Info("Local files route registered", "path", opts.LocalFilesPath, "dir", opts.LocalFilesDir)
	}

	if opts.EnableSwagger {
		ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		logger.Info("Swagger route /swagger/index.html registered")
	}
}
