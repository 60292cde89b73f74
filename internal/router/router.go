package router

import (
	"github.com/gin-gonic/gin"

	"privasee/internal/config"
	"privasee/internal/handler"
	"privasee/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	healthH *handler.HealthHandler,
	deidentH *handler.DeidentHandler,
	batchH *handler.BatchHandler,
	templateH *handler.TemplateHandler,
	fileH *handler.FileHandler,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.GET("/", healthH.Root)

	api := r.Group("/api")
	api.GET("/health", healthH.Health)

	// Interactive pipeline
	api.POST("/upload", deidentH.Upload)
	api.POST("/process", deidentH.Process)
	api.POST("/approve-and-mask", deidentH.ApproveAndMask)

	sessions := api.Group("/sessions")
	sessions.GET("/:id", deidentH.GetSession)
	sessions.GET("/:id/archive", deidentH.DownloadArchive)
	sessions.DELETE("/:id", deidentH.DeleteSession)
	sessions.POST("/:id/verify", deidentH.Verify)

	// Batch pipeline
	batch := api.Group("/batch")
	batch.POST("/scan", batchH.Scan)
	batch.POST("", batchH.Run)
	batch.GET("/runs", batchH.ListRuns)
	batch.GET("/runs/:id", batchH.GetRun)
	batch.GET("/runs/:id/export", batchH.ExportRun)

	// Strategy templates and saved configs
	api.GET("/strategies/system", templateH.ListTemplates)
	api.GET("/strategies/system/:name", templateH.GetTemplate)

	configs := api.Group("/configs")
	configs.POST("", templateH.SaveConfig)
	configs.GET("", templateH.ListConfigs)
	configs.GET("/:name", templateH.GetConfig)
	configs.DELETE("/:name", templateH.DeleteConfig)

	// Artifact serving
	api.GET("/files/:folder/:name", fileH.Serve)

	return r
}
