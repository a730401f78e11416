package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/bionet-project/bionet-backend/internal/handlers"
)

type RouterConfig struct {
  AnalysisHandler *handlers.AnalysisHandler
  GeneHandler     *handlers.GeneHandler
  ExportHandler   *handlers.ExportHandler
  UploadHandler   *handlers.UploadHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:3000",
      "http://localhost:5173",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  router.GET("/healthcheck", handlers.HealthCheck)

  api := router.Group("/api")
  {
    // Analysis pipeline
    api.POST("/analyze", cfg.AnalysisHandler.Analyze)
    api.POST("/confirm-categories", cfg.AnalysisHandler.ConfirmCategories)
    api.POST("/cancel-review", cfg.AnalysisHandler.CancelReview)

    // Gene lookups
    api.GET("/genes/:symbol/details", cfg.GeneHandler.GetDetails)
    api.GET("/categories", cfg.GeneHandler.ListCategories)
    api.GET("/protein/:symbol", cfg.GeneHandler.GetProtein)
    api.GET("/drugs/:symbol", cfg.GeneHandler.GetDrugs)

    // Import/export
    api.POST("/upload-genes", cfg.UploadHandler.UploadGenes)
    api.POST("/export/csv", cfg.ExportHandler.ExportCSV)
    api.POST("/export/json", cfg.ExportHandler.ExportJSON)
  }

  return router
}
