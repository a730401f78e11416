package main

import (
  "fmt"
  "os"

  "github.com/bionet-project/bionet-backend/internal/clients/dgidb"
  "github.com/bionet-project/bionet-backend/internal/clients/redis"
  "github.com/bionet-project/bionet-backend/internal/clients/stringdb"
  "github.com/bionet-project/bionet-backend/internal/db"
  "github.com/bionet-project/bionet-backend/internal/handlers"
  "github.com/bionet-project/bionet-backend/internal/logger"
  "github.com/bionet-project/bionet-backend/internal/network"
  "github.com/bionet-project/bionet-backend/internal/repos"
  "github.com/bionet-project/bionet-backend/internal/server"
  "github.com/bionet-project/bionet-backend/internal/services"
  "github.com/bionet-project/bionet-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  port := utils.GetEnv("PORT", "8000", log)
  diseaseContext := utils.GetEnv("DISEASE_CONTEXT", "epilepsy and neurological disorders", log)
  topHubs := utils.GetEnvAsInt("TOP_HUB_COUNT", 5, log)
  seedOnStart := utils.GetEnv("SEED_ON_START", "true", log)

  // Database
  dbService, err := db.New(log)
  if err != nil {
    log.Fatal("Database init failed", "error", err)
  }
  if err = dbService.AutoMigrateAll(); err != nil {
    log.Fatal("Database auto migration failed", "error", err)
  }
  if seedOnStart == "true" {
    if err = dbService.Seed(); err != nil {
      log.Warn("Database seeding failed", "error", err)
    }
  }
  theDB := dbService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  categoryRepo := repos.NewCategoryRepo(theDB, log)
  geneRepo := repos.NewGeneRepo(theDB, log)

  // External clients
  log.Info("Setting up Clients from main...")
  ppiClient := stringdb.NewClient(log)
  drugClient := dgidb.NewClient(log)
  aiClient, err := services.NewGeneAIClient(log)
  if err != nil {
    log.Fatal("AI client init failed", "error", err)
  }

  // Result cache (optional; analysis runs uncached when redis is absent)
  resultCache, err := redis.NewResultCache(log)
  if err != nil {
    log.Warn("Result cache disabled", "error", err)
    resultCache = nil
  }

  // Services
  log.Info("Setting up Services from main...")
  builder := network.NewBuilder(log, ppiClient)
  analyzer := network.NewAnalyzer(log, topHubs)
  reconciler := services.NewCategoryReconciler(theDB, log, geneRepo, categoryRepo, aiClient, diseaseContext)
  analysisService := services.NewAnalysisService(log, reconciler, builder, analyzer, geneRepo, categoryRepo, resultCache)
  enrichmentService := services.NewEnrichmentService(log, geneRepo, aiClient, diseaseContext)
  exportService := services.NewExportService(log)

  // Handlers
  log.Info("Setting up Handlers from main...")
  analysisHandler := handlers.NewAnalysisHandler(log, analysisService)
  geneHandler := handlers.NewGeneHandler(log, enrichmentService, categoryRepo, ppiClient, drugClient)
  exportHandler := handlers.NewExportHandler(log, exportService)
  uploadHandler := handlers.NewUploadHandler(log)

  // Router
  router := server.NewRouter(server.RouterConfig{
    AnalysisHandler: analysisHandler,
    GeneHandler:     geneHandler,
    ExportHandler:   exportHandler,
    UploadHandler:   uploadHandler,
  })

  log.Info("Starting server", "port", port)
  if err := router.Run(":" + port); err != nil {
    log.Fatal("Server exited", "error", err)
  }
}
