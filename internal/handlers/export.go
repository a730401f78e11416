package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/bionet-project/bionet-backend/internal/logger"
  "github.com/bionet-project/bionet-backend/internal/services"
  "github.com/bionet-project/bionet-backend/internal/types"
)

type ExportHandler struct {
  log           *logger.Logger
  exportService services.ExportService
}

func NewExportHandler(log *logger.Logger, exportService services.ExportService) *ExportHandler {
  return &ExportHandler{
    log:           log.With("handler", "ExportHandler"),
    exportService: exportService,
  }
}

// POST /api/export/csv
func (h *ExportHandler) ExportCSV(c *gin.Context) {
  var result types.AnalysisResult
  if err := c.ShouldBindJSON(&result); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  out, err := h.exportService.ExportCSV(&result)
  if err != nil {
    respondError(c, err)
    return
  }
  c.Header("Content-Disposition", "attachment; filename=network_analysis.csv")
  c.Data(http.StatusOK, "text/csv", out)
}

// POST /api/export/json
func (h *ExportHandler) ExportJSON(c *gin.Context) {
  var result types.AnalysisResult
  if err := c.ShouldBindJSON(&result); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  out, err := h.exportService.ExportJSON(&result)
  if err != nil {
    respondError(c, err)
    return
  }
  c.Header("Content-Disposition", "attachment; filename=network_analysis.json")
  c.Data(http.StatusOK, "application/json", out)
}
