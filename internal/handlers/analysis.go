package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/bionet-project/bionet-backend/internal/logger"
  "github.com/bionet-project/bionet-backend/internal/services"
  "github.com/bionet-project/bionet-backend/internal/types"
)

type AnalysisHandler struct {
  log             *logger.Logger
  analysisService services.AnalysisService
}

func NewAnalysisHandler(log *logger.Logger, analysisService services.AnalysisService) *AnalysisHandler {
  return &AnalysisHandler{
    log:             log.With("handler", "AnalysisHandler"),
    analysisService: analysisService,
  }
}

type analyzeRequest struct {
  Genes               []string `json:"genes"`
  ConfidenceThreshold *float64 `json:"confidence_threshold"`
}

const defaultConfidenceThreshold = 0.4

// POST /api/analyze
// Returns a completed analysis, or a review_required payload when the
// classifier proposed categories that do not exist yet.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
  var req analyzeRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  threshold := defaultConfidenceThreshold
  if req.ConfidenceThreshold != nil {
    threshold = *req.ConfidenceThreshold
  }

  result, review, err := h.analysisService.SubmitAnalysis(c.Request.Context(), req.Genes, threshold)
  if err != nil {
    respondError(c, err)
    return
  }
  if review != nil {
    c.JSON(http.StatusOK, review)
    return
  }
  c.JSON(http.StatusOK, result)
}

// POST /api/confirm-categories
// The caller posts back the review payload from Analyze after approval.
func (h *AnalysisHandler) ConfirmCategories(c *gin.Context) {
  var payload types.ReviewPayload
  if err := c.ShouldBindJSON(&payload); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }

  result, err := h.analysisService.SubmitApproval(c.Request.Context(), &payload)
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, result)
}

// POST /api/cancel-review
func (h *AnalysisHandler) CancelReview(c *gin.Context) {
  h.analysisService.CancelReview(c.Request.Context())
  c.Status(http.StatusNoContent)
}
