package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/bionet-project/bionet-backend/internal/clients/dgidb"
  "github.com/bionet-project/bionet-backend/internal/clients/stringdb"
  "github.com/bionet-project/bionet-backend/internal/logger"
  "github.com/bionet-project/bionet-backend/internal/repos"
  "github.com/bionet-project/bionet-backend/internal/services"
  "github.com/bionet-project/bionet-backend/internal/types"
)

type GeneHandler struct {
  log               *logger.Logger
  enrichmentService services.EnrichmentService
  categoryRepo      repos.CategoryRepo
  ppi               stringdb.Client
  drugs             dgidb.Client
}

func NewGeneHandler(log *logger.Logger, enrichmentService services.EnrichmentService, categoryRepo repos.CategoryRepo, ppi stringdb.Client, drugs dgidb.Client) *GeneHandler {
  return &GeneHandler{
    log:               log.With("handler", "GeneHandler"),
    enrichmentService: enrichmentService,
    categoryRepo:      categoryRepo,
    ppi:               ppi,
    drugs:             drugs,
  }
}

// GET /api/genes/:symbol/details
func (h *GeneHandler) GetDetails(c *gin.Context) {
  details, err := h.enrichmentService.GetOrFetchDetails(c.Request.Context(), c.Param("symbol"))
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, details)
}

// GET /api/categories
func (h *GeneHandler) ListCategories(c *gin.Context) {
  categories, err := h.categoryRepo.GetAll(c.Request.Context(), nil)
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GET /api/protein/:symbol
func (h *GeneHandler) GetProtein(c *gin.Context) {
  symbol := types.NormalizeSymbol(c.Param("symbol"))
  info, err := h.ppi.GetAnnotation(c.Request.Context(), symbol)
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, info)
}

// GET /api/drugs/:symbol
// Drug source outages degrade to a non-druggable response; the lookup is
// decorative, not load-bearing.
func (h *GeneHandler) GetDrugs(c *gin.Context) {
  symbol := types.NormalizeSymbol(c.Param("symbol"))
  report, err := h.drugs.GetInteractions(c.Request.Context(), symbol)
  if err != nil {
    h.log.Warn("Drug lookup failed", "symbol", symbol, "error", err)
    c.JSON(http.StatusOK, dgidb.DrugReport{
      Gene:       symbol,
      Druggable:  false,
      Drugs:      []dgidb.DrugInteraction{},
      Categories: []string{},
      Message:    "Could not fetch drug data",
    })
    return
  }
  c.JSON(http.StatusOK, report)
}
