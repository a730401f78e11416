package handlers

import (
  "encoding/csv"
  "errors"
  "io"
  "net/http"
  "path/filepath"
  "strings"

  "github.com/gin-gonic/gin"

  "github.com/bionet-project/bionet-backend/internal/logger"
)

type UploadHandler struct {
  log *logger.Logger
}

func NewUploadHandler(log *logger.Logger) *UploadHandler {
  return &UploadHandler{log: log.With("handler", "UploadHandler")}
}

var allowedUploadExts = map[string]struct{}{
  ".csv": {},
  ".tsv": {},
  ".txt": {},
  ".tab": {},
}

// POST /api/upload-genes
// Extracts gene symbols from the first column of a CSV/TSV upload. The
// first row is skipped when it does not look like a gene symbol.
func (h *UploadHandler) UploadGenes(c *gin.Context) {
  file, header, err := c.Request.FormFile("file")
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
    return
  }
  defer file.Close()

  ext := strings.ToLower(filepath.Ext(header.Filename))
  if _, ok := allowedUploadExts[ext]; !ok {
    c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type, allowed: .csv, .tsv, .txt, .tab"})
    return
  }

  reader := csv.NewReader(file)
  if ext != ".csv" {
    reader.Comma = '\t'
  }
  reader.FieldsPerRecord = -1
  reader.TrimLeadingSpace = true
  reader.LazyQuotes = true

  genes := make([]string, 0)
  for {
    record, err := reader.Read()
    if errors.Is(err, io.EOF) {
      break
    }
    if err != nil {
      c.JSON(http.StatusBadRequest, gin.H{"error": "error reading file"})
      return
    }
    first := strings.TrimSpace(record[0])
    if first == "" || strings.EqualFold(first, "nan") || strings.EqualFold(first, "none") {
      continue
    }
    genes = append(genes, first)
  }

  // Drop a header row like "gene" or "symbol".
  if len(genes) > 0 {
    switch strings.ToLower(genes[0]) {
    case "gene", "genes", "symbol", "gene_symbol":
      genes = genes[1:]
    }
  }

  if len(genes) == 0 {
    c.JSON(http.StatusBadRequest, gin.H{"error": "no valid genes found in file"})
    return
  }

  h.log.Info("Parsed gene upload", "filename", header.Filename, "count", len(genes))
  c.JSON(http.StatusOK, gin.H{
    "genes":    genes,
    "count":    len(genes),
    "filename": header.Filename,
  })
}
