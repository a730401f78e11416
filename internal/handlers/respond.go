package handlers

import (
  "errors"
  "net/http"

  "github.com/gin-gonic/gin"

  apperrors "github.com/bionet-project/bionet-backend/internal/pkg/errors"
)

// respondError maps the service error taxonomy onto HTTP statuses: bad
// input 400, unknown gene 404, upstream source failures 503, anything else
// 500.
func respondError(c *gin.Context, err error) {
  status := http.StatusInternalServerError
  switch {
  case errors.Is(err, apperrors.ErrValidation):
    status = http.StatusBadRequest
  case errors.Is(err, apperrors.ErrGeneNotFound), errors.Is(err, apperrors.ErrNotFound):
    status = http.StatusNotFound
  case errors.Is(err, apperrors.ErrUpstreamUnavailable):
    status = http.StatusServiceUnavailable
  }
  c.JSON(status, gin.H{"error": err.Error()})
}
