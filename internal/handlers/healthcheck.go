package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
)

func HealthCheck(c *gin.Context) {
  c.JSON(http.StatusOK, gin.H{
    "status":  "online",
    "service": "BioNet PPI Explorer API",
    "version": "1.0.0",
  })
}
