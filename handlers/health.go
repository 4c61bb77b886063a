package handlers

import (
	"net/http"

	"screenqa/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness plus the latest dependency snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"message":    "Hi, I'm the screen QA agent",
		"components": utils.GetHealthStatus(),
	})
}
