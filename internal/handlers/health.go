package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ndemidov/campusforum/pkg/response"
)

// Health reports process liveness.
func Health(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"status": "ok"})
}
