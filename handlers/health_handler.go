package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck returns a 200 OK status to indicate that the service is up.
func (h *URLHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
