package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness and which optional backends are attached.
type HealthHandler struct {
	Archive bool
	Cache   bool
	Events  bool
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"archive":   h.Archive,
		"moveCache": h.Cache,
		"analytics": h.Events,
	})
}
