package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthzReportsBackends(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthz", (&HealthHandler{Archive: true, Cache: false, Events: true}).Healthz)

	w := do(t, r, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got := decode[map[string]bool](t, w)
	if !got["ok"] || !got["archive"] || got["moveCache"] || !got["analytics"] {
		t.Fatalf("healthz = %v", got)
	}
}
