package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	stores  StoreProvider
	version string
}

func NewHealthController(stores StoreProvider, version string) *HealthController {
	return &HealthController{
		stores:  stores,
		version: version,
	}
}

// Status reports store health without triggering a load.
// GET /health
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	switch {
	case h.stores == nil:
		checks["store"] = "not configured"
	case !h.stores.Ready():
		checks["store"] = "loading"
		status = "starting"
	default:
		s, err := h.stores.Acquire(c.Request.Context())
		if err == nil {
			err = s.Ping(c.Request.Context())
		}
		if err != nil {
			checks["store"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["store"] = "ok"
			checks["source"] = string(s.Source())
		}
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

// Ping is a liveness check.
// GET /ping
func (h *HealthController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Server is running"})
}
