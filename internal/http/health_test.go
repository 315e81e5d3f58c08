package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthController_Status(t *testing.T) {
	t.Run("starting before the store is loaded", func(t *testing.T) {
		router, _ := setupTestRouter(t, RouterConfig{Version: "1.0.0"})

		w := doRequest(router, "GET", "/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		resp := decode[HealthResponse](t, w)
		assert.Equal(t, "starting", resp.Status)
		assert.Equal(t, "loading", resp.Checks["store"])
	})

	t.Run("healthy once loaded", func(t *testing.T) {
		router, provider := setupTestRouter(t, RouterConfig{Version: "1.0.0"})
		_, err := provider.Acquire(context.Background())
		require.NoError(t, err)

		w := doRequest(router, "GET", "/health", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[HealthResponse](t, w)
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "1.0.0", resp.Version)
		assert.Equal(t, "ok", resp.Checks["store"])
		assert.Equal(t, "dataset", resp.Checks["source"])
		assert.NotEmpty(t, resp.Time)
	})

	t.Run("unhealthy when the store is closed", func(t *testing.T) {
		router, provider := setupTestRouter(t, RouterConfig{})
		s, err := provider.Acquire(context.Background())
		require.NoError(t, err)
		require.NoError(t, s.Close())

		w := doRequest(router, "GET", "/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", decode[HealthResponse](t, w).Status)
	})
}

func TestHealthController_Ping(t *testing.T) {
	router, _ := setupTestRouter(t, RouterConfig{})

	for _, path := range []string{"/ping", "/api/health"} {
		w := doRequest(router, "GET", path, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Server is running")
	}
}
