package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/yukinote/yuki/internal/database/dbtest"
	"github.com/yukinote/yuki/internal/dataset"
	"github.com/yukinote/yuki/internal/snapshot"
	"github.com/yukinote/yuki/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type imageLoader struct {
	image []byte
	err   error
}

func (l imageLoader) Load(ctx context.Context) ([]byte, error) {
	return l.image, l.err
}

// setupTestRouter builds a router over the three-entry scenario store.
func setupTestRouter(t *testing.T, cfg RouterConfig) (*gin.Engine, *store.Provider) {
	t.Helper()
	provider := store.NewProvider(store.Options{
		Loader:          imageLoader{image: dbtest.DictionaryImage(t, dbtest.ScenarioEntries)},
		Slot:            &snapshot.MemorySlot{},
		LogLevel:        logger.Silent,
		ValidateAnswers: true,
	})
	t.Cleanup(func() { provider.Close() })

	cfg.Stores = provider
	return NewRouter(cfg), provider
}

func setupBrokenRouter(t *testing.T) *gin.Engine {
	t.Helper()
	provider := store.NewProvider(store.Options{
		Loader:   imageLoader{err: dataset.ErrUnavailable},
		Slot:     &snapshot.MemorySlot{},
		LogLevel: logger.Silent,
	})
	return NewRouter(RouterConfig{Stores: provider})
}

func doRequest(router *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestParseIntQuery(t *testing.T) {
	t.Run("absent uses default", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/", nil)

		v, ok := parseIntQuery(c, "limit", 25)
		assert.True(t, ok)
		assert.Equal(t, 25, v)
	})

	t.Run("valid", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/?limit=-3", nil)

		v, ok := parseIntQuery(c, "limit", 25)
		assert.True(t, ok)
		assert.Equal(t, -3, v)
	})

	t.Run("invalid", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/?limit=ten", nil)

		_, ok := parseIntQuery(c, "limit", 25)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid limit")
	})
}

func TestRespondInternalError_HidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondInternalError(c, errors.New("disk I/O error at /secret/path"), "test")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, strings.Contains(w.Body.String(), "/secret/path"))
}
