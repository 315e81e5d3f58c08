package http

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yukinote/yuki/internal/store"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondUnprocessable sends a 422 response with the validation failure.
func respondUnprocessable(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "invalid_question"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondUnavailable logs the error and sends a 503 while the store cannot be loaded.
func respondUnavailable(c *gin.Context, err error) {
	log.Printf("Store unavailable: %v", err)
	c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "dictionary store unavailable", Code: "store_unavailable"})
}

// --- Store Access ---

// StoreProvider hands out the loaded store.
type StoreProvider interface {
	Acquire(ctx context.Context) (*store.Store, error)
	Ready() bool
}

// acquireStore loads the store or responds with 503 and returns nil, false.
func acquireStore(c *gin.Context, stores StoreProvider) (*store.Store, bool) {
	s, err := stores.Acquire(c.Request.Context())
	if err != nil {
		respondUnavailable(c, err)
		return nil, false
	}
	return s, true
}

// --- Parameter Parsing ---

// parseIntQuery reads an integer query parameter, returning def when it is absent.
// Responds with a 400 error and returns 0, false when it is not an integer.
func parseIntQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}
