package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukinote/yuki/internal/database/dictionary"
	"github.com/yukinote/yuki/internal/entities"
)

type DictionaryController struct {
	stores       StoreProvider
	defaultLimit int
	maxLimit     int
}

func NewDictionaryController(stores StoreProvider, defaultLimit, maxLimit int) *DictionaryController {
	if defaultLimit <= 0 {
		defaultLimit = dictionary.DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = dictionary.DefaultLimit
	}
	return &DictionaryController{
		stores:       stores,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	Success bool                       `json:"success"`
	Data    []entities.DictionaryEntry `json:"data"`
	Total   int64                      `json:"total"`
	Query   string                     `json:"query"`
	Limit   int                        `json:"limit"`
	Offset  int                        `json:"offset"`
}

// CountResponse is the number of entries matching a query.
type CountResponse struct {
	Success bool   `json:"success"`
	Total   int64  `json:"total"`
	Query   string `json:"query"`
}

// EntryResponse wraps a single dictionary entry.
type EntryResponse struct {
	Success bool                      `json:"success"`
	Data    *entities.DictionaryEntry `json:"data"`
}

// Search returns a page of matching entries and the total match count.
// GET /api/dictionary/search?q=&limit=&offset=&sortBy=
func (dc *DictionaryController) Search(c *gin.Context) {
	query := c.Query("q")

	limit, ok := parseIntQuery(c, "limit", dc.defaultLimit)
	if !ok {
		return
	}
	offset, ok := parseIntQuery(c, "offset", 0)
	if !ok {
		return
	}
	sortBy, err := dictionary.ParseSortKey(c.Query("sortBy"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	// The engine treats a negative limit as unbounded, so callers here are capped.
	if limit <= 0 {
		limit = dc.defaultLimit
	}
	if limit > dc.maxLimit {
		limit = dc.maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	s, ok := acquireStore(c, dc.stores)
	if !ok {
		return
	}

	entries, err := s.TrySearch(c.Request.Context(), query, dictionary.QueryOptions{
		Limit:  limit,
		Offset: offset,
		SortBy: sortBy,
	})
	if err != nil {
		respondInternalError(c, err, "dictionary search")
		return
	}

	total, err := s.TryCount(c.Request.Context(), query)
	if err != nil {
		respondInternalError(c, err, "dictionary count")
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Success: true,
		Data:    entries,
		Total:   total,
		Query:   query,
		Limit:   limit,
		Offset:  offset,
	})
}

// Count returns the number of matching entries.
// GET /api/dictionary/count?q=
func (dc *DictionaryController) Count(c *gin.Context) {
	query := c.Query("q")

	s, ok := acquireStore(c, dc.stores)
	if !ok {
		return
	}

	total, err := s.TryCount(c.Request.Context(), query)
	if err != nil {
		respondInternalError(c, err, "dictionary count")
		return
	}

	c.JSON(http.StatusOK, CountResponse{Success: true, Total: total, Query: query})
}

// Entry returns the entry with the given simplified form.
// GET /api/dictionary/entry/:simplified
func (dc *DictionaryController) Entry(c *gin.Context) {
	s, ok := acquireStore(c, dc.stores)
	if !ok {
		return
	}

	entry, err := s.Lookup(c.Request.Context(), c.Param("simplified"))
	if errors.Is(err, dictionary.ErrEntryNotFound) {
		respondNotFound(c, "entry")
		return
	}
	if err != nil {
		respondInternalError(c, err, "dictionary entry")
		return
	}

	c.JSON(http.StatusOK, EntryResponse{Success: true, Data: entry})
}
