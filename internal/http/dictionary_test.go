package http

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionaryController_Search(t *testing.T) {
	router, _ := setupTestRouter(t, RouterConfig{MaxLimit: 2})

	t.Run("exact character", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/dictionary/search?q="+url.QueryEscape("好"), nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[SearchResponse](t, w)
		assert.True(t, resp.Success)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, int64(2), resp.Data[0].ID)
		assert.Equal(t, int64(1), resp.Total)
		assert.Equal(t, "好", resp.Query)
	})

	t.Run("pinyin page", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/dictionary/search?limit=2&offset=1&sortBy=pinyin", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[SearchResponse](t, w)
		require.Len(t, resp.Data, 2)
		assert.Equal(t, "名", resp.Data[0].Simplified)
		assert.Equal(t, "你", resp.Data[1].Simplified)
		assert.Equal(t, int64(3), resp.Total)
		assert.Equal(t, 2, resp.Limit)
		assert.Equal(t, 1, resp.Offset)
	})

	t.Run("limit is clamped", func(t *testing.T) {
		for _, limit := range []string{"500", "-1", "0"} {
			w := doRequest(router, "GET", "/api/dictionary/search?limit="+limit, nil)
			require.Equal(t, http.StatusOK, w.Code)

			resp := decode[SearchResponse](t, w)
			assert.Equal(t, 2, resp.Limit, limit)
			assert.Len(t, resp.Data, 2, limit)
			assert.Equal(t, int64(3), resp.Total, limit)
		}
	})

	t.Run("unsupported sort", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/dictionary/search?sortBy=random", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid offset", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/dictionary/search?offset=x", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no match returns empty list", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/dictionary/search?q=zzz", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"data":[]`)
	})
}

func TestDictionaryController_Count(t *testing.T) {
	router, _ := setupTestRouter(t, RouterConfig{})

	w := doRequest(router, "GET", "/api/dictionary/count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), decode[CountResponse](t, w).Total)

	w = doRequest(router, "GET", "/api/dictionary/count?q=o", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), decode[CountResponse](t, w).Total) // You, hǎo
}

func TestDictionaryController_Entry(t *testing.T) {
	router, _ := setupTestRouter(t, RouterConfig{})

	w := doRequest(router, "GET", "/api/dictionary/entry/"+url.PathEscape("你"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[EntryResponse](t, w)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "nǐ", resp.Data.Pinyin)

	w = doRequest(router, "GET", "/api/dictionary/entry/"+url.PathEscape("猫"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDictionaryController_StoreUnavailable(t *testing.T) {
	router := setupBrokenRouter(t)

	for _, path := range []string{"/api/dictionary/search", "/api/dictionary/count", "/api/quiz/questions"} {
		w := doRequest(router, "GET", path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
		assert.Contains(t, w.Body.String(), "store_unavailable")
	}
}
