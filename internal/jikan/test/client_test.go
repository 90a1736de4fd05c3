package jikan_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/binhbb2204/Anime-Hub-Group13/internal/jikan"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/logger"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = `{"data":[{"mal_id":1,"title":"Cowboy Bebop","images":{"jpg":{"image_url":"https://cdn.example/1.jpg"}},"score":8.75,"episodes":26,"year":1998,"genres":[{"name":"Action"},{"name":"Sci-Fi"}],"synopsis":"Space bounty hunters."},{"mal_id":5114,"title":"Fullmetal Alchemist: Brotherhood","images":{"jpg":{"image_url":""}},"score":9.1,"episodes":64,"year":null,"genres":[]}]}`

func newServer(t *testing.T, hits *int32, lastQuery *atomic.Value) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		lastQuery.Store(r.URL.Path + "?" + r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientEndpoints(t *testing.T) {
	logger.Init(logger.ERROR, false, nil)
	var hits int32
	var last atomic.Value
	srv := newServer(t, &hits, &last)
	c := jikan.NewClient(jikan.Options{BaseURL: srv.URL})
	ctx := context.Background()

	res, err := c.Search(ctx, "bebop", 0)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "Cowboy Bebop", res[0].Title)
	assert.Equal(t, "https://cdn.example/1.jpg", res[0].ImageURL())
	assert.Equal(t, 0, res[1].Year)
	assert.Equal(t, "/anime?limit=10&q=bebop", last.Load())

	_, err = c.TopByGenre(ctx, "Romance", 0)
	require.NoError(t, err)
	assert.Equal(t, "/anime?genres=22&limit=8&min_score=7&order_by=score&sort=desc", last.Load())

	_, err = c.Trending(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "/top/anime?limit=20", last.Load())

	_, err = c.Popular(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "/anime?limit=15&order_by=popularity", last.Load())
}

func TestClientUnknownGenre(t *testing.T) {
	c := jikan.NewClient(jikan.Options{BaseURL: "http://127.0.0.1:0"})
	_, err := c.TopByGenre(context.Background(), "Underwater Basket Weaving", 0)
	assert.ErrorIs(t, err, jikan.ErrUnknownGenre)
}

func TestGenreIDAliases(t *testing.T) {
	id, ok := jikan.GenreID("Slice of Life")
	assert.True(t, ok)
	assert.Equal(t, 36, id)

	id, ok = jikan.GenreID("Comédia")
	assert.True(t, ok)
	assert.Equal(t, 4, id)
}

func TestClientCachesResponses(t *testing.T) {
	logger.Init(logger.ERROR, false, nil)
	var hits int32
	var last atomic.Value
	srv := newServer(t, &hits, &last)

	cache, err := jikan.NewBadgerCache()
	require.NoError(t, err)
	c := jikan.NewClient(jikan.Options{BaseURL: srv.URL, Cache: cache, RecommendCacheTTL: time.Minute})
	defer c.Close()

	for i := 0; i < 3; i++ {
		res, err := c.Trending(context.Background(), 0)
		require.NoError(t, err)
		require.Len(t, res, 2)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestBadgerCacheRoundTripAndClosedStore(t *testing.T) {
	var logs bytes.Buffer
	logger.Init(logger.DEBUG, true, &logs)
	cache, err := jikan.NewBadgerCache()
	require.NoError(t, err)

	cache.Set("/top/anime", []byte("payload"), time.Minute)
	got, ok := cache.Get("/top/anime")
	require.True(t, ok)
	assert.Equal(t, "payload", string(got))

	cache.Set("/seasons/now", []byte("skipped"), 0)
	_, ok = cache.Get("/seasons/now")
	assert.False(t, ok)
	assert.NotContains(t, logs.String(), "cache_get_failed")

	require.NoError(t, cache.Close())
	cache.Set("/top/anime", []byte("late"), time.Minute)
	assert.Contains(t, logs.String(), "cache_set_failed")
	_, ok = cache.Get("/top/anime")
	assert.False(t, ok)
}

func TestClientRateLimitsSequentialCalls(t *testing.T) {
	logger.Init(logger.ERROR, false, nil)
	var hits int32
	var last atomic.Value
	srv := newServer(t, &hits, &last)
	c := jikan.NewClient(jikan.Options{BaseURL: srv.URL, RequestInterval: 50 * time.Millisecond})

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.Popular(context.Background(), 0)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestClientBreakerOpensAfterFailures(t *testing.T) {
	logger.Init(logger.ERROR, false, nil)
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := jikan.NewClient(jikan.Options{BaseURL: srv.URL})
	assert.Equal(t, "closed", c.BreakerState())

	for i := 0; i < 5; i++ {
		_, err := c.Trending(context.Background(), 0)
		require.Error(t, err)
		assert.False(t, errors.Is(err, jikan.ErrCircuitOpen))
	}
	_, err := c.Trending(context.Background(), 0)
	assert.ErrorIs(t, err, jikan.ErrCircuitOpen)
	assert.Equal(t, int32(5), atomic.LoadInt32(&hits))
	assert.Equal(t, "open", c.BreakerState())
}

func TestSearchHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := jikan.NewMockSource()
	mock.SearchResults = []models.AnimeMeta{{MalID: 1, Title: "Naruto"}, {MalID: 2, Title: "Naruto Shippuden"}, {MalID: 3, Title: "Bleach"}}
	h := jikan.NewHandler(mock)
	r := gin.New()
	r.GET("/anime/search", h.Search)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/anime/search?q=na", nil))
	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"results":[],"total":0}`, w.Body.String())
	assert.Equal(t, 0, mock.CallCount("search"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/anime/search?q=naruto", nil))
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)

	mock.ShouldFailSearch = true
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/anime/search?q=naruto", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/anime/search?q=naruto&limit=100", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
