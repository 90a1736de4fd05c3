package health_test

import (
	"net/http/httptest"
	"testing"

	"github.com/binhbb2204/Anime-Hub-Group13/internal/health"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/database"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/logger"
	"github.com/gin-gonic/gin"
)

type fakeUpstream string

func (f fakeUpstream) BreakerState() string { return string(f) }

func setupHealthTest(t *testing.T, upstream health.Upstream) (*gin.Engine, func()) {
	logger.Init(logger.ERROR, false, nil)
	db, err := database.Open(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	handler := health.NewHandler(db, upstream)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/healthz", handler.Healthz)
	router.GET("/readyz", handler.Readyz)

	return router, func() { db.Close() }
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest("GET", path, nil))
	return resp
}

func TestHealthz_AlwaysReturnsOK(t *testing.T) {
	router, cleanup := setupHealthTest(t, nil)
	defer cleanup()

	resp := get(router, "/healthz")
	if resp.Code != 200 {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != `{"status":"alive"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestReadyz_HealthySystem(t *testing.T) {
	router, cleanup := setupHealthTest(t, nil)
	defer cleanup()

	resp := get(router, "/readyz")
	if resp.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if body := resp.Body.String(); body != `{"status":"ready"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestReadyz_OpenBreakerStillReady(t *testing.T) {
	router, cleanup := setupHealthTest(t, fakeUpstream("open"))
	defer cleanup()

	resp := get(router, "/readyz")
	if resp.Code != 200 {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != `{"jikan":"open","status":"ready"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestReadyz_DatabaseClosed(t *testing.T) {
	router, cleanup := setupHealthTest(t, nil)
	cleanup()

	if resp := get(router, "/readyz"); resp.Code != 503 {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestReadyz_NoDatabase(t *testing.T) {
	handler := health.NewHandler(nil, nil)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/readyz", handler.Readyz)

	if resp := get(router, "/readyz"); resp.Code != 503 {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}
