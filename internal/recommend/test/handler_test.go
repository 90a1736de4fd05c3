package recommend_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/binhbb2204/Anime-Hub-Group13/internal/jikan"
	"github.com/binhbb2204/Anime-Hub-Group13/internal/recommend"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/logger"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/gin-gonic/gin"
)

type fixedPremium bool

func (p fixedPremium) IsPremium(context.Context, string) (bool, error) { return bool(p), nil }

type staticList []models.AnimeListEntry

func (l staticList) List(context.Context, string, *models.AnimeStatus) ([]models.AnimeListEntry, error) {
	return l, nil
}

func router(premium bool, entries staticList, src jikan.Source) *gin.Engine {
	logger.Init(logger.ERROR, false, nil)
	gin.SetMode(gin.TestMode)
	h := recommend.NewHandler(recommend.NewEngine(src), entries, fixedPremium(premium))
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", "user1") })
	r.GET("/users/me/recommendations", h.GetRecommendations)
	r.GET("/users/me/genres", h.GetGenres)
	return r
}

func TestRecommendations_FreeUserGetsEmptyStructure(t *testing.T) {
	src := jikan.NewMockSource()
	r := router(false, nil, src)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/users/me/recommendations", nil))
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var res models.RecommendationResult
	json.Unmarshal(w.Body.Bytes(), &res)
	if !res.PremiumRequired || len(res.Recommendations) != 0 || res.Trending == nil {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
	if len(src.Calls) != 0 {
		t.Fatalf("free users should not hit the metadata api, calls: %v", src.Calls)
	}
}

func TestRecommendations_PremiumUser(t *testing.T) {
	src := jikan.NewMockSource()
	src.TrendingResults = []models.AnimeMeta{{MalID: 1, Title: "Frieren", Genres: []models.Genre{{Name: "Adventure"}}}}
	src.GenreResults["Romance"] = []models.AnimeMeta{
		{MalID: 2, Title: "Toradora", Genres: []models.Genre{{Name: "Romance"}}},
		{MalID: 3, Title: "Clannad"},
		{MalID: 4, Title: "Horimiya"},
		{MalID: 5, Title: "Nana"},
		{MalID: 6, Title: "Ao Haru Ride"},
	}
	entries := staticList{{AnimeID: "6", Title: "Heartstrings", Status: models.StatusCompleted}}
	r := router(true, entries, src)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/users/me/recommendations", nil))
	var res models.RecommendationResult
	json.Unmarshal(w.Body.Bytes(), &res)

	if res.PremiumRequired {
		t.Fatal("premium user flagged as free")
	}
	if len(res.Recommendations) != 4 {
		t.Fatalf("expected 4 recommendations after filtering, got %d", len(res.Recommendations))
	}
	if res.UserGenres[0] != "Romance" {
		t.Fatalf("expected Romance first, got %v", res.UserGenres)
	}
	if len(res.Genres) != 2 {
		t.Fatalf("expected genres from results and trending, got %v", res.Genres)
	}
}

func TestGenres_ProfileSummary(t *testing.T) {
	r := router(false, nil, jikan.NewMockSource())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/users/me/genres", nil))

	var body struct {
		Genres []string `json:"genres"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Genres) < 3 {
		t.Fatalf("empty list should still give at least 3 genres, got %v", body.Genres)
	}
}
