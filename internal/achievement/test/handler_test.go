package achievement_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/binhbb2204/Anime-Hub-Group13/internal/achievement"
	"github.com/binhbb2204/Anime-Hub-Group13/internal/animelist"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/database"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/logger"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/gin-gonic/gin"
)

type fixedPremium bool

func (p fixedPremium) IsPremium(context.Context, string) (bool, error) { return bool(p), nil }

func setup(t *testing.T, premium bool) (*sql.DB, *animelist.SQLStore, *gin.Engine) {
	t.Helper()
	logger.Init(logger.ERROR, false, nil)
	db, err := database.Open(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(`INSERT INTO users (id, username, email, password_hash) VALUES ('user1','user1','u1@example.com','x')`); err != nil {
		t.Fatalf("seed: %v", err)
	}

	list := animelist.NewSQLStore(db)
	h := achievement.NewHandler(list, achievement.NewSQLStore(db), fixedPremium(premium), nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", "user1") })
	r.GET("/users/me/stats", h.GetStats)
	r.GET("/users/me/achievements", h.GetAchievements)
	return db, list, r
}

func addCompleted(t *testing.T, list *animelist.SQLStore, title string, episodes int) *models.AnimeListEntry {
	t.Helper()
	e, err := list.Create(context.Background(), "user1", models.AddAnimeRequest{Title: title, Status: "completed", Episodes: &episodes})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return e
}

func TestGetStats_Dashboard(t *testing.T) {
	_, list, r := setup(t, false)
	for i := 0; i < 6; i++ {
		addCompleted(t, list, "Show", 25)
	}
	list.Create(context.Background(), "user1", models.AddAnimeRequest{Title: "Later", Status: "plan_to_watch"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/users/me/stats", nil))
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var stats models.DashboardStats
	json.Unmarshal(w.Body.Bytes(), &stats)
	if stats.TotalCompleted != 6 || stats.Level != 1 || stats.NextLevelProgress != 20 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.TotalHours != 60 {
		t.Fatalf("expected 60 hours, got %v", stats.TotalHours)
	}
	if len(stats.RecentCompleted) != 4 || len(stats.Planned) != 1 {
		t.Fatalf("unexpected previews: %d completed, %d planned", len(stats.RecentCompleted), len(stats.Planned))
	}
}

func TestGetAchievements_RecordsAndKeepsUnlock(t *testing.T) {
	db, list, r := setup(t, false)
	entry := addCompleted(t, list, "Cowboy Bebop", 26)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/users/me/achievements", nil))
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var n int
	db.QueryRow(`SELECT COUNT(*) FROM user_achievements WHERE user_id = 'user1' AND achievement_type = 'first_anime'`).Scan(&n)
	if n != 1 {
		t.Fatalf("expected first_anime to be recorded once, got %d", n)
	}

	if err := list.Delete(context.Background(), "user1", entry.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/users/me/achievements", nil))
	var resp struct {
		Achievements []achievement.Status `json:"achievements"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	for _, s := range resp.Achievements {
		if s.ID == "first_anime" && !s.IsUnlocked {
			t.Fatal("first_anime was revoked after the list shrank")
		}
	}

	db.QueryRow(`SELECT COUNT(*) FROM user_achievements WHERE user_id = 'user1'`).Scan(&n)
	if n != 1 {
		t.Fatalf("recompute should not add rows, got %d", n)
	}
}

func TestGetAchievements_PremiumOnlyNotRecordedForFreeUser(t *testing.T) {
	db, list, r := setup(t, false)
	for i := 0; i < 20; i++ {
		list.Create(context.Background(), "user1", models.AddAnimeRequest{Title: "Queued", Status: "plan_to_watch"})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/users/me/achievements", nil))
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var n int
	db.QueryRow(`SELECT COUNT(*) FROM user_achievements WHERE achievement_type = 'collector'`).Scan(&n)
	if n != 0 {
		t.Fatal("collector recorded for a free user")
	}
}
