package progress_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/binhbb2204/Anime-Hub-Group13/internal/achievement"
	"github.com/binhbb2204/Anime-Hub-Group13/internal/animelist"
	"github.com/binhbb2204/Anime-Hub-Group13/internal/progress"
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
	db.Exec(`INSERT INTO users (id, username, email, password_hash) VALUES ('user1','user1','u1@example.com','x')`)

	list := animelist.NewSQLStore(db)
	h := progress.NewHandler(progress.NewSQLStore(db), list, achievement.NewSQLStore(db), fixedPremium(premium), nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", "user1") })
	r.GET("/users/me/anime/:id/progress", h.GetProgress)
	r.PUT("/users/me/anime/:id/progress", h.UpdateProgress)
	return db, list, r
}

func put(r *gin.Engine, id string, body map[string]int) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest("PUT", "/users/me/anime/"+id+"/progress", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newEntry(t *testing.T, list *animelist.SQLStore, episodes int) *models.AnimeListEntry {
	t.Helper()
	e, err := list.Create(context.Background(), "user1", models.AddAnimeRequest{AnimeID: "1535", Title: "Death Note", Status: "watching", Episodes: &episodes})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	return e
}

func TestApply(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var p models.AnimeProgress

	progress.Apply(&p, 3, 12, now)
	if p.Completed || p.CompletedAt != nil {
		t.Fatalf("3/12 should not complete: %+v", p)
	}
	progress.Apply(&p, 12, 12, now)
	if !p.Completed || p.CompletedAt == nil {
		t.Fatalf("12/12 should complete: %+v", p)
	}
	first := *p.CompletedAt
	progress.Apply(&p, 13, 12, now.Add(time.Hour))
	if !p.CompletedAt.Equal(first) {
		t.Fatal("completed_at should not move once set")
	}
	progress.Apply(&p, 0, 0, now)
	if p.Completed {
		t.Fatal("unknown total must not complete")
	}
	progress.Apply(&p, 5, 12, now)
	if p.CompletedAt != nil {
		t.Fatal("completed_at should clear when progress goes back")
	}
}

func TestUpdateProgress_InProgress(t *testing.T) {
	_, list, r := setup(t, false)
	e := newEntry(t, list, 37)

	w := put(r, e.ID, map[string]int{"current_episode": 10})
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.ProgressResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Progress.TotalEpisodes != 37 || resp.Progress.Completed {
		t.Fatalf("unexpected progress %+v", resp.Progress)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/users/me/anime/"+e.ID+"/progress", nil))
	var got models.AnimeProgress
	json.Unmarshal(w.Body.Bytes(), &got)
	if got.CurrentEpisode != 10 {
		t.Fatalf("expected episode 10, got %d", got.CurrentEpisode)
	}
}

func TestUpdateProgress_CompletionMovesStatus(t *testing.T) {
	db, list, r := setup(t, false)
	e := newEntry(t, list, 37)

	w := put(r, e.ID, map[string]int{"current_episode": 37, "total_episodes": 37})
	var resp models.ProgressResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Progress.Completed || resp.AchievementAwarded {
		t.Fatalf("free user completion: %+v", resp)
	}

	got, _ := list.Get(context.Background(), "user1", e.ID)
	if got.Status != models.StatusCompleted {
		t.Fatalf("expected completed status, got %s", got.Status)
	}

	var n int
	db.QueryRow(`SELECT COUNT(*) FROM user_achievements`).Scan(&n)
	if n != 0 {
		t.Fatalf("free users get no completion achievement, found %d", n)
	}
}

func TestUpdateProgress_PremiumCompletionIsIdempotent(t *testing.T) {
	db, list, r := setup(t, true)
	e := newEntry(t, list, 12)

	w := put(r, e.ID, map[string]int{"current_episode": 12})
	var resp models.ProgressResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.AchievementAwarded {
		t.Fatal("expected completion achievement for premium user")
	}

	w = put(r, e.ID, map[string]int{"current_episode": 12})
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.AchievementAwarded {
		t.Fatal("second completion should not award again")
	}

	var n int
	db.QueryRow(`SELECT COUNT(*) FROM user_achievements WHERE achievement_type = 'completion' AND anime_id = '1535'`).Scan(&n)
	if n != 1 {
		t.Fatalf("expected one completion row, got %d", n)
	}
}

func TestUpdateProgress_Errors(t *testing.T) {
	_, list, r := setup(t, false)
	e := newEntry(t, list, 12)

	if w := put(r, "missing", map[string]int{"current_episode": 1}); w.Code != 404 {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := put(r, e.ID, map[string]int{}); w.Code != 400 {
		t.Fatalf("missing current_episode: expected 400, got %d", w.Code)
	}
	if w := put(r, e.ID, map[string]int{"current_episode": -2}); w.Code != 400 {
		t.Fatalf("negative episode: expected 400, got %d", w.Code)
	}
}
