package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("progress not found")

type Store interface {
	Get(ctx context.Context, userID, animeListID string) (*models.AnimeProgress, error)
	Upsert(ctx context.Context, p models.AnimeProgress) (*models.AnimeProgress, error)
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(ctx context.Context, userID, animeListID string) (*models.AnimeProgress, error) {
	var (
		p           models.AnimeProgress
		completedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, anime_list_id, current_episode, total_episodes, completed, completed_at, created_at, updated_at
		 FROM anime_progress WHERE anime_list_id = ? AND user_id = ?`, animeListID, userID).
		Scan(&p.ID, &p.UserID, &p.AnimeListID, &p.CurrentEpisode, &p.TotalEpisodes, &p.Completed, &completedAt, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	if completedAt.Valid {
		t := completedAt.Time
		p.CompletedAt = &t
	}
	return &p, nil
}

// Upsert writes the single progress row of a list entry.
func (s *SQLStore) Upsert(ctx context.Context, p models.AnimeProgress) (*models.AnimeProgress, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO anime_progress (id, user_id, anime_list_id, current_episode, total_episodes, completed, completed_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(anime_list_id) DO UPDATE SET
		     current_episode = excluded.current_episode,
		     total_episodes = excluded.total_episodes,
		     completed = excluded.completed,
		     completed_at = excluded.completed_at,
		     updated_at = excluded.updated_at`,
		uuid.NewString(), p.UserID, p.AnimeListID, p.CurrentEpisode, p.TotalEpisodes, p.Completed, p.CompletedAt, now, now)
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}
	return s.Get(ctx, p.UserID, p.AnimeListID)
}

// Apply sets the completion fields from the episode counts. An unknown total
// never completes.
func Apply(p *models.AnimeProgress, current, total int, now time.Time) {
	p.CurrentEpisode = current
	p.TotalEpisodes = total
	p.Completed = total > 0 && current >= total
	if p.Completed {
		if p.CompletedAt == nil {
			t := now.UTC()
			p.CompletedAt = &t
		}
	} else {
		p.CompletedAt = nil
	}
}
