package achievement

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/google/uuid"
)

type Store interface {
	List(ctx context.Context, userID string) ([]models.UserAchievement, error)
	// Record inserts an unlock and reports whether it was new.
	Record(ctx context.Context, a models.UserAchievement) (bool, error)
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) List(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, achievement_type, anime_id, anime_title, anime_icon, unlocked_at
		 FROM user_achievements WHERE user_id = ? ORDER BY unlocked_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()

	out := []models.UserAchievement{}
	for rows.Next() {
		var a models.UserAchievement
		var icon sql.NullString
		if err := rows.Scan(&a.ID, &a.UserID, &a.AchievementType, &a.AnimeID, &a.AnimeTitle, &icon, &a.UnlockedAt); err != nil {
			return nil, err
		}
		if icon.Valid {
			a.AnimeIcon = &icon.String
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) Record(ctx context.Context, a models.UserAchievement) (bool, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.UnlockedAt.IsZero() {
		a.UnlockedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO user_achievements (id, user_id, achievement_type, anime_id, anime_title, anime_icon, unlocked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, achievement_type, anime_id) DO NOTHING`,
		a.ID, a.UserID, a.AchievementType, a.AnimeID, a.AnimeTitle, a.AnimeIcon, a.UnlockedAt)
	if err != nil {
		return false, fmt.Errorf("record achievement: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
