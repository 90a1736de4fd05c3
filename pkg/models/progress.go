package models

import "time"

type AnimeProgress struct {
	ID             string     `json:"id" db:"id"`
	UserID         string     `json:"user_id" db:"user_id"`
	AnimeListID    string     `json:"anime_list_id" db:"anime_list_id"`
	CurrentEpisode int        `json:"current_episode" db:"current_episode"`
	TotalEpisodes  int        `json:"total_episodes" db:"total_episodes"`
	Completed      bool       `json:"completed" db:"completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

type UpdateProgressRequest struct {
	CurrentEpisode *int `json:"current_episode" binding:"required,min=0"`
	TotalEpisodes  *int `json:"total_episodes" binding:"omitempty,min=0"`
}

type ProgressResponse struct {
	Progress           AnimeProgress `json:"progress"`
	AchievementAwarded bool          `json:"achievement_awarded"`
}
