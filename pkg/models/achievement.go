package models

import "time"

type UserAchievement struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	AchievementType string    `json:"achievement_type" db:"achievement_type"`
	AnimeID         string    `json:"anime_id" db:"anime_id"`
	AnimeTitle      string    `json:"anime_title" db:"anime_title"`
	AnimeIcon       *string   `json:"anime_icon,omitempty" db:"anime_icon"`
	UnlockedAt      time.Time `json:"unlocked_at" db:"unlocked_at"`
}

type DashboardStats struct {
	TotalCompleted    int              `json:"total_completed"`
	TotalWatching     int              `json:"total_watching"`
	TotalPlanned      int              `json:"total_planned"`
	TotalHours        float64          `json:"total_hours"`
	AverageRating     float64          `json:"average_rating"`
	Level             int              `json:"level"`
	NextLevelProgress float64          `json:"next_level_progress"`
	RecentCompleted   []AnimeListEntry `json:"recent_completed"`
	Planned           []AnimeListEntry `json:"planned"`
}
