package models

import (
	"errors"
	"time"
)

type AnimeStatus string

const (
	StatusWatching    AnimeStatus = "watching"
	StatusCompleted   AnimeStatus = "completed"
	StatusPlanToWatch AnimeStatus = "plan_to_watch"
)

var ErrInvalidStatus = errors.New("status must be one of watching, completed, plan_to_watch")

// AllStatuses lists every value a list entry may carry.
var AllStatuses = []AnimeStatus{StatusWatching, StatusCompleted, StatusPlanToWatch}

func (s AnimeStatus) Valid() bool {
	switch s {
	case StatusWatching, StatusCompleted, StatusPlanToWatch:
		return true
	}
	return false
}

func ParseAnimeStatus(s string) (AnimeStatus, error) {
	st := AnimeStatus(s)
	if !st.Valid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// AnimeListEntry is one row of a user's watch list. The same external
// anime may appear more than once.
type AnimeListEntry struct {
	ID        string      `json:"id" db:"id"`
	AnimeID   string      `json:"anime_id" db:"anime_id"`
	Title     string      `json:"title" db:"title"`
	Image     *string     `json:"image" db:"image"`
	Episodes  *int        `json:"episodes" db:"episodes"`
	Year      *int        `json:"year" db:"year"`
	Status    AnimeStatus `json:"status" db:"status"`
	Rating    *float64    `json:"rating" db:"rating"`
	Notes     *string     `json:"notes" db:"notes"`
	UserID    string      `json:"user_id" db:"user_id"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

type AddAnimeRequest struct {
	AnimeID  string   `json:"anime_id" binding:"max=64"`
	Title    string   `json:"title" binding:"required,max=255"`
	Image    *string  `json:"image" binding:"omitempty,max=1024"`
	Episodes *int     `json:"episodes" binding:"omitempty,min=0"`
	Year     *int     `json:"year" binding:"omitempty,min=1900,max=2100"`
	Status   string   `json:"status" binding:"required,oneof=watching completed plan_to_watch"`
	Rating   *float64 `json:"rating" binding:"omitempty,min=0,max=5"`
	Notes    *string  `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateAnimeRequest carries a partial update; nil fields are left untouched.
type UpdateAnimeRequest struct {
	Title    *string  `json:"title" binding:"omitempty,min=1,max=255"`
	Image    *string  `json:"image" binding:"omitempty,max=1024"`
	Episodes *int     `json:"episodes" binding:"omitempty,min=0"`
	Year     *int     `json:"year" binding:"omitempty,min=1900,max=2100"`
	Status   *string  `json:"status" binding:"omitempty,oneof=watching completed plan_to_watch"`
	Rating   *float64 `json:"rating" binding:"omitempty,min=0,max=5"`
	Notes    *string  `json:"notes" binding:"omitempty,max=2000"`
}

type AnimeList struct {
	Watching    []AnimeListEntry `json:"watching"`
	Completed   []AnimeListEntry `json:"completed"`
	PlanToWatch []AnimeListEntry `json:"plan_to_watch"`
}
