package achievement

import (
	"math"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
)

const (
	HoursPerEpisode = 0.4
	AnimePerLevel   = 5
)

// Completion is the achievement type recorded when a premium user finishes a
// specific anime. It is keyed by anime id rather than a threshold.
const Completion = "completion"

type Metric string

const (
	MetricWatched    Metric = "watched_count"
	MetricRatings    Metric = "ratings_count"
	MetricHours      Metric = "hours_watched"
	MetricCollection Metric = "total_collection"
)

type Definition struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Metric      Metric  `json:"type"`
	Requirement float64 `json:"requirement"`
	IsPremium   bool    `json:"is_premium"`
}

var Definitions = []Definition{
	{ID: "first_anime", Name: "First Step", Description: "Watched your first anime", Category: "Progress", Metric: MetricWatched, Requirement: 1},
	{ID: "anime_novice", Name: "Novice", Description: "Watched at least 3 anime", Category: "Progress", Metric: MetricWatched, Requirement: 3},
	{ID: "anime_junior", Name: "Junior Otaku", Description: "Watched at least 10 anime", Category: "Progress", Metric: MetricWatched, Requirement: 10},
	{ID: "anime_senior", Name: "Senior Otaku", Description: "Watched at least 25 anime", Category: "Progress", Metric: MetricWatched, Requirement: 25},
	{ID: "anime_master", Name: "Otaku Master", Description: "Watched at least 50 anime", Category: "Progress", Metric: MetricWatched, Requirement: 50, IsPremium: true},
	{ID: "critic_beginner", Name: "Budding Critic", Description: "Rated at least 5 anime", Category: "Ratings", Metric: MetricRatings, Requirement: 5},
	{ID: "critic_master", Name: "Master Critic", Description: "Rated at least 15 anime", Category: "Ratings", Metric: MetricRatings, Requirement: 15},
	{ID: "time_watcher", Name: "Time Watcher", Description: "Watched at least 24 hours of anime", Category: "Time", Metric: MetricHours, Requirement: 24},
	{ID: "marathoner", Name: "Marathoner", Description: "Watched at least 50 hours of anime", Category: "Time", Metric: MetricHours, Requirement: 50},
	{ID: "time_master", Name: "Master of Time", Description: "Watched at least 100 hours of anime", Category: "Time", Metric: MetricHours, Requirement: 100, IsPremium: true},
	{ID: "collector", Name: "Collector", Description: "Has at least 20 anime across all lists", Category: "Collection", Metric: MetricCollection, Requirement: 20, IsPremium: true},
}

type Stats struct {
	TotalCompleted  int     `json:"total_completed"`
	TotalWatching   int     `json:"total_watching"`
	TotalPlanned    int     `json:"total_planned"`
	TotalRated      int     `json:"total_rated"`
	TotalHours      float64 `json:"total_hours"`
	TotalCollection int     `json:"total_collection"`
	AverageRating   float64 `json:"average_rating"`
}

// ComputeStats folds over every list entry once. Hours, ratings and the
// average only consider completed entries.
func ComputeStats(entries []models.AnimeListEntry) Stats {
	var s Stats
	var ratingSum float64
	var ratedForAverage int
	for _, e := range entries {
		s.TotalCollection++
		switch e.Status {
		case models.StatusWatching:
			s.TotalWatching++
		case models.StatusPlanToWatch:
			s.TotalPlanned++
		case models.StatusCompleted:
			s.TotalCompleted++
			if e.Episodes != nil && *e.Episodes > 0 {
				s.TotalHours += float64(*e.Episodes) * HoursPerEpisode
			}
			if e.Rating != nil {
				ratingSum += *e.Rating
				ratedForAverage++
				if *e.Rating > 0 {
					s.TotalRated++
				}
			}
		}
	}
	if ratedForAverage > 0 {
		s.AverageRating = round1(ratingSum / float64(ratedForAverage))
	}
	s.TotalHours = round1(s.TotalHours)
	return s
}

// Level is one level per five completed anime.
func Level(completed int) int {
	if completed <= 0 {
		return 0
	}
	return completed / AnimePerLevel
}

func NextLevelProgress(completed int) float64 {
	if completed <= 0 {
		return 0
	}
	return float64(completed%AnimePerLevel) / AnimePerLevel * 100
}

type Status struct {
	Definition
	Current    float64 `json:"current"`
	Progress   float64 `json:"progress"`
	IsAchieved bool    `json:"is_achieved"`
	IsUnlocked bool    `json:"is_unlocked"`
	CanUnlock  bool    `json:"can_unlock"`
	Recorded   bool    `json:"recorded"`
}

func (s Stats) value(m Metric) float64 {
	switch m {
	case MetricWatched:
		return float64(s.TotalCompleted)
	case MetricRatings:
		return float64(s.TotalRated)
	case MetricHours:
		return s.TotalHours
	case MetricCollection:
		return float64(s.TotalCollection)
	}
	return 0
}

// Evaluate compares stats against every definition. An existing record in
// unlocked keeps the achievement unlocked even when the count has since dropped.
func Evaluate(stats Stats, unlocked map[string]bool, isPremium bool) []Status {
	out := make([]Status, 0, len(Definitions))
	for _, def := range Definitions {
		current := stats.value(def.Metric)
		achieved := current >= def.Requirement
		progress := 0.0
		if def.Requirement > 0 {
			progress = math.Min(current/def.Requirement*100, 100)
		}
		out = append(out, Status{
			Definition: def,
			Current:    current,
			Progress:   round1(progress),
			IsAchieved: achieved,
			IsUnlocked: unlocked[def.ID] || achieved,
			CanUnlock:  !def.IsPremium || isPremium,
			Recorded:   unlocked[def.ID],
		})
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
