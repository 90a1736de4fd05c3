package achievement

import (
	"testing"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completed(episodes int, rating *float64) models.AnimeListEntry {
	return models.AnimeListEntry{Status: models.StatusCompleted, Episodes: &episodes, Rating: rating}
}

func ptr(f float64) *float64 { return &f }

func TestLevel(t *testing.T) {
	cases := map[int]int{-3: 0, 0: 0, 4: 0, 5: 1, 9: 1, 10: 2, 49: 9, 50: 10}
	for n, want := range cases {
		assert.Equal(t, want, Level(n), "level(%d)", n)
	}
	prev := 0
	for n := 0; n < 200; n++ {
		l := Level(n)
		assert.GreaterOrEqual(t, l, prev)
		prev = l
	}
}

func TestNextLevelProgress(t *testing.T) {
	assert.Equal(t, 0.0, NextLevelProgress(0))
	assert.Equal(t, 20.0, NextLevelProgress(1))
	assert.Equal(t, 80.0, NextLevelProgress(4))
	assert.Equal(t, 0.0, NextLevelProgress(5))
	assert.Equal(t, 40.0, NextLevelProgress(7))
}

func TestComputeStats(t *testing.T) {
	entries := []models.AnimeListEntry{
		completed(24, ptr(4)),
		completed(12, ptr(5)),
		completed(26, nil),
		completed(10, ptr(0)),
		{Status: models.StatusWatching},
		{Status: models.StatusPlanToWatch},
		{Status: models.StatusPlanToWatch, Rating: ptr(5)},
	}
	s := ComputeStats(entries)

	assert.Equal(t, 4, s.TotalCompleted)
	assert.Equal(t, 1, s.TotalWatching)
	assert.Equal(t, 2, s.TotalPlanned)
	assert.Equal(t, 7, s.TotalCollection)
	assert.Equal(t, 2, s.TotalRated, "zero ratings do not count toward critic achievements")
	assert.InDelta(t, 28.8, s.TotalHours, 0.001)
	assert.InDelta(t, 3.0, s.AverageRating, 0.001)
}

func TestComputeStatsEmpty(t *testing.T) {
	s := ComputeStats(nil)
	assert.Equal(t, Stats{}, s)
}

func findStatus(t *testing.T, statuses []Status, id string) Status {
	t.Helper()
	for _, s := range statuses {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("achievement %s not evaluated", id)
	return Status{}
}

func TestEvaluateThresholds(t *testing.T) {
	stats := Stats{TotalCompleted: 3, TotalRated: 5, TotalHours: 24, TotalCollection: 20}
	statuses := Evaluate(stats, nil, false)
	require.Len(t, statuses, len(Definitions))

	assert.True(t, findStatus(t, statuses, "first_anime").IsUnlocked)
	assert.True(t, findStatus(t, statuses, "anime_novice").IsAchieved)
	assert.False(t, findStatus(t, statuses, "anime_junior").IsAchieved)
	assert.InDelta(t, 30.0, findStatus(t, statuses, "anime_junior").Progress, 0.001)
	assert.True(t, findStatus(t, statuses, "critic_beginner").IsAchieved)
	assert.True(t, findStatus(t, statuses, "time_watcher").IsAchieved)

	collector := findStatus(t, statuses, "collector")
	assert.True(t, collector.IsAchieved)
	assert.False(t, collector.CanUnlock, "premium achievement for a free user")
	assert.Equal(t, 100.0, collector.Progress)
}

func TestEvaluateProgressCapped(t *testing.T) {
	statuses := Evaluate(Stats{TotalCompleted: 500}, nil, true)
	for _, s := range statuses {
		assert.LessOrEqual(t, s.Progress, 100.0)
	}
}

func TestEvaluateNeverRevokesRecordedUnlock(t *testing.T) {
	recorded := map[string]bool{"anime_junior": true}

	before := Evaluate(Stats{TotalCompleted: 10}, recorded, false)
	assert.True(t, findStatus(t, before, "anime_junior").IsUnlocked)

	after := Evaluate(Stats{TotalCompleted: 2}, recorded, false)
	junior := findStatus(t, after, "anime_junior")
	assert.False(t, junior.IsAchieved)
	assert.True(t, junior.IsUnlocked)
	assert.True(t, junior.Recorded)
}

func TestEvaluatePremiumAchievedByFreeUser(t *testing.T) {
	free := findStatus(t, Evaluate(Stats{TotalCollection: 20}, nil, false), "collector")
	assert.True(t, free.IsAchieved)
	assert.True(t, free.IsUnlocked)
	assert.False(t, free.CanUnlock)
	assert.False(t, free.Recorded)

	paid := findStatus(t, Evaluate(Stats{TotalCollection: 20}, nil, true), "collector")
	assert.True(t, paid.CanUnlock)
}

func TestDefinitionsTable(t *testing.T) {
	premium := map[string]bool{}
	for _, d := range Definitions {
		if d.IsPremium {
			premium[d.ID] = true
		}
	}
	assert.Equal(t, map[string]bool{"anime_master": true, "time_master": true, "collector": true}, premium)
}
