package recommend

import (
	"context"
	"strconv"
	"testing"

	"github.com/binhbb2204/Anime-Hub-Group13/internal/jikan"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anime(ids ...int) []models.AnimeMeta {
	out := make([]models.AnimeMeta, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.AnimeMeta{MalID: id, Title: "Anime " + strconv.Itoa(id), Genres: []models.Genre{{Name: "G" + strconv.Itoa(id%3)}}})
	}
	return out
}

func span(from, to int) []int {
	var out []int
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func entry(animeID int, title string) models.AnimeListEntry {
	return models.AnimeListEntry{AnimeID: strconv.Itoa(animeID), Title: title, Status: models.StatusCompleted}
}

func zeroRoll(int) int { return 0 }

func TestInferGenres(t *testing.T) {
	cases := map[string][]string{
		"Dragon Ball Z":                {"Action"},
		"Love Live! School Idol":       {"Romance", "School", "Slice of Life"},
		"Little Witch Academia":        {"Fantasy"},
		"Kaguya-sama: Love is War":     {"Romance"},
		"Shingeki no Kyojin":           {"Slice of Life", "Comedy"},
		"Tonikaku Kawaii":              {"Action", "Adventure"},
		"Mobile Suit Gundam":           {"Mecha"},
		"Yamada-kun and the 7 Witches": {"Fantasy"},
	}
	for title, want := range cases {
		assert.Equal(t, want, InferGenres(title), title)
	}
}

func TestTopGenresOrderingAndLimit(t *testing.T) {
	titles := []string{"Dragon Quest", "Battle Game", "Heart Signal", "Magic Kaito", "Funny Valentine", "Space Dandy", "Ghost Hunt"}
	got := TopGenres(titles, RecommendGenreCount)
	require.Len(t, got, 5)
	assert.Equal(t, "Action", got[0])
	// remaining single votes in name order
	assert.Equal(t, []string{"Comedy", "Fantasy", "Romance", "Sci-Fi"}, got[1:])
}

func TestTopGenresPadsToThree(t *testing.T) {
	got := TopGenres(nil, RecommendGenreCount)
	assert.Len(t, got, 3)
	assert.Equal(t, []string{"Action", "Adventure", "Comedy"}, got)

	got = TopGenres([]string{"Heart Catch"}, ProfileGenreCount)
	assert.Equal(t, []string{"Romance", "Action", "Adventure"}, got)
}

func TestRecommendEmptyListUsesPopular(t *testing.T) {
	src := jikan.NewMockSource()
	src.TrendingResults = anime(1, 2, 3)
	src.PopularResults = anime(10, 11, 12)
	e := NewEngine(src, WithRand(zeroRoll))

	res := e.Recommend(context.Background(), nil)
	assert.Len(t, res.Recommendations, 3)
	assert.Len(t, res.Trending, 3)
	assert.Empty(t, res.UserGenres)
	assert.Equal(t, 0, src.CallCount("genre:"))
	for _, r := range res.Recommendations {
		assert.Equal(t, 60, r.MatchPercentage)
	}
	for _, r := range res.Trending {
		assert.Equal(t, 80, r.MatchPercentage)
	}
}

func TestRecommendDedupesFiltersAndCaps(t *testing.T) {
	src := jikan.NewMockSource()
	src.GenreResults["Action"] = anime(span(1, 8)...)
	src.GenreResults["Romance"] = anime(span(8, 15)...)
	src.GenreResults["Adventure"] = anime(span(16, 23)...)
	e := NewEngine(src, WithRand(zeroRoll))

	entries := []models.AnimeListEntry{entry(3, "Dragon Slayer"), entry(9, "Heart of Gold"), entry(100, "Battle Royale")}
	res := e.Recommend(context.Background(), entries)

	require.Len(t, res.Recommendations, MaxRecommendations)
	seen := map[int]bool{}
	for _, r := range res.Recommendations {
		assert.False(t, seen[r.MalID], "duplicate id %d", r.MalID)
		seen[r.MalID] = true
		assert.NotContains(t, []int{3, 9, 100}, r.MalID)
		assert.Equal(t, 70, r.MatchPercentage)
	}
	assert.Equal(t, 1, res.Recommendations[0].MalID)
	assert.Equal(t, 0, src.CallCount("popular"))
}

func TestRecommendTrendingKeepsListedTitles(t *testing.T) {
	src := jikan.NewMockSource()
	src.TrendingResults = anime(3, 4, 4)
	src.GenreResults["Action"] = anime(3, 5, 6, 7, 8, 9)
	e := NewEngine(src, WithRand(zeroRoll))

	res := e.Recommend(context.Background(), []models.AnimeListEntry{entry(3, "Dragon Slayer")})

	trendingIDs := []int{}
	for _, a := range res.Trending {
		trendingIDs = append(trendingIDs, a.MalID)
	}
	assert.Equal(t, []int{3, 4}, trendingIDs)
	for _, r := range res.Recommendations {
		assert.NotEqual(t, 3, r.MalID)
	}
}

func TestRecommendAtMostThreeGenreQueries(t *testing.T) {
	src := jikan.NewMockSource()
	for _, g := range []string{"Action", "Comedy", "Fantasy", "Romance", "Sci-Fi"} {
		src.GenreResults[g] = anime(span(1, 8)...)
	}
	e := NewEngine(src, WithRand(zeroRoll))
	entries := []models.AnimeListEntry{entry(100, "Dragon"), entry(101, "Funny"), entry(102, "Magic"), entry(103, "Love"), entry(104, "Space")}

	res := e.Recommend(context.Background(), entries)
	assert.Equal(t, 3, src.CallCount("genre:"))
	assert.Len(t, res.UserGenres, 5)
}

func TestRecommendPartialGenreFailure(t *testing.T) {
	src := jikan.NewMockSource()
	src.TrendingResults = anime(50, 51)
	src.GenreResults["Action"] = anime(1, 2, 3, 4, 5, 6)
	src.FailGenres["Adventure"] = true
	src.FailGenres["Comedy"] = true
	e := NewEngine(src, WithRand(zeroRoll))

	res := e.Recommend(context.Background(), []models.AnimeListEntry{entry(99, "Generic Title")})
	assert.Len(t, res.Recommendations, 6)
	assert.Len(t, res.Trending, 2)
	assert.Equal(t, 0, src.CallCount("popular"))
}

func TestRecommendFallsBackToPopularWhenGenresThin(t *testing.T) {
	src := jikan.NewMockSource()
	src.GenreResults["Action"] = anime(1, 2)
	src.PopularResults = anime(2, 40, 41)
	e := NewEngine(src, WithRand(func(n int) int { return n - 1 }))

	res := e.Recommend(context.Background(), []models.AnimeListEntry{entry(7, "Unknown")})
	ids := []int{}
	for _, r := range res.Recommendations {
		ids = append(ids, r.MalID)
	}
	assert.Equal(t, []int{1, 2, 40, 41}, ids)
	assert.Equal(t, 99, res.Recommendations[1].MatchPercentage, "first occurrence wins")
	assert.Equal(t, 79, res.Recommendations[2].MatchPercentage)
}

func TestRecommendEverythingFails(t *testing.T) {
	src := jikan.NewMockSource()
	src.ShouldFailTrending = true
	src.ShouldFailPopular = true
	src.FailGenres["Action"] = true
	src.FailGenres["Adventure"] = true
	src.FailGenres["Comedy"] = true
	e := NewEngine(src)

	res := e.Recommend(context.Background(), []models.AnimeListEntry{entry(1, "Plain")})
	assert.NotNil(t, res.Recommendations)
	assert.NotNil(t, res.Trending)
	assert.NotNil(t, res.Genres)
	assert.Empty(t, res.Recommendations)
}

func TestMatchPercentageRanges(t *testing.T) {
	src := jikan.NewMockSource()
	src.TrendingResults = anime(span(1, 20)...)
	src.GenreResults["Action"] = anime(span(100, 107)...)
	e := NewEngine(src)

	for i := 0; i < 20; i++ {
		res := e.Recommend(context.Background(), []models.AnimeListEntry{entry(500, "Fight Club")})
		for _, r := range res.Trending {
			assert.GreaterOrEqual(t, r.MatchPercentage, 80)
			assert.LessOrEqual(t, r.MatchPercentage, 99)
		}
		for _, r := range res.Recommendations {
			if r.MalID >= 100 && r.MalID <= 107 {
				assert.GreaterOrEqual(t, r.MatchPercentage, 70)
				assert.LessOrEqual(t, r.MatchPercentage, 99)
			}
		}
	}
}
