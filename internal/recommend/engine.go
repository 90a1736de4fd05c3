package recommend

import (
	"context"
	"math/rand"
	"strconv"

	"github.com/binhbb2204/Anime-Hub-Group13/internal/jikan"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/logger"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/metrics"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
)

const (
	MaxRecommendations = 20
	maxGenreQueries    = 3
	minGenreResults    = 5
)

// Cosmetic match ranges per source, [min, min+span).
type matchRange struct{ min, span int }

var (
	genreMatch    = matchRange{70, 30}
	trendingMatch = matchRange{80, 20}
	popularMatch  = matchRange{60, 20}
)

type Engine struct {
	source jikan.Source
	intn   func(n int) int
	log    *logger.Logger
}

type Option func(*Engine)

// WithRand swaps the roll used for match percentages.
func WithRand(intn func(n int) int) Option {
	return func(e *Engine) { e.intn = intn }
}

func NewEngine(source jikan.Source, opts ...Option) *Engine {
	e := &Engine{
		source: source,
		intn:   rand.Intn,
		log:    logger.WithContext("component", "recommend"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend never fails. Sub-queries that error are logged and contribute
// nothing.
func (e *Engine) Recommend(ctx context.Context, entries []models.AnimeListEntry) models.RecommendationResult {
	result := models.EmptyRecommendationResult()

	trending, err := e.source.Trending(ctx, jikan.DefaultTrendingLimit)
	if err != nil {
		e.log.Warn("trending_fetch_failed", "error", err.Error())
	}
	// Trending is the global feed and keeps titles already on the user's list.
	result.Trending = dedupe(e.roll(trending, trendingMatch), nil, 0)

	var candidates []models.AnimeMeta
	source := "popular"
	if len(entries) == 0 {
		candidates = e.popular(ctx)
	} else {
		source = "genres"
		titles := make([]string, 0, len(entries))
		for _, en := range entries {
			titles = append(titles, en.Title)
		}
		result.UserGenres = TopGenres(titles, RecommendGenreCount)

		for i, genre := range result.UserGenres {
			if i >= maxGenreQueries {
				break
			}
			items, err := e.source.TopByGenre(ctx, genre, jikan.DefaultGenreLimit)
			if err != nil {
				e.log.Warn("genre_fetch_failed", "genre", genre, "error", err.Error())
				continue
			}
			candidates = append(candidates, e.roll(items, genreMatch)...)
		}
		if len(candidates) < minGenreResults {
			source = "genres_with_popular"
			candidates = append(candidates, e.popular(ctx)...)
		}
	}

	result.Recommendations = dedupe(candidates, listedIDs(entries), MaxRecommendations)
	result.Genres = collectGenres(result.Recommendations, result.Trending)
	metrics.RecommendationsServed.WithLabelValues(source).Inc()
	return result
}

func (e *Engine) popular(ctx context.Context) []models.AnimeMeta {
	items, err := e.source.Popular(ctx, jikan.DefaultPopularLimit)
	if err != nil {
		e.log.Warn("popular_fetch_failed", "error", err.Error())
		return nil
	}
	return e.roll(items, popularMatch)
}

func (e *Engine) roll(items []models.AnimeMeta, r matchRange) []models.AnimeMeta {
	out := make([]models.AnimeMeta, len(items))
	for i, it := range items {
		it.MatchPercentage = r.min + e.intn(r.span)
		out[i] = it
	}
	return out
}

// dedupe keeps the first occurrence of each id, drops excluded ids and caps
// the result when limit > 0.
func dedupe(items []models.AnimeMeta, exclude map[int]bool, limit int) []models.AnimeMeta {
	out := make([]models.AnimeMeta, 0, len(items))
	seen := make(map[int]bool, len(items))
	for _, it := range items {
		if seen[it.MalID] || exclude[it.MalID] {
			continue
		}
		seen[it.MalID] = true
		out = append(out, it)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func listedIDs(entries []models.AnimeListEntry) map[int]bool {
	ids := make(map[int]bool, len(entries))
	for _, e := range entries {
		if id, err := strconv.Atoi(e.AnimeID); err == nil {
			ids[id] = true
		}
	}
	return ids
}

func collectGenres(lists ...[]models.AnimeMeta) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, list := range lists {
		for _, a := range list {
			for _, g := range a.Genres {
				if g.Name != "" && !seen[g.Name] {
					seen[g.Name] = true
					out = append(out, g.Name)
				}
			}
		}
	}
	return out
}
