package recommend

import (
	"sort"
	"strings"
)

const (
	RecommendGenreCount = 5
	ProfileGenreCount   = 6
	minGenres           = 3
)

type keywordRule struct {
	keywords []string
	genres   []string
}

// Matched in order; a title collects every rule it hits.
var keywordRules = []keywordRule{
	{keywords: []string{"love", "heart", "romance"}, genres: []string{"Romance"}},
	{keywords: []string{"dragon", "battle", "fight"}, genres: []string{"Action"}},
	{keywords: []string{"school", "academy"}, genres: []string{"School"}},
	{keywords: []string{"school", "high"}, genres: []string{"Slice of Life"}},
	{keywords: []string{"magic", "fantasy", "witch"}, genres: []string{"Fantasy"}},
	{keywords: []string{"funny", "comedy"}, genres: []string{"Comedy"}},
	{keywords: []string{"ghost", "demon", "spirit"}, genres: []string{"Supernatural"}},
	{keywords: []string{"robot", "mecha", "gundam"}, genres: []string{"Mecha"}},
	{keywords: []string{"space", "galaxy", "cyber"}, genres: []string{"Sci-Fi"}},
	{keywords: []string{"detective", "mystery", "case"}, genres: []string{"Mystery"}},
}

// Honorifics and particles that usually mark everyday-life shows.
var particleHints = []string{" no ", "-kun", "-chan", "-san"}

var (
	particleGenres = []string{"Slice of Life", "Comedy"}
	defaultGenres  = []string{"Action", "Adventure"}
)

// FallbackGenres pads short tallies.
var FallbackGenres = []string{"Action", "Adventure", "Comedy", "Fantasy", "Drama", "Romance"}

// InferGenres guesses genres from a title alone.
func InferGenres(title string) []string {
	lower := strings.ToLower(title)
	var out []string
	seen := map[string]bool{}
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if !strings.Contains(lower, kw) {
				continue
			}
			for _, g := range rule.genres {
				if !seen[g] {
					seen[g] = true
					out = append(out, g)
				}
			}
			break
		}
	}
	if len(out) > 0 {
		return out
	}

	padded := " " + lower + " "
	for _, hint := range particleHints {
		if strings.Contains(padded, hint) {
			return append([]string(nil), particleGenres...)
		}
	}
	return append([]string(nil), defaultGenres...)
}

// TopGenres tallies inferred genres over titles and keeps the n most frequent,
// ties broken by name. The result always has at least three genres.
func TopGenres(titles []string, n int) []string {
	counts := map[string]int{}
	for _, t := range titles {
		for _, g := range InferGenres(t) {
			counts[g]++
		}
	}

	genres := make([]string, 0, len(counts))
	for g := range counts {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool {
		if counts[genres[i]] != counts[genres[j]] {
			return counts[genres[i]] > counts[genres[j]]
		}
		return genres[i] < genres[j]
	})
	if n > 0 && len(genres) > n {
		genres = genres[:n]
	}

	if len(genres) < minGenres {
		have := map[string]bool{}
		for _, g := range genres {
			have[g] = true
		}
		for _, g := range FallbackGenres {
			if len(genres) >= minGenres {
				break
			}
			if !have[g] {
				genres = append(genres, g)
				have[g] = true
			}
		}
	}
	return genres
}
