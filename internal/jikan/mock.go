package jikan

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
)

// MockSource implements Source for tests.
type MockSource struct {
	mu sync.Mutex

	SearchResults   []models.AnimeMeta
	GenreResults    map[string][]models.AnimeMeta
	TrendingResults []models.AnimeMeta
	PopularResults  []models.AnimeMeta

	// Control flags for error scenarios
	ShouldFailSearch   bool
	ShouldFailTrending bool
	ShouldFailPopular  bool
	FailGenres         map[string]bool

	Calls []string
}

func NewMockSource() *MockSource {
	return &MockSource{
		GenreResults: make(map[string][]models.AnimeMeta),
		FailGenres:   make(map[string]bool),
	}
}

func (m *MockSource) record(call string) {
	m.mu.Lock()
	m.Calls = append(m.Calls, call)
	m.mu.Unlock()
}

// CallCount returns how many calls started with prefix.
func (m *MockSource) CallCount(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (m *MockSource) Search(ctx context.Context, query string, limit int) ([]models.AnimeMeta, error) {
	m.record("search:" + query)
	if m.ShouldFailSearch {
		return nil, fmt.Errorf("mock search error")
	}
	var out []models.AnimeMeta
	q := strings.ToLower(query)
	for _, a := range m.SearchResults {
		if strings.Contains(strings.ToLower(a.Title), q) {
			out = append(out, a)
		}
	}
	return capList(out, limit), nil
}

func (m *MockSource) TopByGenre(ctx context.Context, genre string, limit int) ([]models.AnimeMeta, error) {
	m.record("genre:" + genre)
	if m.FailGenres[genre] {
		return nil, fmt.Errorf("mock genre error: %s", genre)
	}
	return capList(m.GenreResults[genre], limit), nil
}

func (m *MockSource) Trending(ctx context.Context, limit int) ([]models.AnimeMeta, error) {
	m.record("trending")
	if m.ShouldFailTrending {
		return nil, fmt.Errorf("mock trending error")
	}
	return capList(m.TrendingResults, limit), nil
}

func (m *MockSource) Popular(ctx context.Context, limit int) ([]models.AnimeMeta, error) {
	m.record("popular")
	if m.ShouldFailPopular {
		return nil, fmt.Errorf("mock popular error")
	}
	return capList(m.PopularResults, limit), nil
}

func capList(in []models.AnimeMeta, limit int) []models.AnimeMeta {
	out := make([]models.AnimeMeta, 0, len(in))
	out = append(out, in...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
