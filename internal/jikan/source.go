package jikan

import (
	"context"
	"errors"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
)

const (
	DefaultSearchLimit   = 10
	DefaultGenreLimit    = 8
	DefaultTrendingLimit = 20
	DefaultPopularLimit  = 15
	minGenreScore        = 7
)

var (
	ErrCircuitOpen  = errors.New("metadata api unavailable")
	ErrUnknownGenre = errors.New("unknown genre")
)

// Source is the public anime metadata API.
type Source interface {
	Search(ctx context.Context, query string, limit int) ([]models.AnimeMeta, error)
	TopByGenre(ctx context.Context, genre string, limit int) ([]models.AnimeMeta, error)
	Trending(ctx context.Context, limit int) ([]models.AnimeMeta, error)
	Popular(ctx context.Context, limit int) ([]models.AnimeMeta, error)
}
