package jikan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/logger"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/metrics"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	userAgent       = "AnimeHub/1.0 (+github.com/binhbb2204/Anime-Hub-Group13)"
	maxResponseSize = 4 << 20
)

type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestInterval   time.Duration
	SearchCacheTTL    time.Duration
	RecommendCacheTTL time.Duration
	Cache             Cache
	HTTPClient        *http.Client
}

// Client talks to the Jikan v4 API. All calls share one limiter so bursts
// from the recommendation engine stay under the public rate limit.
type Client struct {
	baseURL     string
	http        *http.Client
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker[[]byte]
	cache       Cache
	searchTTL   time.Duration
	listingsTTL time.Duration
	log         *logger.Logger
}

type listResponse struct {
	Data []models.AnimeMeta `json:"data"`
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.jikan.moe/v4"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	limit := rate.Inf
	if opts.RequestInterval > 0 {
		limit = rate.Every(opts.RequestInterval)
	}
	cache := opts.Cache
	if cache == nil {
		cache = noCache{}
	}

	log := logger.WithContext("component", "jikan")
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "jikan-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit_state_changed", "breaker", name, "from", from.String(), "to", to.String())
			metrics.SetBreakerState(int(to))
		},
	})

	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		http:        httpClient,
		limiter:     rate.NewLimiter(limit, 1),
		breaker:     breaker,
		cache:       cache,
		searchTTL:   opts.SearchCacheTTL,
		listingsTTL: opts.RecommendCacheTTL,
		log:         log,
	}
}

func (c *Client) Search(ctx context.Context, query string, limit int) ([]models.AnimeMeta, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.AnimeMeta{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	return c.list(ctx, "search", "/anime", q, c.searchTTL)
}

func (c *Client) TopByGenre(ctx context.Context, genre string, limit int) ([]models.AnimeMeta, error) {
	id, ok := GenreID(genre)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGenre, genre)
	}
	if limit <= 0 {
		limit = DefaultGenreLimit
	}
	q := url.Values{}
	q.Set("genres", strconv.Itoa(id))
	q.Set("order_by", "score")
	q.Set("sort", "desc")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("min_score", strconv.Itoa(minGenreScore))
	return c.list(ctx, "genre", "/anime", q, c.listingsTTL)
}

func (c *Client) Trending(ctx context.Context, limit int) ([]models.AnimeMeta, error) {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	return c.list(ctx, "trending", "/top/anime", q, c.listingsTTL)
}

func (c *Client) Popular(ctx context.Context, limit int) ([]models.AnimeMeta, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	q := url.Values{}
	q.Set("order_by", "popularity")
	q.Set("limit", strconv.Itoa(limit))
	return c.list(ctx, "popular", "/anime", q, c.listingsTTL)
}

// BreakerState reports "closed", "half-open" or "open".
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

func (c *Client) Close() error {
	return c.cache.Close()
}

func (c *Client) list(ctx context.Context, endpoint, path string, q url.Values, ttl time.Duration) ([]models.AnimeMeta, error) {
	u := c.baseURL + path + "?" + q.Encode()

	body, hit := c.cache.Get(u)
	if hit {
		metrics.RecordJikan(endpoint, "cache_hit")
	} else {
		var err error
		body, err = c.fetch(ctx, endpoint, u)
		if err != nil {
			return nil, err
		}
	}

	var res listResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	if !hit {
		c.cache.Set(u, body, ttl)
	}
	if res.Data == nil {
		res.Data = []models.AnimeMeta{}
	}
	return res.Data, nil
}

func (c *Client) fetch(ctx context.Context, endpoint, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		res, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("jikan api request failed: %s", res.Status)
		}
		return io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordJikan(endpoint, "circuit_open")
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		metrics.RecordJikan(endpoint, "error")
		c.log.Warn("jikan_request_failed", "endpoint", endpoint, "error", err.Error())
		return nil, err
	}
	metrics.RecordJikan(endpoint, "ok")
	return body, nil
}
