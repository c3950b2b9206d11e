// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/zayLatt25/NextTrack/internal/cache"
	"github.com/zayLatt25/NextTrack/internal/config"
	"github.com/zayLatt25/NextTrack/internal/metrics"
	"github.com/zayLatt25/NextTrack/internal/recommend"
)

// maxResponseBytes bounds catalog response bodies to guard against a
// misbehaving upstream.
const maxResponseBytes = 4 << 20

// Client talks to the external music catalog over HTTP. It implements
// recommend.CatalogProvider and is safe for concurrent use. Outbound calls
// are rate limited and responses are cached with a TTL.
type Client struct {
	baseURL     string
	token       string
	searchLimit int

	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger

	// caches are nil when caching is disabled.
	searchCache *cache.LRU[[]recommend.TrackMetadata]
	trackCache  *cache.LRU[recommend.TrackMetadata]
	genreCache  *cache.LRU[[]string]
}

// NewClient creates a catalog client from configuration.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg config.CatalogConfig, logger zerolog.Logger) *Client {
	c := &Client{
		baseURL:     cfg.BaseURL,
		token:       cfg.Token,
		searchLimit: cfg.SearchLimit,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      logger.With().Str("component", "catalog").Logger(),
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}
	if cfg.CacheSize > 0 {
		c.searchCache = cache.NewLRU[[]recommend.TrackMetadata](cfg.CacheSize, cfg.CacheTTL)
		c.trackCache = cache.NewLRU[recommend.TrackMetadata](cfg.CacheSize, cfg.CacheTTL)
		c.genreCache = cache.NewLRU[[]string](cfg.CacheSize, cfg.CacheTTL)
	}
	return c
}

// SearchTracks returns a bounded list of tracks matching a free-text query.
func (c *Client) SearchTracks(ctx context.Context, query string) ([]recommend.TrackMetadata, error) {
	if c.searchCache != nil {
		if tracks, ok := c.searchCache.Get(query); ok {
			metrics.CacheHits.Inc()
			return tracks, nil
		}
		metrics.CacheMisses.Inc()
	}

	endpoint := fmt.Sprintf("%s/tracks/search?q=%s&limit=%d",
		c.baseURL, url.QueryEscape(query), c.searchLimit)

	var resp searchResponse
	if err := c.get(ctx, "search", endpoint, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	tracks := make([]recommend.TrackMetadata, 0, len(resp.Data))
	for _, raw := range resp.Data {
		tracks = append(tracks, normalizeTrack(raw))
	}
	if len(tracks) > c.searchLimit {
		tracks = tracks[:c.searchLimit]
	}

	if c.searchCache != nil {
		c.searchCache.Add(query, tracks)
	}
	return tracks, nil
}

// TrackByID resolves full metadata for a catalog id.
func (c *Client) TrackByID(ctx context.Context, id string) (recommend.TrackMetadata, error) {
	if c.trackCache != nil {
		if track, ok := c.trackCache.Get(id); ok {
			metrics.CacheHits.Inc()
			return track, nil
		}
		metrics.CacheMisses.Inc()
	}

	endpoint := fmt.Sprintf("%s/tracks/%s", c.baseURL, url.PathEscape(id))

	var raw rawTrack
	if err := c.get(ctx, "track", endpoint, &raw); err != nil {
		return recommend.TrackMetadata{}, fmt.Errorf("track %q: %w", id, err)
	}

	track := normalizeTrack(raw)
	if c.trackCache != nil {
		c.trackCache.Add(id, track)
	}
	return track, nil
}

// ArtistGenres returns the genres associated with an artist name. An
// unknown artist yields an empty list, not an error.
func (c *Client) ArtistGenres(ctx context.Context, artist string) ([]string, error) {
	if c.genreCache != nil {
		if genres, ok := c.genreCache.Get(artist); ok {
			metrics.CacheHits.Inc()
			return genres, nil
		}
		metrics.CacheMisses.Inc()
	}

	endpoint := fmt.Sprintf("%s/artists/genres?name=%s", c.baseURL, url.QueryEscape(artist))

	var resp genresResponse
	err := c.get(ctx, "artist_genres", endpoint, &resp)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			resp.Genres = nil
		} else {
			return nil, fmt.Errorf("artist genres %q: %w", artist, err)
		}
	}

	if c.genreCache != nil {
		c.genreCache.Add(artist, resp.Genres)
	}
	return resp.Genres, nil
}

// get performs one rate-limited GET and decodes the JSON response into
// out. HTTP 401/403 map to the engine's fatal auth error, 404 to
// ErrNotFound.
func (c *Client) get(ctx context.Context, operation, endpoint string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	start := time.Now()
	err := c.doGet(ctx, endpoint, out)
	metrics.RecordCatalogRequest(operation, time.Since(start), err)
	return err
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("status %d: %w", resp.StatusCode, recommend.ErrCatalogAuth)
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxResponseBytes)
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
