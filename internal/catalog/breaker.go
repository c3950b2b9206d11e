// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

package catalog

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/zayLatt25/NextTrack/internal/config"
	"github.com/zayLatt25/NextTrack/internal/metrics"
	"github.com/zayLatt25/NextTrack/internal/recommend"
)

// BreakerClient wraps a CatalogProvider with a circuit breaker so a
// failing catalog stops receiving traffic until it recovers. The breaker
// uses real time for its recovery timing; tests exercise the wrapped
// provider directly.
type BreakerClient struct {
	inner recommend.CatalogProvider
	cb    *gobreaker.CircuitBreaker[any]
}

// NewBreakerClient wraps the given provider. The breaker opens after the
// configured number of consecutive failures and probes again after the
// cooldown.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerClient(inner recommend.CatalogProvider, cfg config.CatalogConfig, logger zerolog.Logger) *BreakerClient {
	log := logger.With().Str("component", "catalog_breaker").Logger()
	metrics.CatalogBreakerState.Set(0)

	threshold := uint32(cfg.BreakerFailureThreshold)
	if threshold == 0 {
		threshold = 5
	}

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "catalog",
		MaxRequests: 2,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Not-found is a normal outcome and must not trip the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			log.Warn().
				Str("from", stateString(from)).
				Str("to", stateString(to)).
				Msg("catalog circuit breaker state change")
			metrics.CatalogBreakerState.Set(stateValue(to))
		},
	})

	return &BreakerClient{inner: inner, cb: cb}
}

// SearchTracks implements recommend.CatalogProvider.
func (b *BreakerClient) SearchTracks(ctx context.Context, query string) ([]recommend.TrackMetadata, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return b.inner.SearchTracks(ctx, query)
	})
	return castResult[[]recommend.TrackMetadata](result, err)
}

// TrackByID implements recommend.CatalogProvider.
func (b *BreakerClient) TrackByID(ctx context.Context, id string) (recommend.TrackMetadata, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return b.inner.TrackByID(ctx, id)
	})
	return castResult[recommend.TrackMetadata](result, err)
}

// ArtistGenres implements recommend.CatalogProvider.
func (b *BreakerClient) ArtistGenres(ctx context.Context, artist string) ([]string, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return b.inner.ArtistGenres(ctx, artist)
	})
	return castResult[[]string](result, err)
}

// State returns the current breaker state for health reporting.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

// castResult narrows the breaker's untyped result back to T.
func castResult[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, nil
	}
	return typed, nil
}

func stateString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
