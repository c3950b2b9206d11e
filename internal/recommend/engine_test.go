// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

package recommend

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockCatalog implements CatalogProvider for testing. All maps are
// read-only after construction, so concurrent engine access is safe.
type mockCatalog struct {
	tracks       map[string]TrackMetadata
	searches     map[string][]TrackMetadata
	artistGenres map[string][]string
	searchErr    map[string]error
	trackErr     map[string]error
	searchCalls  int32
}

func (m *mockCatalog) SearchTracks(_ context.Context, query string) ([]TrackMetadata, error) {
	atomic.AddInt32(&m.searchCalls, 1)
	if err := m.searchErr[query]; err != nil {
		return nil, err
	}
	return m.searches[query], nil
}

func (m *mockCatalog) TrackByID(_ context.Context, id string) (TrackMetadata, error) {
	if err := m.trackErr[id]; err != nil {
		return TrackMetadata{}, err
	}
	t, ok := m.tracks[id]
	if !ok {
		return TrackMetadata{}, fmt.Errorf("track %q not found", id)
	}
	return t, nil
}

func (m *mockCatalog) ArtistGenres(_ context.Context, artist string) ([]string, error) {
	return m.artistGenres[artist], nil
}

func newTestEngine(t *testing.T, catalog CatalogProvider) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig(), catalog, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	return e
}

func fixedNow() time.Time {
	return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	if _, err := NewEngine(DefaultConfig(), nil, zerolog.Nop()); err == nil {
		t.Error("nil catalog should fail")
	}

	bad := DefaultConfig()
	bad.Profile = "bogus"
	if _, err := NewEngine(bad, &mockCatalog{}, zerolog.Nop()); err == nil {
		t.Error("invalid config should fail")
	}

	if e, err := NewEngine(nil, &mockCatalog{}, zerolog.Nop()); err != nil || e == nil {
		t.Errorf("nil config should use defaults, got %v", err)
	}
}

func TestRecommendNoSignal(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, &mockCatalog{})

	_, err := e.Recommend(context.Background(), Request{Now: fixedNow()})
	if !errors.Is(err, ErrNoSignal) {
		t.Errorf("Recommend() error = %v, want ErrNoSignal", err)
	}
}

func TestRecommendPreferenceStrategy(t *testing.T) {
	t.Parallel()

	catalog := &mockCatalog{
		searches: map[string][]TrackMetadata{
			"pop": {
				{ID: "p1", Title: "Hit One", Artist: "Alpha", Genre: "pop", Popularity: intPtr(80)},
				{ID: "p2", Title: "Hit Two", Artist: "Beta", Genre: "pop", Popularity: intPtr(65)},
			},
		},
	}
	e := newTestEngine(t, catalog)

	resp, err := e.Recommend(context.Background(), Request{
		Preferences: Preferences{Genres: []string{"pop"}},
		Now:         fixedNow(),
	})
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}

	if resp.Strategy != StrategyPreference {
		t.Errorf("strategy = %q, want %q", resp.Strategy, StrategyPreference)
	}
	if resp.SequenceAnalysis != nil {
		t.Error("sequence analysis should be absent without history")
	}
	if len(resp.Recommendations) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(resp.Recommendations))
	}
	// p1 matches the preferred genre and carries the popularity bonus.
	if resp.Recommendations[0].Track.ID != "p1" {
		t.Errorf("top recommendation = %q, want p1", resp.Recommendations[0].Track.ID)
	}
	if resp.Diagnostics.QueriesIssued != 1 || resp.Diagnostics.CandidatesFound != 2 {
		t.Errorf("diagnostics = %+v", resp.Diagnostics)
	}
}

func TestRecommendHistoryStrategy(t *testing.T) {
	t.Parallel()

	catalog := &mockCatalog{
		tracks: map[string]TrackMetadata{
			"h1": {ID: "h1", Title: "Old One", Artist: "Alpha", Genre: "pop", Popularity: intPtr(60)},
			"h2": {ID: "h2", Title: "Old Two", Artist: "Beta", Genre: "rock", Popularity: intPtr(75)},
			"h3": {ID: "h3", Title: "Old Three", Artist: "Alpha", Genre: "pop", Popularity: intPtr(62)},
		},
		searches: map[string][]TrackMetadata{
			"rock": {
				{ID: "c1", Title: "Fresh Rock", Artist: "Gamma", Genre: "rock", Popularity: intPtr(70)},
				{ID: "h1", Title: "Old One", Artist: "Alpha", Genre: "pop", Popularity: intPtr(60)},
			},
			"pop": {
				{ID: "c2", Title: "Fresh Pop", Artist: "Delta", Genre: "pop", Popularity: intPtr(72)},
			},
		},
	}
	e := newTestEngine(t, catalog)

	resp, err := e.Recommend(context.Background(), Request{
		History: []string{"h1", "h2", "h3"},
		Now:     fixedNow(),
	})
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}

	if resp.Strategy != StrategyHistory {
		t.Errorf("strategy = %q, want %q", resp.Strategy, StrategyHistory)
	}
	if resp.SequenceAnalysis == nil {
		t.Fatal("sequence analysis should be present with history")
	}
	if resp.SequenceAnalysis.GenreTransitions["pop->rock"] != 1 {
		t.Errorf("sequence analysis = %+v", resp.SequenceAnalysis)
	}

	for _, r := range resp.Recommendations {
		if r.Track.ID == "h1" || r.Track.ID == "h2" || r.Track.ID == "h3" {
			t.Errorf("recommendation %q is an input history track", r.Track.ID)
		}
	}
	if len(resp.Recommendations) != 2 {
		t.Errorf("got %d recommendations, want 2 (h1 excluded as seed)", len(resp.Recommendations))
	}
}

func TestRecommendReferenceStrategy(t *testing.T) {
	t.Parallel()

	catalog := &mockCatalog{
		tracks: map[string]TrackMetadata{
			"r1": {ID: "r1", Title: "Don't Stop Me Now", Artist: "Queen", Genre: "rock", Popularity: intPtr(85)},
		},
		artistGenres: map[string][]string{
			"Queen": {"rock", "glam rock"},
		},
		searches: map[string][]TrackMetadata{
			"Don't Stop Me Now Queen": {
				{ID: "c1", Title: "Somebody to Love", Artist: "Queen", Genre: "rock", Popularity: intPtr(80)},
			},
			"rock": {
				{ID: "c2", Title: "Paranoid", Artist: "Black Sabbath", Genre: "metal", Popularity: intPtr(75)},
			},
		},
	}
	e := newTestEngine(t, catalog)

	resp, err := e.Recommend(context.Background(), Request{
		ReferenceTracks: []TrackStub{{ID: "r1", Title: "Don't Stop Me Now", Artist: "Queen"}},
		Now:             fixedNow(),
	})
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}

	if resp.Strategy != StrategyReference {
		t.Errorf("strategy = %q, want %q", resp.Strategy, StrategyReference)
	}
	if resp.SequenceAnalysis != nil {
		t.Error("sequence analysis should be absent in reference mode")
	}
	if len(resp.Recommendations) == 0 {
		t.Fatal("expected recommendations")
	}
	// The same-artist candidate should outrank the unrelated one.
	if resp.Recommendations[0].Track.ID != "c1" {
		t.Errorf("top recommendation = %q, want c1", resp.Recommendations[0].Track.ID)
	}
}

func TestRecommendDegradesFailedQueries(t *testing.T) {
	t.Parallel()

	catalog := &mockCatalog{
		searches: map[string][]TrackMetadata{
			"pop": {{ID: "p1", Title: "Hit", Artist: "Alpha", Genre: "pop", Popularity: intPtr(75)}},
		},
		searchErr: map[string]error{
			"jazz": errors.New("catalog timeout"),
		},
	}
	e := newTestEngine(t, catalog)

	resp, err := e.Recommend(context.Background(), Request{
		Preferences: Preferences{Genres: []string{"pop", "jazz"}},
		Now:         fixedNow(),
	})
	if err != nil {
		t.Fatalf("a single failed query must not fail the request: %v", err)
	}

	if resp.Diagnostics.QueriesIssued != 2 || resp.Diagnostics.QueriesFailed != 1 {
		t.Errorf("diagnostics = %+v, want 2 issued / 1 failed", resp.Diagnostics)
	}
	if len(resp.Recommendations) != 1 {
		t.Errorf("got %d recommendations, want 1 from the surviving query", len(resp.Recommendations))
	}
}

func TestRecommendDegradesFailedEnrichment(t *testing.T) {
	t.Parallel()

	catalog := &mockCatalog{
		tracks: map[string]TrackMetadata{
			"h1": {ID: "h1", Title: "Known", Artist: "Alpha", Genre: "pop", Popularity: intPtr(60)},
		},
		trackErr: map[string]error{
			"h2": errors.New("catalog timeout"),
		},
		searches: map[string][]TrackMetadata{
			"pop": {{ID: "c1", Title: "Fresh", Artist: "Beta", Genre: "pop", Popularity: intPtr(70)}},
		},
	}
	e := newTestEngine(t, catalog)

	resp, err := e.Recommend(context.Background(), Request{
		History: []string{"h1", "h2"},
		Now:     fixedNow(),
	})
	if err != nil {
		t.Fatalf("a failed enrichment must not fail the request: %v", err)
	}
	if resp.Diagnostics.EnrichmentFailures != 1 {
		t.Errorf("EnrichmentFailures = %d, want 1", resp.Diagnostics.EnrichmentFailures)
	}
}

func TestRecommendAuthFailureIsFatal(t *testing.T) {
	t.Parallel()

	authErr := fmt.Errorf("search: %w", ErrCatalogAuth)
	catalog := &mockCatalog{
		searchErr: map[string]error{"pop": authErr},
	}
	e := newTestEngine(t, catalog)

	_, err := e.Recommend(context.Background(), Request{
		Preferences: Preferences{Genres: []string{"pop"}},
		Now:         fixedNow(),
	})
	if !errors.Is(err, ErrCatalogAuth) {
		t.Errorf("Recommend() error = %v, want ErrCatalogAuth", err)
	}
}

func TestRecommendLimit(t *testing.T) {
	t.Parallel()

	var pool []TrackMetadata
	for i := 0; i < 30; i++ {
		pool = append(pool, TrackMetadata{
			ID:         fmt.Sprintf("c%d", i),
			Title:      fmt.Sprintf("Track %d", i),
			Artist:     fmt.Sprintf("Artist %d", i),
			Genre:      "pop",
			Popularity: intPtr(50 + i%40),
		})
	}
	catalog := &mockCatalog{searches: map[string][]TrackMetadata{"pop": pool}}
	e := newTestEngine(t, catalog)

	resp, err := e.Recommend(context.Background(), Request{
		Preferences: Preferences{Genres: []string{"pop"}},
		Limit:       5,
		Now:         fixedNow(),
	})
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	if len(resp.Recommendations) != 5 {
		t.Errorf("got %d recommendations, want 5", len(resp.Recommendations))
	}
	// Metrics cover the uncapped ranked list, not just the returned slice.
	if resp.Diagnostics.CandidatesScored != 30 {
		t.Errorf("CandidatesScored = %d, want 30", resp.Diagnostics.CandidatesScored)
	}
}

func TestRecommendDeterministic(t *testing.T) {
	t.Parallel()

	catalog := &mockCatalog{
		tracks: map[string]TrackMetadata{
			"h1": {ID: "h1", Title: "One", Artist: "Alpha", Genre: "pop", Popularity: intPtr(60)},
			"h2": {ID: "h2", Title: "Two", Artist: "Beta", Genre: "rock", Popularity: intPtr(75)},
		},
		searches: map[string][]TrackMetadata{
			"rock": {
				{ID: "a", Title: "A", Artist: "X", Genre: "rock", Popularity: intPtr(70)},
				{ID: "b", Title: "B", Artist: "Y", Genre: "rock", Popularity: intPtr(70)},
			},
			"pop": {
				{ID: "c", Title: "C", Artist: "Z", Genre: "pop", Popularity: intPtr(70)},
				{ID: "d", Title: "D", Artist: "W", Genre: "pop", Popularity: intPtr(70)},
			},
		},
	}
	e := newTestEngine(t, catalog)

	req := Request{History: []string{"h1", "h2"}, Now: fixedNow()}

	first, err := e.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	first.Diagnostics.LatencyMS = 0

	for i := 0; i < 10; i++ {
		got, err := e.Recommend(context.Background(), req)
		if err != nil {
			t.Fatalf("Recommend() error on run %d: %v", i, err)
		}
		got.Diagnostics.LatencyMS = 0
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("response changed across runs:\nfirst: %+v\ngot:   %+v", first, got)
		}
	}
}

func TestDescribeEvaluation(t *testing.T) {
	t.Parallel()

	guide := DescribeEvaluation()

	if len(guide.Metrics) != 3 {
		t.Fatalf("got %d metric descriptions, want 3", len(guide.Metrics))
	}
	for _, m := range guide.Metrics {
		if m.Name == "" || m.Description == "" {
			t.Errorf("metric %+v is missing a name or description", m)
		}
		if m.Min != 0 || m.Max != 1 {
			t.Errorf("metric %q range = [%f, %f], want [0, 1]", m.Name, m.Min, m.Max)
		}
	}
	if !guide.SampleRequest.HasSignal() {
		t.Error("sample request should carry a usable signal")
	}
	if guide.SampleMetrics.GenreCoherence <= 0 || guide.SampleMetrics.GenreCoherence > 1 {
		t.Errorf("sample coherence = %f, out of (0, 1]", guide.SampleMetrics.GenreCoherence)
	}
}
