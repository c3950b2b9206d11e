// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrNoSignal is returned when a request carries no history, no reference
// tracks, and no preferred genres. The boundary layer should reject such
// requests before invoking the engine; the engine refuses to fabricate
// output from nothing.
var ErrNoSignal = errors.New("no recommendation signal: history, reference tracks, or preferred genres required")

// ErrCatalogAuth marks a total collaborator failure reaching the catalog.
// It is fatal for the whole request and surfaces as one reported failure,
// never a partial result list.
var ErrCatalogAuth = errors.New("catalog authentication failed")

// Engine coordinates discovery, scoring, ranking, and evaluation. It is
// stateless per request: the only shared state is the read-only
// configuration initialized at construction, so it is safe for concurrent
// use.
type Engine struct {
	config  *Config
	profile Profile
	scorer  *Scorer
	moods   *MoodResolver
	catalog CatalogProvider
	logger  zerolog.Logger
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, catalog CatalogProvider, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if catalog == nil {
		return nil, errors.New("catalog provider is required")
	}

	profile, err := ProfileByName(cfg.Profile)
	if err != nil {
		return nil, err
	}

	return &Engine{
		config:  cfg,
		profile: profile,
		scorer:  NewScorer(profile, cfg),
		moods:   NewMoodResolver(cfg.Moods),
		catalog: catalog,
		logger:  logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Recommend generates a ranked, deduplicated recommendation list for one
// request. Given a fixed candidate pool and fixed inputs the output is
// exactly reproducible; discovery concurrency never affects ordering.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	if !req.HasSignal() {
		return nil, ErrNoSignal
	}
	if req.Now.IsZero() {
		req.Now = start
	}
	if req.Limit <= 0 || req.Limit > e.config.Limits.MaxRecommendations {
		req.Limit = e.config.Limits.MaxRecommendations
	}

	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Int("history", len(req.History)).
		Int("references", len(req.ReferenceTracks)).
		Logger()
	logger.Debug().Msg("processing recommendation request")

	// Assemble per-request signals, resolving history and reference
	// metadata through the catalog. Individual lookup failures degrade to
	// placeholder metadata and are counted, never dropped.
	var diag Diagnostics
	in, pattern, extracted, strategy, err := e.buildScoreInput(ctx, req, &diag)
	if err != nil {
		return nil, err
	}

	mood := e.moods.Resolve(req.Preferences.Mood)
	queries := e.buildQueries(req, in, mood, extracted, strategy)
	diag.QueriesIssued = len(queries)

	candidates, failed, err := e.discover(ctx, queries, logger)
	if err != nil {
		return nil, err
	}
	diag.QueriesFailed = failed
	diag.CandidatesFound = len(candidates)

	candidates = DedupCandidates(candidates, SeedSet(req.History, req.ReferenceTracks))
	diag.CandidatesScored = len(candidates)

	recs := make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		recs = append(recs, Recommendation{Track: c, Score: e.scorer.Score(c, in)})
	}
	ranked := RankRecommendations(recs)

	resp := &Response{
		Recommendations: CapRecommendations(ranked, req.Limit),
		Evaluation:      EvaluateRecommendations(ranked),
		Strategy:        strategy,
		Diagnostics:     diag,
	}
	if strategy == StrategyHistory {
		resp.SequenceAnalysis = &pattern
	}
	resp.Diagnostics.LatencyMS = time.Since(start).Milliseconds()

	logger.Debug().
		Int("candidates", diag.CandidatesScored).
		Int("returned", len(resp.Recommendations)).
		Str("strategy", string(strategy)).
		Int64("latency_ms", resp.Diagnostics.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// buildScoreInput resolves metadata and assembles the read-only signal
// bundle shared by every candidate. For reference searches it also returns
// the genres extracted from the reference artists, in artist order, for
// query building.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildScoreInput(ctx context.Context, req Request, diag *Diagnostics) (*scoreInput, SequencePattern, []string, SearchStrategy, error) {
	mood := e.moods.Resolve(req.Preferences.Mood)

	in := &scoreInput{
		preferredGenres: make(map[string]struct{}),
		genreFrequency:  make(map[string]int),
		artistPlays:     make(map[string]int),
		mood:            mood,
		moodGiven:       req.Preferences.Mood != "",
		listenCtx:       req.Context,
		currentTrack:    req.Preferences.CurrentTrack,
	}
	for _, g := range req.Preferences.Genres {
		in.preferredGenres[strings.ToLower(g)] = struct{}{}
	}

	var strategy SearchStrategy
	var pattern SequencePattern
	var extracted []string

	switch {
	case len(req.History) > 0:
		strategy = StrategyHistory
		history, failures, err := e.resolveHistory(ctx, req.History)
		if err != nil {
			return nil, pattern, nil, strategy, err
		}
		diag.EnrichmentFailures += failures
		fillMissingYears(history, req.Now.Year())

		pattern = AnalyzeSequence(history)
		in.history = history
		in.pattern = pattern
		in.acceptance = PredictGenreSet(history)
		for _, t := range history {
			in.genreFrequency[strings.ToLower(t.Genre)]++
			in.artistPlays[strings.ToLower(t.Artist)]++
		}

	case len(req.ReferenceTracks) > 0:
		strategy = StrategyReference
		in.referenceMode = true

		refs, failures, err := e.resolveReferences(ctx, req.ReferenceTracks)
		if err != nil {
			return nil, pattern, nil, strategy, err
		}
		diag.EnrichmentFailures += failures
		in.references = refs

		extracted = e.referenceArtistGenres(ctx, refs)
		for _, g := range extracted {
			in.preferredGenres[strings.ToLower(g)] = struct{}{}
		}

	default:
		strategy = StrategyPreference
	}

	return in, pattern, extracted, strategy, nil
}

// buildQueries selects the query builder matching the search strategy.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildQueries(req Request, in *scoreInput, mood MoodProfile, extracted []string, strategy SearchStrategy) []string {
	maxQ := e.config.Limits.MaxQueries
	switch strategy {
	case StrategyHistory:
		return BuildHistoryQueries(in.history, in.acceptance, req.Preferences, mood, maxQ)
	case StrategyReference:
		return BuildReferenceQueries(req.ReferenceTracks, extracted, req.Preferences, mood, maxQ)
	default:
		return BuildPreferenceQueries(req.Preferences, mood, maxQ)
	}
}

// resolveHistory fetches metadata for each history id. A failed lookup
// degrades to placeholder metadata with the unknown genre; the track is
// never dropped for this reason alone.
func (e *Engine) resolveHistory(ctx context.Context, ids []string) ([]TrackMetadata, int, error) {
	tracks := make([]TrackMetadata, len(ids))
	errs := make([]error, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(idx int, trackID string) {
			defer wg.Done()
			t, err := e.catalog.TrackByID(ctx, trackID)
			if err != nil {
				errs[idx] = err
				tracks[idx] = placeholderTrack(trackID)
				return
			}
			tracks[idx] = t
		}(i, id)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, ErrCatalogAuth) {
			return nil, 0, err
		}
		failures++
		e.logger.Warn().Err(err).Msg("history enrichment failed, using placeholder")
	}
	return tracks, failures, nil
}

// resolveReferences enriches caller-supplied stubs into full metadata
// where the catalog knows the id; stubs without an id or with a failed
// lookup keep their caller-supplied title and artist.
func (e *Engine) resolveReferences(ctx context.Context, stubs []TrackStub) ([]TrackMetadata, int, error) {
	refs := make([]TrackMetadata, len(stubs))
	errs := make([]error, len(stubs))

	var wg sync.WaitGroup
	for i, stub := range stubs {
		wg.Add(1)
		go func(idx int, s TrackStub) {
			defer wg.Done()
			if s.ID == "" {
				refs[idx] = TrackMetadata{Title: s.Title, Artist: s.Artist, Genre: UnknownGenre}
				return
			}
			t, err := e.catalog.TrackByID(ctx, s.ID)
			if err != nil {
				errs[idx] = err
				refs[idx] = TrackMetadata{ID: s.ID, Title: s.Title, Artist: s.Artist, Genre: UnknownGenre}
				return
			}
			refs[idx] = t
		}(i, stub)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, ErrCatalogAuth) {
			return nil, 0, err
		}
		failures++
		e.logger.Warn().Err(err).Msg("reference enrichment failed, using stub")
	}
	return refs, failures, nil
}

// referenceArtistGenres unions the catalog's genres for each distinct
// reference artist. Lookup failures degrade to no genres for that artist.
func (e *Engine) referenceArtistGenres(ctx context.Context, refs []TrackMetadata) []string {
	var artists []string
	seen := make(map[string]struct{}, len(refs))
	for _, r := range refs {
		key := strings.ToLower(r.Artist)
		if r.Artist == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		artists = append(artists, r.Artist)
	}

	results := make([][]string, len(artists))
	var wg sync.WaitGroup
	for i, artist := range artists {
		wg.Add(1)
		go func(idx int, name string) {
			defer wg.Done()
			genres, err := e.catalog.ArtistGenres(ctx, name)
			if err != nil {
				e.logger.Debug().Err(err).Str("artist", name).Msg("artist genre lookup failed")
				return
			}
			results[idx] = genres
		}(i, artist)
	}
	wg.Wait()

	var out []string
	dedup := make(map[string]struct{})
	for _, genres := range results {
		for _, g := range genres {
			key := strings.ToLower(g)
			if _, dup := dedup[key]; dup {
				continue
			}
			dedup[key] = struct{}{}
			out = append(out, g)
		}
	}
	return out
}

// discover runs every query concurrently and flattens the results in query
// order, so the candidate pool is deterministic for fixed catalog answers.
// A failed query contributes an empty result; only a catalog auth failure
// aborts the whole request.
func (e *Engine) discover(ctx context.Context, queries []string, logger zerolog.Logger) ([]TrackMetadata, int, error) {
	results := make([][]TrackMetadata, len(queries))
	errs := make([]error, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(idx int, query string) {
			defer wg.Done()
			tracks, err := e.catalog.SearchTracks(ctx, query)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx] = tracks
		}(i, q)
	}
	wg.Wait()

	failed := 0
	var candidates []TrackMetadata
	for i := range queries {
		if errs[i] != nil {
			if errors.Is(errs[i], ErrCatalogAuth) {
				return nil, 0, errs[i]
			}
			failed++
			logger.Warn().Err(errs[i]).Str("query", queries[i]).Msg("discovery query failed")
			continue
		}
		candidates = append(candidates, results[i]...)
	}
	return candidates, failed, nil
}

// fillMissingYears substitutes the reference year for absent release
// years so the year trend stays comparable across the whole history. The
// reference time comes from the request, keeping the result reproducible.
func fillMissingYears(tracks []TrackMetadata, refYear int) {
	for i := range tracks {
		if tracks[i].ReleaseYear == nil {
			y := refYear
			tracks[i].ReleaseYear = &y
		}
	}
}

// placeholderTrack is the degraded metadata used when enrichment fails:
// unknown genre, absent popularity and year.
func placeholderTrack(id string) TrackMetadata {
	return TrackMetadata{ID: id, Title: id, Genre: UnknownGenre}
}
