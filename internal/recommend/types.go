// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

package recommend

import (
	"context"
	"strings"
	"time"
)

// UnknownGenre is the placeholder genre applied when the catalog cannot
// resolve a genre for a track. Genre is always a single non-empty string.
const UnknownGenre = "Unknown Genre"

// TrackMetadata describes one candidate or history track. Instances are
// immutable once constructed; optional fields are normalized exactly once at
// the catalog boundary rather than re-checked inside scoring logic.
type TrackMetadata struct {
	// ID is the opaque catalog key.
	ID string `json:"id"`

	// Title is the track title.
	Title string `json:"title"`

	// Artist is the single primary artist name.
	Artist string `json:"artist"`

	// Genre is the single dominant genre, UnknownGenre if unresolved.
	Genre string `json:"genre"`

	// Album is the album name, if known.
	Album string `json:"album,omitempty"`

	// Popularity is the catalog popularity (0-100), nil when absent.
	Popularity *int `json:"popularity,omitempty"`

	// ReleaseYear is the release year, nil when absent.
	ReleaseYear *int `json:"release_year,omitempty"`
}

// PopularityValue returns the popularity and whether it is present.
func (t TrackMetadata) PopularityValue() (int, bool) {
	if t.Popularity == nil {
		return 0, false
	}
	return *t.Popularity, true
}

// YearValue returns the release year and whether it is present.
func (t TrackMetadata) YearValue() (int, bool) {
	if t.ReleaseYear == nil {
		return 0, false
	}
	return *t.ReleaseYear, true
}

// TrackStub identifies a caller-supplied reference track before enrichment.
type TrackStub struct {
	// ID is the catalog key, if the caller knows it.
	ID string `json:"id,omitempty"`

	// Title is the track title.
	Title string `json:"title"`

	// Artist is the primary artist name.
	Artist string `json:"artist"`
}

// Preferences carries the caller's explicit taste signals.
type Preferences struct {
	// Genres lists preferred genres; order is irrelevant.
	Genres []string `json:"genres,omitempty"`

	// Mood is an optional mood label (happy, sad, energetic, calm, romantic).
	Mood string `json:"mood,omitempty"`

	// CurrentTrack is optional free text naming the track playing now.
	// Used only for title similarity in history mode.
	CurrentTrack string `json:"current_track,omitempty"`
}

// ListeningContext carries optional situational signals.
type ListeningContext struct {
	// TimeOfDay is one of morning, afternoon, evening, night; empty if unknown.
	TimeOfDay string `json:"time_of_day,omitempty"`

	// Activity is one of workout, study, party, relax; empty if unknown.
	Activity string `json:"activity,omitempty"`
}

// SequencePattern is the ephemeral result of mining an ordered history.
type SequencePattern struct {
	// GenreTransitions counts each consecutive ordered genre pair,
	// keyed "G_i->G_j".
	GenreTransitions map[string]int `json:"genre_transitions"`

	// ArtistTransitions counts each consecutive ordered artist pair.
	ArtistTransitions map[string]int `json:"artist_transitions"`

	// PopularityTrend keeps only change points: a popularity is retained
	// when it differs from the last kept point by more than 10.
	PopularityTrend []int `json:"popularity_trend"`

	// ReleaseYearTrend keeps years differing from the last kept point by
	// more than 2.
	ReleaseYearTrend []int `json:"release_year_trend"`

	// ArtistDiversity is unique artists / total tracks, in (0, 1].
	// Valid only when HasDiversity is true; an empty history has no
	// diversity, which is distinct from zero.
	ArtistDiversity float64 `json:"artist_diversity"`

	// HasDiversity reports whether ArtistDiversity is applicable.
	HasDiversity bool `json:"has_diversity"`
}

// MoodProfile is the genre/popularity preference profile for a mood label.
type MoodProfile struct {
	// Genres lists the mood's preferred genres.
	Genres []string `json:"genres"`

	// MinPopularity and MaxPopularity bound the preferred popularity
	// range, inclusive.
	MinPopularity int `json:"min_popularity"`
	MaxPopularity int `json:"max_popularity"`
}

// HasGenre reports whether the profile prefers the given genre,
// case-insensitively.
func (p MoodProfile) HasGenre(genre string) bool {
	for _, g := range p.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// Recommendation pairs a track with its final score, rounded to two
// decimal places.
type Recommendation struct {
	Track TrackMetadata `json:"track"`
	Score float64       `json:"score"`
}

// EvaluationMetrics aggregates quality numbers over a recommendation list.
// Each value is in [0, 1] and defaults to 1 when the list has fewer than
// two entries.
type EvaluationMetrics struct {
	// GenreCoherence is the dominant-genre ratio: the share of the list
	// taken by its most common genre.
	GenreCoherence float64 `json:"genre_coherence"`

	// PopularitySmoothness is max(0, 1 - mean(|delta popularity|)/50)
	// over consecutive entries.
	PopularitySmoothness float64 `json:"popularity_smoothness"`

	// GenreConsistency is the diversity ratio: unique genres / total.
	GenreConsistency float64 `json:"genre_consistency"`
}

// Request is one recommendation request. Exactly one of History and
// ReferenceTracks drives the search strategy; preferred genres alone are
// also an accepted signal.
type Request struct {
	// History is the ordered track-id list, oldest to newest.
	History []string `json:"history,omitempty"`

	// ReferenceTracks are caller-chosen tracks representing explicit
	// preference.
	ReferenceTracks []TrackStub `json:"reference_tracks,omitempty"`

	// Preferences carries genre/mood/current-track signals.
	Preferences Preferences `json:"preferences"`

	// Context carries optional time-of-day and activity signals.
	Context ListeningContext `json:"context"`

	// Limit caps the returned list length; defaults to the configured cap.
	Limit int `json:"limit,omitempty"`

	// Now is the explicit reference time used where a release year is
	// absent. Callers must set it; the engine never reads the wall clock.
	Now time.Time `json:"-"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// HasSignal reports whether the request carries at least one usable input.
func (r Request) HasSignal() bool {
	return len(r.History) > 0 || len(r.ReferenceTracks) > 0 || len(r.Preferences.Genres) > 0
}

// SearchStrategy labels how candidates were discovered.
type SearchStrategy string

const (
	// StrategyHistory mines an ordered listening history.
	StrategyHistory SearchStrategy = "history"
	// StrategyReference scores against caller-chosen reference tracks.
	StrategyReference SearchStrategy = "reference"
	// StrategyPreference falls back to explicit genre preferences only.
	StrategyPreference SearchStrategy = "preference"
)

// Diagnostics carries per-request counters for observability.
type Diagnostics struct {
	// QueriesIssued is the number of discovery queries sent to the catalog.
	QueriesIssued int `json:"queries_issued"`

	// QueriesFailed is the number of discovery queries that returned an
	// error and degraded to an empty result.
	QueriesFailed int `json:"queries_failed"`

	// CandidatesFound is the raw candidate count before dedup.
	CandidatesFound int `json:"candidates_found"`

	// CandidatesScored is the candidate count after id dedup and seed
	// exclusion.
	CandidatesScored int `json:"candidates_scored"`

	// EnrichmentFailures counts history/reference lookups that degraded
	// to placeholder metadata.
	EnrichmentFailures int `json:"enrichment_failures"`

	// LatencyMS is the total request latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`
}

// Response is the engine's answer to one Request.
type Response struct {
	// Recommendations is the ranked, deduplicated list, capped for
	// presentation.
	Recommendations []Recommendation `json:"recommendations"`

	// SequenceAnalysis is present only when a history was given.
	SequenceAnalysis *SequencePattern `json:"sequence_analysis,omitempty"`

	// Evaluation holds aggregate quality metrics computed over the
	// uncapped ranked list.
	Evaluation EvaluationMetrics `json:"evaluation"`

	// Strategy labels the discovery mode used.
	Strategy SearchStrategy `json:"search_strategy"`

	// Diagnostics carries request counters.
	Diagnostics Diagnostics `json:"diagnostics"`
}

// CatalogProvider is the capability surface the engine needs from the
// external music catalog. Implementations live outside this package; the
// engine depends only on this interface, never on transport details.
type CatalogProvider interface {
	// SearchTracks returns a bounded list of tracks matching a free-text
	// query. A failing query returns an error; the engine degrades it to
	// an empty result unless the error is fatal for the whole request.
	SearchTracks(ctx context.Context, query string) ([]TrackMetadata, error)

	// TrackByID resolves full metadata for a catalog id.
	TrackByID(ctx context.Context, id string) (TrackMetadata, error)

	// ArtistGenres returns the genres associated with an artist name,
	// or an empty list when the artist is unknown.
	ArtistGenres(ctx context.Context, artist string) ([]string, error)
}
