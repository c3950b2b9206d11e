// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

package recommend

import (
	"fmt"
	"strings"
)

// Config contains all configuration for the recommendation engine. The mood
// table, context tables, and weight profile are immutable after construction
// and shared read-only between requests.
type Config struct {
	// Profile selects the named weight profile: "classic" or "enhanced".
	Profile string `json:"profile"`

	// Moods maps lowercase mood labels to preference profiles.
	// Nil selects the built-in table.
	Moods map[string]MoodProfile `json:"moods,omitempty"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Diversity contains thresholds for the diversity adjustment.
	Diversity DiversityConfig `json:"diversity"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// MaxQueries caps discovery queries per request.
	// Default: 6.
	MaxQueries int `json:"max_queries"`

	// MaxRecommendations caps the returned list length for presentation.
	// Metrics are computed over the uncapped list.
	// Default: 20.
	MaxRecommendations int `json:"max_recommendations"`

	// TrendWindow is how many trailing kept trend points feed the
	// popularity-progression slope.
	// Default: 3.
	TrendWindow int `json:"trend_window"`
}

// DiversityConfig contains thresholds for the diversity adjustment.
type DiversityConfig struct {
	// LowCutoff is the diversity below which introducing an
	// under-represented artist earns a bonus.
	// Default: 0.4.
	LowCutoff float64 `json:"low_cutoff"`

	// HighCutoff is the diversity above which artist continuity earns a
	// small bonus.
	// Default: 0.7.
	HighCutoff float64 `json:"high_cutoff"`
}

// Profile is a named set of scoring weights. All weights are tunable
// configuration; scoring code never hard-codes them.
type Profile struct {
	// Name identifies the profile.
	Name string `json:"name"`

	// GenreMatchBonus is added when the candidate genre is among the
	// explicit preferred genres or genres extracted from reference artists.
	GenreMatchBonus float64 `json:"genre_match_bonus"`

	// SimilarityWeight scales the similarity term (title similarity in
	// history mode, track similarity in reference mode).
	SimilarityWeight float64 `json:"similarity_weight"`

	// SimilarityCap, when positive, caps the weighted similarity term at
	// an absolute maximum instead of scaling linearly.
	SimilarityCap float64 `json:"similarity_cap"`

	// MoodWeight scales the mood-similarity term.
	MoodWeight float64 `json:"mood_weight"`

	// MoodPenaltyThreshold, when positive, turns mood similarity below
	// the threshold into MoodPenalty instead of a small positive term.
	MoodPenaltyThreshold float64 `json:"mood_penalty_threshold"`

	// MoodPenalty is the (negative) value applied below the threshold.
	MoodPenalty float64 `json:"mood_penalty"`

	// ContextWeight scales the context-affinity term (reference mode only).
	ContextWeight float64 `json:"context_weight"`

	// PopularityBonus is added when candidate popularity exceeds 70.
	PopularityBonus float64 `json:"popularity_bonus"`

	// PredictedGenreBonus is added when the candidate genre is in the
	// genre predictor's acceptance set.
	PredictedGenreBonus float64 `json:"predicted_genre_bonus"`

	// ProgressionBonus is added when the candidate's popularity delta
	// from the last history track stays within 20 of the recent trend slope.
	ProgressionBonus float64 `json:"progression_bonus"`

	// ArtistTransitionBonus is added when the (last artist, candidate
	// artist) pair occurred in history in either order, or the artists
	// are identical.
	ArtistTransitionBonus float64 `json:"artist_transition_bonus"`

	// BaseScale scales the base preference score when combined with
	// history signals. Observed calibrations: 1.0 and 0.5.
	BaseScale float64 `json:"base_scale"`

	// DiversityLowBonus rewards an under-represented artist when recent
	// diversity is low.
	DiversityLowBonus float64 `json:"diversity_low_bonus"`

	// DiversityHighBonus rewards artist continuity when diversity is high.
	DiversityHighBonus float64 `json:"diversity_high_bonus"`

	// GenreFrequencyBonus rewards genres recurring at least twice in
	// history. Zero disables the term.
	GenreFrequencyBonus float64 `json:"genre_frequency_bonus"`

	// ConvergentBonus rewards candidates matching both the explicit
	// genre/mood preference and the sequence-predicted genre. Zero
	// disables the term.
	ConvergentBonus float64 `json:"convergent_bonus"`
}

// ClassicProfile returns the linear calibration: full base weight, linear
// similarity, no mood penalty, no frequency or convergence terms.
func ClassicProfile() Profile {
	return Profile{
		Name:                  "classic",
		GenreMatchBonus:       3,
		SimilarityWeight:      2,
		SimilarityCap:         0,
		MoodWeight:            2,
		MoodPenaltyThreshold:  0,
		MoodPenalty:           0,
		ContextWeight:         1,
		PopularityBonus:       1,
		PredictedGenreBonus:   2,
		ProgressionBonus:      1,
		ArtistTransitionBonus: 2,
		BaseScale:             1.0,
		DiversityLowBonus:     1,
		DiversityHighBonus:    0.5,
		GenreFrequencyBonus:   0,
		ConvergentBonus:       0,
	}
}

// EnhancedProfile returns the richer calibration: half base weight under
// history signals, capped similarity, asymmetric mood penalty, and the
// genre-frequency and convergent-evidence terms enabled.
func EnhancedProfile() Profile {
	return Profile{
		Name:                  "enhanced",
		GenreMatchBonus:       3,
		SimilarityWeight:      2,
		SimilarityCap:         1.5,
		MoodWeight:            2,
		MoodPenaltyThreshold:  0.2,
		MoodPenalty:           -1,
		ContextWeight:         1,
		PopularityBonus:       1,
		PredictedGenreBonus:   2,
		ProgressionBonus:      1,
		ArtistTransitionBonus: 2,
		BaseScale:             0.5,
		DiversityLowBonus:     1,
		DiversityHighBonus:    0.5,
		GenreFrequencyBonus:   1,
		ConvergentBonus:       2,
	}
}

// ProfileByName resolves a profile name, defaulting to the enhanced profile
// for an empty name.
func ProfileByName(name string) (Profile, error) {
	switch strings.ToLower(name) {
	case "", "enhanced":
		return EnhancedProfile(), nil
	case "classic":
		return ClassicProfile(), nil
	default:
		return Profile{}, fmt.Errorf("unknown scoring profile %q", name)
	}
}

// DefaultMoodTable returns the built-in mood lookup table.
func DefaultMoodTable() map[string]MoodProfile {
	return map[string]MoodProfile{
		"happy":     {Genres: []string{"pop", "dance", "disco"}, MinPopularity: 60, MaxPopularity: 100},
		"sad":       {Genres: []string{"acoustic", "blues", "indie"}, MinPopularity: 20, MaxPopularity: 70},
		"energetic": {Genres: []string{"rock", "electronic", "hip-hop"}, MinPopularity: 50, MaxPopularity: 100},
		"calm":      {Genres: []string{"ambient", "classical", "jazz"}, MinPopularity: 0, MaxPopularity: 60},
		"romantic":  {Genres: []string{"r-n-b", "soul", "jazz"}, MinPopularity: 30, MaxPopularity: 80},
	}
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Profile: "enhanced",
		Moods:   DefaultMoodTable(),
		Limits: LimitsConfig{
			MaxQueries:         6,
			MaxRecommendations: 20,
			TrendWindow:        3,
		},
		Diversity: DiversityConfig{
			LowCutoff:  0.4,
			HighCutoff: 0.7,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := ProfileByName(c.Profile); err != nil {
		return err
	}
	if c.Limits.MaxQueries < 1 {
		return fmt.Errorf("limits.max_queries must be positive, got %d", c.Limits.MaxQueries)
	}
	if c.Limits.MaxRecommendations < 1 {
		return fmt.Errorf("limits.max_recommendations must be positive, got %d", c.Limits.MaxRecommendations)
	}
	if c.Limits.TrendWindow < 1 {
		return fmt.Errorf("limits.trend_window must be positive, got %d", c.Limits.TrendWindow)
	}
	if c.Diversity.LowCutoff < 0 || c.Diversity.LowCutoff > 1 {
		return fmt.Errorf("diversity.low_cutoff must be in [0, 1], got %f", c.Diversity.LowCutoff)
	}
	if c.Diversity.HighCutoff < c.Diversity.LowCutoff || c.Diversity.HighCutoff > 1 {
		return fmt.Errorf("diversity.high_cutoff must be in [low_cutoff, 1], got %f", c.Diversity.HighCutoff)
	}
	for label, mp := range c.Moods {
		if mp.MinPopularity < 0 || mp.MaxPopularity > 100 || mp.MinPopularity > mp.MaxPopularity {
			return fmt.Errorf("mood %q has invalid popularity range [%d, %d]", label, mp.MinPopularity, mp.MaxPopularity)
		}
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := &Config{
		Profile:   c.Profile,
		Limits:    c.Limits,
		Diversity: c.Diversity,
	}
	if c.Moods != nil {
		out.Moods = make(map[string]MoodProfile, len(c.Moods))
		for label, mp := range c.Moods {
			cp := mp
			cp.Genres = append([]string(nil), mp.Genres...)
			out.Moods[label] = cp
		}
	}
	return out
}
