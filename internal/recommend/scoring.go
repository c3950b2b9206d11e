// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

package recommend

import (
	"math"
	"strings"
)

// highPopularityCutoff is the popularity above which the flat popularity
// bonus applies.
const highPopularityCutoff = 70

// progressionTolerance is the maximum distance between a candidate's
// popularity delta and the recent trend slope for the progression bonus.
const progressionTolerance = 20.0

// scoreInput bundles the per-request signals shared by every candidate.
// It is assembled once per request and read-only during scoring.
type scoreInput struct {
	history    []TrackMetadata
	pattern    SequencePattern
	acceptance []string
	references []TrackMetadata

	// preferredGenres is the lowercase union of explicit preferred genres
	// and genres extracted from the reference tracks' artists.
	preferredGenres map[string]struct{}

	// genreFrequency counts genre occurrences across the history.
	genreFrequency map[string]int

	// artistPlays counts per-artist occurrences across the history.
	artistPlays map[string]int

	mood          MoodProfile
	moodGiven     bool
	listenCtx     ListeningContext
	currentTrack  string
	referenceMode bool
}

// Scorer computes one score per candidate under a named weight profile.
// It is pure: the same candidate and input always produce the same score.
type Scorer struct {
	profile   Profile
	diversity DiversityConfig
	trendWin  int
	context   *ContextScorer
}

// NewScorer builds a scorer from engine configuration.
func NewScorer(profile Profile, cfg *Config) *Scorer {
	return &Scorer{
		profile:   profile,
		diversity: cfg.Diversity,
		trendWin:  cfg.Limits.TrendWindow,
		context:   NewContextScorer(),
	}
}

// Score computes the final score for one candidate, rounded to two
// decimal places.
func (s *Scorer) Score(candidate TrackMetadata, in *scoreInput) float64 {
	var score float64
	if len(in.history) == 0 {
		score = s.baseScore(candidate, in)
	} else {
		score = s.historyScore(candidate, in)
	}
	return roundScore(score)
}

// historyScore combines the sequence-derived terms with the scaled base
// preference score.
func (s *Scorer) historyScore(candidate TrackMetadata, in *scoreInput) float64 {
	p := s.profile
	score := p.BaseScale * s.baseScore(candidate, in)

	if containsFold(in.acceptance, candidate.Genre) {
		score += p.PredictedGenreBonus
	}

	score += s.progressionTerm(candidate, in)
	score += s.artistTransitionTerm(candidate, in)
	score += s.diversityTerm(candidate, in)

	if p.GenreFrequencyBonus > 0 && in.genreFrequency[strings.ToLower(candidate.Genre)] >= 2 {
		score += p.GenreFrequencyBonus
	}
	if p.ConvergentBonus > 0 && s.matchesPreference(candidate, in) && containsFold(in.acceptance, candidate.Genre) {
		score += p.ConvergentBonus
	}

	return score
}

// progressionTerm rewards candidates whose popularity continues the recent
// trend: |delta(candidate, last) - slope| < 20, where slope is the mean
// successive delta of the last few kept trend points.
func (s *Scorer) progressionTerm(candidate TrackMetadata, in *scoreInput) float64 {
	last, ok := LastTrack(in.history)
	if !ok {
		return 0
	}
	cp, cok := candidate.PopularityValue()
	lp, lok := last.PopularityValue()
	if !cok || !lok {
		return 0
	}

	slope, ok := trendSlope(in.pattern.PopularityTrend, s.trendWin)
	if !ok {
		return 0
	}
	if math.Abs(float64(cp-lp)-slope) < progressionTolerance {
		return s.profile.ProgressionBonus
	}
	return 0
}

// trendSlope is the mean successive delta over the last window kept points.
// At least two points are required.
func trendSlope(trend []int, window int) (float64, bool) {
	if len(trend) < 2 {
		return 0, false
	}
	if window < 2 {
		window = 2
	}
	start := len(trend) - window
	if start < 0 {
		start = 0
	}
	recent := trend[start:]

	sum := 0.0
	for i := 1; i < len(recent); i++ {
		sum += float64(recent[i] - recent[i-1])
	}
	return sum / float64(len(recent)-1), true
}

// artistTransitionTerm rewards candidates whose artist pairs with the last
// history artist in either direction, or is the same artist.
func (s *Scorer) artistTransitionTerm(candidate TrackMetadata, in *scoreInput) float64 {
	last, ok := LastTrack(in.history)
	if !ok || candidate.Artist == "" {
		return 0
	}
	if strings.EqualFold(candidate.Artist, last.Artist) {
		return s.profile.ArtistTransitionBonus
	}

	forward := transitionKey(last.Artist, candidate.Artist)
	backward := transitionKey(candidate.Artist, last.Artist)
	if in.pattern.ArtistTransitions[forward] > 0 || in.pattern.ArtistTransitions[backward] > 0 {
		return s.profile.ArtistTransitionBonus
	}
	return 0
}

// diversityTerm nudges the list toward exploration when the recent history
// is repetitive and toward continuity when it is already varied.
func (s *Scorer) diversityTerm(candidate TrackMetadata, in *scoreInput) float64 {
	if !in.pattern.HasDiversity {
		return 0
	}
	last, ok := LastTrack(in.history)
	if !ok {
		return 0
	}

	switch {
	case in.pattern.ArtistDiversity < s.diversity.LowCutoff:
		if !strings.EqualFold(candidate.Artist, last.Artist) && in.artistPlays[strings.ToLower(candidate.Artist)] == 0 {
			return s.profile.DiversityLowBonus
		}
	case in.pattern.ArtistDiversity >= s.diversity.HighCutoff:
		if strings.EqualFold(candidate.Artist, last.Artist) {
			return s.profile.DiversityHighBonus
		}
	}
	return 0
}

// baseScore is the preference score used alone when no history exists and
// scaled into the combined score otherwise.
func (s *Scorer) baseScore(candidate TrackMetadata, in *scoreInput) float64 {
	p := s.profile
	score := 0.0

	if s.matchesPreference(candidate, in) {
		score += p.GenreMatchBonus
	}

	score += s.similarityTerm(candidate, in)
	score += s.moodTerm(candidate, in)

	if in.referenceMode {
		score += p.ContextWeight * s.context.Score(candidate, in.listenCtx)
	}

	if pop, ok := candidate.PopularityValue(); ok && pop > highPopularityCutoff {
		score += p.PopularityBonus
	}

	return score
}

// matchesPreference reports whether the candidate genre is among the
// explicit preferred genres or those extracted from reference artists.
func (s *Scorer) matchesPreference(candidate TrackMetadata, in *scoreInput) bool {
	_, ok := in.preferredGenres[strings.ToLower(candidate.Genre)]
	return ok
}

// similarityTerm applies the profile's similarity weight to track
// similarity in reference mode or current-track title similarity in
// history mode. A positive SimilarityCap bounds the weighted term at an
// absolute maximum instead of scaling linearly.
func (s *Scorer) similarityTerm(candidate TrackMetadata, in *scoreInput) float64 {
	p := s.profile

	var sim float64
	switch {
	case in.referenceMode:
		sim = TrackSimilarity(candidate, in.references)
	case in.currentTrack != "":
		sim = TitleSimilarity(candidate.Title, in.currentTrack)
	default:
		return 0
	}

	term := p.SimilarityWeight * sim
	if p.SimilarityCap > 0 && term > p.SimilarityCap {
		term = p.SimilarityCap
	}
	return term
}

// moodTerm applies the profile's mood weight, with the enhanced profile's
// asymmetric penalty for clear mismatches.
func (s *Scorer) moodTerm(candidate TrackMetadata, in *scoreInput) float64 {
	if !in.moodGiven {
		return 0
	}
	p := s.profile

	sim := MoodSimilarity(candidate, in.mood)
	if p.MoodPenaltyThreshold > 0 && sim < p.MoodPenaltyThreshold {
		return p.MoodPenalty
	}
	return p.MoodWeight * sim
}

// roundScore rounds to two decimal places, deterministically.
func roundScore(s float64) float64 {
	return math.Round(s*100) / 100
}
