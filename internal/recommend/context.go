// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

package recommend

import "strings"

// contextRule matches a track against a genre set plus an optional
// popularity threshold. PopAbove/PopBelow of -1 disable the bound.
type contextRule struct {
	genres   []string
	popAbove int
	popBelow int
	score    float64
}

// matches reports whether the track satisfies the rule. A rule with a
// popularity bound never matches a track whose popularity is absent.
func (r contextRule) matches(track TrackMetadata) bool {
	if !containsFold(r.genres, track.Genre) {
		return false
	}
	if r.popAbove < 0 && r.popBelow < 0 {
		return true
	}
	pop, ok := track.PopularityValue()
	if !ok {
		return false
	}
	if r.popAbove >= 0 && pop <= r.popAbove {
		return false
	}
	if r.popBelow >= 0 && pop >= r.popBelow {
		return false
	}
	return true
}

// contextBucket is an ordered rule list with a fallback score; the first
// matching rule wins.
type contextBucket struct {
	rules    []contextRule
	fallback float64
}

func (b contextBucket) score(track TrackMetadata) float64 {
	for _, r := range b.rules {
		if r.matches(track) {
			return r.score
		}
	}
	return b.fallback
}

// ContextScorer computes time-of-day and activity affinity for a track from
// immutable lookup tables.
type ContextScorer struct {
	times      map[string]contextBucket
	activities map[string]contextBucket
}

// NewContextScorer builds a scorer over the built-in affinity tables.
func NewContextScorer() *ContextScorer {
	return &ContextScorer{
		times: map[string]contextBucket{
			"morning": {rules: []contextRule{
				{genres: []string{"pop", "dance", "electronic"}, popAbove: 60, popBelow: -1, score: 1.0},
				{genres: []string{"rock", "indie-pop"}, popAbove: 40, popBelow: -1, score: 0.8},
				{genres: []string{"jazz", "acoustic"}, popAbove: -1, popBelow: -1, score: 0.6},
			}, fallback: 0.3},
			"afternoon": {rules: []contextRule{
				{genres: []string{"pop", "indie", "alternative"}, popAbove: -1, popBelow: -1, score: 0.9},
				{genres: []string{"rock", "electronic"}, popAbove: 30, popBelow: -1, score: 0.7},
				{genres: []string{"jazz", "acoustic", "folk"}, popAbove: -1, popBelow: -1, score: 0.8},
			}, fallback: 0.5},
			"evening": {rules: []contextRule{
				{genres: []string{"indie", "alternative", "acoustic"}, popAbove: -1, popBelow: -1, score: 1.0},
				{genres: []string{"pop", "electronic"}, popAbove: 40, popBelow: -1, score: 0.8},
				{genres: []string{"jazz", "ambient"}, popAbove: -1, popBelow: -1, score: 0.9},
				{genres: []string{"rock"}, popAbove: -1, popBelow: -1, score: 0.6},
			}, fallback: 0.4},
			"night": {rules: []contextRule{
				{genres: []string{"ambient", "chill", "electronic"}, popAbove: -1, popBelow: -1, score: 1.0},
				{genres: []string{"jazz", "acoustic", "indie"}, popAbove: -1, popBelow: -1, score: 0.9},
				{genres: []string{"dance", "electronic"}, popAbove: 70, popBelow: -1, score: 0.8},
				{genres: []string{"rock", "metal"}, popAbove: -1, popBelow: -1, score: 0.5},
			}, fallback: 0.3},
		},
		activities: map[string]contextBucket{
			"workout": {rules: []contextRule{
				{genres: []string{"rock", "electronic", "dance", "hip-hop", "metal"}, popAbove: -1, popBelow: -1, score: 1.0},
				{genres: []string{"pop"}, popAbove: 60, popBelow: -1, score: 0.8},
				{genres: []string{"indie", "alternative"}, popAbove: 40, popBelow: -1, score: 0.6},
			}, fallback: 0.2},
			"study": {rules: []contextRule{
				{genres: []string{"ambient", "classical", "jazz", "acoustic"}, popAbove: -1, popBelow: -1, score: 1.0},
				{genres: []string{"indie", "folk"}, popAbove: -1, popBelow: -1, score: 0.8},
				{genres: []string{"electronic"}, popAbove: -1, popBelow: 50, score: 0.6},
				{genres: []string{"rock", "metal", "dance"}, popAbove: -1, popBelow: -1, score: 0.2},
			}, fallback: 0.4},
			"party": {rules: []contextRule{
				{genres: []string{"dance", "electronic", "pop"}, popAbove: 60, popBelow: -1, score: 1.0},
				{genres: []string{"hip-hop", "rock"}, popAbove: 50, popBelow: -1, score: 0.8},
				{genres: []string{"indie-pop"}, popAbove: 40, popBelow: -1, score: 0.7},
				{genres: []string{"ambient", "classical", "acoustic"}, popAbove: -1, popBelow: -1, score: 0.1},
			}, fallback: 0.3},
			"relax": {rules: []contextRule{
				{genres: []string{"ambient", "classical", "jazz", "acoustic", "chill"}, popAbove: -1, popBelow: -1, score: 1.0},
				{genres: []string{"indie", "folk"}, popAbove: -1, popBelow: -1, score: 0.9},
				{genres: []string{"electronic"}, popAbove: -1, popBelow: 60, score: 0.7},
				{genres: []string{"rock", "metal", "dance"}, popAbove: -1, popBelow: -1, score: 0.2},
			}, fallback: 0.5},
		},
	}
}

// Score combines the time-of-day and activity affinities:
//
//	combined = 0.6*timeScore + 0.4*activityScore, capped at 1.0
//
// A missing dimension contributes 0 to its own term only. Both dimensions
// missing yields 0.
func (s *ContextScorer) Score(track TrackMetadata, lc ListeningContext) float64 {
	combined := 0.0
	if bucket, ok := s.times[strings.ToLower(lc.TimeOfDay)]; ok {
		combined += 0.6 * bucket.score(track)
	}
	if bucket, ok := s.activities[strings.ToLower(lc.Activity)]; ok {
		combined += 0.4 * bucket.score(track)
	}
	if combined > 1.0 {
		return 1.0
	}
	return combined
}

// ValidTimeOfDay reports whether the label names a known time bucket.
// The empty label is valid and means "unknown".
func ValidTimeOfDay(label string) bool {
	if label == "" {
		return true
	}
	switch strings.ToLower(label) {
	case "morning", "afternoon", "evening", "night":
		return true
	}
	return false
}

// ValidActivity reports whether the label names a known activity bucket.
// The empty label is valid and means "unknown".
func ValidActivity(label string) bool {
	if label == "" {
		return true
	}
	switch strings.ToLower(label) {
	case "workout", "study", "party", "relax":
		return true
	}
	return false
}

// containsFold reports whether list contains s, case-insensitively.
func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
