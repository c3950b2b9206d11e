// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

package recommend

import "strings"

// neutralMood is the fallback profile for unknown or absent mood labels:
// no genre preference, full popularity range.
var neutralMood = MoodProfile{MinPopularity: 0, MaxPopularity: 100}

// MoodResolver maps mood labels to preference profiles. It is a pure lookup
// with no error case: an absent label yields the neutral fallback.
type MoodResolver struct {
	table map[string]MoodProfile
}

// NewMoodResolver builds a resolver over the given table. A nil table
// selects the built-in one. Labels are matched case-insensitively.
func NewMoodResolver(table map[string]MoodProfile) *MoodResolver {
	if table == nil {
		table = DefaultMoodTable()
	}
	normalized := make(map[string]MoodProfile, len(table))
	for label, mp := range table {
		normalized[strings.ToLower(label)] = mp
	}
	return &MoodResolver{table: normalized}
}

// Resolve returns the profile for a mood label, or the neutral fallback.
func (r *MoodResolver) Resolve(mood string) MoodProfile {
	if mp, ok := r.table[strings.ToLower(mood)]; ok {
		return mp
	}
	return neutralMood
}

// MoodSimilarity scores a track against a mood profile, in [0, 1].
//
// The genre term contributes 0.6 when the track genre is among the
// profile's preferred genres. The popularity term contributes 0.4 when
// popularity falls inside the profile range, otherwise a value decaying
// with the distance to the nearest bound: max(0, 0.4 - distance/50).
// Absent popularity contributes nothing to the popularity term.
func MoodSimilarity(track TrackMetadata, profile MoodProfile) float64 {
	score := 0.0
	if profile.HasGenre(track.Genre) {
		score += 0.6
	}

	pop, ok := track.PopularityValue()
	if !ok {
		return score
	}

	if pop >= profile.MinPopularity && pop <= profile.MaxPopularity {
		score += 0.4
		return score
	}

	distMin := abs(pop - profile.MinPopularity)
	distMax := abs(pop - profile.MaxPopularity)
	dist := distMin
	if distMax < dist {
		dist = distMax
	}
	if term := 0.4 - float64(dist)/50.0; term > 0 {
		score += term
	}
	return score
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
