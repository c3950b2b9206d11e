// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

package recommend

import "strings"

// trendPopularityDelta is the minimum change against the last kept point
// for a popularity value to count as a change point.
const trendPopularityDelta = 10

// trendYearDelta is the minimum change for a release year to count as a
// change point.
const trendYearDelta = 2

// AnalyzeSequence mines an ordered, finite track list (oldest to newest)
// for transition counts, trend change points, and artist diversity.
//
// It is a pure function: an empty history yields empty maps and lists with
// diversity marked non-applicable rather than zero.
func AnalyzeSequence(history []TrackMetadata) SequencePattern {
	pattern := SequencePattern{
		GenreTransitions:  make(map[string]int),
		ArtistTransitions: make(map[string]int),
		PopularityTrend:   []int{},
		ReleaseYearTrend:  []int{},
	}
	if len(history) == 0 {
		return pattern
	}

	for i := 1; i < len(history); i++ {
		prev, cur := history[i-1], history[i]
		pattern.GenreTransitions[transitionKey(prev.Genre, cur.Genre)]++
		pattern.ArtistTransitions[transitionKey(prev.Artist, cur.Artist)]++
	}

	pattern.PopularityTrend = changePoints(history, trendPopularityDelta, TrackMetadata.PopularityValue)
	pattern.ReleaseYearTrend = changePoints(history, trendYearDelta, TrackMetadata.YearValue)

	unique := make(map[string]struct{}, len(history))
	for _, t := range history {
		unique[strings.ToLower(t.Artist)] = struct{}{}
	}
	pattern.ArtistDiversity = float64(len(unique)) / float64(len(history))
	pattern.HasDiversity = true

	return pattern
}

// transitionKey formats an ordered pair as "A->B".
func transitionKey(from, to string) string {
	return from + "->" + to
}

// changePoints filters a numeric track attribute down to its change points:
// the first present value is always kept, and a later value is kept only
// when it differs from the last kept point by more than minDelta. Tracks
// with the attribute absent are skipped entirely.
func changePoints(history []TrackMetadata, minDelta int, get func(TrackMetadata) (int, bool)) []int {
	kept := []int{}
	for _, t := range history {
		v, ok := get(t)
		if !ok {
			continue
		}
		if len(kept) == 0 || abs(v-kept[len(kept)-1]) > minDelta {
			kept = append(kept, v)
		}
	}
	return kept
}

// LastTrack returns the newest history entry, if any.
func LastTrack(history []TrackMetadata) (TrackMetadata, bool) {
	if len(history) == 0 {
		return TrackMetadata{}, false
	}
	return history[len(history)-1], true
}
