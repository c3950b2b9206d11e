// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

package recommend

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// TitleSimilarity computes edit-distance similarity between two titles:
//
//	sim(a, b) = 1 - levenshtein(a, b) / max(len(a), len(b))
//
// Comparison is case-insensitive over runes. Equal strings score 1.0, two
// empty strings score 1.0, exactly one empty string scores 0.0. The result
// is symmetric and in [0, 1].
func TitleSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	la := len([]rune(a))
	lb := len([]rune(b))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}

	dist := levenshtein.ComputeDistance(a, b)
	sim := 1.0 - float64(dist)/float64(maxLen)
	if sim < 0 {
		return 0.0
	}
	return sim
}

// TrackSimilarity scores a candidate against a list of reference tracks.
//
// Per reference: 0.5 when either artist name case-insensitively contains
// the other, plus 0.3 x title similarity, plus 0.2 x max(0, 1 - |delta
// popularity|/100). The best single match wins: the result is the maximum
// over all references, capped at 1.0. An empty reference list scores 0.
func TrackSimilarity(candidate TrackMetadata, references []TrackMetadata) float64 {
	best := 0.0
	for _, ref := range references {
		s := referenceSimilarity(candidate, ref)
		if s > best {
			best = s
		}
	}
	if best > 1.0 {
		return 1.0
	}
	return best
}

// referenceSimilarity blends the artist, title, and popularity terms for a
// single reference track.
func referenceSimilarity(candidate, ref TrackMetadata) float64 {
	score := 0.0
	if artistsOverlap(candidate.Artist, ref.Artist) {
		score += 0.5
	}
	score += 0.3 * TitleSimilarity(candidate.Title, ref.Title)

	cp, cok := candidate.PopularityValue()
	rp, rok := ref.PopularityValue()
	if cok && rok {
		if term := 1.0 - float64(abs(cp-rp))/100.0; term > 0 {
			score += 0.2 * term
		}
	}
	return score
}

// artistsOverlap reports whether either artist name contains the other,
// case-insensitively. Empty names never overlap.
func artistsOverlap(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
