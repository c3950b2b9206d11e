// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

package recommend

import (
	"sort"
	"strings"
)

// DedupCandidates removes duplicate catalog ids from the raw candidate
// pool and drops any candidate whose id appears in the seed set (input
// reference or history ids). Discovery order is preserved.
func DedupCandidates(candidates []TrackMetadata, seeds map[string]struct{}) []TrackMetadata {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]TrackMetadata, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == "" {
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		if _, seed := seeds[c.ID]; seed {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}

// RankRecommendations deduplicates scored recommendations by
// case-insensitive (title, artist) pair and sorts by score descending,
// ties broken by original discovery order. The operation is idempotent:
// applying it to an already-ranked list returns the same list.
func RankRecommendations(recs []Recommendation) []Recommendation {
	seen := make(map[string]struct{}, len(recs))
	out := make([]Recommendation, 0, len(recs))
	for _, r := range recs {
		key := strings.ToLower(r.Track.Title) + "\x00" + strings.ToLower(r.Track.Artist)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// CapRecommendations bounds the list length for presentation. A limit of
// zero or less leaves the list uncapped.
func CapRecommendations(recs []Recommendation, limit int) []Recommendation {
	if limit > 0 && len(recs) > limit {
		return recs[:limit]
	}
	return recs
}

// SeedSet collects the ids the final list must exclude.
func SeedSet(history []string, refs []TrackStub) map[string]struct{} {
	seeds := make(map[string]struct{}, len(history)+len(refs))
	for _, id := range history {
		if id != "" {
			seeds[id] = struct{}{}
		}
	}
	for _, r := range refs {
		if r.ID != "" {
			seeds[r.ID] = struct{}{}
		}
	}
	return seeds
}
