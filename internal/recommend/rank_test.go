// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

package recommend

import (
	"reflect"
	"testing"
)

func TestDedupCandidates(t *testing.T) {
	t.Parallel()

	candidates := []TrackMetadata{
		{ID: "a", Title: "First"},
		{ID: "b", Title: "Second"},
		{ID: "a", Title: "Duplicate of first"},
		{ID: "", Title: "No id"},
		{ID: "seed-1", Title: "Already heard"},
		{ID: "c", Title: "Third"},
	}
	seeds := map[string]struct{}{"seed-1": {}}

	got := DedupCandidates(candidates, seeds)

	wantIDs := []string{"a", "b", "c"}
	if len(got) != len(wantIDs) {
		t.Fatalf("DedupCandidates() returned %d candidates, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("candidate %d id = %q, want %q (order must be preserved)", i, got[i].ID, id)
		}
	}
}

func TestRankRecommendations(t *testing.T) {
	t.Parallel()

	recs := []Recommendation{
		{Track: TrackMetadata{ID: "1", Title: "Low", Artist: "A"}, Score: 1.5},
		{Track: TrackMetadata{ID: "2", Title: "High", Artist: "B"}, Score: 7.2},
		{Track: TrackMetadata{ID: "3", Title: "high", Artist: "b"}, Score: 3.0},
		{Track: TrackMetadata{ID: "4", Title: "Mid", Artist: "C"}, Score: 4.1},
		{Track: TrackMetadata{ID: "5", Title: "Tied", Artist: "D"}, Score: 4.1},
	}

	got := RankRecommendations(recs)

	// The (high, b) duplicate is dropped; first occurrence wins.
	wantIDs := []string{"2", "4", "5", "1"}
	if len(got) != len(wantIDs) {
		t.Fatalf("RankRecommendations() returned %d entries, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].Track.ID != id {
			t.Errorf("rank %d = id %q, want %q", i, got[i].Track.ID, id)
		}
	}

	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("scores not non-increasing at %d: %f > %f", i, got[i].Score, got[i-1].Score)
		}
	}
}

func TestRankRecommendationsIdempotent(t *testing.T) {
	t.Parallel()

	recs := []Recommendation{
		{Track: TrackMetadata{ID: "1", Title: "A", Artist: "X"}, Score: 2.0},
		{Track: TrackMetadata{ID: "2", Title: "B", Artist: "Y"}, Score: 5.0},
		{Track: TrackMetadata{ID: "3", Title: "C", Artist: "Z"}, Score: 5.0},
		{Track: TrackMetadata{ID: "4", Title: "D", Artist: "W"}, Score: 0.5},
	}

	once := RankRecommendations(recs)
	twice := RankRecommendations(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("ranking is not idempotent:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestCapRecommendations(t *testing.T) {
	t.Parallel()

	recs := make([]Recommendation, 5)

	if got := CapRecommendations(recs, 3); len(got) != 3 {
		t.Errorf("cap 3 returned %d entries", len(got))
	}
	if got := CapRecommendations(recs, 10); len(got) != 5 {
		t.Errorf("cap above length returned %d entries", len(got))
	}
	if got := CapRecommendations(recs, 0); len(got) != 5 {
		t.Errorf("cap 0 should leave the list uncapped, got %d entries", len(got))
	}
}

func TestSeedSet(t *testing.T) {
	t.Parallel()

	seeds := SeedSet(
		[]string{"h1", "h2", ""},
		[]TrackStub{{ID: "r1"}, {Title: "no id"}},
	)

	want := map[string]struct{}{"h1": {}, "h2": {}, "r1": {}}
	if !reflect.DeepEqual(seeds, want) {
		t.Errorf("SeedSet() = %v, want %v", seeds, want)
	}
}
