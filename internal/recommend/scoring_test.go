// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

package recommend

import (
	"strings"
	"testing"
)

// newTestInput assembles a scoreInput the way the engine does for a given
// history and preferences.
func newTestInput(history []TrackMetadata, prefs Preferences) *scoreInput {
	in := &scoreInput{
		preferredGenres: make(map[string]struct{}),
		genreFrequency:  make(map[string]int),
		artistPlays:     make(map[string]int),
		mood:            neutralMood,
		moodGiven:       prefs.Mood != "",
		currentTrack:    prefs.CurrentTrack,
	}
	for _, g := range prefs.Genres {
		in.preferredGenres[strings.ToLower(g)] = struct{}{}
	}
	if prefs.Mood != "" {
		in.mood = NewMoodResolver(nil).Resolve(prefs.Mood)
	}
	if len(history) > 0 {
		in.history = history
		in.pattern = AnalyzeSequence(history)
		in.acceptance = PredictGenreSet(history)
		for _, t := range history {
			in.genreFrequency[strings.ToLower(t.Genre)]++
			in.artistPlays[strings.ToLower(t.Artist)]++
		}
	}
	return in
}

func newTestScorer(profile Profile) *Scorer {
	return NewScorer(profile, DefaultConfig())
}

func TestScoreDeterministic(t *testing.T) {
	t.Parallel()

	history := []TrackMetadata{
		{ID: "h1", Artist: "Alpha", Genre: "pop", Popularity: intPtr(60)},
		{ID: "h2", Artist: "Beta", Genre: "rock", Popularity: intPtr(75)},
		{ID: "h3", Artist: "Alpha", Genre: "pop", Popularity: intPtr(62)},
	}
	in := newTestInput(history, Preferences{Genres: []string{"pop"}, Mood: "happy"})
	s := newTestScorer(EnhancedProfile())
	candidate := TrackMetadata{ID: "c1", Title: "Song", Artist: "Gamma", Genre: "pop", Popularity: intPtr(72)}

	first := s.Score(candidate, in)
	for i := 0; i < 20; i++ {
		if got := s.Score(candidate, in); got != first {
			t.Fatalf("score changed across runs: %f vs %f", got, first)
		}
	}
}

func TestScorePreferenceMode(t *testing.T) {
	t.Parallel()

	prefs := Preferences{Genres: []string{"pop"}}

	testCases := []struct {
		name      string
		profile   Profile
		candidate TrackMetadata
		expected  float64
	}{
		{
			name:      "Genre match plus popularity bonus",
			profile:   EnhancedProfile(),
			candidate: TrackMetadata{Genre: "pop", Popularity: intPtr(80)},
			expected:  3 + 1,
		},
		{
			name:      "Genre match at popularity cutoff",
			profile:   EnhancedProfile(),
			candidate: TrackMetadata{Genre: "pop", Popularity: intPtr(70)},
			expected:  3,
		},
		{
			name:      "No match",
			profile:   EnhancedProfile(),
			candidate: TrackMetadata{Genre: "metal", Popularity: intPtr(40)},
			expected:  0,
		},
		{
			name:      "Absent popularity earns no bonus",
			profile:   ClassicProfile(),
			candidate: TrackMetadata{Genre: "pop"},
			expected:  3,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := newTestScorer(tc.profile)
			got := s.Score(tc.candidate, newTestInput(nil, prefs))
			if !floatNear(got, tc.expected) {
				t.Errorf("Score() = %f, want %f", got, tc.expected)
			}
		})
	}
}

func TestScoreMoodTerm(t *testing.T) {
	t.Parallel()

	// A clear mood mismatch: wrong genre and popularity 50 below the range.
	mismatch := TrackMetadata{Genre: "metal", Popularity: intPtr(10)}

	t.Run("Enhanced profile penalizes clear mismatch", func(t *testing.T) {
		t.Parallel()

		s := newTestScorer(EnhancedProfile())
		got := s.Score(mismatch, newTestInput(nil, Preferences{Mood: "happy"}))
		if !floatNear(got, -1) {
			t.Errorf("Score() = %f, want -1", got)
		}
	})

	t.Run("Classic profile never penalizes", func(t *testing.T) {
		t.Parallel()

		s := newTestScorer(ClassicProfile())
		got := s.Score(mismatch, newTestInput(nil, Preferences{Mood: "happy"}))
		if !floatNear(got, 0) {
			t.Errorf("Score() = %f, want 0", got)
		}
	})

	t.Run("Mood match scores the weighted similarity", func(t *testing.T) {
		t.Parallel()

		s := newTestScorer(EnhancedProfile())
		match := TrackMetadata{Genre: "pop", Popularity: intPtr(85)}
		// MoodSimilarity is 1.0, weighted by 2, plus the popularity bonus.
		got := s.Score(match, newTestInput(nil, Preferences{Mood: "happy"}))
		if !floatNear(got, 2+1) {
			t.Errorf("Score() = %f, want 3", got)
		}
	})

	t.Run("No mood given contributes nothing", func(t *testing.T) {
		t.Parallel()

		s := newTestScorer(EnhancedProfile())
		got := s.Score(mismatch, newTestInput(nil, Preferences{}))
		if !floatNear(got, 0) {
			t.Errorf("Score() = %f, want 0", got)
		}
	})
}

func TestSimilarityTermCap(t *testing.T) {
	t.Parallel()

	ref := TrackMetadata{Title: "Don't Stop Me Now", Artist: "Queen", Popularity: intPtr(80)}
	in := &scoreInput{
		preferredGenres: map[string]struct{}{},
		genreFrequency:  map[string]int{},
		artistPlays:     map[string]int{},
		mood:            neutralMood,
		references:      []TrackMetadata{ref},
		referenceMode:   true,
	}

	// The candidate is a perfect reference match: similarity 1.0.
	candidate := ref

	enhanced := newTestScorer(EnhancedProfile())
	if got := enhanced.similarityTerm(candidate, in); !floatNear(got, 1.5) {
		t.Errorf("enhanced similarity term = %f, want capped 1.5", got)
	}

	classic := newTestScorer(ClassicProfile())
	if got := classic.similarityTerm(candidate, in); !floatNear(got, 2.0) {
		t.Errorf("classic similarity term = %f, want linear 2.0", got)
	}
}

func TestScoreHistoryMode(t *testing.T) {
	t.Parallel()

	history := []TrackMetadata{
		{ID: "h1", Artist: "Alpha", Genre: "pop", Popularity: intPtr(60)},
		{ID: "h2", Artist: "Beta", Genre: "rock", Popularity: intPtr(75)},
		{ID: "h3", Artist: "Alpha", Genre: "pop", Popularity: intPtr(62)},
	}
	prefs := Preferences{Genres: []string{"pop"}}
	candidate := TrackMetadata{ID: "c1", Title: "Song", Artist: "Gamma", Genre: "pop", Popularity: intPtr(72)}

	// Base score: genre match 3 + popularity bonus 1 = 4.
	// Trend [60 75 62] has slope 1; the candidate delta of 10 is within
	// tolerance, so the progression bonus applies. The candidate genre is
	// both predicted and preferred.
	t.Run("Enhanced", func(t *testing.T) {
		t.Parallel()

		s := newTestScorer(EnhancedProfile())
		got := s.Score(candidate, newTestInput(history, prefs))
		// 0.5*4 + 2 predicted + 1 progression + 1 frequency + 2 convergent
		if !floatNear(got, 8.0) {
			t.Errorf("Score() = %f, want 8.0", got)
		}
	})

	t.Run("Classic", func(t *testing.T) {
		t.Parallel()

		s := newTestScorer(ClassicProfile())
		got := s.Score(candidate, newTestInput(history, prefs))
		// 1.0*4 + 2 predicted + 1 progression
		if !floatNear(got, 7.0) {
			t.Errorf("Score() = %f, want 7.0", got)
		}
	})
}

func TestArtistTransitionTerm(t *testing.T) {
	t.Parallel()

	history := []TrackMetadata{
		{Artist: "Alpha", Genre: "pop", Popularity: intPtr(50)},
		{Artist: "Beta", Genre: "rock", Popularity: intPtr(55)},
	}
	in := newTestInput(history, Preferences{})
	s := newTestScorer(EnhancedProfile())

	testCases := []struct {
		name     string
		artist   string
		expected float64
	}{
		{name: "Same artist as last", artist: "Beta", expected: 2},
		{name: "Known pair in reverse order", artist: "Alpha", expected: 2},
		{name: "Unknown artist", artist: "Gamma", expected: 0},
		{name: "Empty artist", artist: "", expected: 0},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			candidate := TrackMetadata{Artist: tc.artist, Genre: "pop"}
			if got := s.artistTransitionTerm(candidate, in); !floatNear(got, tc.expected) {
				t.Errorf("artistTransitionTerm() = %f, want %f", got, tc.expected)
			}
		})
	}
}

func TestDiversityTerm(t *testing.T) {
	t.Parallel()

	s := newTestScorer(EnhancedProfile())

	t.Run("Low diversity rewards a fresh artist", func(t *testing.T) {
		t.Parallel()

		history := []TrackMetadata{
			{Artist: "Alpha", Genre: "pop"},
			{Artist: "Alpha", Genre: "pop"},
			{Artist: "Alpha", Genre: "pop"},
		}
		in := newTestInput(history, Preferences{})

		if got := s.diversityTerm(TrackMetadata{Artist: "Beta"}, in); !floatNear(got, 1) {
			t.Errorf("fresh artist term = %f, want 1", got)
		}
		if got := s.diversityTerm(TrackMetadata{Artist: "Alpha"}, in); !floatNear(got, 0) {
			t.Errorf("repeated artist term = %f, want 0", got)
		}
	})

	t.Run("High diversity rewards continuity", func(t *testing.T) {
		t.Parallel()

		history := []TrackMetadata{
			{Artist: "Alpha", Genre: "pop"},
			{Artist: "Beta", Genre: "rock"},
			{Artist: "Gamma", Genre: "jazz"},
		}
		in := newTestInput(history, Preferences{})

		if got := s.diversityTerm(TrackMetadata{Artist: "Gamma"}, in); !floatNear(got, 0.5) {
			t.Errorf("continuity term = %f, want 0.5", got)
		}
		if got := s.diversityTerm(TrackMetadata{Artist: "Delta"}, in); !floatNear(got, 0) {
			t.Errorf("new artist term = %f, want 0", got)
		}
	})
}

func TestProgressionTerm(t *testing.T) {
	t.Parallel()

	history := []TrackMetadata{
		{Artist: "A", Genre: "pop", Popularity: intPtr(40)},
		{Artist: "B", Genre: "rock", Popularity: intPtr(55)},
		{Artist: "C", Genre: "pop", Popularity: intPtr(70)},
	}
	in := newTestInput(history, Preferences{})
	s := newTestScorer(EnhancedProfile())

	// Trend [40 55 70] has slope 15.
	if got := s.progressionTerm(TrackMetadata{Popularity: intPtr(80)}, in); !floatNear(got, 1) {
		t.Errorf("continuing the trend should earn the bonus, got %f", got)
	}
	if got := s.progressionTerm(TrackMetadata{Popularity: intPtr(20)}, in); !floatNear(got, 0) {
		t.Errorf("breaking the trend should earn nothing, got %f", got)
	}
	if got := s.progressionTerm(TrackMetadata{}, in); !floatNear(got, 0) {
		t.Errorf("absent popularity should earn nothing, got %f", got)
	}
}

func TestRoundScore(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in       float64
		expected float64
	}{
		{in: 1.005, expected: 1.0}, // 1.005 is stored slightly below 1.005
		{in: 2.346, expected: 2.35},
		{in: -1.234, expected: -1.23},
		{in: 0, expected: 0},
	}
	for _, tc := range testCases {
		if got := roundScore(tc.in); got != tc.expected {
			t.Errorf("roundScore(%f) = %f, want %f", tc.in, got, tc.expected)
		}
	}
}
