// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

package recommend

import "strings"

// queryBuilder accumulates deduplicated free-text discovery queries up to
// a fixed cap, preserving insertion order.
type queryBuilder struct {
	max     int
	seen    map[string]struct{}
	queries []string
}

func newQueryBuilder(max int) *queryBuilder {
	return &queryBuilder{max: max, seen: make(map[string]struct{})}
}

func (b *queryBuilder) add(query string) {
	query = strings.TrimSpace(query)
	if query == "" || len(b.queries) >= b.max {
		return
	}
	key := strings.ToLower(query)
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	b.queries = append(b.queries, query)
}

// BuildHistoryQueries produces the bounded query set for history mode:
// predicted genres first, then frequent artists, then explicit preferred
// genres, then the mood's genres. Total queries are capped to bound
// external call volume.
func BuildHistoryQueries(history []TrackMetadata, acceptance []string, prefs Preferences, mood MoodProfile, maxQueries int) []string {
	b := newQueryBuilder(maxQueries)

	for _, genre := range acceptance {
		if genre != UnknownGenre {
			b.add(genre)
		}
	}
	for _, artist := range FrequentArtists(history, 2) {
		b.add(artist)
	}
	for _, genre := range prefs.Genres {
		b.add(genre)
	}
	for _, genre := range mood.Genres {
		b.add(genre)
	}

	return b.queries
}

// BuildReferenceQueries produces the bounded query set for reference-track
// mode: title+artist combinations per reference, then genres extracted
// from the reference artists, then explicit preferred genres, then the
// mood's genres.
func BuildReferenceQueries(refs []TrackStub, artistGenres []string, prefs Preferences, mood MoodProfile, maxQueries int) []string {
	b := newQueryBuilder(maxQueries)

	for _, ref := range refs {
		b.add(strings.TrimSpace(ref.Title + " " + ref.Artist))
	}
	for _, genre := range artistGenres {
		if genre != UnknownGenre {
			b.add(genre)
		}
	}
	for _, genre := range prefs.Genres {
		b.add(genre)
	}
	for _, genre := range mood.Genres {
		b.add(genre)
	}

	return b.queries
}

// BuildPreferenceQueries produces the query set when only explicit genre
// preferences exist: the preferred genres, then the mood's genres.
func BuildPreferenceQueries(prefs Preferences, mood MoodProfile, maxQueries int) []string {
	b := newQueryBuilder(maxQueries)

	for _, genre := range prefs.Genres {
		b.add(genre)
	}
	for _, genre := range mood.Genres {
		b.add(genre)
	}

	return b.queries
}
