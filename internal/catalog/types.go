// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

// Package catalog implements the external music catalog client: HTTP
// transport, response normalization, caching, and circuit breaking behind
// the engine's CatalogProvider interface.
package catalog

import (
	"errors"
	"strconv"
	"strings"

	"github.com/zayLatt25/NextTrack/internal/recommend"
)

// ErrNotFound is returned when the catalog has no record for an id.
var ErrNotFound = errors.New("catalog: not found")

// rawTrack is the catalog's wire representation of a track. Fields are
// optional on the wire; normalization resolves every fallback exactly once
// so scoring logic never re-checks them.
type rawTrack struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	Genre       string `json:"genre"`
	Popularity  *int   `json:"popularity"`
	ReleaseDate string `json:"release_date"`
}

// searchResponse is the catalog's search result envelope.
type searchResponse struct {
	Data []rawTrack `json:"data"`
}

// genresResponse is the catalog's artist genre lookup envelope.
type genresResponse struct {
	Genres []string `json:"genres"`
}

// normalizeTrack converts a wire track into engine metadata: missing genre
// becomes the unknown placeholder, popularity is clamped into [0, 100] or
// dropped, and the release year is extracted from the date prefix.
func normalizeTrack(raw rawTrack) recommend.TrackMetadata {
	t := recommend.TrackMetadata{
		ID:     raw.ID,
		Title:  strings.TrimSpace(raw.Title),
		Artist: strings.TrimSpace(raw.Artist),
		Album:  strings.TrimSpace(raw.Album),
		Genre:  strings.TrimSpace(raw.Genre),
	}
	if t.Genre == "" {
		t.Genre = recommend.UnknownGenre
	}

	if raw.Popularity != nil {
		pop := *raw.Popularity
		if pop < 0 {
			pop = 0
		}
		if pop > 100 {
			pop = 100
		}
		t.Popularity = &pop
	}

	if year, ok := parseReleaseYear(raw.ReleaseDate); ok {
		t.ReleaseYear = &year
	}
	return t
}

// parseReleaseYear extracts the year from a "YYYY-MM-DD" or "YYYY" date.
func parseReleaseYear(date string) (int, bool) {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year < 1000 || year > 9999 {
		return 0, false
	}
	return year, true
}
