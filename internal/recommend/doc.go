// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

// Package recommend implements the NextTrack recommendation scoring and
// sequence-analysis engine.
//
// The engine turns a pool of candidate tracks plus contextual signals into a
// ranked, deduplicated recommendation list with aggregate quality metrics.
// Scoring is a pure, deterministic computation: given a fixed candidate pool
// and fixed inputs (including the explicit reference time on the request),
// repeated runs produce byte-identical output.
//
// # Components
//
//   - Mood resolver: maps a mood label to a genre/popularity profile
//   - Similarity: title similarity (edit distance) and track similarity
//     (artist/title/popularity blend)
//   - Context scorer: time-of-day and activity affinity tables
//   - Sequence analyzer: transition counts, trend change points, and artist
//     diversity over an ordered listening history
//   - Genre predictor: acceptance set of likely next genres
//   - Scoring engine: combines all signals under a named weight profile
//   - Dedup & rank: stable, idempotent ordering with seed exclusion
//   - Evaluation: aggregate quality metrics over the final list
//
// # Integration
//
// The package has no dependencies on other internal packages. The
// CatalogProvider interface allows integration with the catalog client
// without creating circular imports; the engine itself performs no network
// I/O beyond calls through that interface, and all scoring happens over
// already-fetched metadata.
package recommend
