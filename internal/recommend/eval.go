// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

package recommend

import (
	"math"
	"strings"
)

// EvaluateRecommendations computes aggregate quality metrics over a ranked
// list. Every metric is in [0, 1]; lists with fewer than two entries score
// 1 on all metrics.
//
// GenreCoherence is the dominant-genre ratio (most common genre count over
// total) and GenreConsistency is the diversity ratio (unique genres over
// total). The two are deliberately distinct metrics and must not be
// conflated.
func EvaluateRecommendations(recs []Recommendation) EvaluationMetrics {
	if len(recs) < 2 {
		return EvaluationMetrics{
			GenreCoherence:       1,
			PopularitySmoothness: 1,
			GenreConsistency:     1,
		}
	}

	return EvaluationMetrics{
		GenreCoherence:       dominantGenreRatio(recs),
		PopularitySmoothness: popularitySmoothness(recs),
		GenreConsistency:     genreDiversityRatio(recs),
	}
}

// genreDiversityRatio is unique genres / total entries.
func genreDiversityRatio(recs []Recommendation) float64 {
	unique := make(map[string]struct{}, len(recs))
	for _, r := range recs {
		unique[strings.ToLower(r.Track.Genre)] = struct{}{}
	}
	return float64(len(unique)) / float64(len(recs))
}

// dominantGenreRatio is the share of the list taken by its most common
// genre.
func dominantGenreRatio(recs []Recommendation) float64 {
	counts := make(map[string]int, len(recs))
	maxCount := 0
	for _, r := range recs {
		g := strings.ToLower(r.Track.Genre)
		counts[g]++
		if counts[g] > maxCount {
			maxCount = counts[g]
		}
	}
	return float64(maxCount) / float64(len(recs))
}

// popularitySmoothness is max(0, 1 - mean(|delta popularity|)/50) over
// consecutive entries. Pairs with an absent popularity are skipped; a list
// with no usable pair scores 1.
func popularitySmoothness(recs []Recommendation) float64 {
	sum := 0.0
	pairs := 0
	for i := 1; i < len(recs); i++ {
		a, aok := recs[i-1].Track.PopularityValue()
		b, bok := recs[i].Track.PopularityValue()
		if !aok || !bok {
			continue
		}
		sum += math.Abs(float64(a - b))
		pairs++
	}
	if pairs == 0 {
		return 1
	}

	smooth := 1 - (sum/float64(pairs))/50.0
	if smooth < 0 {
		return 0
	}
	return smooth
}
