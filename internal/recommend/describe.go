// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

package recommend

// MetricDescription documents one evaluation metric for API consumers.
type MetricDescription struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
}

// EvaluationGuide is the static documentation payload returned by
// DescribeEvaluation. It is informational only and never feeds scoring.
type EvaluationGuide struct {
	Metrics       []MetricDescription `json:"metrics"`
	SampleRequest Request             `json:"sample_request"`
	SampleMetrics EvaluationMetrics   `json:"sample_metrics"`
}

// DescribeEvaluation returns metric descriptions plus a worked example:
// a sample request and the metrics computed over a fixed sample list.
func DescribeEvaluation() EvaluationGuide {
	pop := func(v int) *int { return &v }
	sample := []Recommendation{
		{Track: TrackMetadata{ID: "s1", Title: "Midnight Drive", Artist: "Neon Fields", Genre: "pop", Popularity: pop(72)}, Score: 6.4},
		{Track: TrackMetadata{ID: "s2", Title: "Glass Waves", Artist: "Neon Fields", Genre: "pop", Popularity: pop(64)}, Score: 5.9},
		{Track: TrackMetadata{ID: "s3", Title: "Ember Lines", Artist: "Cold Harbor", Genre: "rock", Popularity: pop(58)}, Score: 4.1},
	}

	return EvaluationGuide{
		Metrics: []MetricDescription{
			{
				Name:        "genre_coherence",
				Description: "Share of recommendations belonging to the single most common genre. Higher means a more focused list.",
				Min:         0, Max: 1,
			},
			{
				Name:        "popularity_smoothness",
				Description: "One minus the mean absolute popularity jump between consecutive recommendations, scaled by 50 and floored at zero. Higher means gentler popularity transitions.",
				Min:         0, Max: 1,
			},
			{
				Name:        "genre_consistency",
				Description: "Unique genre count divided by list length. Higher means a more varied list.",
				Min:         0, Max: 1,
			},
		},
		SampleRequest: Request{
			History:     []string{"track-101", "track-102", "track-103"},
			Preferences: Preferences{Genres: []string{"pop"}, Mood: "happy"},
			Context:     ListeningContext{TimeOfDay: "evening", Activity: "relax"},
			Limit:       10,
		},
		SampleMetrics: EvaluateRecommendations(sample),
	}
}
