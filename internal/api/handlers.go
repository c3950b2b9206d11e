// NextTrack - Adaptive Music Recommendation Service
// Copyright 2026 zayLatt25
// SPDX-License-Identifier: MIT
// https://github.com/zayLatt25/NextTrack

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/zayLatt25/NextTrack/internal/logging"
	"github.com/zayLatt25/NextTrack/internal/metrics"
	"github.com/zayLatt25/NextTrack/internal/recommend"
)

// maxRequestBytes bounds recommendation request bodies.
const maxRequestBytes = 1 << 20

// recommendTimeout bounds one end-to-end recommendation, including all
// catalog fan-out.
const recommendTimeout = 15 * time.Second

// Recommender is the engine surface the API depends on.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
}

// BreakerStater reports catalog circuit breaker state for readiness checks.
type BreakerStater interface {
	State() gobreaker.State
}

// Handler holds the dependencies of all API endpoints.
type Handler struct {
	engine  Recommender
	breaker BreakerStater
	started time.Time
}

// NewHandler creates the API handler. breaker may be nil when the catalog
// client is not wrapped.
func NewHandler(engine Recommender, breaker BreakerStater) *Handler {
	return &Handler{
		engine:  engine,
		breaker: breaker,
		started: time.Now(),
	}
}

// Recommendations handles POST /api/v1/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	logger := logging.Ctx(r.Context())

	var req recommend.Request
	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body: "+err.Error())
		return
	}

	if msg := validateRequest(req); msg != "" {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, msg)
		return
	}

	req.RequestID = logging.RequestIDFromContext(r.Context())
	req.Now = time.Now().UTC()

	ctx, cancel := context.WithTimeout(r.Context(), recommendTimeout)
	defer cancel()

	start := time.Now()
	resp, err := h.engine.Recommend(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrNoSignal):
			respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed,
				"request must include history, reference tracks, preferences, or a mood")
		case errors.Is(err, recommend.ErrCatalogAuth):
			logger.Error().Err(err).Msg("catalog rejected credentials")
			respondError(w, r, http.StatusBadGateway, ErrCodeCatalogUnavailable,
				"music catalog rejected our credentials")
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			respondError(w, r, http.StatusServiceUnavailable, ErrCodeCatalogUnavailable,
				"music catalog is temporarily unavailable")
		case errors.Is(err, context.DeadlineExceeded):
			respondError(w, r, http.StatusGatewayTimeout, ErrCodeCatalogUnavailable,
				"recommendation timed out")
		default:
			logger.Error().Err(err).Msg("recommendation failed")
			respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError,
				"failed to generate recommendations")
		}
		return
	}

	metrics.RecordRecommendation(string(resp.Strategy), resp.Diagnostics.CandidatesScored, time.Since(start))
	logger.Info().
		Str("strategy", string(resp.Strategy)).
		Int("recommendations", len(resp.Recommendations)).
		Int("candidates_scored", resp.Diagnostics.CandidatesScored).
		Int64("latency_ms", resp.Diagnostics.LatencyMS).
		Msg("recommendations generated")

	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data:   resp,
		Metadata: Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: resp.Diagnostics.LatencyMS,
		},
	})
}

// validateRequest rejects inputs the engine would otherwise silently
// misread. An empty message means the request is acceptable.
func validateRequest(req recommend.Request) string {
	if req.Limit < 0 {
		return "limit must not be negative"
	}
	if req.Context.TimeOfDay != "" && !recommend.ValidTimeOfDay(req.Context.TimeOfDay) {
		return "unknown time_of_day: " + req.Context.TimeOfDay
	}
	if req.Context.Activity != "" && !recommend.ValidActivity(req.Context.Activity) {
		return "unknown activity: " + req.Context.Activity
	}
	for i, ref := range req.ReferenceTracks {
		if ref.ID == "" && ref.Title == "" && ref.Artist == "" {
			return "reference track " + strconv.Itoa(i) + " is empty"
		}
	}
	return ""
}

// Evaluation handles GET /api/v1/recommendations/evaluation.
func (h *Handler) Evaluation(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data:   recommend.DescribeEvaluation(),
	})
}

// HealthLive handles GET /api/v1/health/live.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data: map[string]any{
			"status":         "alive",
			"uptime_seconds": int64(time.Since(h.started).Seconds()),
		},
	})
}

// HealthReady handles GET /api/v1/health/ready. Readiness degrades when
// the catalog circuit breaker is open.
func (h *Handler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	catalog := "ok"

	if h.breaker != nil {
		switch h.breaker.State() {
		case gobreaker.StateOpen:
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			catalog = "unavailable"
		case gobreaker.StateHalfOpen:
			catalog = "recovering"
		}
	}

	respondJSON(w, httpStatus, &APIResponse{
		Status: "success",
		Data: map[string]any{
			"status":  status,
			"catalog": catalog,
		},
	})
}

