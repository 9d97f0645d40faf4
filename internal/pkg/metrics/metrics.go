package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK              = "ok"
	OutcomeNoMatches       = "no_matches"
	OutcomeProfileNotFound = "profile_not_found"
	OutcomeInvalidID       = "invalid_identifier"
	OutcomeError           = "error"
)

var (
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholarship_recommendations_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	ScoringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scholarship_scoring_duration_seconds",
			Help:    "Time spent scoring the candidate set for one request",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"prefilter"},
	)

	CandidatesScored = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scholarship_candidates_scored",
			Help:    "Number of candidate scholarships scored per request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	MalformedRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholarship_malformed_records_total",
			Help: "Scholarship fields that could not be scored",
		},
		[]string{"field"},
	)

	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scholarship_recommendation_cache_total",
			Help: "Recommendation cache lookups by result",
		},
		[]string{"result"},
	)
)
