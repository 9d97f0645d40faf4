package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"scholar-match/internal/domain/matching"
	"scholar-match/internal/domain/scholarship"
	"scholar-match/internal/pkg/metrics"
	"scholar-match/internal/pkg/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type RecommendationOptions struct {
	MinScore    int
	TopN        int
	MaxLimit    int
	Concurrency int
	Prefilter   bool
	CacheTTL    time.Duration
}

func DefaultRecommendationOptions() RecommendationOptions {
	return RecommendationOptions{
		MinScore:    30,
		TopN:        15,
		MaxLimit:    50,
		Concurrency: 8,
		CacheTTL:    300 * time.Second,
	}
}

type RecommendationParams struct {
	Limit    int
	MinScore *int
}

type RecommendationResult struct {
	Items    []matching.Match `json:"items"`
	Limit    int              `json:"limit"`
	MinScore int              `json:"min_score"`
	Cached   bool             `json:"-"`
}

type RecommendationUsecase interface {
	GetRecommendations(ctx context.Context, userID uuid.UUID, params RecommendationParams) (RecommendationResult, error)
	MatchScholarship(ctx context.Context, userID, scholarshipID uuid.UUID) (matching.Match, error)
}

type Recommendations struct {
	extractor    *ProfileExtractor
	scholarships scholarship.Repository
	scorer       *matching.Scorer
	cache        RecommendationCache
	opts         RecommendationOptions
	logger       *zap.Logger
	tracer       trace.Tracer

	now func() time.Time
}

func NewRecommendations(
	extractor *ProfileExtractor,
	scholarships scholarship.Repository,
	scorer *matching.Scorer,
	cache RecommendationCache,
	opts RecommendationOptions,
	logger *zap.Logger,
) *Recommendations {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Recommendations{
		extractor:    extractor,
		scholarships: scholarships,
		scorer:       scorer,
		cache:        cache,
		opts:         opts,
		logger:       logger,
		tracer:       tracing.Tracer(),
		now:          time.Now,
	}
}

func (u *Recommendations) normalizeParams(p RecommendationParams) (int, int, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = u.opts.TopN
	}
	if u.opts.MaxLimit > 0 && limit > u.opts.MaxLimit {
		limit = u.opts.MaxLimit
	}

	minScore := u.opts.MinScore
	if p.MinScore != nil {
		minScore = *p.MinScore
	}
	if minScore < 0 || minScore > 100 {
		return 0, 0, ErrInvalidInput
	}
	return limit, minScore, nil
}

func (u *Recommendations) GetRecommendations(ctx context.Context, userID uuid.UUID, params RecommendationParams) (out RecommendationResult, err error) {
	ctx, span := u.tracer.Start(ctx, "recommendations.get", trace.WithAttributes(attribute.String("user_id", userID.String())))
	defer func() {
		metrics.RecommendationsTotal.WithLabelValues(outcomeOf(err)).Inc()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	limit, minScore, err := u.normalizeParams(params)
	if err != nil {
		return RecommendationResult{}, err
	}
	if userID == uuid.Nil {
		return RecommendationResult{}, ErrInvalidIdentifier
	}

	now := u.now()
	key := RecommendationsCacheKey(userID, limit, minScore)
	if u.cache != nil {
		var cached RecommendationResult
		hit, cerr := u.cache.GetJSON(ctx, key, &cached)
		if cerr != nil {
			u.logger.Warn("recommendation cache read failed", zap.String("key", key), zap.Error(cerr))
		}
		if items, ok := revalidate(cached.Items, now, minScore, limit); hit && ok {
			metrics.CacheRequestsTotal.WithLabelValues("hit").Inc()
			cached.Items = items
			cached.Cached = true
			return cached, nil
		}
		metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()
	}

	prof, err := u.extractor.ExtractByID(ctx, userID)
	if err != nil {
		return RecommendationResult{}, err
	}

	candidates, err := u.loadCandidates(ctx, prof, now)
	if err != nil {
		return RecommendationResult{}, err
	}

	scored, err := u.scoreAll(ctx, prof, candidates, now)
	if err != nil {
		return RecommendationResult{}, err
	}

	ranked := matching.Rank(scored, minScore, limit)
	span.SetAttributes(
		attribute.Int("candidates", len(candidates)),
		attribute.Int("results", len(ranked)),
	)
	if len(ranked) == 0 {
		return RecommendationResult{}, ErrNoMatches
	}

	out = RecommendationResult{Items: ranked, Limit: limit, MinScore: minScore}
	if u.cache != nil {
		if cerr := u.cache.SetJSON(ctx, key, out, u.opts.CacheTTL); cerr != nil {
			u.logger.Warn("recommendation cache write failed", zap.String("key", key), zap.Error(cerr))
		}
	}
	return out, nil
}

// revalidate refreshes days remaining on cached matches against now. It
// reports false when the list is empty or any entry is no longer eligible,
// since a dropped entry may leave room for one the cache never held.
func revalidate(items []matching.Match, now time.Time, minScore, limit int) ([]matching.Match, bool) {
	if len(items) == 0 {
		return nil, false
	}
	out := make([]matching.Match, 0, len(items))
	for _, m := range items {
		if !m.Scholarship.Eligible(now) {
			return nil, false
		}
		m.DaysRemaining = matching.DaysRemaining(m.Scholarship.Deadline, now)
		out = append(out, m)
	}
	return matching.Rank(out, minScore, limit), true
}

func (u *Recommendations) loadCandidates(ctx context.Context, prof matching.NormalizedProfile, now time.Time) ([]scholarship.Scholarship, error) {
	ctx, span := u.tracer.Start(ctx, "recommendations.load_candidates")
	defer span.End()

	filter := scholarship.CandidateFilter{Now: now}
	if u.opts.Prefilter {
		filter = prefilterFor(prof, now)
	}

	candidates, err := u.scholarships.ListActive(ctx, filter)
	if err != nil {
		u.logger.Error("load candidate scholarships failed", zap.Error(err))
		return nil, fmt.Errorf("%w: list scholarships: %w", ErrStorageUnavailable, err)
	}
	return candidates, nil
}

// prefilterFor narrows the scan by the user's fields and accepted levels.
func prefilterFor(prof matching.NormalizedProfile, now time.Time) scholarship.CandidateFilter {
	f := scholarship.CandidateFilter{Now: now}

	if levels, recognized := matching.AcceptedLevels(prof.HighestEducation); recognized {
		f.Levels = matching.LevelAliases(levels)
	}

	if len(prof.EducationFields) > 0 {
		parts := make([]string, 0, len(prof.EducationFields))
		for _, field := range prof.EducationFields {
			parts = append(parts, regexp.QuoteMeta(field))
		}
		f.FieldPattern = strings.Join(parts, "|")
	}
	return f
}

func (u *Recommendations) scoreAll(ctx context.Context, prof matching.NormalizedProfile, candidates []scholarship.Scholarship, now time.Time) ([]matching.Match, error) {
	ctx, span := u.tracer.Start(ctx, "recommendations.score")
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.ScoringDuration.WithLabelValues(strconv.FormatBool(u.opts.Prefilter)).Observe(time.Since(start).Seconds())
	}()

	results := make([]matching.Match, len(candidates))
	scored := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.opts.Concurrency)

	for i, s := range candidates {
		if !s.Eligible(now) {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, issues := u.scorer.Match(prof, s, now)
			for _, is := range issues {
				metrics.MalformedRecordsTotal.WithLabelValues(is.Field).Inc()
				u.logger.Debug("scholarship record malformed",
					zap.String("scholarship_id", s.ID.String()),
					zap.String("field", is.Field),
					zap.String("detail", is.Detail),
				)
			}
			results[i] = m
			scored[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]matching.Match, 0, len(candidates))
	for i := range results {
		if scored[i] {
			out = append(out, results[i])
		}
	}
	metrics.CandidatesScored.Observe(float64(len(out)))
	span.SetAttributes(attribute.Int("scored", len(out)))
	return out, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrNoMatches):
		return metrics.OutcomeNoMatches
	case errors.Is(err, ErrProfileNotFound):
		return metrics.OutcomeProfileNotFound
	case errors.Is(err, ErrInvalidIdentifier):
		return metrics.OutcomeInvalidID
	default:
		return metrics.OutcomeError
	}
}
