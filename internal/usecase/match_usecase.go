package usecase

import (
	"context"
	"errors"
	"fmt"

	"scholar-match/internal/domain/matching"
	"scholar-match/internal/domain/scholarship"
	"scholar-match/internal/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MatchScholarship scores one eligible scholarship for the user. The score
// threshold does not apply.
func (u *Recommendations) MatchScholarship(ctx context.Context, userID, scholarshipID uuid.UUID) (matching.Match, error) {
	ctx, span := u.tracer.Start(ctx, "recommendations.match_one")
	defer span.End()

	if userID == uuid.Nil || scholarshipID == uuid.Nil {
		return matching.Match{}, ErrInvalidIdentifier
	}

	prof, err := u.extractor.ExtractByID(ctx, userID)
	if err != nil {
		return matching.Match{}, err
	}

	s, err := u.scholarships.GetByID(ctx, scholarshipID)
	if err != nil {
		if errors.Is(err, scholarship.ErrNotFound) {
			return matching.Match{}, ErrScholarshipNotFound
		}
		return matching.Match{}, fmt.Errorf("%w: get scholarship: %w", ErrStorageUnavailable, err)
	}

	now := u.now()
	if !s.Eligible(now) {
		return matching.Match{}, ErrScholarshipNotFound
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
	return m, nil
}
