package dto

import (
	"time"

	"scholar-match/internal/domain/matching"

	"github.com/google/uuid"
)

type ScholarshipMatchResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	University      *string   `json:"university"`
	FieldOfStudy    *string   `json:"field_of_study"`
	Specialization  *string   `json:"specialization"`
	Description     *string   `json:"description"`
	MinCGPA         *float64  `json:"min_cgpa"`
	Level           *string   `json:"level"`
	Deadline        time.Time `json:"deadline"`
	Tags            []string  `json:"tags"`
	MatchScore      int       `json:"match_score"`
	MatchReasons    []string  `json:"match_reasons"`
	DaysRemaining   int       `json:"days_remaining"`
	MatchPercentage string    `json:"match_percentage"`
}

type MatchDetailResponse struct {
	ScholarshipMatchResponse
	Breakdown matching.Breakdown `json:"breakdown"`
}

func FromMatch(m matching.Match) ScholarshipMatchResponse {
	s := m.Scholarship
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	reasons := m.MatchReasons
	if reasons == nil {
		reasons = []string{}
	}
	return ScholarshipMatchResponse{
		ID:              s.ID,
		Title:           s.Title,
		University:      s.University,
		FieldOfStudy:    s.FieldOfStudy,
		Specialization:  s.Specialization,
		Description:     s.Description,
		MinCGPA:         s.MinCGPA,
		Level:           s.Level,
		Deadline:        s.Deadline.UTC(),
		Tags:            tags,
		MatchScore:      m.MatchScore,
		MatchReasons:    reasons,
		DaysRemaining:   m.DaysRemaining,
		MatchPercentage: m.MatchPercentage(),
	}
}

func FromMatches(ms []matching.Match) []ScholarshipMatchResponse {
	out := make([]ScholarshipMatchResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromMatch(m))
	}
	return out
}

func FromMatchDetail(m matching.Match) MatchDetailResponse {
	return MatchDetailResponse{ScholarshipMatchResponse: FromMatch(m), Breakdown: m.Breakdown}
}
