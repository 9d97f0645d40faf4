package dto

import (
	"encoding/json"
	"testing"
	"time"

	"scholar-match/internal/domain/matching"
	"scholar-match/internal/domain/scholarship"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMatch(t *testing.T) {
	deadline := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	m := matching.Match{
		Scholarship:   scholarship.Scholarship{ID: uuid.New(), Title: "Award", Deadline: deadline},
		MatchScore:    85,
		DaysRemaining: 12,
		Breakdown:     matching.Breakdown{Field: 25},
	}

	got := FromMatch(m)
	assert.Equal(t, "85%", got.MatchPercentage)
	assert.Equal(t, []string{}, got.Tags)
	assert.Equal(t, []string{}, got.MatchReasons)

	b, err := json.Marshal(FromMatchDetail(m))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "Award", raw["title"])
	assert.Equal(t, float64(12), raw["days_remaining"])
	assert.Equal(t, float64(25), raw["breakdown"].(map[string]any)["field"])
}
