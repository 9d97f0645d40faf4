package matching

import (
	"errors"
	"fmt"
)

// Weights is the immutable scoring table handed to NewScorer.
// Penalties are stored as positive magnitudes and subtracted.
type Weights struct {
	EducationMatch   int `toml:"education_match"`
	EducationPenalty int `toml:"education_penalty"`

	CGPAMatch   int `toml:"cgpa_match"`
	CGPAPenalty int `toml:"cgpa_penalty"`

	FieldExact               int     `toml:"field_exact"`
	FieldPartial             int     `toml:"field_partial"`
	FieldSimilarity          int     `toml:"field_similarity"`
	FieldSimilarityThreshold float64 `toml:"field_similarity_threshold"`

	InterestPerTag int `toml:"interest_per_tag"`
	InterestMax    int `toml:"interest_max"`

	SkillPerTag int `toml:"skill_per_tag"`
	SkillMax    int `toml:"skill_max"`

	ObjectiveMax int `toml:"objective_max"`
}

var ErrInvalidWeights = errors.New("invalid scoring weights")

func DefaultWeights() Weights {
	return Weights{
		EducationMatch:           20,
		EducationPenalty:         10,
		CGPAMatch:                20,
		CGPAPenalty:              10,
		FieldExact:               25,
		FieldPartial:             20,
		FieldSimilarity:          20,
		FieldSimilarityThreshold: 0.6,
		InterestPerTag:           5,
		InterestMax:              20,
		SkillPerTag:              3,
		SkillMax:                 15,
		ObjectiveMax:             10,
	}
}

func (w Weights) Validate() error {
	ints := map[string]int{
		"education_match":   w.EducationMatch,
		"education_penalty": w.EducationPenalty,
		"cgpa_match":        w.CGPAMatch,
		"cgpa_penalty":      w.CGPAPenalty,
		"field_exact":       w.FieldExact,
		"field_partial":     w.FieldPartial,
		"field_similarity":  w.FieldSimilarity,
		"interest_per_tag":  w.InterestPerTag,
		"interest_max":      w.InterestMax,
		"skill_per_tag":     w.SkillPerTag,
		"skill_max":         w.SkillMax,
		"objective_max":     w.ObjectiveMax,
	}
	for name, v := range ints {
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidWeights, name)
		}
	}
	if w.FieldSimilarityThreshold < 0 || w.FieldSimilarityThreshold > 1 {
		return fmt.Errorf("%w: field_similarity_threshold must be within [0,1]", ErrInvalidWeights)
	}
	return nil
}
