package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"scholar-match/internal/domain/scholarship"
)

// Issue records a scholarship field that could not be scored.
// The affected factor contributes zero.
type Issue struct {
	Field  string
	Detail string
}

func (i Issue) Error() string {
	return "scoring input malformed: " + i.Field + ": " + i.Detail
}

type Breakdown struct {
	Education int `json:"education"`
	CGPA      int `json:"cgpa"`
	Field     int `json:"field"`
	Interests int `json:"interests"`
	Skills    int `json:"skills"`
	Objective int `json:"objective"`
}

func (b Breakdown) Total() int {
	return b.Education + b.CGPA + b.Field + b.Interests + b.Skills + b.Objective
}

type Result struct {
	MatchScore int
	Reasons    []string
	Breakdown  Breakdown
	Issues     []Issue
}

type Scorer struct {
	w Weights
}

func NewScorer(w Weights) *Scorer {
	return &Scorer{w: w}
}

func (s *Scorer) Weights() Weights {
	return s.w
}

// Score is deterministic in (p, sch) and performs no I/O.
func (s *Scorer) Score(p NormalizedProfile, sch scholarship.Scholarship) Result {
	var (
		b       Breakdown
		reasons []string
		issues  []Issue
		reason  string
		issue   *Issue
	)

	b.Education, reason, issue = s.scoreEducation(p, sch)
	reasons, issues = collect(reasons, issues, reason, issue)

	b.CGPA, reason, issue = s.scoreCGPA(p, sch)
	reasons, issues = collect(reasons, issues, reason, issue)

	b.Field, reason, issue = s.scoreField(p, sch)
	reasons, issues = collect(reasons, issues, reason, issue)

	b.Interests, reason = scoreTags(sch.Tags, p.Interests, s.w.InterestPerTag, s.w.InterestMax, "Matches your interests")
	reasons, issues = collect(reasons, issues, reason, nil)

	b.Skills, reason = scoreTags(sch.Tags, p.Skills, s.w.SkillPerTag, s.w.SkillMax, "Matches your skills")
	reasons, issues = collect(reasons, issues, reason, nil)

	b.Objective, reason = s.scoreObjective(p, sch)
	reasons, issues = collect(reasons, issues, reason, nil)

	total := float64(b.Total())
	score := clampInt(int(math.Round(total)), 0, 100)

	return Result{
		MatchScore: score,
		Reasons:    uniq(reasons),
		Breakdown:  b,
		Issues:     issues,
	}
}

func (s *Scorer) scoreEducation(p NormalizedProfile, sch scholarship.Scholarship) (int, string, *Issue) {
	raw := strings.TrimSpace(deref(sch.Level))
	if raw == "" {
		return 0, "", &Issue{Field: "level", Detail: "missing"}
	}

	level, _ := CanonicalLevel(raw)
	accepted, recognized := AcceptedLevels(p.HighestEducation)
	if !recognized {
		return s.w.EducationMatch, "Open to all education levels", nil
	}
	for _, a := range accepted {
		if a == level {
			return s.w.EducationMatch, "Education level match: " + raw, nil
		}
	}
	return -s.w.EducationPenalty, "Education level mismatch", nil
}

func (s *Scorer) scoreCGPA(p NormalizedProfile, sch scholarship.Scholarship) (int, string, *Issue) {
	if !p.HasCGPA {
		return 0, "", nil
	}
	if sch.MinCGPA == nil {
		return s.w.CGPAMatch, "No minimum CGPA requirement", nil
	}

	minCGPA := *sch.MinCGPA
	if math.IsNaN(minCGPA) || minCGPA < 0 || minCGPA > 4 {
		return 0, "", &Issue{Field: "min_cgpa", Detail: fmt.Sprintf("out of range: %v", minCGPA)}
	}
	if p.CGPA >= minCGPA {
		return s.w.CGPAMatch, fmt.Sprintf("CGPA %.2f meets minimum %.2f", p.CGPA, minCGPA), nil
	}
	return -s.w.CGPAPenalty, fmt.Sprintf("CGPA below minimum requirement of %.2f", minCGPA), nil
}

func (s *Scorer) scoreField(p NormalizedProfile, sch scholarship.Scholarship) (int, string, *Issue) {
	fields := FieldTokens(sch)
	if len(fields) == 0 {
		return 0, "", &Issue{Field: "field_of_study", Detail: "missing"}
	}
	if len(p.EducationFields) == 0 {
		return 0, "", nil
	}

	best := 0
	reason := ""
	for _, uf := range p.EducationFields {
		for _, sf := range fields {
			lsf := strings.ToLower(sf)
			if uf == lsf {
				return s.w.FieldExact, "Exact field match: " + sf, nil
			}
			if strings.Contains(uf, lsf) || strings.Contains(lsf, uf) {
				if s.w.FieldPartial > best {
					best = s.w.FieldPartial
					reason = "Related field: " + sf
				}
				continue
			}
			sim := Jaccard(uf, lsf)
			if sim > s.w.FieldSimilarityThreshold {
				v := int(math.Round(sim * float64(s.w.FieldSimilarity)))
				if v > best {
					best = v
					reason = "Similar field: " + sf
				}
			}
		}
	}
	return best, reason, nil
}

// scoreTags counts every tag occurrence that matches, so a tag listed twice
// in different cases earns twice. The reason names each match once.
func scoreTags(tags []string, wanted StringSet, per, maxV int, label string) (int, string) {
	if len(tags) == 0 || len(wanted) == 0 {
		return 0, ""
	}

	hits := 0
	seen := make(StringSet)
	matched := make([]string, 0)
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if !wanted.Has(t) {
			continue
		}
		hits++
		if !seen.Has(t) {
			seen[t] = struct{}{}
			matched = append(matched, t)
		}
	}
	if hits == 0 {
		return 0, ""
	}
	sort.Strings(matched)

	v := per * hits
	if v > maxV {
		v = maxV
	}
	return v, label + ": " + strings.Join(matched, ", ")
}

func (s *Scorer) scoreObjective(p NormalizedProfile, sch scholarship.Scholarship) (int, string) {
	if p.Objective == "" {
		return 0, ""
	}
	text := sch.Title + " " + deref(sch.Description) + " " + deref(sch.FieldOfStudy)
	sim := Jaccard(p.Objective, text)
	v := int(math.Round(sim * float64(s.w.ObjectiveMax)))
	if v <= 0 {
		return 0, ""
	}
	return v, "Aligned with your objective"
}

// FieldTokens splits fieldOfStudy and specialization on common list
// separators.
func FieldTokens(sch scholarship.Scholarship) []string {
	out := make([]string, 0, 4)
	for _, raw := range []string{deref(sch.FieldOfStudy), deref(sch.Specialization)} {
		parts := strings.FieldsFunc(raw, func(r rune) bool {
			return r == ',' || r == ';' || r == '/' || r == '|'
		})
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func collect(reasons []string, issues []Issue, reason string, issue *Issue) ([]string, []Issue) {
	if reason != "" {
		reasons = append(reasons, reason)
	}
	if issue != nil {
		issues = append(issues, *issue)
	}
	return reasons, issues
}

func uniq(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
