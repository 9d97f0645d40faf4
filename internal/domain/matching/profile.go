package matching

import (
	"math"
	"strings"

	"scholar-match/internal/domain/profile"
)

type StringSet map[string]struct{}

func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// NormalizedProfile is the flat feature set the scorer consumes.
type NormalizedProfile struct {
	HighestEducation string
	EducationFields  []string
	Interests        StringSet
	Skills           StringSet
	CGPA             float64
	HasCGPA          bool
	Objective        string
}

// NormalizeProfile applies all defaulting for optional profile fields.
func NormalizeProfile(p profile.Profile) NormalizedProfile {
	out := NormalizedProfile{
		HighestEducation: strings.TrimSpace(deref(p.HighestEducation)),
		EducationFields:  make([]string, 0, len(p.Educations)),
		Interests:        lowerSet(p.AreasOfInterest),
		Skills:           lowerSet(p.Skills),
		Objective:        strings.ToLower(strings.TrimSpace(deref(p.Objective))),
	}

	for _, e := range p.Educations {
		if f := strings.ToLower(strings.TrimSpace(deref(e.FieldOfStudy))); f != "" {
			out.EducationFields = append(out.EducationFields, f)
		}
		if e.CGPA == nil || math.IsNaN(*e.CGPA) {
			continue
		}
		if !out.HasCGPA || *e.CGPA > out.CGPA {
			out.CGPA = *e.CGPA
		}
		out.HasCGPA = true
	}

	return out
}

func lowerSet(items []string) StringSet {
	out := make(StringSet, len(items))
	for _, it := range items {
		it = strings.ToLower(strings.TrimSpace(it))
		if it == "" {
			continue
		}
		out[it] = struct{}{}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
