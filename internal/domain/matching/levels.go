package matching

import (
	"sort"
	"strings"
)

const (
	LevelBachelor      = "bachelor"
	LevelMaster        = "master"
	LevelPhD           = "phd"
	LevelUndergraduate = "undergraduate"
	LevelGraduate      = "graduate"
	LevelPostgraduate  = "postgraduate"
)

var allLevels = []string{
	LevelBachelor,
	LevelMaster,
	LevelPhD,
	LevelUndergraduate,
	LevelGraduate,
	LevelPostgraduate,
}

var acceptedByEducation = map[string][]string{
	"high school": {LevelBachelor, LevelUndergraduate},
	LevelBachelor: {LevelBachelor, LevelMaster, LevelUndergraduate, LevelGraduate},
	LevelMaster:   {LevelMaster, LevelPhD, LevelGraduate, LevelPostgraduate},
	LevelPhD:      {LevelPhD, LevelPostgraduate},
}

var educationAliases = map[string]string{
	"high school":       "high school",
	"highschool":        "high school",
	"secondary school":  "high school",
	"bachelor":          LevelBachelor,
	"bachelors":         LevelBachelor,
	"bachelor's":        LevelBachelor,
	"bachelor degree":   LevelBachelor,
	"bachelors degree":  LevelBachelor,
	"bachelor's degree": LevelBachelor,
	"undergraduate":     LevelBachelor,
	"master":            LevelMaster,
	"masters":           LevelMaster,
	"master's":          LevelMaster,
	"master degree":     LevelMaster,
	"masters degree":    LevelMaster,
	"master's degree":   LevelMaster,
	"graduate":          LevelMaster,
	"phd":               LevelPhD,
	"ph.d":              LevelPhD,
	"ph.d.":             LevelPhD,
	"doctorate":         LevelPhD,
	"doctoral":          LevelPhD,
	"postgraduate":      LevelPhD,
}

var scholarshipLevelAliases = map[string]string{
	"bachelor":      LevelBachelor,
	"bachelors":     LevelBachelor,
	"bachelor's":    LevelBachelor,
	"master":        LevelMaster,
	"masters":       LevelMaster,
	"master's":      LevelMaster,
	"phd":           LevelPhD,
	"ph.d":          LevelPhD,
	"ph.d.":         LevelPhD,
	"doctorate":     LevelPhD,
	"undergraduate": LevelUndergraduate,
	"graduate":      LevelGraduate,
	"postgraduate":  LevelPostgraduate,
}

func normalizeLevelText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// AcceptedLevels returns the scholarship levels open to a user whose highest
// education is highest. recognized is false for empty or unknown values, in
// which case every level is returned.
func AcceptedLevels(highest string) (levels []string, recognized bool) {
	key, ok := educationAliases[normalizeLevelText(highest)]
	if !ok {
		return append([]string(nil), allLevels...), false
	}
	return append([]string(nil), acceptedByEducation[key]...), true
}

// CanonicalLevel maps a scholarship level to its canonical form. Unknown
// values are returned lower-cased with ok=false.
func CanonicalLevel(level string) (string, bool) {
	n := normalizeLevelText(level)
	c, ok := scholarshipLevelAliases[n]
	if !ok {
		return n, false
	}
	return c, true
}

// LevelAliases expands canonical levels to every spelling CanonicalLevel
// folds into them, sorted. Storage-side filters use it so a row stored as
// "Master's" is not dropped before it reaches the scorer.
func LevelAliases(canonical []string) []string {
	want := make(map[string]struct{}, len(canonical))
	for _, c := range canonical {
		want[c] = struct{}{}
	}
	out := make([]string, 0, len(scholarshipLevelAliases))
	for alias, c := range scholarshipLevelAliases {
		if _, ok := want[c]; ok {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}
