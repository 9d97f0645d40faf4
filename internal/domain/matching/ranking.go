package matching

import (
	"math"
	"sort"
	"strconv"
	"time"

	"scholar-match/internal/domain/scholarship"
)

type Match struct {
	Scholarship   scholarship.Scholarship
	MatchScore    int
	MatchReasons  []string
	Breakdown     Breakdown
	DaysRemaining int
}

func (m Match) MatchPercentage() string {
	return strconv.Itoa(m.MatchScore) + "%"
}

// DaysRemaining is ceil((deadline-now)/24h), never negative.
func DaysRemaining(deadline, now time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(float64(d) / float64(24*time.Hour)))
}

func (s *Scorer) Match(p NormalizedProfile, sch scholarship.Scholarship, now time.Time) (Match, []Issue) {
	r := s.Score(p, sch)
	return Match{
		Scholarship:   sch,
		MatchScore:    r.MatchScore,
		MatchReasons:  r.Reasons,
		Breakdown:     r.Breakdown,
		DaysRemaining: DaysRemaining(sch.Deadline, now),
	}, r.Issues
}

// Rank keeps matches scoring at least minScore, orders them by score
// descending then days remaining ascending, and caps the result at topN.
// topN <= 0 means no cap.
func Rank(matches []Match, minScore, topN int) []Match {
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.MatchScore < minScore {
			continue
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchScore != out[j].MatchScore {
			return out[i].MatchScore > out[j].MatchScore
		}
		return out[i].DaysRemaining < out[j].DaysRemaining
	})

	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}
