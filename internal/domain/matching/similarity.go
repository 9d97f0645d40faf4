package matching

import "strings"

// Tokenize lower-cases s and splits it on whitespace into a set of words.
func Tokenize(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		out[f] = struct{}{}
	}
	return out
}

// Jaccard returns |A∩B| / |A∪B| over the word sets of a and b.
// It is 0 when either side has no words.
func Jaccard(a, b string) float64 {
	ta := Tokenize(a)
	tb := Tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	inter := 0
	for w := range ta {
		if _, ok := tb[w]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
