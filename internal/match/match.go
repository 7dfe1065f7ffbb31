// Package match scores text similarity with normalized edit distance.
package match

// Similarity returns 1 - editDistance(a,b)/max(len(a),len(b)), in [0, 1].
// Two empty strings score 1; one empty and one non-empty score 0.
func Similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}

	return 1 - float64(Distance(a, b))/float64(longest)
}

// Distance computes the Levenshtein distance between a and b with unit cost
// for insertion, deletion, and substitution. Byte-level; callers compare
// like-encoded inputs so the normalization stays consistent.
func Distance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Two-row dynamic program; prev[j] is the distance between a[:i] and b[:j].
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
