// Package levenshtein implements the Wagner–Fischer edit-distance algorithm
// used by the format registry (spec section 4.6) to suggest the closest
// known format name when an unrecognised one is requested.
package levenshtein

// Distance returns the Levenshtein edit distance between a and b using the
// classic Wagner–Fischer dynamic-programming table. Complexity: O(len(a)*len(b))
// time, O(min(len(a),len(b))) space.
func Distance(a, b string) int {
	ar, br := []rune(a), []rune(b)
	if len(ar) < len(br) {
		ar, br = br, ar
	}
	prev := make([]int, len(br)+1)
	curr := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ar); i++ {
		curr[0] = i
		for j := 1; j <= len(br); j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = min3(del, ins, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(br)]
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

// Closest returns the candidate in candidates with the smallest edit
// distance to target, provided that distance is strictly less than
// threshold. Returns ("", false) if candidates is empty or every candidate
// is at or beyond threshold.
func Closest(target string, candidates []string, threshold int) (string, bool) {
	best := ""
	bestDist := threshold
	found := false
	for _, c := range candidates {
		d := Distance(target, c)
		if d < bestDist {
			bestDist = d
			best = c
			found = true
		}
	}
	return best, found
}
