package disaster

import "strings"

// LevenshteinDistance returns the edit distance between two strings,
// counted in runes.
func LevenshteinDistance(s1, s2 string) int {
	a := []rune(s1)
	b := []rune(s2)

	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// LevenshteinSimilarity scores how alike two strings are, case-insensitively:
// 1 - distance/maxLen, so identical strings score exactly 1.0.
func LevenshteinSimilarity(s1, s2 string) float64 {
	maxLen := max(len([]rune(s1)), len([]rune(s2)))
	if maxLen == 0 {
		return 1.0
	}
	dist := LevenshteinDistance(strings.ToLower(s1), strings.ToLower(s2))
	return 1.0 - float64(dist)/float64(maxLen)
}

// FindMostSimilar picks the candidate most similar to input. Ties keep the
// earlier candidate. The match is accepted only when its score is strictly
// above 0.5; otherwise ok is false.
func FindMostSimilar(input string, candidates []string) (best string, ok bool) {
	if len(candidates) == 0 {
		return "", false
	}

	best = candidates[0]
	bestScore := LevenshteinSimilarity(input, best)
	for _, candidate := range candidates[1:] {
		if score := LevenshteinSimilarity(input, candidate); score > bestScore {
			bestScore = score
			best = candidate
		}
	}

	if bestScore > 0.5 {
		return best, true
	}
	return "", false
}

func min3(a, b, c int) int {
	return min(min(a, b), c)
}
