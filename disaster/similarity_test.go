package disaster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, LevenshteinDistance("", ""))
	assert.Equal(t, 4, LevenshteinDistance("yagi", ""))
	assert.Equal(t, 4, LevenshteinDistance("", "yagi"))
	assert.Equal(t, 0, LevenshteinDistance("yagi", "yagi"))
	assert.Equal(t, 1, LevenshteinDistance("yagi", "yogi"))
	assert.Equal(t, 3, LevenshteinDistance("kitten", "sitting"))
}

func TestLevenshteinSimilarity_IdenticalStringsScoreOne(t *testing.T) {
	for _, pair := range [][2]string{
		{"", ""},
		{"yagi", "yagi"},
		{"yagi", "YAGI"},
		{"Fung-Wong", "fung-wong"},
	} {
		assert.Equal(t, 1.0, LevenshteinSimilarity(pair[0], pair[1]),
			"case-insensitively equal strings must score exactly 1.0: %q vs %q", pair[0], pair[1])
	}
}

func TestLevenshteinSimilarity_Score(t *testing.T) {
	// One edit over four runes: 1 - 1/4.
	assert.InDelta(t, 0.75, LevenshteinSimilarity("yagi", "yogi"), 1e-9)
	// Completely different strings of equal length score 0.
	assert.InDelta(t, 0.0, LevenshteinSimilarity("abcd", "wxyz"), 1e-9)
}

func TestFindMostSimilar_PicksBestCandidate(t *testing.T) {
	best, ok := FindMostSimilar("yogi", []string{"matmo", "yagi", "koto"})
	assert.True(t, ok)
	assert.Equal(t, "yagi", best)
}

func TestFindMostSimilar_ExactlyHalfIsNoMatch(t *testing.T) {
	// "ab" vs "ax" scores exactly 0.5; acceptance is strictly greater.
	_, ok := FindMostSimilar("ab", []string{"ax"})
	assert.False(t, ok)
}

func TestFindMostSimilar_TieKeepsFirstCandidate(t *testing.T) {
	// Both candidates are one edit away from the input.
	best, ok := FindMostSimilar("yagi", []string{"yagix", "xyagi"})
	assert.True(t, ok)
	assert.Equal(t, "yagix", best)
}

func TestFindMostSimilar_NoCandidates(t *testing.T) {
	_, ok := FindMostSimilar("yagi", nil)
	assert.False(t, ok)
}
