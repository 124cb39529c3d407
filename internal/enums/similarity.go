package enums

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity scores two names between 0 and 1 as
// (max length - edit distance) / max length, ignoring case. Two empty names
// score 1.
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1.0
	}
	return float64(longest-levenshtein.ComputeDistance(a, b)) / float64(longest)
}

// LongestCommonSubstring returns the longest run of characters found in both
// a and b. When several runs share the maximum length, the one ending first
// in a wins.
func LongestCommonSubstring(a, b string) string {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return ""
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	best, end := 0, 0
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] != rb[j-1] {
				cur[j] = 0
				continue
			}
			cur[j] = prev[j-1] + 1
			if cur[j] > best {
				best, end = cur[j], i
			}
		}
		prev, cur = cur, prev
	}
	return string(ra[end-best : end])
}
