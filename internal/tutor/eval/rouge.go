package eval

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`\w+`)

// Tokenize lowercases and splits on word boundaries. Both metrics share this
// so candidate and reference are always tokenized identically.
func Tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// RougeScore holds longest-common-subsequence overlap statistics.
type RougeScore struct {
	Precision float64
	Recall    float64
	F1        float64
}

// RougeL computes ROUGE-L between a candidate and a reference text.
// Empty candidate or reference scores zero across the board.
func RougeL(candidate, reference string) RougeScore {
	cand := Tokenize(candidate)
	ref := Tokenize(reference)
	if len(cand) == 0 || len(ref) == 0 {
		return RougeScore{}
	}

	lcs := float64(lcsLength(cand, ref))
	p := lcs / float64(len(cand))
	r := lcs / float64(len(ref))

	score := RougeScore{Precision: p, Recall: r}
	if p+r > 0 {
		score.F1 = 2 * p * r / (p + r)
	}
	return score
}

// lcsLength runs the classic DP over two rows instead of the full table.
func lcsLength(a, b []string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
