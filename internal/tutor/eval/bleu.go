package eval

import (
	"math"
	"strings"
)

const bleuMaxOrder = 2

// Bleu computes a bigram-capped BLEU score with brevity penalty. Smoothing
// applies only to orders above unigram: a candidate sharing no words with the
// reference scores exactly zero, and an identical candidate scores exactly one.
func Bleu(candidate, reference string) float64 {
	cand := Tokenize(candidate)
	ref := Tokenize(reference)
	if len(cand) == 0 || len(ref) == 0 {
		return 0
	}

	logSum := 0.0
	for n := 1; n <= bleuMaxOrder; n++ {
		matched, total := ngramOverlap(cand, ref, n)
		if total == 0 {
			continue
		}
		p := float64(matched) / float64(total)
		if p == 0 {
			if n == 1 {
				return 0
			}
			p = 1 / float64(2*total)
		}
		logSum += math.Log(p) / bleuMaxOrder
	}

	bp := 1.0
	if len(cand) < len(ref) {
		bp = math.Exp(1 - float64(len(ref))/float64(len(cand)))
	}
	return bp * math.Exp(logSum)
}

func ngramOverlap(cand, ref []string, n int) (matched, total int) {
	if len(cand) < n {
		return 0, 0
	}

	refCounts := make(map[string]int)
	for i := 0; i+n <= len(ref); i++ {
		refCounts[strings.Join(ref[i:i+n], " ")]++
	}

	for i := 0; i+n <= len(cand); i++ {
		total++
		gram := strings.Join(cand[i:i+n], " ")
		if refCounts[gram] > 0 {
			refCounts[gram]--
			matched++
		}
	}
	return matched, total
}
