// Package similarity scores how alike two merchant descriptions are.
//
// The measure is a character-bigram Dice coefficient: cheap, needs no
// corpus, and tolerant of the word-order and spelling drift typical of
// abbreviated merchant names across banking channels.
package similarity

import (
	"strings"

	"github.com/spendwise/banktext-backend/internal/domain/normalize"
)

// containmentScore is the fixed score for one string containing the
// other. Below 1.0 so exact equality still ranks higher.
const containmentScore = 0.85

// Score returns a similarity in [0,1] between two strings. It is
// symmetric and Score(x, x) == 1. Inputs are normalized first
// (lowercase, stripped to letters/digits/spaces), so callers may pass
// raw descriptions.
func Score(a, b string) float64 {
	na := normalize.Description(a)
	nb := normalize.Description(b)

	if na == nb {
		return 1
	}
	if na == "" || nb == "" {
		return 0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return containmentScore
	}

	bigramsA := bigrams(na)
	bigramsB := bigrams(nb)
	if len(bigramsA) == 0 || len(bigramsB) == 0 {
		return 0
	}

	intersection := 0
	for bg := range bigramsA {
		if _, ok := bigramsB[bg]; ok {
			intersection++
		}
	}

	return 2 * float64(intersection) / float64(len(bigramsA)+len(bigramsB))
}

// bigrams returns the set of overlapping two-rune substrings.
func bigrams(s string) map[string]struct{} {
	runes := []rune(s)
	set := make(map[string]struct{}, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		set[string(runes[i:i+2])] = struct{}{}
	}
	return set
}
