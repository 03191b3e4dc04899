package timeline

import (
	"strings"

	"github.com/hyperjump/kensho/pkg/utils"
)

// Detector flags contradictory claim pairs. It is a coarse lexical heuristic,
// not semantic entailment: two claims contradict when they sit on opposite
// sides of a known antonym pair and share enough topic vocabulary.
type Detector struct {
	pairs           [][2]string
	minSharedTokens int
}

// NewDetector builds a detector from antonym pairs, each a two-element slice
// like ["approve", "reject"]. Claims must share more than minSharedTokens
// word-tokens before a pair match counts.
func NewDetector(antonymPairs [][]string, minSharedTokens int) *Detector {
	d := &Detector{minSharedTokens: minSharedTokens}
	for _, pair := range antonymPairs {
		if len(pair) == 2 {
			d.pairs = append(d.pairs, [2]string{strings.ToLower(pair[0]), strings.ToLower(pair[1])})
		}
	}
	return d
}

// Check reports whether a and b contradict each other.
func (d *Detector) Check(a, b string) bool {
	la := strings.ToLower(a)
	lb := strings.ToLower(b)

	opposed := false
	for _, pair := range d.pairs {
		if contains(la, pair[0]) && contains(lb, pair[1]) {
			// "will not" contains "will"; require the negated side to be
			// absent so the longer phrase wins.
			if strings.Contains(pair[1], pair[0]) && contains(la, pair[1]) {
				continue
			}
			opposed = true
			break
		}
		if contains(la, pair[1]) && contains(lb, pair[0]) {
			if strings.Contains(pair[1], pair[0]) && contains(lb, pair[1]) {
				continue
			}
			opposed = true
			break
		}
	}
	if !opposed {
		return false
	}

	shared := 0
	setA := utils.TokenSet(la)
	for token := range utils.TokenSet(lb) {
		if setA[token] {
			shared++
		}
	}
	return shared > d.minSharedTokens
}

func contains(text, phrase string) bool {
	if strings.ContainsRune(phrase, ' ') {
		return strings.Contains(text, phrase)
	}
	return utils.TokenSet(text)[phrase]
}
