package orgsvc

import (
	"regexp"
	"strings"
)

// NameMatchThreshold is the minimum Jaccard similarity for two
// organization names to be considered the same entity (§4.4 step 3).
const NameMatchThreshold = 0.9

var tokenSplit = regexp.MustCompile(`[^\p{L}0-9]+`)

// orgStopwords are common corporate suffixes stripped before comparison
// so "Acme Inc" and "Acme" are recognized as the same organization.
var orgStopwords = map[string]bool{
	"inc":   true,
	"llc":   true,
	"ltd":   true,
	"corp":  true,
	"co":    true,
	"the":   true,
	"group": true,
}

// tokenize lowercases and splits on non-alphanumeric runs, dropping
// stopwords and empty tokens.
func tokenize(name string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range tokenSplit.Split(strings.ToLower(name), -1) {
		if tok == "" || orgStopwords[tok] {
			continue
		}
		tokens[tok] = true
	}
	return tokens
}

// NameSimilarity computes case-insensitive normalized-token Jaccard
// similarity between two organization names (§4.4 step 3).
func NameSimilarity(a, b string) float64 {
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range tokensA {
		if tokensB[tok] {
			intersection++
		}
	}
	union := len(tokensA) + len(tokensB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// NamesMatch reports whether a and b should be treated as the same
// organization under the declared threshold.
func NamesMatch(a, b string) bool {
	return NameSimilarity(a, b) >= NameMatchThreshold
}
