package usecase

import (
	"regexp"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Scorer rates the similarity of two strings from 0 (unrelated) to 100 (equal).
type Scorer interface {
	Score(a, b string) float64
}

// ScorerFunc adapts a plain function to the Scorer interface
type ScorerFunc func(a, b string) float64

// Score calls f(a, b)
func (f ScorerFunc) Score(a, b string) float64 {
	return f(a, b)
}

var (
	// WeightedRatio is the default composite scorer for names and codes.
	WeightedRatio Scorer = ScorerFunc(weightedRatio)

	// TokenSetRatio ignores word order and duplicated words. Tokens are split
	// on whitespace only so decimal quantities like "3.6" stay whole; it is
	// meant for size keys produced by NormalizeSize.
	TokenSetRatio Scorer = ScorerFunc(func(a, b string) float64 {
		return tokenSetRatio(strings.ToLower(a), strings.ToLower(b))
	})
)

// Weights applied by weightedRatio
const (
	tokenScale         = 0.95 // token sort/set ratios never beat an equal plain ratio
	partialScale       = 0.90 // length ratio >= 1.5
	partialScaleSkewed = 0.60 // length ratio > 8
	partialLengthRatio = 1.5
	skewedLengthRatio  = 8.0
)

var nonAlphanumericRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// prepareForScoring lower-cases and replaces non-alphanumerics with spaces
func prepareForScoring(s string) string {
	s = nonAlphanumericRegex.ReplaceAllString(strings.ToLower(s), " ")
	return strings.Join(strings.Fields(s), " ")
}

// weightedRatio picks the best of several ratios, scaling down the partial
// and token-based ones so an exact match always ranks first.
func weightedRatio(a, b string) float64 {
	a, b = prepareForScoring(a), prepareForScoring(b)
	if a == "" || b == "" {
		return 0
	}

	best := ratio(a, b)

	la, lb := float64(len([]rune(a))), float64(len([]rune(b)))
	lenRatio := max(la, lb) / min(la, lb)

	if lenRatio < partialLengthRatio {
		best = max(best,
			tokenSortRatio(a, b)*tokenScale,
			tokenSetRatio(a, b)*tokenScale,
		)
		return best
	}

	scale := partialScale
	if lenRatio > skewedLengthRatio {
		scale = partialScaleSkewed
	}

	return max(best,
		partialRatio(a, b)*scale,
		partialRatio(sortTokens(a), sortTokens(b))*tokenScale*scale,
		tokenSetRatio(a, b)*tokenScale*scale,
	)
}

// ratio is the normalized Levenshtein similarity
func ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 100
	}

	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 100
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(dist)/float64(maxLen))
}

// partialRatio is the best ratio of the shorter string against every
// equal-length window of the longer one.
func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	shortStr := string(short)
	best := 0.0
	for start := 0; start+len(short) <= len(long); start++ {
		score := ratio(shortStr, string(long[start:start+len(short)]))
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

func tokenSortRatio(a, b string) float64 {
	return ratio(sortTokens(a), sortTokens(b))
}

// tokenSetRatio compares the shared tokens against each side's full set so
// that "18 ltr drum" scores 100 against "drum 18 ltr drum".
func tokenSetRatio(a, b string) float64 {
	setA, setB := tokenSet(a), tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var shared, onlyA, onlyB []string
	for token := range setA {
		if setB[token] {
			shared = append(shared, token)
		} else {
			onlyA = append(onlyA, token)
		}
	}
	for token := range setB {
		if !setA[token] {
			onlyB = append(onlyB, token)
		}
	}
	sort.Strings(shared)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(shared, " ")
	withA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	if base == "" {
		return ratio(withA, withB)
	}
	return max(ratio(base, withA), ratio(base, withB), ratio(withA, withB))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range strings.Fields(s) {
		set[token] = true
	}
	return set
}
