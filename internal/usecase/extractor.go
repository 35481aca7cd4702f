package usecase

import (
	"regexp"
	"strings"
	"unicode"
)

// Compiled regex patterns for code/size extraction
var (
	// Standalone "in" separating the code from the size: "A119 in 18 Ltr"
	inSplitRegex = regexp.MustCompile(`(?i)\bin\b`)

	// A quantity glued to a unit, e.g. "18ltr", "3.6l", "20kg"
	quantityUnitRegex = regexp.MustCompile(`^\d+(?:\.\d+)?([a-z]+)$`)
)

// extractorFillerWords never name a product code and carry no size information
var extractorFillerWords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "about": true,
	"price": true, "cost": true, "costs": true, "please": true,
	"for": true, "per": true, "is": true, "does": true,
}

// Extraction is the outcome of splitting a price phrase.
type Extraction struct {
	// Code is the product code candidate, punctuation stripped
	Code string
	// CodeSide is the text the code was scanned from, used for name fallback
	CodeSide string
	// SizePhrase is the size remainder; empty means no size was given
	SizePhrase string
}

// Extractor splits a trigger-stripped price phrase into a code candidate and
// a size remainder.
type Extractor struct {
	normalizer *Normalizer
}

// NewExtractor creates an extractor. A nil normalizer uses the default alias table.
func NewExtractor(normalizer *Normalizer) *Extractor {
	if normalizer == nil {
		normalizer = NewNormalizer(nil)
	}
	return &Extractor{normalizer: normalizer}
}

// Extract returns the code candidate and size phrase found in remainder.
// ok is false when no plausible code token exists; the returned Extraction
// still carries CodeSide so callers can fall back to a name lookup.
func (e *Extractor) Extract(remainder string) (Extraction, bool) {
	remainder = strings.TrimSpace(remainder)
	if remainder == "" {
		return Extraction{}, false
	}

	if loc := inSplitRegex.FindStringIndex(remainder); loc != nil {
		left := strings.TrimSpace(remainder[:loc[0]])
		right := remainder[loc[1]:]

		tokens := strings.Fields(left)
		idx := e.pickCodeToken(tokens)
		result := Extraction{
			CodeSide:   trimSentencePunct(left),
			SizePhrase: cleanSizePhrase(strings.Fields(right)),
		}
		if idx < 0 || e.rejectCode(tokens, idx) {
			return result, false
		}
		result.Code = trimTokenPunct(tokens[idx])
		return result, true
	}

	tokens := strings.Fields(remainder)
	idx := e.pickCodeToken(tokens)
	if idx < 0 {
		return Extraction{CodeSide: trimSentencePunct(remainder)}, false
	}
	if e.rejectCode(tokens, idx) {
		// A refused quantity is where the size starts: "acrylic primer 18 ltr"
		if idx == 0 {
			return Extraction{CodeSide: trimSentencePunct(remainder)}, false
		}
		return Extraction{
			CodeSide:   trimSentencePunct(strings.Join(tokens[:idx], " ")),
			SizePhrase: cleanSizePhrase(tokens[idx:]),
		}, false
	}

	return Extraction{
		Code:       trimTokenPunct(tokens[idx]),
		CodeSide:   trimSentencePunct(strings.Join(tokens[:idx+1], " ")),
		SizePhrase: cleanSizePhrase(tokens[idx+1:]),
	}, true
}

// pickCodeToken scans right to left: a token with both digits and letters wins,
// then a digits-only token, then any non-filler token. Returns -1 if none.
func (e *Extractor) pickCodeToken(tokens []string) int {
	digitOnly, plain := -1, -1

	for i := len(tokens) - 1; i >= 0; i-- {
		token := trimTokenPunct(tokens[i])
		if token == "" {
			continue
		}

		hasDigit, hasLetter := classifyToken(token)
		switch {
		case hasDigit && hasLetter:
			if !e.isQuantityWithUnit(token) {
				return i
			}
		case hasDigit:
			if digitOnly < 0 {
				digitOnly = i
			}
		default:
			if plain < 0 && !extractorFillerWords[strings.ToLower(token)] {
				plain = i
			}
		}
	}

	if digitOnly >= 0 {
		return digitOnly
	}
	return plain
}

// rejectCode guards against reading a pack quantity as a code: a digits-only
// pick is refused when the scanned tokens also hold real words.
func (e *Extractor) rejectCode(tokens []string, idx int) bool {
	hasDigit, hasLetter := classifyToken(trimTokenPunct(tokens[idx]))
	if !hasDigit || hasLetter {
		return false
	}

	for i, raw := range tokens {
		if i == idx {
			continue
		}
		token := strings.ToLower(trimTokenPunct(raw))
		if extractorFillerWords[token] {
			continue
		}
		if _, letter := classifyToken(token); letter {
			return true
		}
	}
	return false
}

// isQuantityWithUnit reports whether a token like "18ltr" is a size, not a code
func (e *Extractor) isQuantityWithUnit(token string) bool {
	m := quantityUnitRegex.FindStringSubmatch(strings.ToLower(token))
	if m == nil {
		return false
	}
	_, ok := e.normalizer.sizeAliases[m[1]]
	return ok
}

// cleanSizePhrase drops leading filler words and trailing sentence punctuation
func cleanSizePhrase(tokens []string) string {
	for len(tokens) > 0 && extractorFillerWords[strings.ToLower(trimTokenPunct(tokens[0]))] {
		tokens = tokens[1:]
	}
	return trimSentencePunct(strings.Join(tokens, " "))
}

// classifyToken reports whether a token contains digits and letters
func classifyToken(token string) (hasDigit, hasLetter bool) {
	for _, r := range token {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLetter(r):
			hasLetter = true
		}
	}
	return hasDigit, hasLetter
}

// trimTokenPunct strips leading and trailing punctuation from a token
func trimTokenPunct(token string) string {
	return strings.TrimFunc(token, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// trimSentencePunct strips trailing . ! ? and surrounding whitespace
func trimSentencePunct(s string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), ".!?"))
}
