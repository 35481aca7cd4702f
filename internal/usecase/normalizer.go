package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Compiled regex patterns for text and size normalization
var (
	// Anything outside letters, digits, underscore, whitespace and - & / . : ( )
	disallowedCharsRegex = regexp.MustCompile(`[^\p{L}\p{N}_\s\-&/.:()]+`)

	// A digit immediately followed by a letter, e.g. "18ltr"
	digitLetterRegex = regexp.MustCompile(`(\d)([a-z])`)

	// Size tokens: decimal numbers or letter runs
	sizeTokenRegex = regexp.MustCompile(`\d+(?:\.\d+)?|[a-z]+`)
)

// DefaultSizeAliases maps unit spellings to their canonical token.
func DefaultSizeAliases() map[string]string {
	return map[string]string{
		// Volume
		"l": "ltr", "lt": "ltr", "ltr": "ltr", "ltrs": "ltr",
		"liter": "ltr", "litre": "ltr", "liters": "ltr", "litres": "ltr",
		"ml": "ml", "milliliter": "ml", "millilitre": "ml",
		"milliliters": "ml", "millilitres": "ml",
		"gal": "gallon", "gallon": "gallon", "gallons": "gallon",
		"qt": "quart", "quart": "quart", "quarts": "quart",
		// Weight
		"g": "g", "gram": "g", "grams": "g",
		"kg": "kg", "kgs": "kg", "kilogram": "kg", "kilograms": "kg",
		// Packaging
		"tin": "tin", "tins": "tin",
		"drum": "drum", "drums": "drum",
		"pack": "pack", "packs": "pack",
		"pail": "pail", "pails": "pail",
		"bucket": "bucket", "buckets": "bucket",
	}
}

// Normalizer holds the unit alias table used for size matching.
// Text and code normalization need no state and are plain functions.
type Normalizer struct {
	sizeAliases map[string]string
}

// NewNormalizer creates a normalizer with the given size aliases.
// An empty table falls back to DefaultSizeAliases.
func NewNormalizer(sizeAliases map[string]string) *Normalizer {
	if len(sizeAliases) == 0 {
		sizeAliases = DefaultSizeAliases()
	}

	aliases := make(map[string]string, len(sizeAliases))
	for k, v := range sizeAliases {
		aliases[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
	}

	return &Normalizer{sizeAliases: aliases}
}

// NormalizeText lower-cases, folds accents, strips characters outside the
// name allow-list and collapses whitespace. Letters of any script are kept.
// It is idempotent.
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}

	out := foldAccents(strings.ToLower(s))
	out = strings.Map(spaceToBlank, out)
	out = disallowedCharsRegex.ReplaceAllString(out, "")
	return strings.Join(strings.Fields(out), " ")
}

// NormalizeSize reduces a size phrase to a canonical key so that
// "18 Ltr (Drum)", "18ltr drum" and "18 LITRE DRUM" all read "18 ltr drum".
func (n *Normalizer) NormalizeSize(s string) string {
	if s == "" {
		return ""
	}

	out := foldAccents(strings.ToLower(s))
	out = digitLetterRegex.ReplaceAllString(out, "$1 $2")

	tokens := sizeTokenRegex.FindAllString(out, -1)
	for i, token := range tokens {
		if alias, ok := n.sizeAliases[token]; ok {
			tokens[i] = alias
		}
	}

	return strings.Join(tokens, " ")
}

// NormalizeCode returns the only valid lookup form of a product code.
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Tokens splits normalized text on whitespace
func Tokens(s string) []string {
	return strings.Fields(NormalizeText(s))
}

// spaceToBlank maps every Unicode space to ' '; \s in the allow-list is ASCII only.
func spaceToBlank(r rune) rune {
	if unicode.IsSpace(r) {
		return ' '
	}
	return r
}

// foldAccents strips combining marks (é -> e). The chain is stateful so it is
// built per call.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}
