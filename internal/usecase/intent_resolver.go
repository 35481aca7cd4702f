package usecase

import (
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/paintassist/backend/internal/domain"
)

// EmptyMessagePrompt is the reply to an empty or whitespace-only message
const EmptyMessagePrompt = "Please enter a question about a product or its price."

// DefaultAboutTriggers lead into a product description question
func DefaultAboutTriggers() []string {
	return []string{
		"tell me about", "information about", "information on",
		"what is", "what's", "describe", "details about",
	}
}

// DefaultPriceTriggers lead into a price question
func DefaultPriceTriggers() []string {
	return []string{
		"how much is", "how much does", "price for", "price of", "price on",
		"what is the price of", "what's the price of", "cost of",
	}
}

// Compiled regex patterns for intent detection
var (
	// Price words that turn an otherwise unmatched message into a price query
	priceKeywordRegex = regexp.MustCompile(`(?i)\b(price|prices|cost|costs|how much)\b`)
)

// aboutFillerWords are dropped from the front of an about target
var aboutFillerWords = map[string]bool{
	"the": true, "a": true, "an": true, "about": true, "of": true,
}

// IntentConfig holds the trigger phrases. Empty lists use the defaults.
type IntentConfig struct {
	AboutTriggers []string
	PriceTriggers []string
}

type trigger struct {
	phrase string
	intent domain.Intent
	re     *regexp.Regexp
}

// IntentResolver classifies a message and dispatches it to the about or
// price path.
type IntentResolver struct {
	triggers  []trigger
	extractor *Extractor
	about     *AboutResolver
	price     *PriceResolver
}

// NewIntentResolver creates a resolver over an index
func NewIntentResolver(index *CatalogIndex, matcher *MatchingService, config IntentConfig) *IntentResolver {
	aboutTriggers := config.AboutTriggers
	if len(aboutTriggers) == 0 {
		aboutTriggers = DefaultAboutTriggers()
	}
	priceTriggers := config.PriceTriggers
	if len(priceTriggers) == 0 {
		priceTriggers = DefaultPriceTriggers()
	}

	var triggers []trigger
	for _, phrase := range aboutTriggers {
		triggers = appendTrigger(triggers, phrase, domain.IntentAbout)
	}
	for _, phrase := range priceTriggers {
		triggers = appendTrigger(triggers, phrase, domain.IntentPrice)
	}

	var normalizer *Normalizer
	if index != nil {
		normalizer = index.Normalizer()
	}

	return &IntentResolver{
		triggers:  triggers,
		extractor: NewExtractor(normalizer),
		about:     NewAboutResolver(index, matcher),
		price:     NewPriceResolver(index, matcher),
	}
}

func appendTrigger(triggers []trigger, phrase string, intent domain.Intent) []trigger {
	phrase = strings.ToLower(strings.Join(strings.Fields(phrase), " "))
	if phrase == "" {
		return triggers
	}
	// Spaces in the phrase accept any whitespace run in the message
	pattern := strings.ReplaceAll(regexp.QuoteMeta(phrase), " ", `\s+`)
	return append(triggers, trigger{
		phrase: phrase,
		intent: intent,
		re:     regexp.MustCompile(`(?i)\b` + pattern + `\b`),
	})
}

// Classify detects the intent and returns the target span that follows the
// trigger. The earliest trigger in the message wins; at the same position the
// longest one does, so "what is the price of" beats "what is".
func (r *IntentResolver) Classify(message string) (domain.Intent, string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return domain.IntentUnknown, ""
	}

	type hit struct {
		start, end int
		t          trigger
	}
	var hits []hit
	for _, t := range r.triggers {
		if loc := t.re.FindStringIndex(message); loc != nil {
			hits = append(hits, hit{start: loc[0], end: loc[1], t: t})
		}
	}

	if len(hits) == 0 {
		if priceKeywordRegex.MatchString(message) {
			return domain.IntentPrice, trimSentencePunct(message)
		}
		return domain.IntentUnknown, ""
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].start != hits[j].start {
			return hits[i].start < hits[j].start
		}
		return hits[i].end-hits[i].start > hits[j].end-hits[j].start
	})
	best := hits[0]
	remainder := trimSentencePunct(message[best.end:])

	if best.t.intent == domain.IntentAbout {
		// "what is A119 price" asks for a price despite the about lead-in
		if priceKeywordRegex.MatchString(remainder) {
			return domain.IntentPrice, remainder
		}
		return domain.IntentAbout, stripLeadingFiller(remainder)
	}
	return domain.IntentPrice, remainder
}

// Resolve answers a message. Empty messages return the fixed prompt before
// any catalog lookup. The result is never nil.
func (r *IntentResolver) Resolve(message string) *domain.Response {
	if strings.TrimSpace(message) == "" {
		return &domain.Response{
			Query:  domain.ResolvedQuery{Intent: domain.IntentUnknown},
			Prompt: EmptyMessagePrompt,
		}
	}

	intent, target := r.Classify(message)
	resp := &domain.Response{Query: domain.ResolvedQuery{Intent: intent}}

	switch intent {
	case domain.IntentAbout:
		resp.Query.TargetName = target
		resp.About = r.about.Resolve(target)

	case domain.IntentPrice:
		ext, ok := r.extractor.Extract(target)
		resp.Query.TargetCode = NormalizeCode(ext.Code)
		resp.Query.TargetName = ext.CodeSide
		resp.Query.SizePhrase = ext.SizePhrase
		resp.Price = r.price.Resolve(ext, ok)
		if resp.Price.ProductCode != "" {
			resp.Query.TargetCode = resp.Price.ProductCode
		}
	}

	log.Debug().
		Str("component", "intent").
		Str("intent", string(intent)).
		Str("target", target).
		Msg("message resolved")

	return resp
}

func stripLeadingFiller(s string) string {
	tokens := strings.Fields(s)
	for len(tokens) > 0 && aboutFillerWords[strings.ToLower(tokens[0])] {
		tokens = tokens[1:]
	}
	return strings.Join(tokens, " ")
}
