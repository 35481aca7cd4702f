package usecase

import (
	"github.com/rs/zerolog/log"

	"github.com/paintassist/backend/internal/domain"
)

// Missing field names reported on a PriceResult
const (
	missingCode = "product_code"
	missingSize = "size"
)

// PriceResolver turns an extracted (code, size) pair into a priced tier
type PriceResolver struct {
	index   *CatalogIndex
	matcher *MatchingService
}

// NewPriceResolver creates a price resolver over an index
func NewPriceResolver(index *CatalogIndex, matcher *MatchingService) *PriceResolver {
	return &PriceResolver{index: index, matcher: matcher}
}

// Resolve looks up the price for an extraction. ok is the extractor's verdict;
// when false only the name fallback is tried. The result is never nil.
func (r *PriceResolver) Resolve(ext Extraction, ok bool) *domain.PriceResult {
	result := &domain.PriceResult{
		RequestedSize:   ext.SizePhrase,
		AvailableSizes:  []string{},
		CodeSuggestions: []string{},
	}

	code, found := r.resolveCode(ext, ok)
	if !found {
		query := ext.Code
		if query == "" {
			query = ext.CodeSide
		}
		result.CodeSuggestions = r.matcher.SuggestCodes(NormalizeCode(query), r.index.Codes())
		result.MissingFields = []string{missingCode}
		log.Debug().Str("component", "price").Str("code", query).
			Strs("suggestions", result.CodeSuggestions).Msg("no product code matched")
		return result
	}

	record, _ := r.index.PriceByCode(code)
	result.ProductCode = record.ProductCode
	result.ProductName = record.ProductName
	result.AvailableSizes = r.index.AvailableSizes(code)

	if ext.SizePhrase == "" {
		result.MissingFields = []string{missingSize}
		return result
	}

	key := r.index.Normalizer().NormalizeSize(ext.SizePhrase)
	if tier, exact := r.index.TierByKey(code, key); exact {
		r.fill(result, tier)
		return result
	}

	closest, ok := r.matcher.ClosestSize(key, r.index.SizeKeys(code))
	if !ok {
		log.Debug().Str("component", "price").Str("code", code).
			Str("size", ext.SizePhrase).Msg("no size matched")
		return result
	}

	tier, _ := r.index.TierByKey(code, closest.Value)
	if r.matcher.AutoSubstitute() {
		r.fill(result, tier)
		result.Substituted = true
		return result
	}

	result.ClosestSize = tier.SizeLabel
	return result
}

// resolveCode tries the exact code, then a fuzzy code, then the product
// name on the code side of the phrase
func (r *PriceResolver) resolveCode(ext Extraction, ok bool) (string, bool) {
	if ok && ext.Code != "" {
		if record, exact := r.index.PriceByCode(ext.Code); exact {
			return record.ProductCode, true
		}
		if best, matched := r.matcher.BestCode(NormalizeCode(ext.Code), r.index.Codes()); matched {
			return best.Value, true
		}
	}

	if ext.CodeSide == "" {
		return "", false
	}
	if code, exact := r.index.CodeForName(ext.CodeSide); exact {
		return code, true
	}
	matches := r.matcher.MatchNames(ext.CodeSide, r.index.PriceNames(), 1)
	if len(matches) == 0 {
		return "", false
	}
	return r.index.Codes()[matches[0].SourceIndex], true
}

func (r *PriceResolver) fill(result *domain.PriceResult, tier domain.PriceTier) {
	price := tier.Price
	result.Found = true
	result.SizeLabel = tier.SizeLabel
	result.Price = &price
	result.Currency = tier.Currency
	if result.Currency == "" {
		result.Currency = r.index.Meta().Currency
	}
}
