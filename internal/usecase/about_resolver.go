package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paintassist/backend/internal/domain"
)

// NoSummaryText is returned for products without descriptive fields
const NoSummaryText = "No summary is available for this product."

// Attribute keys read for a summary, first non-empty wins
var (
	descriptionKeys = []string{"description", "product_description"}
	usesKeys        = []string{"uses", "usage", "usage_data"}
	advantagesKeys  = []string{"advantages", "advantages_and_intended_use"}
)

// AboutResolver answers "tell me about" questions
type AboutResolver struct {
	index   *CatalogIndex
	matcher *MatchingService
}

// NewAboutResolver creates an about resolver over an index
func NewAboutResolver(index *CatalogIndex, matcher *MatchingService) *AboutResolver {
	return &AboutResolver{index: index, matcher: matcher}
}

// Resolve finds the product named by target: exact normalized name, then
// fuzzy name, then the target read as a product code. The result is never nil.
func (r *AboutResolver) Resolve(target string) *domain.AboutResult {
	result := &domain.AboutResult{Suggestions: []string{}}
	if strings.TrimSpace(target) == "" {
		return result
	}

	names := r.index.ProductNames()

	if records := r.index.ProductsByName(target); len(records) > 0 {
		return r.found(records[0])
	}

	if matches := r.matcher.MatchNames(target, names, 1); len(matches) > 0 {
		records := r.index.ProductsByName(matches[0].Value)
		if len(records) > 0 {
			return r.found(records[0])
		}
	}

	if record, ok := r.index.PriceByCode(target); ok {
		if records := r.index.ProductsByName(record.ProductName); len(records) > 0 {
			return r.found(records[0])
		}
		// Priced but not described
		result.Found = true
		result.ResolvedName = record.ProductName
		result.ProductCode = record.ProductCode
		result.SummaryText = NoSummaryText
		return result
	}

	result.Suggestions = r.matcher.SuggestNames(target, names)
	return result
}

func (r *AboutResolver) found(product domain.ProductRecord) *domain.AboutResult {
	code := NormalizeCode(product.Code)
	if code == "" {
		code, _ = r.index.CodeForName(product.Name)
	}

	return &domain.AboutResult{
		Found:        true,
		ResolvedName: strings.TrimSpace(product.Name),
		ProductCode:  code,
		SummaryText:  SummarizeProduct(product),
		Suggestions:  []string{},
	}
}

// SummarizeProduct renders the description, uses and advantages of a product
// as lines of text.
func SummarizeProduct(product domain.ProductRecord) string {
	var parts []string

	if v := firstAttribute(product.Attributes, descriptionKeys); v != "" {
		parts = append(parts, v)
	}
	if v := firstAttribute(product.Attributes, usesKeys); v != "" {
		parts = append(parts, "Uses: "+v)
	}
	if v := firstAttribute(product.Attributes, advantagesKeys); v != "" {
		parts = append(parts, "Advantages: "+v)
	}

	if len(parts) == 0 {
		return NoSummaryText
	}
	return strings.Join(parts, "\n")
}

func firstAttribute(attrs map[string]any, keys []string) string {
	for _, key := range keys {
		if v, ok := attrs[key]; ok {
			if text := stringifyAttribute(v); text != "" {
				return text
			}
		}
	}
	return ""
}

// stringifyAttribute flattens decoded JSON into one line. Lists join with
// "; " and maps render as "Key: value" pairs in key order.
func stringifyAttribute(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return strings.Join(strings.Fields(value), " ")
	case []any:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			if text := stringifyAttribute(item); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, "; ")
	case []string:
		items := make([]any, len(value))
		for i, s := range value {
			items[i] = s
		}
		return stringifyAttribute(items)
	case map[string]any:
		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if text := stringifyAttribute(value[k]); text != "" {
				parts = append(parts, attributeLabel(k)+": "+text)
			}
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprint(value)
	}
}

// attributeLabel turns "intended_use" into "Intended use"
func attributeLabel(key string) string {
	label := strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(key))
	if label == "" {
		return ""
	}
	label = strings.ToLower(label)
	return strings.ToUpper(label[:1]) + label[1:]
}
