package usecase

import (
	"github.com/paintassist/backend/internal/domain"
)

// CatalogIndex holds the lookup structures built from one catalog.
// It is never mutated after NewCatalogIndex returns, so it can be shared by
// concurrent readers. Rebuilding means constructing a new index.
type CatalogIndex struct {
	normalizer *Normalizer

	products     []domain.ProductRecord
	productNames []string                          // distinct display names, first-seen order
	byName       map[string][]domain.ProductRecord // normalized name -> records

	codes      []string // distinct codes, first-seen order
	priceNames []string // price list name per entry of codes
	prices     map[string]domain.PriceRecord
	priceByKey map[string]string // normalized price-list name -> code

	sizeKeys map[string][]string                    // code -> canonical size keys, catalog order
	tiers    map[string]map[string]domain.PriceTier // code -> size key -> tier

	meta domain.PriceListMeta
}

// NewCatalogIndex builds the index. Duplicate codes and colliding size keys
// keep the last record seen.
func NewCatalogIndex(catalog *domain.Catalog, normalizer *Normalizer) *CatalogIndex {
	if normalizer == nil {
		normalizer = NewNormalizer(nil)
	}

	idx := &CatalogIndex{
		normalizer: normalizer,
		byName:     make(map[string][]domain.ProductRecord),
		prices:     make(map[string]domain.PriceRecord),
		priceByKey: make(map[string]string),
		sizeKeys:   make(map[string][]string),
		tiers:      make(map[string]map[string]domain.PriceTier),
	}
	if catalog == nil {
		return idx
	}

	idx.meta = catalog.Meta

	for _, product := range catalog.Products {
		key := NormalizeText(product.Name)
		if key == "" {
			continue
		}
		if _, seen := idx.byName[key]; !seen {
			idx.productNames = append(idx.productNames, product.Name)
		}
		idx.byName[key] = append(idx.byName[key], product)
		idx.products = append(idx.products, product)
	}

	codePosition := make(map[string]int)
	for _, record := range catalog.Prices {
		code := NormalizeCode(record.ProductCode)
		if code == "" {
			continue
		}
		record.ProductCode = code

		if pos, seen := codePosition[code]; seen {
			idx.priceNames[pos] = record.ProductName
		} else {
			codePosition[code] = len(idx.codes)
			idx.codes = append(idx.codes, code)
			idx.priceNames = append(idx.priceNames, record.ProductName)
		}
		idx.prices[code] = record

		if nameKey := NormalizeText(record.ProductName); nameKey != "" {
			idx.priceByKey[nameKey] = code
		}

		keys := make([]string, 0, len(record.Tiers))
		tiers := make(map[string]domain.PriceTier, len(record.Tiers))
		for _, tier := range record.Tiers {
			key := normalizer.NormalizeSize(tier.SizeLabel)
			if _, dup := tiers[key]; !dup {
				keys = append(keys, key)
			}
			tiers[key] = tier
		}
		idx.sizeKeys[code] = keys
		idx.tiers[code] = tiers
	}

	return idx
}

// Normalizer returns the normalizer the index was built with
func (c *CatalogIndex) Normalizer() *Normalizer {
	return c.normalizer
}

// Products returns every product record in document order
func (c *CatalogIndex) Products() []domain.ProductRecord {
	return c.products
}

// ProductNames returns the distinct product names in document order
func (c *CatalogIndex) ProductNames() []string {
	return c.productNames
}

// ProductsByName returns the records whose normalized name equals name's
func (c *CatalogIndex) ProductsByName(name string) []domain.ProductRecord {
	return c.byName[NormalizeText(name)]
}

// Codes returns the distinct product codes in first-seen order
func (c *CatalogIndex) Codes() []string {
	return c.codes
}

// PriceNames returns the price-list product name for each entry of Codes
func (c *CatalogIndex) PriceNames() []string {
	return c.priceNames
}

// PriceByCode looks a price record up by code
func (c *CatalogIndex) PriceByCode(code string) (domain.PriceRecord, bool) {
	record, ok := c.prices[NormalizeCode(code)]
	return record, ok
}

// CodeForName returns the code whose price-list name, or whose product
// record, matches name exactly after normalization
func (c *CatalogIndex) CodeForName(name string) (string, bool) {
	key := NormalizeText(name)
	if code, ok := c.priceByKey[key]; ok {
		return code, true
	}
	for _, product := range c.byName[key] {
		if product.Code != "" {
			return NormalizeCode(product.Code), true
		}
	}
	return "", false
}

// SizeKeys returns the canonical size keys of a code in catalog order
func (c *CatalogIndex) SizeKeys(code string) []string {
	return c.sizeKeys[NormalizeCode(code)]
}

// TierByKey returns the tier stored under a canonical size key
func (c *CatalogIndex) TierByKey(code, key string) (domain.PriceTier, bool) {
	tier, ok := c.tiers[NormalizeCode(code)][key]
	return tier, ok
}

// Tier looks a tier up by any spelling of its size label
func (c *CatalogIndex) Tier(code, sizeLabel string) (domain.PriceTier, bool) {
	return c.TierByKey(code, c.normalizer.NormalizeSize(sizeLabel))
}

// AvailableSizes returns the size labels of a code verbatim, in catalog order
func (c *CatalogIndex) AvailableSizes(code string) []string {
	code = NormalizeCode(code)
	keys := c.sizeKeys[code]
	labels := make([]string, 0, len(keys))
	for _, key := range keys {
		labels = append(labels, c.tiers[code][key].SizeLabel)
	}
	return labels
}

// Meta returns the price list document fields
func (c *CatalogIndex) Meta() domain.PriceListMeta {
	return c.meta
}

// Stats reports record counts
func (c *CatalogIndex) Stats() (products, prices int) {
	return len(c.products), len(c.codes)
}
