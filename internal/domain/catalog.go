package domain

import "github.com/shopspring/decimal"

// ProductRecord is one entry of the product metadata document.
// Attributes holds every other field of the source object as decoded JSON
// (strings, lists or nested maps).
type ProductRecord struct {
	Name       string         `json:"productName"`
	Code       string         `json:"productCode,omitempty"`
	Category   string         `json:"category,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// PriceTier is a single pack size and its price.
type PriceTier struct {
	SizeLabel string          `json:"size"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
}

// PriceRecord is one product of the price list document.
type PriceRecord struct {
	ProductCode string      `json:"productCode"`
	ProductName string      `json:"productName"`
	Category    string      `json:"category,omitempty"`
	Subcategory string      `json:"subcategory,omitempty"`
	Tiers       []PriceTier `json:"prices"`
}

// PriceListMeta carries the document-level fields of the price list
type PriceListMeta struct {
	DocumentSource string   `json:"documentSource,omitempty"`
	EffectiveDate  string   `json:"effectiveDate,omitempty"`
	Currency       string   `json:"currency,omitempty"`
	Notes          []string `json:"notes,omitempty"`
}

// Catalog is the combined product metadata and price list as handed over by
// the data loader.
type Catalog struct {
	Products []ProductRecord
	Prices   []PriceRecord
	Meta     PriceListMeta
}
