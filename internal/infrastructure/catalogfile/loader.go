package catalogfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/paintassist/backend/internal/domain"
)

// Field names of the product metadata document
const (
	fieldProductName     = "product_name"
	fieldProductCode     = "product_code"
	fieldCategory        = "category"
	fieldProductCategory = "product_category"
)

type priceDocument struct {
	Currency          string          `json:"currency"`
	DocumentSource    string          `json:"document_source"`
	EffectiveDate     string          `json:"effective_date"`
	Notes             json.RawMessage `json:"notes"`
	ProductCategories []struct {
		CategoryName  string `json:"category_name"`
		Subcategories []struct {
			SubcategoryName string `json:"subcategory_name"`
			Products        []struct {
				ProductName string `json:"product_name"`
				ProductCode string `json:"product_code"`
				Prices      []struct {
					Size  string          `json:"size"`
					Price json.RawMessage `json:"price"`
				} `json:"prices"`
			} `json:"products"`
		} `json:"subcategories"`
	} `json:"product_categories"`
}

// FileSource loads the catalog from the product metadata and price list
// JSON files
type FileSource struct {
	productsPath string
	pricesPath   string
}

// NewFileSource creates a catalog source over two JSON files
func NewFileSource(productsPath, pricesPath string) *FileSource {
	return &FileSource{productsPath: productsPath, pricesPath: pricesPath}
}

// Load reads both documents. Malformed tiers are skipped and logged; run
// Validate for the full defect list.
func (s *FileSource) Load(ctx context.Context) (*domain.Catalog, error) {
	catalog, defects, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	for _, d := range defects {
		log.Warn().Str("component", "catalog").Str("kind", string(d.Kind)).
			Str("code", d.Code).Msg(d.Detail)
	}

	log.Info().Str("component", "catalog").
		Int("products", len(catalog.Products)).
		Int("prices", len(catalog.Prices)).
		Str("effective_date", catalog.Meta.EffectiveDate).
		Msg("catalog loaded")

	return catalog, nil
}

// Validate reads both documents and reports every data defect found
func (s *FileSource) Validate(ctx context.Context) ([]Defect, error) {
	catalog, defects, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return append(defects, FindDuplicateCodes(catalog.Prices)...), nil
}

func (s *FileSource) read(ctx context.Context) (*domain.Catalog, []Defect, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	productsData, err := os.ReadFile(s.productsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	pricesData, err := os.ReadFile(s.pricesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	products, err := ParseProducts(productsData)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", domain.ErrCatalogUnavailable, s.productsPath, err)
	}

	prices, meta, defects, err := ParsePriceList(pricesData)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", domain.ErrCatalogUnavailable, s.pricesPath, err)
	}

	return &domain.Catalog{Products: products, Prices: prices, Meta: meta}, defects, nil
}

// ParseProducts flattens the product metadata document. Any object with a
// string product_name is a product; nested objects are searched too. Object
// keys are visited in sorted order so the result is deterministic.
func ParseProducts(data []byte) ([]domain.ProductRecord, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	var products []domain.ProductRecord
	collectProducts(root, &products)
	return products, nil
}

func collectProducts(node any, out *[]domain.ProductRecord) {
	switch value := node.(type) {
	case map[string]any:
		if name, ok := value[fieldProductName].(string); ok && strings.TrimSpace(name) != "" {
			*out = append(*out, toProductRecord(name, value))
		}

		keys := make([]string, 0, len(value))
		for k := range value {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			collectProducts(value[k], out)
		}

	case []any:
		for _, item := range value {
			collectProducts(item, out)
		}
	}
}

func toProductRecord(name string, fields map[string]any) domain.ProductRecord {
	record := domain.ProductRecord{
		Name:       strings.TrimSpace(name),
		Attributes: make(map[string]any, len(fields)),
	}

	for k, v := range fields {
		switch k {
		case fieldProductName:
		case fieldProductCode:
			if code, ok := v.(string); ok {
				record.Code = strings.TrimSpace(code)
			}
		case fieldCategory, fieldProductCategory:
			if category, ok := v.(string); ok && record.Category == "" {
				record.Category = strings.TrimSpace(category)
			}
		default:
			record.Attributes[k] = v
		}
	}
	return record
}

// ParsePriceList flattens the price list document into one record per
// product. Tiers without a size or a readable price are dropped and reported.
func ParsePriceList(data []byte) ([]domain.PriceRecord, domain.PriceListMeta, []Defect, error) {
	var doc priceDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.PriceListMeta{}, nil, fmt.Errorf("failed to decode price list: %w", err)
	}

	notes, err := parseNotes(doc.Notes)
	if err != nil {
		return nil, domain.PriceListMeta{}, nil, err
	}

	meta := domain.PriceListMeta{
		DocumentSource: doc.DocumentSource,
		EffectiveDate:  doc.EffectiveDate,
		Currency:       strings.TrimSpace(doc.Currency),
		Notes:          notes,
	}

	var records []domain.PriceRecord
	var defects []Defect

	for _, category := range doc.ProductCategories {
		for _, sub := range category.Subcategories {
			for _, product := range sub.Products {
				code := strings.TrimSpace(product.ProductCode)
				if code == "" {
					defects = append(defects, Defect{
						Kind:   DefectMissingCode,
						Detail: fmt.Sprintf("product %q has no product code", product.ProductName),
					})
					continue
				}

				record := domain.PriceRecord{
					ProductCode: code,
					ProductName: strings.TrimSpace(product.ProductName),
					Category:    category.CategoryName,
					Subcategory: sub.SubcategoryName,
				}

				for i, tier := range product.Prices {
					size := strings.TrimSpace(tier.Size)
					if size == "" {
						defects = append(defects, Defect{
							Kind:   DefectMissingSize,
							Code:   code,
							Detail: fmt.Sprintf("price tier %d has no size", i+1),
						})
						continue
					}

					price, ok := ParsePrice(tier.Price)
					if !ok || price.IsNegative() {
						defects = append(defects, Defect{
							Kind:   DefectBadPrice,
							Code:   code,
							Detail: fmt.Sprintf("size %q has an unreadable price %s", size, string(tier.Price)),
						})
						continue
					}

					record.Tiers = append(record.Tiers, domain.PriceTier{
						SizeLabel: size,
						Price:     price,
						Currency:  meta.Currency,
					})
				}

				records = append(records, record)
			}
		}
	}

	return records, meta, defects, nil
}
