package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/paintassist/backend/internal/domain"
)

// testCatalog returns a small catalog shared by the usecase tests
func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		Products: []domain.ProductRecord{
			{
				Name:     "National Acrylic Primer (W.B.)",
				Code:     "A119",
				Category: "Primers",
				Attributes: map[string]any{
					"description": "Water based acrylic primer for interior and exterior walls.",
					"uses":        []any{"Masonry", "Plaster"},
					"advantages":  map[string]any{"drying": "Fast", "finish": "Matt"},
				},
			},
			{
				Name:     "Road Marking Paint",
				Code:     "R210",
				Category: "Road Paints",
				Attributes: map[string]any{
					"product_description": "Chlorinated rubber paint for road lines.",
				},
			},
			{
				Name: "Acrylic Emulsion",
			},
		},
		Prices: []domain.PriceRecord{
			{
				ProductCode: "A119",
				ProductName: "National Acrylic Primer (W.B.)",
				Category:    "Primers",
				Tiers: []domain.PriceTier{
					{SizeLabel: "18 Ltr (Drum)", Price: decimal.RequireFromString("80.00"), Currency: "AED"},
					{SizeLabel: "3.6 Ltr (Gallon)", Price: decimal.RequireFromString("18.50"), Currency: "AED"},
				},
			},
			{
				ProductCode: "R210",
				ProductName: "Road Marking Paint",
				Category:    "Road Paints",
				Tiers: []domain.PriceTier{
					{SizeLabel: "20 Ltr (Pail)", Price: decimal.RequireFromString("310.00"), Currency: "AED"},
					{SizeLabel: "4 Ltr (Tin)", Price: decimal.RequireFromString("70.00"), Currency: "AED"},
				},
			},
			{
				ProductCode: "B310",
				ProductName: "Synthetic Enamel Gloss",
				Category:    "Enamels",
				Tiers: []domain.PriceTier{
					{SizeLabel: "3.6 Ltr (Gallon)", Price: decimal.RequireFromString("42.00"), Currency: "AED"},
				},
			},
		},
		Meta: domain.PriceListMeta{
			DocumentSource: "test price list",
			EffectiveDate:  "2024-01-01",
			Currency:       "AED",
		},
	}
}

func testIndex() *CatalogIndex {
	return NewCatalogIndex(testCatalog(), NewNormalizer(nil))
}
