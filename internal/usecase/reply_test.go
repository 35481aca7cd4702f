package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/paintassist/backend/internal/domain"
)

func TestRenderReply(t *testing.T) {
	r := newTestResolver(false)

	testCases := []struct {
		message string
		want    string
	}{
		{
			message: "  ",
			want:    EmptyMessagePrompt,
		},
		{
			message: "How much is A119 in 18 Ltr (Drum)?",
			want:    "National Acrylic Primer (W.B.) (code A119) costs 80.00 AED for 18 Ltr (Drum).",
		},
		{
			message: "How much is A119 in 1 Ltr?",
			want: `I couldn't find the size "1 Ltr" for National Acrylic Primer (W.B.) (code A119). ` +
				"Available sizes are: 18 Ltr (Drum), 3.6 Ltr (Gallon).",
		},
		{
			message: "How much is A119 in 18 ltr?",
			want: `I couldn't find the size "18 ltr" for National Acrylic Primer (W.B.) (code A119). ` +
				"Did you mean 18 Ltr (Drum)? Available sizes are: 18 Ltr (Drum), 3.6 Ltr (Gallon).",
		},
		{
			message: "How much is ZZZZ in 1 Ltr?",
			want:    `I couldn't find a product with the code "ZZZZ".`,
		},
		{
			message: "How much is A11 in 1 Ltr?",
			want:    `I couldn't find a product with the code "A11". Did you mean: A119?`,
		},
		{
			message: "How much is R210",
			want:    "Which size of Road Marking Paint (code R210)? Available sizes are: 20 Ltr (Pail), 4 Ltr (Tin).",
		},
		{
			message: "Tell me about Road Marking Paint",
			want:    "Road Marking Paint\nChlorinated rubber paint for road lines.",
		},
		{
			message: "Tell me about quantum flux",
			want:    `I couldn't find a product named "quantum flux".`,
		},
		{
			message: "what a lovely day",
			want:    HelpText,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.message, func(t *testing.T) {
			assert.Equal(t, tc.want, RenderReply(r.Resolve(tc.message)))
		})
	}
}

func TestRenderReply_Substituted(t *testing.T) {
	r := newTestResolver(true)

	got := RenderReply(r.Resolve("How much is A119 in 18 ltr?"))

	assert.Equal(t, `The size "18 ltr" isn't listed, so here is the closest one. `+
		"National Acrylic Primer (W.B.) (code A119) costs 80.00 AED for 18 Ltr (Drum).", got)
}

func TestRenderReply_NoSizes(t *testing.T) {
	resp := &domain.Response{
		Query: domain.ResolvedQuery{Intent: domain.IntentPrice},
		Price: &domain.PriceResult{ProductCode: "X1", ProductName: "Thinner", RequestedSize: "1 ltr"},
	}

	assert.Equal(t, "I couldn't find size details for Thinner (code X1).", RenderReply(resp))
	assert.Equal(t, HelpText, RenderReply(nil))
}

func TestFormatAmount(t *testing.T) {
	testCases := []struct {
		amount   string
		currency string
		want     string
	}{
		{"80", "AED", "80.00 AED"},
		{"1234.5", "AED", "1,234.50 AED"},
		{"1234567.891", "", "1,234,567.89"},
		{"-1500", " AED ", "-1,500.00 AED"},
		{"0", "", "0.00"},
		{"999.999", "", "1,000.00"},
	}

	for _, tc := range testCases {
		t.Run(tc.amount, func(t *testing.T) {
			got := FormatAmount(decimal.RequireFromString(tc.amount), tc.currency)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSummarizeProduct(t *testing.T) {
	t.Run("description uses and advantages", func(t *testing.T) {
		got := SummarizeProduct(testCatalog().Products[0])

		assert.Equal(t, "Water based acrylic primer for interior and exterior walls.\n"+
			"Uses: Masonry; Plaster\n"+
			"Advantages: Drying: Fast; Finish: Matt", got)
	})

	t.Run("aliased keys", func(t *testing.T) {
		got := SummarizeProduct(domain.ProductRecord{Attributes: map[string]any{
			"usage_data":                  []string{"Walls", "  Ceilings  "},
			"advantages_and_intended_use": map[string]any{"intended_use": "Interior   only", "empty": ""},
		}})

		assert.Equal(t, "Uses: Walls; Ceilings\nAdvantages: Intended use: Interior only", got)
	})

	t.Run("nothing to say", func(t *testing.T) {
		assert.Equal(t, NoSummaryText, SummarizeProduct(domain.ProductRecord{Name: "X"}))
		assert.Equal(t, NoSummaryText, SummarizeProduct(domain.ProductRecord{Attributes: map[string]any{"description": "   "}}))
	})

	t.Run("numbers are printed", func(t *testing.T) {
		got := SummarizeProduct(domain.ProductRecord{Attributes: map[string]any{
			"advantages": map[string]any{"coverage-m2": 12.5},
		}})

		assert.Equal(t, "Advantages: Coverage m2: 12.5", got)
	})
}
