package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/paintassist/backend/internal/domain"
)

// DefaultVATRate is the UAE VAT rate
var DefaultVATRate = decimal.RequireFromString("0.05")

// moneyPlaces is the rounding precision of every amount
const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// CalculateLineTotal prices a line: unit price times quantity less a
// percentage discount, rounded half away from zero to cents.
func CalculateLineTotal(unitPrice, quantity, discountPct decimal.Decimal) (decimal.Decimal, error) {
	if quantity.IsNegative() {
		return decimal.Zero, domain.ErrNegativeQuantity
	}
	if discountPct.IsNegative() {
		return decimal.Zero, domain.ErrNegativeDiscount
	}

	total := unitPrice.Mul(quantity)
	if !discountPct.IsZero() {
		total = total.Mul(hundred.Sub(discountPct)).Div(hundred)
	}
	return total.Round(moneyPlaces), nil
}

// CalculateSubtotal sums line totals
func CalculateSubtotal(lineTotals []decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, lineTotals...).Round(moneyPlaces)
}

// CalculateVAT applies rate to subtotal
func CalculateVAT(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate).Round(moneyPlaces)
}

// CalculateTotal adds VAT to the subtotal
func CalculateTotal(subtotal, vat decimal.Decimal) decimal.Decimal {
	return subtotal.Add(vat).Round(moneyPlaces)
}

// FormatAED renders an amount as "AED 1,234.00"
func FormatAED(amount decimal.Decimal) string {
	return "AED " + FormatAmount(amount.Round(moneyPlaces), "")
}

// QuoteCalculator prices quotation items against a catalog index
type QuoteCalculator struct {
	index   *CatalogIndex
	vatRate decimal.Decimal
}

// NewQuoteCalculator creates a calculator. A negative rate falls back to
// DefaultVATRate; zero is a valid rate.
func NewQuoteCalculator(index *CatalogIndex, vatRate decimal.Decimal) *QuoteCalculator {
	if vatRate.IsNegative() {
		vatRate = DefaultVATRate
	}
	return &QuoteCalculator{index: index, vatRate: vatRate}
}

// Calculate prices every item by exact code and any spelling of its size
// label. rate overrides the configured VAT rate when non-nil.
func (q *QuoteCalculator) Calculate(items []domain.QuoteItem, rate *decimal.Decimal) (*domain.Quote, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: a quote needs at least one item", domain.ErrInvalidRequest)
	}

	vatRate := q.vatRate
	if rate != nil {
		if rate.IsNegative() {
			return nil, fmt.Errorf("%w: vat rate cannot be negative", domain.ErrInvalidRequest)
		}
		vatRate = *rate
	}

	quote := &domain.Quote{
		Lines:    make([]domain.QuoteLine, 0, len(items)),
		VATRate:  vatRate,
		Currency: q.index.Meta().Currency,
	}

	totals := make([]decimal.Decimal, 0, len(items))
	for i, item := range items {
		record, ok := q.index.PriceByCode(item.ProductCode)
		if !ok {
			return nil, fmt.Errorf("item %d: %w: %s", i+1, domain.ErrProductNotFound, NormalizeCode(item.ProductCode))
		}

		tier, ok := q.index.Tier(record.ProductCode, item.Size)
		if !ok {
			return nil, fmt.Errorf("item %d: %w: %s %q", i+1, domain.ErrUnknownPriceTier, record.ProductCode, item.Size)
		}

		lineTotal, err := CalculateLineTotal(tier.Price, item.Quantity, item.DiscountPct)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}

		if quote.Currency == "" {
			quote.Currency = tier.Currency
		}

		quote.Lines = append(quote.Lines, domain.QuoteLine{
			ProductCode: record.ProductCode,
			ProductName: record.ProductName,
			SizeLabel:   tier.SizeLabel,
			Quantity:    item.Quantity,
			UnitPrice:   tier.Price,
			DiscountPct: item.DiscountPct,
			LineTotal:   lineTotal,
		})
		totals = append(totals, lineTotal)
	}

	quote.Subtotal = CalculateSubtotal(totals)
	quote.VAT = CalculateVAT(quote.Subtotal, vatRate)
	quote.Total = CalculateTotal(quote.Subtotal, quote.VAT)
	return quote, nil
}
