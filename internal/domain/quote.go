package domain

import "github.com/shopspring/decimal"

// QuoteItem is one requested line of a quotation
type QuoteItem struct {
	ProductCode string          `json:"code" binding:"required"`
	Size        string          `json:"size" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
}

// QuoteLine is a priced quotation line
type QuoteLine struct {
	ProductCode string          `json:"code"`
	ProductName string          `json:"product_name"`
	SizeLabel   string          `json:"size"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Quote is a priced quotation with VAT
type Quote struct {
	Lines    []QuoteLine     `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	VATRate  decimal.Decimal `json:"vat_rate"`
	VAT      decimal.Decimal `json:"vat"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
}
