package catalogfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Matches the first amount in strings like "AED 78/-" or "1,250.50"
var amountRegex = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// ParsePrice reads a price written as a JSON number or as text such as
// "AED 78/-". ok is false for null, empty or non-numeric values.
func ParsePrice(raw json.RawMessage) (decimal.Decimal, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, false
	}

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero, false
		}
		return ParsePriceText(text)
	}

	amount, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// ParsePriceText extracts the first amount from free text
func ParsePriceText(text string) (decimal.Decimal, bool) {
	match := amountRegex.FindString(text)
	if match == "" {
		return decimal.Zero, false
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// parseNotes accepts a single note or a list of notes
func parseNotes(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("notes must be a string or a list of strings: %w", err)
	}
	if strings.TrimSpace(single) == "" {
		return nil, nil
	}
	return []string{single}, nil
}
