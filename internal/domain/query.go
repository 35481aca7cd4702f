package domain

import "github.com/shopspring/decimal"

// Intent classifies a free-text message
type Intent string

const (
	IntentAbout   Intent = "about"
	IntentPrice   Intent = "price"
	IntentUnknown Intent = "unknown"
)

// MatchCandidate is one ranked fuzzy match
type MatchCandidate struct {
	Value       string  `json:"value"`
	Score       float64 `json:"score"` // 0-100
	SourceIndex int     `json:"sourceIndex"`
}

// ResolvedQuery is the intent resolver's reading of a message.
type ResolvedQuery struct {
	Intent     Intent `json:"intent"`
	TargetCode string `json:"targetCode,omitempty"`
	TargetName string `json:"targetName,omitempty"`
	SizePhrase string `json:"sizePhrase,omitempty"`
}

// AboutResult answers a "what is this product" question.
type AboutResult struct {
	Found        bool     `json:"found"`
	ResolvedName string   `json:"resolvedName,omitempty"`
	ProductCode  string   `json:"productCode,omitempty"`
	SummaryText  string   `json:"summaryText,omitempty"`
	Suggestions  []string `json:"suggestions"`
}

// PriceResult answers a "what does this pack size cost" question.
type PriceResult struct {
	Found           bool             `json:"found"`
	ProductName     string           `json:"productName,omitempty"`
	ProductCode     string           `json:"productCode,omitempty"`
	SizeLabel       string           `json:"sizeLabel,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Currency        string           `json:"currency,omitempty"`
	RequestedSize   string           `json:"requestedSize,omitempty"`
	ClosestSize     string           `json:"closestSize,omitempty"`
	Substituted     bool             `json:"substituted"`
	AvailableSizes  []string         `json:"availableSizes"`
	CodeSuggestions []string         `json:"codeSuggestions"`
	MissingFields   []string         `json:"missingFields,omitempty"`
}

// Response is the full outcome of resolving one message.
type Response struct {
	Query ResolvedQuery `json:"query"`
	About *AboutResult  `json:"about,omitempty"`
	Price *PriceResult  `json:"price,omitempty"`
	// Prompt is set when the message was empty and no lookup happened
	Prompt string `json:"prompt,omitempty"`
}

// ChatReply pairs the rendered reply text with the structured resolution
type ChatReply struct {
	Reply    string    `json:"reply"`
	Response *Response `json:"response"`
}
