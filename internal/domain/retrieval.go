package domain

// RetrievedChunk is a piece of reference text scored against a query
type RetrievedChunk struct {
	Text     string         `json:"text"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

// ToolPayload is a structured lookup result handed to the answer generator.
type ToolPayload struct {
	Tool  string       `json:"tool"` // "price_lookup" or "product_card"
	Price *PriceResult `json:"price,omitempty"`
	About *AboutResult `json:"about,omitempty"`
}

// AssistantReply is the outcome of an AI chat exchange
type AssistantReply struct {
	Reply     string           `json:"reply"`
	UsedTools []ToolPayload    `json:"usedTools"`
	Retrieved []RetrievedChunk `json:"retrieved"`
	Generated bool             `json:"generated"` // false when the fallback answer was used
}
