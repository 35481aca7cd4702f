package usecase

import (
	"sort"
	"strings"

	"github.com/paintassist/backend/internal/domain"
)

// DefaultTopK is the number of chunks returned when the caller asks for none
const DefaultTopK = 18

// Ranker returns the reference chunks most relevant to a query
type Ranker interface {
	Retrieve(query string, topK int) []domain.RetrievedChunk
}

// RetrievalRanker scores chunks by how often the query tokens occur in them.
// The corpus is small enough that a linear scan is fine.
type RetrievalRanker struct {
	chunks      []domain.RetrievedChunk
	defaultTopK int
}

// NewRetrievalRanker creates a ranker over a fixed corpus. defaultTopK <= 0
// uses DefaultTopK.
func NewRetrievalRanker(chunks []domain.RetrievedChunk, defaultTopK int) *RetrievalRanker {
	if defaultTopK <= 0 {
		defaultTopK = DefaultTopK
	}
	return &RetrievalRanker{chunks: chunks, defaultTopK: defaultTopK}
}

// Len returns the corpus size
func (r *RetrievalRanker) Len() int {
	return len(r.chunks)
}

// Retrieve returns up to topK chunks with a positive score, best first and in
// corpus order on ties. If nothing scores, the first topK chunks are returned
// with score 0 so callers always get some context.
func (r *RetrievalRanker) Retrieve(query string, topK int) []domain.RetrievedChunk {
	if topK <= 0 {
		topK = r.defaultTopK
	}

	tokens := Tokens(query)

	ranked := make([]domain.RetrievedChunk, 0)
	for _, chunk := range r.chunks {
		score := ScoreChunk(chunk.Text, tokens)
		if score <= 0 {
			continue
		}
		ranked = append(ranked, copyChunk(chunk, score))
	}

	if len(ranked) == 0 {
		for _, chunk := range r.chunks[:min(topK, len(r.chunks))] {
			ranked = append(ranked, copyChunk(chunk, 0))
		}
		return ranked
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

// ScoreChunk sums the occurrences of each token in the lower-cased text
func ScoreChunk(text string, tokens []string) float64 {
	lowered := strings.ToLower(text)
	score := 0.0
	for _, token := range tokens {
		if token == "" {
			continue
		}
		score += float64(strings.Count(lowered, token))
	}
	return score
}

// BuildChunks renders one reference chunk per product: its name, code and
// summary, with name, code and category as metadata.
func BuildChunks(index *CatalogIndex) []domain.RetrievedChunk {
	products := index.Products()
	chunks := make([]domain.RetrievedChunk, 0, len(products))

	for _, product := range products {
		name := strings.TrimSpace(product.Name)
		code := NormalizeCode(product.Code)
		if code == "" {
			code, _ = index.CodeForName(name)
		}

		parts := []string{name}
		if code != "" {
			parts = append(parts, "(code "+code+")")
		}
		parts = append(parts, SummarizeProduct(product))

		metadata := map[string]any{"product_name": name}
		if code != "" {
			metadata["product_code"] = code
		}
		if product.Category != "" {
			metadata["category"] = product.Category
		}

		chunks = append(chunks, domain.RetrievedChunk{
			Text:     strings.Join(parts, " "),
			Metadata: metadata,
		})
	}
	return chunks
}

// copyChunk gives each result its own metadata map
func copyChunk(chunk domain.RetrievedChunk, score float64) domain.RetrievedChunk {
	metadata := make(map[string]any, len(chunk.Metadata))
	for k, v := range chunk.Metadata {
		metadata[k] = v
	}
	return domain.RetrievedChunk{Text: chunk.Text, Score: score, Metadata: metadata}
}
