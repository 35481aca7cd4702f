package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are stored as JSON; Get returns the encoded bytes.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// AnswerGenerator phrases a final answer from tool payloads and retrieved context.
// Implementations talk to a hosted language model.
type AnswerGenerator interface {
	Generate(ctx context.Context, prompt string, contexts []RetrievedChunk, tools []ToolPayload) (string, error)
}

// CatalogSource loads the catalog documents
type CatalogSource interface {
	Load(ctx context.Context) (*Catalog, error)
}
