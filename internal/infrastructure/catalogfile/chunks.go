package catalogfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paintassist/backend/internal/domain"
)

type chunkRecord struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

// WriteChunks saves retrieval chunks as a JSON array of {text, metadata}
func WriteChunks(path string, chunks []domain.RetrievedChunk) error {
	records := make([]chunkRecord, 0, len(chunks))
	for _, c := range chunks {
		records = append(records, chunkRecord{Text: c.Text, Metadata: c.Metadata})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode chunks: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write chunks: %w", err)
	}
	return nil
}

// LoadChunks reads a chunk file written by WriteChunks. Entries with empty
// text are dropped.
func LoadChunks(path string) ([]domain.RetrievedChunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	var records []chunkRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCatalogUnavailable, path, err)
	}

	chunks := make([]domain.RetrievedChunk, 0, len(records))
	for _, r := range records {
		if r.Text == "" {
			continue
		}
		chunks = append(chunks, domain.RetrievedChunk{Text: r.Text, Metadata: r.Metadata})
	}
	return chunks, nil
}
