package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/paintassist/backend/internal/domain"
)

const (
	DefaultModel      = "gpt-3.5-turbo"
	DefaultMaxRetries = 3
	maxContexts       = 10
)

const systemInstructions = "You are Paint Assistant, a helpful expert on National Paints products. " +
	"Use the provided tool results and reference documents to answer the user question."

// Options configures the client. Zero values fall back to defaults.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
	MaxRetries int
}

// Client talks to an OpenAI compatible chat completions endpoint
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	maxRetries  int
	rateLimiter *rate.Limiter
	sleep       func(ctx context.Context, d time.Duration) error
}

// Message is one chat turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// NewClient creates a chat completions client
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.openai.com/v1"
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 1
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}

	return &Client{
		httpClient:  &http.Client{Timeout: opts.Timeout},
		apiKey:      opts.APIKey,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		model:       opts.Model,
		maxRetries:  opts.MaxRetries,
		rateLimiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.Burst),
		sleep:       sleepContext,
	}
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Generate asks the model to answer prompt using the tool payloads and
// retrieved chunks. Server errors and transport failures are retried; client
// errors are not.
func (c *Client) Generate(ctx context.Context, prompt string, contexts []domain.RetrievedChunk, tools []domain.ToolPayload) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: no api key configured", domain.ErrGeneratorFailure)
	}

	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: BuildMessages(prompt, contexts, tools),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter error: %w", err)
		}

		answer, retry, err := c.complete(ctx, body)
		if err == nil {
			return answer, nil
		}
		if !retry || errors.Is(err, context.Canceled) {
			return "", err
		}

		lastErr = err
		log.Warn().Err(err).Str("component", "llm").Int("attempt", attempt).Msg("chat completion failed")

		if attempt < c.maxRetries {
			if err := c.sleep(ctx, exponentialBackoff(attempt)); err != nil {
				return "", err
			}
		}
	}

	return "", lastErr
}

func (c *Client) complete(ctx context.Context, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", "PaintAssist/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", true, fmt.Errorf("%w: %v", domain.ErrGeneratorFailure, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", true, fmt.Errorf("%w: reading response: %v", domain.ErrGeneratorFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retry, fmt.Errorf("%w: status %d: %s", domain.ErrGeneratorFailure, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var completion chatResponse
	if err := json.Unmarshal(data, &completion); err != nil {
		return "", false, fmt.Errorf("%w: failed to decode response: %v", domain.ErrGeneratorFailure, err)
	}
	if len(completion.Choices) == 0 {
		return "", false, fmt.Errorf("%w: response has no choices", domain.ErrGeneratorFailure)
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), false, nil
}

// BuildMessages lays out the system instruction and a user message holding
// the tool outputs, up to ten retrieved documents and the question.
func BuildMessages(prompt string, contexts []domain.RetrievedChunk, tools []domain.ToolPayload) []Message {
	var details []string

	if len(tools) > 0 {
		lines := make([]string, 0, len(tools))
		for _, tool := range tools {
			payload, _ := json.Marshal(tool)
			lines = append(lines, fmt.Sprintf("- %s: %s", tool.Tool, payload))
		}
		details = append(details, "Tool outputs:\n"+strings.Join(lines, "\n"))
	}

	if len(contexts) > 0 {
		n := min(len(contexts), maxContexts)
		lines := make([]string, 0, n)
		for _, chunk := range contexts[:n] {
			snippet := strings.ReplaceAll(strings.TrimSpace(chunk.Text), "\n", " ")
			metadata, _ := json.Marshal(chunk.Metadata)
			lines = append(lines, fmt.Sprintf("- score=%.3f %s | metadata=%s", chunk.Score, snippet, metadata))
		}
		details = append(details, "Retrieved documents:\n"+strings.Join(lines, "\n"))
	}

	details = append(details, "User question: "+prompt)

	return []Message{
		{Role: "system", Content: systemInstructions},
		{Role: "user", Content: strings.Join(details, "\n\n")},
	}
}
