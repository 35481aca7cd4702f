package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/paintassist/backend/internal/domain"
)

// Tool names reported in AssistantReply.UsedTools
const (
	ToolPriceLookup = "price_lookup"
	ToolProductCard = "product_card"
)

// GeneratorUnavailableText is used when neither the model nor any lookup
// produced an answer
const GeneratorUnavailableText = "I'm unable to reach the language model right now, but I'm still here to help. " +
	"Please try again in a moment."

// Recorder receives resolution and generation outcomes for metrics
type Recorder interface {
	ObserveResolution(intent, outcome string)
	ObserveGeneration(outcome string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveResolution(string, string) {}
func (noopRecorder) ObserveGeneration(string)         {}

// AssistantConfig holds configuration for the assistant service
type AssistantConfig struct {
	Match    MatchConfig
	Intent   IntentConfig
	CacheTTL time.Duration
	TopK     int
	// Chunks replaces the reference chunks built from the catalog
	Chunks   []domain.RetrievedChunk
	Recorder Recorder
}

// AssistantService answers chat messages from one catalog index
type AssistantService struct {
	index     *CatalogIndex
	matcher   *MatchingService
	resolver  *IntentResolver
	ranker    Ranker
	generator domain.AnswerGenerator
	cache     domain.CacheRepository
	recorder  Recorder
	cacheTTL  time.Duration
	topK      int
}

// NewAssistantService creates the assistant. generator and cache may be nil;
// without a generator every AI answer is the fallback answer.
func NewAssistantService(
	index *CatalogIndex,
	generator domain.AnswerGenerator,
	cache domain.CacheRepository,
	config AssistantConfig,
) *AssistantService {
	matcher := NewMatchingService(config.Match)

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}

	topK := config.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	chunks := config.Chunks
	if len(chunks) == 0 {
		chunks = BuildChunks(index)
	}

	recorder := config.Recorder
	if recorder == nil {
		recorder = noopRecorder{}
	}

	return &AssistantService{
		index:     index,
		matcher:   matcher,
		resolver:  NewIntentResolver(index, matcher, config.Intent),
		ranker:    NewRetrievalRanker(chunks, topK),
		generator: generator,
		cache:     cache,
		recorder:  recorder,
		cacheTTL:  cacheTTL,
		topK:      topK,
	}
}

// Index returns the catalog index the service answers from
func (s *AssistantService) Index() *CatalogIndex {
	return s.index
}

// Chat resolves a message against the catalog and renders the reply.
func (s *AssistantService) Chat(ctx context.Context, message string) *domain.ChatReply {
	resp := s.resolver.Resolve(message)
	s.recorder.ObserveResolution(string(resp.Query.Intent), outcome(resp))

	return &domain.ChatReply{
		Reply:    RenderReply(resp),
		Response: resp,
	}
}

// AIChat gathers lookup results and reference chunks for a prompt and asks
// the generator for an answer, falling back to a composed answer when the
// generator is missing or fails.
// Flow: check cache -> tools -> retrieve -> generate -> cache -> return
func (s *AssistantService) AIChat(ctx context.Context, prompt string) (*domain.AssistantReply, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt must not be empty", domain.ErrInvalidRequest)
	}

	cacheKey := aiCacheKey(prompt)
	if cached, ok := s.getFromCache(ctx, cacheKey); ok {
		return cached, nil
	}

	tools := s.gatherTools(prompt)
	contexts := s.ranker.Retrieve(prompt, s.topK)

	reply := &domain.AssistantReply{
		UsedTools: tools,
		Retrieved: contexts,
	}

	if s.generator != nil {
		answer, err := s.generator.Generate(ctx, prompt, contexts, tools)
		switch {
		case err != nil:
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			log.Warn().Err(err).Str("component", "assistant").Msg("generator failed, using fallback answer")
			s.recorder.ObserveGeneration("error")
		case strings.TrimSpace(answer) == "":
			s.recorder.ObserveGeneration("empty")
		default:
			reply.Reply = strings.TrimSpace(answer)
			reply.Generated = true
			s.recorder.ObserveGeneration("ok")
		}
	}

	if !reply.Generated {
		reply.Reply = FallbackAnswer(prompt, contexts, tools)
		s.recorder.ObserveGeneration("fallback")
		return reply, nil
	}

	s.setInCache(ctx, cacheKey, reply)
	return reply, nil
}

// SearchProducts ranks product names against a free-text query
func (s *AssistantService) SearchProducts(query string, limit int) []domain.MatchCandidate {
	return s.matcher.MatchNames(query, s.index.ProductNames(), limit)
}

// PriceList returns the price record of a code
func (s *AssistantService) PriceList(code string) (domain.PriceRecord, error) {
	record, ok := s.index.PriceByCode(code)
	if !ok {
		return domain.PriceRecord{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, NormalizeCode(code))
	}
	return record, nil
}

// gatherTools runs the catalog lookups a prompt asks for. A priced product
// also gets its product card.
func (s *AssistantService) gatherTools(prompt string) []domain.ToolPayload {
	resp := s.resolver.Resolve(prompt)
	s.recorder.ObserveResolution(string(resp.Query.Intent), outcome(resp))

	tools := []domain.ToolPayload{}
	switch {
	case resp.Price != nil:
		tools = append(tools, domain.ToolPayload{Tool: ToolPriceLookup, Price: resp.Price})
		if resp.Price.ProductName != "" {
			card := s.resolver.about.Resolve(resp.Price.ProductName)
			tools = append(tools, domain.ToolPayload{Tool: ToolProductCard, About: card})
		}
	case resp.About != nil:
		tools = append(tools, domain.ToolPayload{Tool: ToolProductCard, About: resp.About})
	}
	return tools
}

// aiCacheKey keys on normalized text; prompts with nothing left after
// normalization key on their lower-cased raw form instead.
func aiCacheKey(prompt string) string {
	if key := NormalizeText(prompt); key != "" {
		return "ai:" + key
	}
	return "ai:raw:" + strings.ToLower(strings.Join(strings.Fields(prompt), " "))
}

func (s *AssistantService) getFromCache(ctx context.Context, key string) (*domain.AssistantReply, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var reply domain.AssistantReply
	if err := json.Unmarshal(data, &reply); err != nil {
		log.Warn().Err(err).Str("component", "assistant").Str("key", key).Msg("dropping undecodable cache entry")
		if err := s.cache.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("component", "assistant").Msg("cache delete failed")
		}
		return nil, false
	}
	return &reply, true
}

func (s *AssistantService) setInCache(ctx context.Context, key string, reply *domain.AssistantReply) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, reply, s.cacheTTL); err != nil {
		log.Warn().Err(err).Str("component", "assistant").Msg("cache write failed")
	}
}

// FallbackAnswer composes an answer from successful lookups, else from the
// best reference chunk, and appends the original question.
func FallbackAnswer(prompt string, contexts []domain.RetrievedChunk, tools []domain.ToolPayload) string {
	var parts []string

	for _, tool := range tools {
		switch {
		case tool.Tool == ToolPriceLookup && tool.Price != nil && tool.Price.Found:
			p := tool.Price
			parts = append(parts, fmt.Sprintf("%s costs %s for %s.",
				p.ProductName, FormatAmount(*p.Price, p.Currency), p.SizeLabel))
		case tool.Tool == ToolProductCard && tool.About != nil && tool.About.Found && tool.About.SummaryText != "":
			parts = append(parts, tool.About.SummaryText)
		}
	}

	if len(parts) == 0 && len(contexts) > 0 {
		parts = append(parts, contexts[0].Text)
	}
	if len(parts) == 0 {
		parts = append(parts, GeneratorUnavailableText)
	}
	if prompt != "" {
		parts = append(parts, fmt.Sprintf("(Original question: %s)", prompt))
	}

	return strings.Join(parts, "\n\n")
}

// outcome labels a response for metrics
func outcome(resp *domain.Response) string {
	switch {
	case resp.Prompt != "":
		return "empty"
	case resp.About != nil && resp.About.Found, resp.Price != nil && resp.Price.Found:
		return "found"
	case resp.About != nil || resp.Price != nil:
		return "not_found"
	default:
		return "unknown"
	}
}
