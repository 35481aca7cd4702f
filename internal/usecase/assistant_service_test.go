package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintassist/backend/internal/domain"
)

type fakeGenerator struct {
	answer string
	err    error
	calls  int

	gotPrompt   string
	gotContexts []domain.RetrievedChunk
	gotTools    []domain.ToolPayload
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, contexts []domain.RetrievedChunk, tools []domain.ToolPayload) (string, error) {
	f.calls++
	f.gotPrompt, f.gotContexts, f.gotTools = prompt, contexts, tools
	return f.answer, f.err
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (c *mapCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

type countingRecorder struct {
	resolutions map[string]int
	generations map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{resolutions: map[string]int{}, generations: map[string]int{}}
}

func (r *countingRecorder) ObserveResolution(intent, outcome string) {
	r.resolutions[intent+"/"+outcome]++
}

func (r *countingRecorder) ObserveGeneration(outcome string) {
	r.generations[outcome]++
}

func TestAssistantService_Chat(t *testing.T) {
	recorder := newCountingRecorder()
	s := NewAssistantService(testIndex(), nil, nil, AssistantConfig{Recorder: recorder})

	got := s.Chat(context.Background(), "How much is A119 in 18 Ltr (Drum)?")

	require.NotNil(t, got.Response)
	assert.Equal(t, "National Acrylic Primer (W.B.) (code A119) costs 80.00 AED for 18 Ltr (Drum).", got.Reply)
	assert.Equal(t, domain.IntentPrice, got.Response.Query.Intent)
	assert.Equal(t, 1, recorder.resolutions["price/found"])

	got = s.Chat(context.Background(), "")
	assert.Equal(t, EmptyMessagePrompt, got.Reply)
	assert.Equal(t, 1, recorder.resolutions["unknown/empty"])
}

func TestAssistantService_AIChat_Generated(t *testing.T) {
	gen := &fakeGenerator{answer: "  It costs 80 AED.  "}
	cache := newMapCache()
	s := NewAssistantService(testIndex(), gen, cache, AssistantConfig{TopK: 2})
	ctx := context.Background()

	reply, err := s.AIChat(ctx, "How much is A119 in 18 Ltr (Drum)?")
	require.NoError(t, err)

	assert.True(t, reply.Generated)
	assert.Equal(t, "It costs 80 AED.", reply.Reply)
	require.Len(t, reply.UsedTools, 2)
	assert.Equal(t, ToolPriceLookup, reply.UsedTools[0].Tool)
	assert.True(t, reply.UsedTools[0].Price.Found)
	assert.Equal(t, ToolProductCard, reply.UsedTools[1].Tool)
	assert.True(t, reply.UsedTools[1].About.Found)
	assert.LessOrEqual(t, len(reply.Retrieved), 2)
	assert.Equal(t, "How much is A119 in 18 Ltr (Drum)?", gen.gotPrompt)
	assert.Equal(t, reply.UsedTools, gen.gotTools)

	t.Run("second call is served from cache", func(t *testing.T) {
		again, err := s.AIChat(ctx, "how much is A119 in 18 ltr (drum)")
		require.NoError(t, err)

		assert.Equal(t, 1, gen.calls)
		assert.Equal(t, "It costs 80 AED.", again.Reply)
		assert.True(t, again.Generated)
	})
}

func TestAssistantService_AIChat_NonLatinPromptsDoNotShareCache(t *testing.T) {
	gen := &fakeGenerator{}
	s := NewAssistantService(testIndex(), gen, newMapCache(), AssistantConfig{})
	ctx := context.Background()

	prompts := []string{"ما هو سعر الدهان", "Что такое грунтовка", "???", "!!!"}
	for _, prompt := range prompts {
		gen.answer = "answer for " + prompt
		reply, err := s.AIChat(ctx, prompt)
		require.NoError(t, err)
		assert.Equal(t, "answer for "+prompt, reply.Reply)
	}
	assert.Equal(t, len(prompts), gen.calls)

	again, err := s.AIChat(ctx, "Что  такое ГРУНТОВКА")
	require.NoError(t, err)
	assert.Equal(t, "answer for Что такое грунтовка", again.Reply)
	assert.Equal(t, len(prompts), gen.calls)
}

func TestAssistantService_AIChat_DropsUndecodableCacheEntry(t *testing.T) {
	cache := newMapCache()
	key := aiCacheKey("tell me about A119")
	cache.data[key] = []byte("not json")
	s := NewAssistantService(testIndex(), nil, cache, AssistantConfig{})

	reply, err := s.AIChat(context.Background(), "tell me about A119")
	require.NoError(t, err)

	assert.False(t, reply.Generated)
	assert.NotContains(t, cache.data, key)
}

func TestAIChatCacheKey(t *testing.T) {
	assert.Equal(t, "ai:краска", aiCacheKey(" Краска? "))
	assert.Equal(t, "ai:raw:???", aiCacheKey("???"))
	assert.NotEqual(t, aiCacheKey("ما هو سعر الدهان"), aiCacheKey("Что такое грунтовка"))
}

func TestAssistantService_AIChat_Fallback(t *testing.T) {
	testCases := []struct {
		name      string
		generator domain.AnswerGenerator
	}{
		{"no generator", nil},
		{"generator error", &fakeGenerator{err: errors.New("boom")}},
		{"empty answer", &fakeGenerator{answer: "   "}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cache := newMapCache()
			s := NewAssistantService(testIndex(), tc.generator, cache, AssistantConfig{})

			reply, err := s.AIChat(context.Background(), "How much is A119 in 18 Ltr (Drum)?")
			require.NoError(t, err)

			assert.False(t, reply.Generated)
			assert.Equal(t, "National Acrylic Primer (W.B.) costs 80.00 AED for 18 Ltr (Drum).\n\n"+
				"Water based acrylic primer for interior and exterior walls.\n"+
				"Uses: Masonry; Plaster\nAdvantages: Drying: Fast; Finish: Matt\n\n"+
				"(Original question: How much is A119 in 18 Ltr (Drum)?)", reply.Reply)

			// Fallback answers are not cached
			assert.Empty(t, cache.data)
		})
	}
}

func TestAssistantService_AIChat_CanceledContext(t *testing.T) {
	gen := &fakeGenerator{err: context.Canceled}
	s := NewAssistantService(testIndex(), gen, nil, AssistantConfig{})

	_, err := s.AIChat(context.Background(), "tell me about A119")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssistantService_AIChat_EmptyPrompt(t *testing.T) {
	s := NewAssistantService(testIndex(), nil, nil, AssistantConfig{})

	_, err := s.AIChat(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestAssistantService_AIChat_AboutTool(t *testing.T) {
	gen := &fakeGenerator{answer: "ok"}
	s := NewAssistantService(testIndex(), gen, nil, AssistantConfig{})

	reply, err := s.AIChat(context.Background(), "Tell me about road marking paint")
	require.NoError(t, err)

	require.Len(t, reply.UsedTools, 1)
	assert.Equal(t, ToolProductCard, reply.UsedTools[0].Tool)
	assert.Equal(t, "Road Marking Paint", reply.UsedTools[0].About.ResolvedName)
	require.NotEmpty(t, reply.Retrieved)
	assert.Equal(t, "Road Marking Paint", reply.Retrieved[0].Metadata["product_name"])
}

func TestFallbackAnswer(t *testing.T) {
	contexts := []domain.RetrievedChunk{{Text: "Road Marking Paint (code R210) ..."}}

	t.Run("first context when no lookup succeeded", func(t *testing.T) {
		tools := []domain.ToolPayload{{Tool: ToolPriceLookup, Price: &domain.PriceResult{Found: false}}}
		got := FallbackAnswer("road paint?", contexts, tools)
		assert.Equal(t, "Road Marking Paint (code R210) ...\n\n(Original question: road paint?)", got)
	})

	t.Run("apology when nothing is available", func(t *testing.T) {
		got := FallbackAnswer("", nil, nil)
		assert.Equal(t, GeneratorUnavailableText, got)
	})
}

func TestAssistantService_SearchAndPriceList(t *testing.T) {
	s := NewAssistantService(testIndex(), nil, nil, AssistantConfig{})

	matches := s.SearchProducts("acrylic primer", 5)
	require.NotEmpty(t, matches)
	assert.Equal(t, "National Acrylic Primer (W.B.)", matches[0].Value)

	record, err := s.PriceList("a119")
	require.NoError(t, err)
	assert.Len(t, record.Tiers, 2)

	_, err = s.PriceList("ZZZZ")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestAssistantService_CustomChunks(t *testing.T) {
	chunks := []domain.RetrievedChunk{{Text: "custom reference text", Metadata: map[string]any{}}}
	s := NewAssistantService(testIndex(), &fakeGenerator{answer: "ok"}, nil, AssistantConfig{Chunks: chunks})

	reply, err := s.AIChat(context.Background(), "reference")
	require.NoError(t, err)
	require.Len(t, reply.Retrieved, 1)
	assert.Equal(t, "custom reference text", reply.Retrieved[0].Text)
	assert.Equal(t, 1.0, reply.Retrieved[0].Score)
}
