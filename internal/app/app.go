// Package app wires configuration into the catalog, services and
// infrastructure shared by the server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/paintassist/backend/config"
	"github.com/paintassist/backend/internal/domain"
	"github.com/paintassist/backend/internal/infrastructure/cache"
	"github.com/paintassist/backend/internal/infrastructure/catalogfile"
	"github.com/paintassist/backend/internal/infrastructure/llm"
	"github.com/paintassist/backend/internal/infrastructure/metrics"
	"github.com/paintassist/backend/internal/usecase"
)

// App holds the wired services
type App struct {
	Config    *config.Config
	Source    *catalogfile.FileSource
	Index     *usecase.CatalogIndex
	Assistant *usecase.AssistantService
	Quotes    *usecase.QuoteCalculator
	Metrics   *metrics.Metrics

	cache *cache.MemoryCache
}

// Build loads the catalog and constructs every service. The generator is
// only wired when an API key is configured.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	source := catalogfile.NewFileSource(cfg.Data.ProductsPath, cfg.Data.PricesPath)
	catalog, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}

	index := usecase.NewCatalogIndex(catalog, usecase.NewNormalizer(SizeAliases(cfg.Matching)))

	var chunks []domain.RetrievedChunk
	if cfg.Data.ChunksPath != "" {
		chunks, err = catalogfile.LoadChunks(cfg.Data.ChunksPath)
		if err != nil {
			return nil, fmt.Errorf("loading retrieval chunks: %w", err)
		}
	}

	var generator domain.AnswerGenerator
	if cfg.LLM.APIKey != "" {
		generator = llm.NewClient(llm.Options{
			APIKey:     cfg.LLM.APIKey,
			BaseURL:    cfg.LLM.BaseURL,
			Model:      cfg.LLM.Model,
			Timeout:    cfg.LLM.Timeout,
			RatePerSec: cfg.LLM.RatePerSec,
			MaxRetries: cfg.LLM.MaxRetries,
		})
	} else {
		log.Warn().Str("component", "app").Msg("no LLM API key configured, AI chat will use fallback answers")
	}

	memoryCache := cache.NewMemoryCache(cfg.Cache.CleanupInterval)
	m := metrics.NewMetrics()
	m.RegisterCache(memoryCache)

	assistant := usecase.NewAssistantService(index, generator, memoryCache, usecase.AssistantConfig{
		Match:    MatchConfig(cfg.Matching),
		Intent:   usecase.IntentConfig{AboutTriggers: cfg.Matching.AboutTriggers, PriceTriggers: cfg.Matching.PriceTriggers},
		CacheTTL: cfg.Cache.TTL,
		TopK:     cfg.Retrieval.TopK,
		Chunks:   chunks,
		Recorder: m,
	})

	return &App{
		Config:    cfg,
		Source:    source,
		Index:     index,
		Assistant: assistant,
		Quotes:    usecase.NewQuoteCalculator(index, decimal.NewFromFloat(cfg.Quote.VATRate)),
		Metrics:   m,
		cache:     memoryCache,
	}, nil
}

// Close stops background work
func (a *App) Close() {
	a.cache.Close()
}

// MatchConfig converts the matching section into matcher settings
func MatchConfig(m config.MatchingConfig) usecase.MatchConfig {
	return usecase.MatchConfig{
		NameThreshold:             m.NameThreshold,
		CodeThreshold:             m.CodeThreshold,
		SizeThreshold:             m.SizeThreshold,
		SuggestionFloor:           m.SuggestionFloor,
		SuggestionLimit:           m.SuggestionLimit,
		AutoSubstituteClosestSize: m.AutoSubstituteClosestSize,
	}
}

// SizeAliases extends the default unit aliases with configured ones
func SizeAliases(m config.MatchingConfig) map[string]string {
	aliases := usecase.DefaultSizeAliases()
	for k, v := range m.SizeAliases {
		aliases[k] = v
	}
	return aliases
}
