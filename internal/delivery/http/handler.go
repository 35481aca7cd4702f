package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/paintassist/backend/internal/domain"
	"github.com/paintassist/backend/internal/usecase"
)

const (
	ServiceName = "paintassist-backend"
	Version     = "1.0.0"

	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	assistant *usecase.AssistantService
	quotes    *usecase.QuoteCalculator
}

// NewHandler creates a new HTTP handler. Endpoints answer 503 while a
// dependency is missing.
func NewHandler(assistant *usecase.AssistantService, quotes *usecase.QuoteCalculator) *Handler {
	return &Handler{assistant: assistant, quotes: quotes}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply  string               `json:"reply"`
	Intent domain.Intent        `json:"intent"`
	Query  domain.ResolvedQuery `json:"query"`
	About  *domain.AboutResult  `json:"about,omitempty"`
	Price  *domain.PriceResult  `json:"price,omitempty"`
	Prompt string               `json:"prompt,omitempty"`
}

type aiChatRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type aiChatResponse struct {
	Reply     string                  `json:"reply"`
	UsedTools []domain.ToolPayload    `json:"used_tools"`
	Retrieved []domain.RetrievedChunk `json:"retrieved"`
	Generated bool                    `json:"generated"`
}

type productMatch struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type quoteRequest struct {
	Items   []domain.QuoteItem `json:"items" binding:"required,min=1,dive"`
	VATRate *decimal.Decimal   `json:"vat_rate"`
}

type quoteResponse struct {
	*domain.Quote
	TotalText string `json:"total_text"`
}

// HealthCheck reports service status and catalog size. A service without a
// loaded catalog reports degraded.
func (h *Handler) HealthCheck(c *gin.Context) {
	status := "healthy"
	products, prices := 0, 0
	if h.assistant == nil {
		status = "degraded"
	} else {
		products, prices = h.assistant.Index().Stats()
		if prices == 0 {
			status = "degraded"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"service":  ServiceName,
		"version":  Version,
		"products": products,
		"prices":   prices,
	})
}

// Chat resolves a free-text catalog question
func (h *Handler) Chat(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.Join(domain.ErrInvalidRequest, err))
		return
	}

	reply := h.assistant.Chat(c.Request.Context(), req.Message)
	resp := reply.Response

	c.JSON(http.StatusOK, chatResponse{
		Reply:  reply.Reply,
		Intent: resp.Query.Intent,
		Query:  resp.Query,
		About:  resp.About,
		Price:  resp.Price,
		Prompt: resp.Prompt,
	})
}

// AIChat answers a prompt with lookups, retrieved context and the generator
func (h *Handler) AIChat(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req aiChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.Join(domain.ErrInvalidRequest, err))
		return
	}

	reply, err := h.assistant.AIChat(c.Request.Context(), req.Prompt)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, aiChatResponse{
		Reply:     reply.Reply,
		UsedTools: reply.UsedTools,
		Retrieved: reply.Retrieved,
		Generated: reply.Generated,
	})
}

// SearchProducts ranks product names against ?q=, or lists them when q is empty
func (h *Handler) SearchProducts(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(c, errors.Join(domain.ErrInvalidRequest, errors.New("limit must be a positive integer")))
			return
		}
		limit = min(n, maxSearchLimit)
	}

	query := c.Query("q")
	results := make([]productMatch, 0, limit)
	if query == "" {
		for _, name := range h.assistant.Index().ProductNames() {
			if len(results) == limit {
				break
			}
			results = append(results, productMatch{Name: name})
		}
	} else {
		for _, m := range h.assistant.SearchProducts(query, limit) {
			results = append(results, productMatch{Name: m.Value, Score: m.Score})
		}
	}

	c.JSON(http.StatusOK, gin.H{"query": query, "results": results})
}

// GetPrices returns every price tier of one product code
func (h *Handler) GetPrices(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	record, err := h.assistant.PriceList(c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product":  record,
		"currency": h.assistant.Index().Meta().Currency,
		"sizes":    h.assistant.Index().AvailableSizes(record.ProductCode),
	})
}

// CreateQuote prices a list of items with VAT
func (h *Handler) CreateQuote(c *gin.Context) {
	if h.quotes == nil {
		writeError(c, domain.ErrCatalogUnavailable)
		return
	}

	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.Join(domain.ErrInvalidRequest, err))
		return
	}

	quote, err := h.quotes.Calculate(req.Items, req.VATRate)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, quoteResponse{Quote: quote, TotalText: usecase.FormatAED(quote.Total)})
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.assistant == nil {
		writeError(c, domain.ErrCatalogUnavailable)
		return false
	}
	return true
}

// writeError maps domain errors to HTTP status codes
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrNegativeQuantity),
		errors.Is(err, domain.ErrNegativeDiscount):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrUnknownPriceTier):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrCatalogUnavailable),
		errors.Is(err, domain.ErrGeneratorFailure):
		status = http.StatusServiceUnavailable
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
