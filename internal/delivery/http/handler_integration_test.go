package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintassist/backend/config"
	"github.com/paintassist/backend/internal/domain"
	"github.com/paintassist/backend/internal/infrastructure/metrics"
	"github.com/paintassist/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
		},
	}
}

func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		Products: []domain.ProductRecord{
			{
				Name:       "National Acrylic Primer (W.B.)",
				Code:       "A119",
				Attributes: map[string]any{"description": "Water based acrylic primer."},
			},
		},
		Prices: []domain.PriceRecord{
			{
				ProductCode: "A119",
				ProductName: "National Acrylic Primer (W.B.)",
				Tiers: []domain.PriceTier{
					{SizeLabel: "18 Ltr (Drum)", Price: decimal.RequireFromString("80.00"), Currency: "AED"},
					{SizeLabel: "3.6 Ltr (Gallon)", Price: decimal.RequireFromString("18.50"), Currency: "AED"},
				},
			},
		},
		Meta: domain.PriceListMeta{Currency: "AED"},
	}
}

// setupTestRouter creates a router over the test catalog with no generator
func setupTestRouter() *gin.Engine {
	index := usecase.NewCatalogIndex(testCatalog(), nil)
	assistant := usecase.NewAssistantService(index, nil, nil, usecase.AssistantConfig{})
	quotes := usecase.NewQuoteCalculator(index, usecase.DefaultVATRate)

	return SetupRouter(testConfig(), NewHandler(assistant, quotes), metrics.NewMetrics())
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w, response
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		w, response := doJSON(t, setupTestRouter(), http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", response["status"])
		assert.Equal(t, ServiceName, response["service"])
		assert.Equal(t, float64(1), response["prices"])
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})

	t.Run("reports degraded without a catalog", func(t *testing.T) {
		router := SetupRouter(testConfig(), NewHandler(nil, nil), nil)
		w, response := doJSON(t, router, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "degraded", response["status"])
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter()
		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(method, "/health", nil))
			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

func TestChatEndpoint(t *testing.T) {
	router := setupTestRouter()

	t.Run("price question", func(t *testing.T) {
		w, response := doJSON(t, router, http.MethodPost, "/api/v1/chat", `{"message":"How much is A119 in 18 Ltr (Drum)?"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "price", response["intent"])
		assert.Equal(t, "National Acrylic Primer (W.B.) (code A119) costs 80.00 AED for 18 Ltr (Drum).", response["reply"])

		price := response["price"].(map[string]any)
		assert.Equal(t, true, price["found"])
		assert.Equal(t, "18 Ltr (Drum)", price["sizeLabel"])
	})

	t.Run("about question", func(t *testing.T) {
		w, response := doJSON(t, router, http.MethodPost, "/api/v1/chat", `{"message":"Tell me about National Acrylic Primer (W.B.)"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "about", response["intent"])
		assert.True(t, strings.HasPrefix(response["reply"].(string), "National Acrylic Primer (W.B.)\n"))
	})

	t.Run("empty message returns prompt", func(t *testing.T) {
		w, response := doJSON(t, router, http.MethodPost, "/api/v1/chat", `{"message":"   "}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, usecase.EmptyMessagePrompt, response["reply"])
		assert.Nil(t, response["price"])
	})

	t.Run("malformed body", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/api/v1/chat", `{"message":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAIChatEndpoint(t *testing.T) {
	router := setupTestRouter()

	t.Run("falls back without a generator", func(t *testing.T) {
		w, response := doJSON(t, router, http.MethodPost, "/api/v1/ai/chat", `{"prompt":"price of A119 in 3.6 ltr gallon"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, response["generated"])
		assert.Contains(t, response["reply"], "costs 18.50 AED for 3.6 Ltr (Gallon).")
		assert.Contains(t, response["reply"], "(Original question: price of A119 in 3.6 ltr gallon)")

		tools := response["used_tools"].([]any)
		require.NotEmpty(t, tools)
		assert.Equal(t, usecase.ToolPriceLookup, tools[0].(map[string]any)["tool"])
		assert.NotEmpty(t, response["retrieved"])
	})

	t.Run("requires a prompt", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/api/v1/ai/chat", `{"prompt":""}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("whitespace prompt", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPost, "/api/v1/ai/chat", `{"prompt":"   "}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProductsEndpoint(t *testing.T) {
	router := setupTestRouter()

	w, response := doJSON(t, router, http.MethodGet, "/api/v1/products?q=acrylic+primer", "")
	require.Equal(t, http.StatusOK, w.Code)
	results := response["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "National Acrylic Primer (W.B.)", results[0].(map[string]any)["name"])

	w, response = doJSON(t, router, http.MethodGet, "/api/v1/products", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, response["results"], 1)

	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/products?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPricesEndpoint(t *testing.T) {
	router := setupTestRouter()

	w, response := doJSON(t, router, http.MethodGet, "/api/v1/prices/a119", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "AED", response["currency"])
	assert.Equal(t, []any{"18 Ltr (Drum)", "3.6 Ltr (Gallon)"}, response["sizes"])

	w, response = doJSON(t, router, http.MethodGet, "/api/v1/prices/ZZZZ", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, response["error"], "ZZZZ")
}

func TestQuotesEndpoint(t *testing.T) {
	router := setupTestRouter()

	t.Run("prices items with VAT", func(t *testing.T) {
		body := `{"items":[{"code":"A119","size":"18 ltr drum","quantity":2,"discount_pct":"10"}]}`
		w, response := doJSON(t, router, http.MethodPost, "/api/v1/quotes", body)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "144", response["subtotal"])
		assert.Equal(t, "7.2", response["vat"])
		assert.Equal(t, "AED 151.20", response["total_text"])
	})

	testCases := []struct {
		name string
		body string
		want int
	}{
		{"no items", `{"items":[]}`, http.StatusBadRequest},
		{"missing size", `{"items":[{"code":"A119","quantity":1}]}`, http.StatusBadRequest},
		{"unknown code", `{"items":[{"code":"ZZZZ","size":"1 Ltr","quantity":1}]}`, http.StatusNotFound},
		{"unknown size", `{"items":[{"code":"A119","size":"1 Ltr","quantity":1}]}`, http.StatusNotFound},
		{"negative quantity", `{"items":[{"code":"A119","size":"18 Ltr (Drum)","quantity":-1}]}`, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, _ := doJSON(t, router, http.MethodPost, "/api/v1/quotes", tc.body)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter()
	doJSON(t, router, http.MethodPost, "/api/v1/chat", `{"message":"How much is A119 in 18 Ltr (Drum)?"}`)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "paintassist_http_request_duration_seconds")
}

func TestCORSIntegration(t *testing.T) {
	router := setupTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
