package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightedRatio(t *testing.T) {
	testCases := []struct {
		name    string
		a, b    string
		minWant float64
		maxWant float64
	}{
		{"identical", "National Acrylic Primer", "national acrylic primer", 100, 100},
		{"punctuation ignored", "National Acrylic Primer (W.B.)", "national acrylic primer w b", 100, 100},
		{"missing suffix still strong", "national acrylic primer", "National Acrylic Primer (W.B.)", 90, 99.99},
		{"word order", "primer acrylic national", "National Acrylic Primer", 90, 99.99},
		{"one typo", "natonal acrylic primer", "National Acrylic Primer", 90, 99.99},
		{"unrelated codes", "ZZZZ", "A119", 0, 10},
		{"empty query", "", "A119", 0, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := WeightedRatio.Score(tc.a, tc.b)
			assert.GreaterOrEqual(t, got, tc.minWant)
			assert.LessOrEqual(t, got, tc.maxWant)
		})
	}
}

func TestTokenSetRatio(t *testing.T) {
	assert.Equal(t, 100.0, TokenSetRatio.Score("18 ltr drum", "drum 18 ltr"))
	assert.Equal(t, 100.0, TokenSetRatio.Score("18 ltr", "18 ltr drum"))
	assert.Less(t, TokenSetRatio.Score("1 ltr", "18 ltr drum"), defaultSizeThreshold)
	assert.Less(t, TokenSetRatio.Score("1 ltr", "3.6 ltr gallon"), defaultSizeThreshold)
	// Decimals stay whole so "6 ltr" is not a subset of "3.6 ltr gallon"
	assert.Less(t, TokenSetRatio.Score("6 ltr", "3.6 ltr gallon"), 100.0)
	assert.Equal(t, 0.0, TokenSetRatio.Score("", "18 ltr drum"))
}

func TestMatch(t *testing.T) {
	candidates := []string{
		"National Acrylic Primer (W.B.)",
		"National Acrylic Primer",
		"Acrylic Emulsion",
		"Road Marking Paint",
	}

	t.Run("exact match outranks or ties fuzzy", func(t *testing.T) {
		results := Match("national acrylic primer", candidates, WeightedRatio, 70, 0)

		require.NotEmpty(t, results)
		assert.Equal(t, "National Acrylic Primer", results[0].Value)
		assert.Equal(t, 100.0, results[0].Score)
		for _, r := range results[1:] {
			assert.LessOrEqual(t, r.Score, results[0].Score)
		}
	})

	t.Run("sorted descending with source index", func(t *testing.T) {
		results := Match("acrylic", candidates, WeightedRatio, 1, 0)

		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
		}
		for _, r := range results {
			assert.Equal(t, candidates[r.SourceIndex], r.Value)
		}
	})

	t.Run("ties keep candidate order", func(t *testing.T) {
		constant := ScorerFunc(func(a, b string) float64 { return 80 })
		results := Match("anything", []string{"c", "a", "b"}, constant, 50, 0)

		require.Len(t, results, 3)
		assert.Equal(t, []int{0, 1, 2}, []int{results[0].SourceIndex, results[1].SourceIndex, results[2].SourceIndex})
	})

	t.Run("threshold is inclusive", func(t *testing.T) {
		constant := ScorerFunc(func(a, b string) float64 { return 75 })
		assert.Len(t, Match("q", []string{"x"}, constant, 75, 0), 1)
		assert.Empty(t, Match("q", []string{"x"}, constant, 75.01, 0))
	})

	t.Run("limit truncates", func(t *testing.T) {
		results := Match("acrylic", candidates, WeightedRatio, 1, 2)
		assert.Len(t, results, 2)
	})

	t.Run("nothing above threshold is empty, not nil", func(t *testing.T) {
		results := Match("zzzz", candidates, WeightedRatio, 75, 0)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("empty inputs", func(t *testing.T) {
		assert.Empty(t, Match("", candidates, WeightedRatio, 0, 0))
		assert.Empty(t, Match("primer", nil, WeightedRatio, 0, 0))
	})
}

func TestNewMatchingService_Defaults(t *testing.T) {
	s := NewMatchingService(MatchConfig{})

	assert.Equal(t, defaultNameThreshold, s.nameThreshold)
	assert.Equal(t, defaultCodeThreshold, s.codeThreshold)
	assert.Equal(t, defaultSizeThreshold, s.sizeThreshold)
	assert.Equal(t, defaultSuggestionFloor, s.suggestionFloor)
	assert.Equal(t, defaultSuggestionLimit, s.suggestionLimit)
	assert.False(t, s.AutoSubstitute())
	assert.NotNil(t, s.scorer)
}

func TestMatchingService_BestCode(t *testing.T) {
	s := NewMatchingService(MatchConfig{})
	codes := []string{"A119", "A024", "B310"}

	got, ok := s.BestCode("A1199", codes)
	require.True(t, ok)
	assert.Equal(t, "A119", got.Value)

	// Short codes collide easily, so one dropped character is below the code threshold
	_, ok = s.BestCode("A11", codes)
	assert.False(t, ok)
	assert.Contains(t, s.SuggestCodes("A11", codes), "A119")

	_, ok = s.BestCode("ZZZZ", codes)
	assert.False(t, ok)
	assert.Empty(t, s.SuggestCodes("ZZZZ", codes))
}

func TestMatchingService_ClosestSize(t *testing.T) {
	s := NewMatchingService(MatchConfig{})
	keys := []string{"18 ltr drum", "3.6 ltr gallon"}

	got, ok := s.ClosestSize("18 ltr", keys)
	require.True(t, ok)
	assert.Equal(t, "18 ltr drum", got.Value)

	_, ok = s.ClosestSize("1 ltr", keys)
	assert.False(t, ok)

	// "ltr" alone is an equal subset of both labels
	_, ok = s.ClosestSize("ltr", keys)
	assert.False(t, ok)
}

func TestMatchingService_SuggestionsLimited(t *testing.T) {
	s := NewMatchingService(MatchConfig{SuggestionLimit: 2})
	names := []string{"Acrylic Primer", "Acrylic Primer Plus", "Acrylic Primer Extra", "Acrylic Primer Max"}

	assert.Len(t, s.SuggestNames("acrylic primer", names), 2)
}
