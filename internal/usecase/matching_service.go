package usecase

import (
	"sort"

	"github.com/paintassist/backend/internal/domain"
)

// Default thresholds (0-100)
const (
	defaultNameThreshold   = 75.0
	defaultCodeThreshold   = 80.0
	defaultSizeThreshold   = 70.0
	defaultSuggestionFloor = 60.0
	defaultSuggestionLimit = 3
)

// MatchConfig holds configuration for the matching service. Zero values
// select the defaults.
type MatchConfig struct {
	NameThreshold   float64
	CodeThreshold   float64
	SizeThreshold   float64
	SuggestionFloor float64
	SuggestionLimit int
	// AutoSubstituteClosestSize answers with the closest size when the
	// requested one is not listed, instead of only offering it.
	AutoSubstituteClosestSize bool
	// Scorer overrides WeightedRatio for names and codes
	Scorer Scorer
}

// MatchingService ranks names, codes and size labels against a query
type MatchingService struct {
	nameThreshold   float64
	codeThreshold   float64
	sizeThreshold   float64
	suggestionFloor float64
	suggestionLimit int
	autoSubstitute  bool
	scorer          Scorer
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	nameThreshold := config.NameThreshold
	if nameThreshold <= 0 {
		nameThreshold = defaultNameThreshold
	}

	codeThreshold := config.CodeThreshold
	if codeThreshold <= 0 {
		codeThreshold = defaultCodeThreshold
	}

	sizeThreshold := config.SizeThreshold
	if sizeThreshold <= 0 {
		sizeThreshold = defaultSizeThreshold
	}

	floor := config.SuggestionFloor
	if floor <= 0 {
		floor = defaultSuggestionFloor
	}

	limit := config.SuggestionLimit
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}

	scorer := config.Scorer
	if scorer == nil {
		scorer = WeightedRatio
	}

	return &MatchingService{
		nameThreshold:   nameThreshold,
		codeThreshold:   codeThreshold,
		sizeThreshold:   sizeThreshold,
		suggestionFloor: floor,
		suggestionLimit: limit,
		autoSubstitute:  config.AutoSubstituteClosestSize,
		scorer:          scorer,
	}
}

// Match scores query against every candidate and returns those at or above
// threshold, best first. Equal scores keep candidate order. limit <= 0 returns
// all of them. An empty result means no confident match.
func Match(query string, candidates []string, scorer Scorer, threshold float64, limit int) []domain.MatchCandidate {
	if query == "" || len(candidates) == 0 {
		return []domain.MatchCandidate{}
	}

	results := make([]domain.MatchCandidate, 0, len(candidates))
	for i, candidate := range candidates {
		score := scorer.Score(query, candidate)
		if score >= threshold {
			results = append(results, domain.MatchCandidate{
				Value:       candidate,
				Score:       score,
				SourceIndex: i,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// MatchNames ranks catalog names at the product name threshold
func (s *MatchingService) MatchNames(query string, names []string, limit int) []domain.MatchCandidate {
	return Match(query, names, s.scorer, s.nameThreshold, limit)
}

// BestCode returns the best code at or above the code threshold
func (s *MatchingService) BestCode(query string, codes []string) (domain.MatchCandidate, bool) {
	matches := Match(query, codes, s.scorer, s.codeThreshold, 1)
	if len(matches) == 0 {
		return domain.MatchCandidate{}, false
	}
	return matches[0], true
}

// SuggestNames returns up to the suggestion limit of names at or above the
// suggestion floor
func (s *MatchingService) SuggestNames(query string, names []string) []string {
	return values(Match(query, names, s.scorer, s.suggestionFloor, s.suggestionLimit))
}

// SuggestCodes returns up to the suggestion limit of codes at or above the
// suggestion floor
func (s *MatchingService) SuggestCodes(query string, codes []string) []string {
	return values(Match(query, codes, s.scorer, s.suggestionFloor, s.suggestionLimit))
}

// ClosestSize returns the size key that best matches query at or above the size
// threshold. A tie at the top between different keys is not a confident match.
func (s *MatchingService) ClosestSize(query string, sizeKeys []string) (domain.MatchCandidate, bool) {
	matches := Match(query, sizeKeys, TokenSetRatio, s.sizeThreshold, 2)
	if len(matches) == 0 {
		return domain.MatchCandidate{}, false
	}
	if len(matches) == 2 && matches[0].Score == matches[1].Score && matches[0].Value != matches[1].Value {
		return domain.MatchCandidate{}, false
	}
	return matches[0], true
}

// AutoSubstitute reports whether a closest size replaces a missing one
func (s *MatchingService) AutoSubstitute() bool {
	return s.autoSubstitute
}

func values(matches []domain.MatchCandidate) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Value)
	}
	return out
}
