package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/BYMO9/griboul/internal/logging"
	"github.com/BYMO9/griboul/internal/models"
	"github.com/BYMO9/griboul/internal/repositories"
)

// DefaultThreshold is the cosine similarity floor for semantic results.
const DefaultThreshold = 0.7

// MaxSuggestions caps the autocomplete response.
const MaxSuggestions = 10

// Embedder converts a query string to a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Trending returns the curated trending searches. Real query tracking
// would replace this list.
func Trending() []string {
	return []string{
		"founders debugging at night",
		"first customer celebration",
		"pivot stories",
		"bootstrapped builders",
		"AI startup challenges",
		"remote team struggles",
		"product launch day",
		"fundraising rejection",
		"10x growth hacks",
		"weekend building sessions",
	}
}

// Service ranks stored statements against caller queries. Semantic
// ranking embeds the query and delegates similarity scoring to the
// store; lexical ranking uses the store's text search.
type Service struct {
	Embedder   Embedder
	Statements repositories.StatementRepository
	Threshold  float64
}

// NewService constructs a search service with the given similarity threshold.
func NewService(embedder Embedder, statements repositories.StatementRepository, threshold float64) *Service {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Service{Embedder: embedder, Statements: statements, Threshold: threshold}
}

// Descriptive performs semantic search: results are always at or above
// the similarity threshold, sorted by descending similarity. Search-hit
// counters on matched statements are incremented best-effort.
func (s *Service) Descriptive(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	embedding, err := s.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.Statements.SemanticSearch(ctx, embedding, s.Threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}

	if len(results) > 0 {
		ids := make([]string, 0, len(results))
		for _, result := range results {
			ids = append(ids, result.StatementID)
		}
		if err := s.Statements.IncrementSearchHits(ctx, ids); err != nil {
			logging.FromContext(ctx).Warn("failed to record search hits", "error", err)
		}
	}

	return results, nil
}

// Text performs the lexical fallback search.
func (s *Service) Text(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	results, err := s.Statements.TextSearch(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}
	return results, nil
}

// Suggestions returns up to MaxSuggestions autocomplete entries matching
// the prefix, drawn from statement text and keyword lists, deduplicated.
// Queries shorter than two characters yield an empty list.
func (s *Service) Suggestions(ctx context.Context, prefix string) ([]string, error) {
	if len(prefix) < 2 {
		return []string{}, nil
	}

	statements, keywords, err := s.Statements.Suggest(ctx, prefix, 5)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}

	seen := make(map[string]struct{})
	suggestions := make([]string, 0, MaxSuggestions)

	add := func(value string) {
		if len(suggestions) >= MaxSuggestions {
			return
		}
		if _, ok := seen[value]; ok {
			return
		}
		seen[value] = struct{}{}
		suggestions = append(suggestions, value)
	}

	for _, statement := range statements {
		add(statement)
	}

	lowered := strings.ToLower(prefix)
	for _, keyword := range keywords {
		if strings.HasPrefix(strings.ToLower(keyword), lowered) {
			add(keyword)
		}
	}

	return suggestions, nil
}
