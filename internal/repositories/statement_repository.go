package repositories

import (
	"context"

	"github.com/BYMO9/griboul/internal/models"
)

// StatementRepository exposes data access for mini-statements, the unit
// of semantic search. Statements are append-only aside from the
// search-hit counter.
type StatementRepository interface {
	Create(ctx context.Context, statement models.MiniStatement) (models.MiniStatement, error)
	// SemanticSearch ranks statements by cosine similarity against the
	// query embedding, dropping anything below threshold, best first.
	SemanticSearch(ctx context.Context, embedding []float32, threshold float64, limit int) ([]models.SearchResult, error)
	// TextSearch is the lexical fallback, relevance ranked.
	TextSearch(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
	// Suggest returns statements and keywords matching the prefix.
	Suggest(ctx context.Context, prefix string, limit int) ([]string, []string, error)
	IncrementSearchHits(ctx context.Context, ids []string) error
}
