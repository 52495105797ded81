package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/BYMO9/griboul/internal/logging"
	"github.com/BYMO9/griboul/internal/search"
)

// SearchHandler implements the discovery endpoints over mini-statements
// and video attributes.
type SearchHandler struct {
	Search SearchService
	Videos VideoStore
}

func searchLimit(r *http.Request) int {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	return limit
}

// Descriptive handles GET /api/search/descriptive: embedding-based
// semantic search over mini-statements.
func (h SearchHandler) Descriptive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query().Get("q")
	if len(strings.TrimSpace(query)) < 3 {
		respondError(ctx, w, http.StatusBadRequest, "Search query must be at least 3 characters", "")
		return
	}

	results, err := h.Search.Descriptive(ctx, query, searchLimit(r))
	if err != nil {
		logging.FromContext(ctx).Error("descriptive search failed", "query", query, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Search failed", err.Error())
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"results": results,
		"query":   query,
		"total":   len(results),
	})
}

// Text handles GET /api/search/text: the lexical fallback.
func (h SearchHandler) Text(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query().Get("q")
	if len(strings.TrimSpace(query)) < 3 {
		respondError(ctx, w, http.StatusBadRequest, "Search query must be at least 3 characters", "")
		return
	}

	results, err := h.Search.Text(ctx, query, searchLimit(r))
	if err != nil {
		logging.FromContext(ctx).Error("text search failed", "query", query, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Search failed", err.Error())
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"results": results,
		"query":   query,
		"total":   len(results),
	})
}

// Category handles GET /api/search/category?category=...
func (h SearchHandler) Category(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	category := r.URL.Query().Get("category")
	if category == "" {
		respondError(ctx, w, http.StatusBadRequest, "Category is required", "")
		return
	}

	page, limit := pageParams(r)
	videos, total, err := h.Videos.ListByCategory(ctx, category, page, limit)
	if err != nil {
		logging.FromContext(ctx).Error("category search failed", "category", category, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Search failed", err.Error())
		return
	}

	skip := (page - 1) * limit
	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"results":  publicVideoViews(videos),
		"category": category,
		"page":     page,
		"limit":    limit,
		"total":    total,
		"hasMore":  total > skip+len(videos),
	})
}

// Location handles GET /api/search/location?location=...
func (h SearchHandler) Location(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	location := r.URL.Query().Get("location")
	if location == "" {
		respondError(ctx, w, http.StatusBadRequest, "Location is required", "")
		return
	}

	page, limit := pageParams(r)
	videos, total, err := h.Videos.ListByLocation(ctx, location, page, limit)
	if err != nil {
		logging.FromContext(ctx).Error("location search failed", "location", location, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Search failed", err.Error())
		return
	}

	skip := (page - 1) * limit
	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"results":  publicVideoViews(videos),
		"location": location,
		"page":     page,
		"limit":    limit,
		"total":    total,
		"hasMore":  total > skip+len(videos),
	})
}

// Trending handles GET /api/search/trending.
func (h SearchHandler) Trending(w http.ResponseWriter, r *http.Request) {
	respondJSON(r.Context(), w, http.StatusOK, map[string]any{
		"trending": search.Trending(),
	})
}

// Suggestions handles GET /api/search/suggestions: autocomplete over
// stored statements and keywords.
func (h SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query().Get("q")
	suggestions, err := h.Search.Suggestions(ctx, query)
	if err != nil {
		logging.FromContext(ctx).Error("suggestions failed", "query", query, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to get suggestions", err.Error())
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"suggestions": suggestions,
	})
}
