package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/BYMO9/griboul/internal/logging"
)

// errorResponse is the uniform error envelope for every endpoint.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

func respondError(ctx context.Context, w http.ResponseWriter, status int, errText, message string) {
	respondJSON(ctx, w, status, errorResponse{Error: errText, Message: message})
}

// pagination is the offset-based page envelope shared by list endpoints.
type pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// paginate computes hasMore = total > skip + returned count, which holds
// for every page shape including a short final page.
func paginate(page, limit, total, count int) pagination {
	skip := (page - 1) * limit
	return pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasMore: total > skip+count,
	}
}

// pageParams reads page/limit query parameters with defaults and bounds.
func pageParams(r *http.Request) (page, limit int) {
	page, limit = 1, 20

	if v := r.URL.Query().Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	return page, limit
}
