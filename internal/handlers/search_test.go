package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BYMO9/griboul/internal/models"
	"github.com/BYMO9/griboul/internal/repositories"
)

func TestSearchHandlerDescriptive(t *testing.T) {
	service := &stubSearchService{
		results: []models.SearchResult{
			{Statement: "Debugging payments at 2am", Similarity: 0.91},
		},
	}
	handler := SearchHandler{Search: service, Videos: newStubVideoStore()}

	req := newRequest(http.MethodGet, "/api/search/descriptive?q=ab", "", nil, nil)
	rec := httptest.NewRecorder()
	handler.Descriptive(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short query, got %d", rec.Code)
	}

	req = newRequest(http.MethodGet, "/api/search/descriptive?q=%20%20a%20", "", nil, nil)
	rec = httptest.NewRecorder()
	handler.Descriptive(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for whitespace-padded short query, got %d", rec.Code)
	}

	req = newRequest(http.MethodGet, "/api/search/descriptive?q=founders+debugging&limit=5", "", nil, nil)
	rec = httptest.NewRecorder()
	handler.Descriptive(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if service.gotQuery != "founders debugging" || service.gotLimit != 5 {
		t.Fatalf("unexpected service call: %q limit %d", service.gotQuery, service.gotLimit)
	}

	body := decodeBody(t, rec)
	if body["total"] != float64(1) || body["query"] != "founders debugging" {
		t.Fatalf("unexpected envelope %v", body)
	}
	results := body["results"].([]any)
	first := results[0].(map[string]any)
	if first["miniStatement"] != "Debugging payments at 2am" {
		t.Fatalf("unexpected result %v", first)
	}
}

func TestSearchHandlerText(t *testing.T) {
	service := &stubSearchService{}
	handler := SearchHandler{Search: service, Videos: newStubVideoStore()}

	req := newRequest(http.MethodGet, "/api/search/text?q=payments", "", nil, nil)
	rec := httptest.NewRecorder()
	handler.Text(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["total"] != float64(0) {
		t.Fatalf("expected empty result envelope, got %v", body)
	}
}

func TestSearchHandlerCategory(t *testing.T) {
	videos := newStubVideoStore(repositories.VideoWithOwner{
		Video: models.Video{
			ID: "v-1", Status: models.StatusReady, IsActive: true,
			Categories: []string{"debugging"},
		},
		Owner: models.OwnerSummary{Name: "Maya"},
	})
	handler := SearchHandler{Search: &stubSearchService{}, Videos: videos}

	req := newRequest(http.MethodGet, "/api/search/category", "", nil, nil)
	rec := httptest.NewRecorder()
	handler.Category(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without category, got %d", rec.Code)
	}

	req = newRequest(http.MethodGet, "/api/search/category?category=debugging", "", nil, nil)
	rec = httptest.NewRecorder()
	handler.Category(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["category"] != "debugging" || body["total"] != float64(1) {
		t.Fatalf("unexpected envelope %v", body)
	}
	if body["hasMore"] != false {
		t.Fatalf("expected hasMore false, got %v", body["hasMore"])
	}
}

func TestSearchHandlerLocation(t *testing.T) {
	videos := newStubVideoStore(repositories.VideoWithOwner{
		Video: models.Video{
			ID: "v-1", Status: models.StatusReady, IsActive: true, Location: "Lagos, Nigeria",
		},
	})
	handler := SearchHandler{Search: &stubSearchService{}, Videos: videos}

	req := newRequest(http.MethodGet, "/api/search/location", "", nil, nil)
	rec := httptest.NewRecorder()
	handler.Location(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without location, got %d", rec.Code)
	}

	req = newRequest(http.MethodGet, "/api/search/location?location=lagos", "", nil, nil)
	rec = httptest.NewRecorder()
	handler.Location(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["total"] != float64(1) || body["location"] != "lagos" {
		t.Fatalf("unexpected envelope %v", body)
	}
}

func TestSearchHandlerTrending(t *testing.T) {
	handler := SearchHandler{Search: &stubSearchService{}, Videos: newStubVideoStore()}

	req := newRequest(http.MethodGet, "/api/search/trending", "", nil, nil)
	rec := httptest.NewRecorder()
	handler.Trending(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	trending := body["trending"].([]any)
	if len(trending) != 10 {
		t.Fatalf("expected 10 trending searches, got %d", len(trending))
	}
}

func TestSearchHandlerSuggestions(t *testing.T) {
	service := &stubSearchService{suggestions: []string{"debugging payments", "debugging auth"}}
	handler := SearchHandler{Search: service, Videos: newStubVideoStore()}

	req := newRequest(http.MethodGet, "/api/search/suggestions?q=deb", "", nil, nil)
	rec := httptest.NewRecorder()
	handler.Suggestions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if got := len(body["suggestions"].([]any)); got != 2 {
		t.Fatalf("expected 2 suggestions, got %d", got)
	}

	// nil from the service still serializes as an empty list.
	service.suggestions = nil
	rec = httptest.NewRecorder()
	handler.Suggestions(rec, newRequest(http.MethodGet, "/api/search/suggestions?q=x", "", nil, nil))
	body = decodeBody(t, rec)
	if body["suggestions"] == nil {
		t.Fatal("expected empty array, not null")
	}
}
