package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BYMO9/griboul/internal/ai"
	"github.com/BYMO9/griboul/internal/models"
	"github.com/BYMO9/griboul/internal/repositories"
)

func aiFixtures() (*stubUserStore, *stubVideoStore) {
	users := newStubUserStore(models.User{
		ID: "u-1", UID: "test-user-123", Name: "Maya", Location: "Berlin, Germany", IsActive: true,
	})
	videos := newStubVideoStore(repositories.VideoWithOwner{
		Video: models.Video{
			ID: "v-1", UserID: "u-1",
			Status: models.StatusProcessing, IsActive: true,
		},
		OwnerUID: "test-user-123",
	})
	return users, videos
}

func TestAIGenerateStatement(t *testing.T) {
	users, videos := aiFixtures()
	processor := &stubProcessor{result: ai.Result{
		Statement: "Shipping payments retry logic at midnight",
		Analysis:  ai.Analysis{Mood: "energized", Stage: "building"},
	}}
	handler := AIHandler{Users: users, Videos: videos, Processor: processor}

	rec := httptest.NewRecorder()
	handler.GenerateStatement(rec, newRequest(http.MethodPost, "/api/ai/generate-statement",
		`{"videoId":"v-1"}`, &testIdentity, nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without transcript, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.GenerateStatement(rec, newRequest(http.MethodPost, "/api/ai/generate-statement",
		`{"videoId":"missing","transcript":"hello"}`, &testIdentity, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown video, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.GenerateStatement(rec, newRequest(http.MethodPost, "/api/ai/generate-statement",
		`{"videoId":"v-1","transcript":"worked on payments all night"}`, &testIdentity, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if processor.gotTranscript != "worked on payments all night" || processor.gotVideo.ID != "v-1" {
		t.Fatalf("processor called with %q for video %q", processor.gotTranscript, processor.gotVideo.ID)
	}
	body := decodeBody(t, rec)
	if body["miniStatement"] != "Shipping payments retry logic at midnight" {
		t.Fatalf("unexpected statement %v", body["miniStatement"])
	}
	analysis := body["analysis"].(map[string]any)
	if analysis["mood"] != "energized" {
		t.Fatalf("unexpected analysis %v", analysis)
	}
}

func TestAIGenerateStatementPipelineFailure(t *testing.T) {
	users, videos := aiFixtures()
	processor := &stubProcessor{err: errors.New("summarize: provider unavailable")}
	handler := AIHandler{Users: users, Videos: videos, Processor: processor}

	rec := httptest.NewRecorder()
	handler.GenerateStatement(rec, newRequest(http.MethodPost, "/api/ai/generate-statement",
		`{"videoId":"v-1","transcript":"hello"}`, &testIdentity, nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Failed to generate mini-statement" {
		t.Fatalf("unexpected error %v", body["error"])
	}
}

func TestAIExtractUserInfo(t *testing.T) {
	name := "Maya"
	age := 29
	extractor := stubExtractor{profile: ai.Profile{
		Name: &name, Age: &age, MiniStatement: "Building a fintech app",
	}}
	handler := AIHandler{Extractor: extractor}

	rec := httptest.NewRecorder()
	handler.ExtractUserInfo(rec, newRequest(http.MethodPost, "/api/ai/extract-user-info",
		`{"videoUrl":"https://cdn.example.com/intro.mp4"}`, &testIdentity, nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without transcript, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ExtractUserInfo(rec, newRequest(http.MethodPost, "/api/ai/extract-user-info",
		`{"transcript":"hi, I am Maya, 29, building a fintech app"}`, &testIdentity, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	info := body["userInfo"].(map[string]any)
	if info["name"] != "Maya" || info["age"] != float64(29) {
		t.Fatalf("unexpected userInfo %v", info)
	}
	if info["location"] != nil {
		t.Fatalf("expected null location, got %v", info["location"])
	}
}

func TestAIExtractUserInfoUnparseable(t *testing.T) {
	handler := AIHandler{Extractor: stubExtractor{err: ai.ErrUnparseable}}

	rec := httptest.NewRecorder()
	handler.ExtractUserInfo(rec, newRequest(http.MethodPost, "/api/ai/extract-user-info",
		`{"transcript":"something"}`, &testIdentity, nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Failed to extract user information" {
		t.Fatalf("unexpected error %v", body["error"])
	}
}

func TestAITranscribe(t *testing.T) {
	handler := AIHandler{Transcriber: stubTranscriber{transcript: "today I shipped the feed"}}

	rec := httptest.NewRecorder()
	handler.Transcribe(rec, newRequest(http.MethodPost, "/api/ai/transcribe", `{}`, &testIdentity, nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without videoUrl, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Transcribe(rec, newRequest(http.MethodPost, "/api/ai/transcribe",
		`{"videoUrl":"https://cdn.example.com/v.mp4"}`, &testIdentity, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["transcript"] != "today I shipped the feed" {
		t.Fatalf("unexpected transcript %v", body["transcript"])
	}
}

func TestAIProcessVideo(t *testing.T) {
	users, videos := aiFixtures()
	processor := &stubProcessor{result: ai.Result{Statement: "Debugging the feed ranker"}}
	handler := AIHandler{
		Users:       users,
		Videos:      videos,
		Processor:   processor,
		Transcriber: stubTranscriber{transcript: "spent the day on the ranker"},
	}

	rec := httptest.NewRecorder()
	handler.ProcessVideo(rec, newRequest(http.MethodPost, "/api/ai/process-video",
		`{"videoId":"v-1","videoUrl":"https://cdn.example.com/v.mp4"}`, &testIdentity, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if processor.gotTranscript != "spent the day on the ranker" {
		t.Fatalf("pipeline got transcript %q", processor.gotTranscript)
	}
	body := decodeBody(t, rec)
	if body["miniStatement"] != "Debugging the feed ranker" || body["transcript"] != "spent the day on the ranker" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestAIProcessVideoTranscriptionFailureMarksFailed(t *testing.T) {
	users, videos := aiFixtures()
	handler := AIHandler{
		Users:       users,
		Videos:      videos,
		Processor:   &stubProcessor{},
		Transcriber: stubTranscriber{err: errors.New("download timed out")},
	}

	rec := httptest.NewRecorder()
	handler.ProcessVideo(rec, newRequest(http.MethodPost, "/api/ai/process-video",
		`{"videoId":"v-1","videoUrl":"https://cdn.example.com/v.mp4"}`, &testIdentity, nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if videos.lastStatusID != "v-1" {
		t.Fatalf("expected status update for v-1, got %q", videos.lastStatusID)
	}
	if videos.lastStatus.Status == nil || *videos.lastStatus.Status != models.StatusFailed {
		t.Fatal("expected video marked failed")
	}
	if videos.lastStatus.ProcessingError == nil || *videos.lastStatus.ProcessingError != "download timed out" {
		t.Fatalf("expected processing error recorded, got %v", videos.lastStatus.ProcessingError)
	}
}
