package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/BYMO9/griboul/internal/ai"
	"github.com/BYMO9/griboul/internal/logging"
	"github.com/BYMO9/griboul/internal/models"
	"github.com/BYMO9/griboul/internal/repositories"
)

// AIHandler exposes the processing pipeline over HTTP. The internal
// upload flow runs the pipeline directly; these routes exist for
// client-driven retries and onboarding extraction.
type AIHandler struct {
	Users       UserStore
	Videos      VideoStore
	Processor   VideoProcessor
	Extractor   ProfileExtractor
	Transcriber Transcriber
}

type generateStatementRequest struct {
	VideoID    string `json:"videoId"`
	Transcript string `json:"transcript"`
}

// GenerateStatement handles POST /api/ai/generate-statement: runs the
// summary, analysis, and embedding stages for an already-transcribed video.
func (h AIHandler) GenerateStatement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req generateStatementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VideoID == "" || req.Transcript == "" {
		respondError(ctx, w, http.StatusBadRequest, "Video ID and transcript are required", "")
		return
	}

	video, owner, ok := h.loadVideoAndOwner(w, r, req.VideoID)
	if !ok {
		return
	}

	result, err := h.Processor.Process(ctx, video, owner, req.Transcript)
	if err != nil {
		logging.FromContext(ctx).Error("pipeline failed", "video_id", req.VideoID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to generate mini-statement", err.Error())
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"miniStatement": result.Statement,
		"analysis":      result.Analysis,
		"message":       "Mini-statement generated successfully",
	})
}

type extractUserInfoRequest struct {
	Transcript string `json:"transcript"`
	VideoURL   string `json:"videoUrl"`
}

// ExtractUserInfo handles POST /api/ai/extract-user-info: pulls profile
// fields and a mini-statement from an intro video transcript.
func (h AIHandler) ExtractUserInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req extractUserInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Transcript == "" {
		respondError(ctx, w, http.StatusBadRequest, "Transcript is required", "")
		return
	}

	profile, err := h.Extractor.ExtractProfile(ctx, req.Transcript)
	if err != nil {
		if errors.Is(err, ai.ErrUnparseable) {
			respondError(ctx, w, http.StatusInternalServerError, "Failed to extract user information", "")
			return
		}
		logging.FromContext(ctx).Error("profile extraction failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to extract user info", err.Error())
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"userInfo": profile,
		"message":  "User info extracted successfully",
	})
}

type transcribeRequest struct {
	VideoURL string `json:"videoUrl"`
}

// Transcribe handles POST /api/ai/transcribe.
func (h AIHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req transcribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VideoURL == "" {
		respondError(ctx, w, http.StatusBadRequest, "Video URL is required", "")
		return
	}

	transcript, err := h.Transcriber.Transcribe(ctx, req.VideoURL)
	if err != nil {
		logging.FromContext(ctx).Error("transcription failed", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to transcribe video", err.Error())
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{
		"transcript": transcript,
		"message":    "Video transcribed successfully",
	})
}

type processVideoRequest struct {
	VideoID  string `json:"videoId"`
	VideoURL string `json:"videoUrl"`
}

// ProcessVideo handles POST /api/ai/process-video: transcribes and then
// runs the full pipeline for a video in one call.
func (h AIHandler) ProcessVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req processVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VideoID == "" || req.VideoURL == "" {
		respondError(ctx, w, http.StatusBadRequest, "Video ID and URL are required", "")
		return
	}

	video, owner, ok := h.loadVideoAndOwner(w, r, req.VideoID)
	if !ok {
		return
	}

	// Retries restart from scratch, so reset the status first.
	processing := models.StatusProcessing
	if _, err := h.Videos.ApplyStatus(ctx, video.ID, repositories.VideoStatusUpdate{Status: &processing}); err != nil {
		logger.Error("failed to reset video status", "video_id", video.ID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to process video", err.Error())
		return
	}

	transcript, err := h.Transcriber.Transcribe(ctx, req.VideoURL)
	if err != nil {
		failed := models.StatusFailed
		message := err.Error()
		if _, applyErr := h.Videos.ApplyStatus(ctx, video.ID, repositories.VideoStatusUpdate{
			Status:          &failed,
			ProcessingError: &message,
		}); applyErr != nil {
			logger.Error("failed to record transcription failure", "video_id", video.ID, "error", applyErr)
		}
		respondError(ctx, w, http.StatusInternalServerError, "Failed to process video", err.Error())
		return
	}

	result, err := h.Processor.Process(ctx, video, owner, transcript)
	if err != nil {
		logger.Error("pipeline failed", "video_id", video.ID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to process video", err.Error())
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"message":       "Video processed successfully",
		"transcript":    transcript,
		"miniStatement": result.Statement,
		"analysis":      result.Analysis,
	})
}

// loadVideoAndOwner resolves a video and its owner, writing the error
// response itself when either lookup fails.
func (h AIHandler) loadVideoAndOwner(w http.ResponseWriter, r *http.Request, videoID string) (models.Video, models.User, bool) {
	ctx := r.Context()

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, repositories.ErrInvalidID) {
			respondError(ctx, w, http.StatusNotFound, "Video not found", "")
			return models.Video{}, models.User{}, false
		}
		logging.FromContext(ctx).Error("get video failed", "video_id", videoID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to get video", err.Error())
		return models.Video{}, models.User{}, false
	}

	owner, err := h.Users.FindByUID(ctx, video.OwnerUID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "User not found", "")
			return models.Video{}, models.User{}, false
		}
		logging.FromContext(ctx).Error("get owner failed", "uid", video.OwnerUID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to get video", err.Error())
		return models.Video{}, models.User{}, false
	}

	return video.Video, owner, true
}
