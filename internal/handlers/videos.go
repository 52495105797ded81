package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/BYMO9/griboul/internal/auth"
	"github.com/BYMO9/griboul/internal/logging"
	"github.com/BYMO9/griboul/internal/models"
	"github.com/BYMO9/griboul/internal/repositories"
)

// dailyPrompts rotates by day of year so every caller sees the same
// prompt on a given date.
var dailyPrompts = []string{
	"What's the hardest problem you faced today?",
	"Show us what you're building right now",
	"What small win are you celebrating?",
	"What's keeping you up at night?",
	"Share your workspace and current challenge",
	"What did you learn today?",
	"Show us your latest prototype",
	"What feedback did you get today?",
	"What's your biggest obstacle right now?",
	"Share a moment of clarity you had",
}

// VideoHandler implements the video upload, feed, and lifecycle endpoints.
type VideoHandler struct {
	Users     UserStore
	Videos    VideoStore
	Storage   UploadSigner
	UploadTTL time.Duration
	NowFunc   func() time.Time
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now()
}

type presignRequest struct {
	FileName string `json:"fileName"`
}

// PresignedURL handles POST /api/videos/presigned-url: issues a direct
// upload URL so video bytes never pass through this server.
func (h VideoHandler) PresignedURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized", "No token provided")
		return
	}

	var req presignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FileName == "" {
		respondError(ctx, w, http.StatusBadRequest, "Filename is required", "")
		return
	}

	key := fmt.Sprintf("videos/%s/%d_%s", identity.UID, h.now().UnixMilli(), req.FileName)

	uploadURL, err := h.Storage.PresignUpload(ctx, key, "video/mp4", h.UploadTTL)
	if err != nil {
		logging.FromContext(ctx).Error("presign upload failed", "key", key, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to generate upload URL", err.Error())
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{
		"uploadUrl": uploadURL,
		"videoUrl":  h.Storage.ObjectURL(key),
		"key":       key,
	})
}

type uploadCompleteRequest struct {
	VideoURL     string `json:"videoUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Duration     int    `json:"duration"`
	Prompt       string `json:"prompt"`
	IsPrivate    bool   `json:"isPrivate"`
	Location     string `json:"location"`
}

// UploadComplete handles POST /api/videos/upload-complete: records the
// uploaded video and leaves it in the processing state for the pipeline.
func (h VideoHandler) UploadComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized", "No token provided")
		return
	}

	var req uploadCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.VideoURL == "" || req.Duration == 0 {
		respondError(ctx, w, http.StatusBadRequest, "Video URL and duration are required", "")
		return
	}
	if req.Duration < models.MinVideoDuration || req.Duration > models.MaxVideoDuration {
		respondError(ctx, w, http.StatusBadRequest, "Validation Error",
			fmt.Sprintf("duration must be between %d and %d seconds", models.MinVideoDuration, models.MaxVideoDuration))
		return
	}

	user, err := h.Users.FindByUID(ctx, identity.UID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "User not found", "")
			return
		}
		logger.Error("lookup uploader failed", "uid", identity.UID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to complete upload", err.Error())
		return
	}

	location := req.Location
	if location == "" {
		location = user.Location
	}
	if location == "" {
		location = "Unknown"
	}

	now := h.now()
	video, err := h.Videos.Create(ctx, models.Video{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
		Duration:     req.Duration,
		Prompt:       req.Prompt,
		IsPrivate:    req.IsPrivate,
		Location:     location,
		RecordedAt:   now,
		Status:       models.StatusProcessing,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		logger.Error("create video failed", "uid", identity.UID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to complete upload", err.Error())
		return
	}

	if err := h.Users.AdjustVideoCount(ctx, identity.UID, 1); err != nil {
		logger.Warn("failed to bump video count", "uid", identity.UID, "error", err)
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"message": "Video uploaded successfully",
		"video":   video.Public(nil),
		"videoId": video.ID,
	})
}

// Feed handles GET /api/videos/feed. The near filter scopes to the
// caller's location, and authenticated callers never see their own posts.
func (h VideoHandler) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, limit := pageParams(r)

	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = "world"
	}

	opts := repositories.FeedOptions{
		Filter: filter,
		Page:   page,
		Limit:  limit,
	}

	if identity, ok := auth.IdentityFromContext(ctx); ok {
		user, err := h.Users.FindByUID(ctx, identity.UID)
		if err == nil {
			opts.Location = user.Location
			opts.ExcludeUserID = user.ID
		}
	}

	videos, total, err := h.Videos.Feed(ctx, opts)
	if err != nil {
		logging.FromContext(ctx).Error("feed query failed", "filter", filter, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to get feed", err.Error())
		return
	}

	skip := (page - 1) * limit
	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"videos":  publicVideoViews(videos),
		"page":    page,
		"limit":   limit,
		"total":   total,
		"hasMore": total > skip+len(videos),
	})
}

// Get handles GET /api/videos/{videoId}. Private videos are only served
// to their owner; every successful lookup counts a view.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["videoId"]

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil || !video.IsActive {
		if err != nil && !errors.Is(err, repositories.ErrNotFound) && !errors.Is(err, repositories.ErrInvalidID) {
			logging.FromContext(ctx).Error("get video failed", "video_id", id, "error", err)
			respondError(ctx, w, http.StatusInternalServerError, "Failed to get video", err.Error())
			return
		}
		respondError(ctx, w, http.StatusNotFound, "Video not found", "")
		return
	}

	if video.IsPrivate {
		identity, ok := auth.IdentityFromContext(ctx)
		if !ok || identity.UID != video.OwnerUID {
			respondError(ctx, w, http.StatusForbidden, "This video is private", "")
			return
		}
	}

	if err := h.Videos.IncrementViews(ctx, video.ID); err != nil {
		logging.FromContext(ctx).Warn("failed to count view", "video_id", video.ID, "error", err)
	}

	owner := video.Owner
	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"video": video.Video.Public(&owner),
	})
}

type statusUpdateRequest struct {
	Status          *string   `json:"status"`
	MiniStatement   *string   `json:"miniStatement"`
	Transcript      *string   `json:"transcript"`
	Categories      *[]string `json:"categories"`
	Mood            *string   `json:"mood"`
	ProcessingError *string   `json:"processingError"`
}

// UpdateStatus handles PUT /api/videos/{videoId}/status, used by the
// processing pipeline and owner-driven corrections.
func (h VideoHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["videoId"]

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized", "No token provided")
		return
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Status != nil {
		switch *req.Status {
		case models.StatusProcessing, models.StatusReady, models.StatusFailed:
		default:
			respondError(ctx, w, http.StatusBadRequest, "Validation Error", "invalid status value")
			return
		}
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, repositories.ErrInvalidID) {
			respondError(ctx, w, http.StatusNotFound, "Video not found", "")
			return
		}
		logging.FromContext(ctx).Error("get video failed", "video_id", id, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to update video", err.Error())
		return
	}

	if video.OwnerUID != identity.UID {
		respondError(ctx, w, http.StatusForbidden, "You can only update your own videos", "")
		return
	}

	updated, err := h.Videos.ApplyStatus(ctx, id, repositories.VideoStatusUpdate{
		Status:          req.Status,
		MiniStatement:   req.MiniStatement,
		Transcript:      req.Transcript,
		Categories:      req.Categories,
		Mood:            req.Mood,
		ProcessingError: req.ProcessingError,
	})
	if err != nil {
		logging.FromContext(ctx).Error("update video status failed", "video_id", id, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to update video", err.Error())
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"message": "Video updated successfully",
		"video":   updated.Public(nil),
	})
}

// Delete handles DELETE /api/videos/{videoId}: soft delete by the owner.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["videoId"]

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized", "No token provided")
		return
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, repositories.ErrInvalidID) {
			respondError(ctx, w, http.StatusNotFound, "Video not found", "")
			return
		}
		logging.FromContext(ctx).Error("get video failed", "video_id", id, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to delete video", err.Error())
		return
	}

	if video.OwnerUID != identity.UID {
		respondError(ctx, w, http.StatusForbidden, "You can only delete your own videos", "")
		return
	}

	if err := h.Videos.Deactivate(ctx, video.ID); err != nil {
		logging.FromContext(ctx).Error("deactivate video failed", "video_id", video.ID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to delete video", err.Error())
		return
	}

	if err := h.Users.AdjustVideoCount(ctx, identity.UID, -1); err != nil {
		logging.FromContext(ctx).Warn("failed to lower video count", "uid", identity.UID, "error", err)
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{
		"message": "Video deleted successfully",
	})
}

// DailyPrompt handles GET /api/videos/prompt/daily.
func (h VideoHandler) DailyPrompt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	today := h.now()

	respondJSON(ctx, w, http.StatusOK, map[string]string{
		"prompt": dailyPrompts[today.YearDay()%len(dailyPrompts)],
		"date":   today.Format("2006-01-02"),
	})
}
