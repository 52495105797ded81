package handlers

import (
	"context"
	"time"

	"github.com/BYMO9/griboul/internal/ai"
	"github.com/BYMO9/griboul/internal/db"
	"github.com/BYMO9/griboul/internal/models"
	"github.com/BYMO9/griboul/internal/repositories"
)

// UserStore captures the persistence operations required by the user handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByUID(ctx context.Context, uid string) (models.User, error)
	Update(ctx context.Context, uid string, update repositories.ProfileUpdate) (models.User, error)
	Touch(ctx context.Context, uid string) (models.User, error)
	CompleteOnboarding(ctx context.Context, uid, introVideoURL string) (models.User, error)
	AdjustVideoCount(ctx context.Context, uid string, delta int) error
	FindNearby(ctx context.Context, location string, limit int) ([]models.User, error)
	Deactivate(ctx context.Context, uid string) error
}

// VideoStore captures persistence for posted video updates.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) (models.Video, error)
	FindByID(ctx context.Context, id string) (repositories.VideoWithOwner, error)
	Feed(ctx context.Context, opts repositories.FeedOptions) ([]repositories.VideoWithOwner, int, error)
	ListByUser(ctx context.Context, userID string, includePrivate bool, page, limit int) ([]models.Video, int, error)
	ApplyStatus(ctx context.Context, id string, update repositories.VideoStatusUpdate) (models.Video, error)
	IncrementViews(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) error
	ListByCategory(ctx context.Context, category string, page, limit int) ([]repositories.VideoWithOwner, int, error)
	ListByLocation(ctx context.Context, location string, page, limit int) ([]repositories.VideoWithOwner, int, error)
}

// VideoProcessor runs the AI pipeline for a transcript.
type VideoProcessor interface {
	Process(ctx context.Context, video models.Video, owner models.User, transcript string) (ai.Result, error)
}

// ProfileExtractor pulls structured user info from an intro transcript.
type ProfileExtractor interface {
	ExtractProfile(ctx context.Context, transcript string) (ai.Profile, error)
}

// Transcriber converts a stored video into a transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, videoURL string) (string, error)
}

// UploadSigner issues presigned upload URLs for direct client uploads.
type UploadSigner interface {
	PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	ObjectURL(key string) string
}

// SearchService ranks stored statements against caller queries.
type SearchService interface {
	Descriptive(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
	Text(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
	Suggestions(ctx context.Context, prefix string) ([]string, error)
}

// HealthChecker probes database connectivity for the health endpoint.
type HealthChecker interface {
	Check(ctx context.Context) db.Status
}
