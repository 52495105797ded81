package repositories

import (
	"context"

	"github.com/BYMO9/griboul/internal/models"
)

// FeedOptions selects the slice of the public feed to return.
type FeedOptions struct {
	// Filter is "world" or "near"; "near" restricts to Location.
	Filter   string
	Location string
	// ExcludeUserID removes the caller's own videos when set.
	ExcludeUserID string
	Page          int
	Limit         int
}

// VideoWithOwner joins a video with the owner fields shown in feeds.
type VideoWithOwner struct {
	models.Video
	OwnerUID string
	Owner    models.OwnerSummary
}

// VideoStatusUpdate applies the outcome of AI processing. Nil fields are
// left untouched, mirroring field-presence update semantics.
type VideoStatusUpdate struct {
	Status          *string
	MiniStatement   *string
	Transcript      *string
	Categories      *[]string
	Mood            *string
	ProcessingError *string
}

// VideoRepository exposes data access for posted video updates.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) (models.Video, error)
	FindByID(ctx context.Context, id string) (VideoWithOwner, error)
	Feed(ctx context.Context, opts FeedOptions) ([]VideoWithOwner, int, error)
	ListByUser(ctx context.Context, userID string, includePrivate bool, page, limit int) ([]models.Video, int, error)
	ApplyStatus(ctx context.Context, id string, update VideoStatusUpdate) (models.Video, error)
	IncrementViews(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) error
	ListByCategory(ctx context.Context, category string, page, limit int) ([]VideoWithOwner, int, error)
	ListByLocation(ctx context.Context, location string, page, limit int) ([]VideoWithOwner, int, error)
}
