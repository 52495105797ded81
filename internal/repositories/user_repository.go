package repositories

import (
	"context"

	"github.com/BYMO9/griboul/internal/models"
)

// ProfileUpdate carries the client-modifiable profile fields. Only the
// fields enumerated here can ever be persisted from a request body; nil
// fields are left untouched.
type ProfileUpdate struct {
	Name                   *string
	Age                    *int
	Location               *string
	Building               *string
	MiniStatement          *string
	IsPrivate              *bool
	Notifications          *models.NotificationSettings
	HasCompletedOnboarding *bool
}

// UserRepository defines the data access contract for builder accounts.
type UserRepository interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByUID(ctx context.Context, uid string) (models.User, error)
	Update(ctx context.Context, uid string, update ProfileUpdate) (models.User, error)
	Touch(ctx context.Context, uid string) (models.User, error)
	CompleteOnboarding(ctx context.Context, uid, introVideoURL string) (models.User, error)
	AdjustVideoCount(ctx context.Context, uid string, delta int) error
	FindNearby(ctx context.Context, location string, limit int) ([]models.User, error)
	Deactivate(ctx context.Context, uid string) error
}
