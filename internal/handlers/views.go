package handlers

import (
	"time"

	"github.com/BYMO9/griboul/internal/models"
	"github.com/BYMO9/griboul/internal/repositories"
)

// fullUser is the owner's complete view of their own profile.
type fullUser struct {
	UID                    string                      `json:"uid"`
	Email                  string                      `json:"email"`
	Name                   string                      `json:"name"`
	Age                    int                         `json:"age,omitempty"`
	Location               string                      `json:"location,omitempty"`
	Building               string                      `json:"building,omitempty"`
	ProfileVideoURL        string                      `json:"profileVideoUrl,omitempty"`
	MiniStatement          string                      `json:"miniStatement,omitempty"`
	Provider               string                      `json:"provider"`
	HasCompletedOnboarding bool                        `json:"hasCompletedOnboarding"`
	IsPrivate              bool                        `json:"isPrivate"`
	VideoCount             int                         `json:"videoCount"`
	TotalViews             int                         `json:"totalViews"`
	ConnectionCount        int                         `json:"connectionCount"`
	Notifications          models.NotificationSettings `json:"notifications"`
	IsActive               bool                        `json:"isActive"`
	LastActiveAt           time.Time                   `json:"lastActiveAt"`
	CreatedAt              time.Time                   `json:"createdAt"`
	UpdatedAt              time.Time                   `json:"updatedAt"`
}

func ownUserView(u models.User) fullUser {
	return fullUser{
		UID:                    u.UID,
		Email:                  u.Email,
		Name:                   u.Name,
		Age:                    u.Age,
		Location:               u.Location,
		Building:               u.Building,
		ProfileVideoURL:        u.ProfileVideoURL,
		MiniStatement:          u.MiniStatement,
		Provider:               u.Provider,
		HasCompletedOnboarding: u.HasCompletedOnboarding,
		IsPrivate:              u.IsPrivate,
		VideoCount:             u.VideoCount,
		TotalViews:             u.TotalViews,
		ConnectionCount:        u.ConnectionCount,
		Notifications:          u.Notifications,
		IsActive:               u.IsActive,
		LastActiveAt:           u.LastActiveAt,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
}

func publicVideoViews(results []repositories.VideoWithOwner) []models.PublicVideo {
	views := make([]models.PublicVideo, 0, len(results))
	for _, result := range results {
		owner := result.Owner
		views = append(views, result.Video.Public(&owner))
	}
	return views
}
