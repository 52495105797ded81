package models

import "time"

// EmbeddingDim is the fixed dimensionality of statement embeddings
// (text-embedding-ada-002).
const EmbeddingDim = 1536

// Video duration bounds in seconds.
const (
	MinVideoDuration = 1
	MaxVideoDuration = 300
)

// Video processing states.
const (
	StatusProcessing = "processing"
	StatusReady      = "ready"
	StatusFailed     = "failed"
)

// VideoCategories enumerates the AI-detected categories a video may carry.
var VideoCategories = []string{"building", "debugging", "launched", "pivot", "struggle", "win", "update"}

// VideoMoods enumerates the AI-detected moods.
var VideoMoods = []string{"excited", "frustrated", "hopeful", "tired", "celebrating", "focused", "neutral"}

// NotificationSettings controls which notifications a user receives.
type NotificationSettings struct {
	DailyReminder bool `json:"dailyReminder"`
	Messages      bool `json:"messages"`
	EmailUpdates  bool `json:"emailUpdates"`
}

// DefaultNotificationSettings mirrors the defaults applied on signup.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{DailyReminder: true, Messages: true, EmailUpdates: false}
}

// User represents a builder account. The UID comes from the external
// identity provider; ID is the internal record identifier.
type User struct {
	ID                     string
	UID                    string
	Email                  string
	Name                   string
	Age                    int
	Location               string
	Building               string
	ProfileVideoURL        string
	MiniStatement          string
	Provider               string
	HasCompletedOnboarding bool
	IsPrivate              bool
	VideoCount             int
	TotalViews             int
	ConnectionCount        int
	Notifications          NotificationSettings
	IsActive               bool
	LastActiveAt           time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// PublicUser is the projection of a profile visible to other callers.
type PublicUser struct {
	UID             string    `json:"uid"`
	Name            string    `json:"name"`
	Location        string    `json:"location,omitempty"`
	Building        string    `json:"building,omitempty"`
	MiniStatement   string    `json:"miniStatement,omitempty"`
	VideoCount      int       `json:"videoCount"`
	ConnectionCount int       `json:"connectionCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Public returns the projection safe to expose to non-owners.
func (u User) Public() PublicUser {
	return PublicUser{
		UID:             u.UID,
		Name:            u.Name,
		Location:        u.Location,
		Building:        u.Building,
		MiniStatement:   u.MiniStatement,
		VideoCount:      u.VideoCount,
		ConnectionCount: u.ConnectionCount,
		CreatedAt:       u.CreatedAt,
	}
}

// OwnerSummary is the slice of a profile attached to feed and search results.
type OwnerSummary struct {
	Name          string `json:"name"`
	Location      string `json:"location,omitempty"`
	Building      string `json:"building,omitempty"`
	MiniStatement string `json:"miniStatement,omitempty"`
}

// Video represents a posted update. Location is a snapshot of the
// owner's location at posting time.
type Video struct {
	ID              string
	UserID          string
	VideoURL        string
	ThumbnailURL    string
	Duration        int
	MiniStatement   string
	Transcript      string
	Prompt          string
	IsPrivate       bool
	Location        string
	Views           int
	Likes           int
	RecordedAt      time.Time
	Status          string
	ProcessingError string
	IsReported      bool
	IsActive        bool
	Categories      []string
	Mood            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PublicVideo is the projection returned by feeds and lookups.
type PublicVideo struct {
	ID            string        `json:"id"`
	VideoURL      string        `json:"videoUrl"`
	ThumbnailURL  string        `json:"thumbnailUrl,omitempty"`
	Duration      int           `json:"duration"`
	MiniStatement string        `json:"miniStatement,omitempty"`
	Location      string        `json:"location,omitempty"`
	Views         int           `json:"views"`
	Likes         int           `json:"likes"`
	Categories    []string      `json:"categories,omitempty"`
	Mood          string        `json:"mood,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	User          *OwnerSummary `json:"user,omitempty"`
}

// Public returns the projection safe to expose to viewers. The owner
// summary is attached only when provided.
func (v Video) Public(owner *OwnerSummary) PublicVideo {
	return PublicVideo{
		ID:            v.ID,
		VideoURL:      v.VideoURL,
		ThumbnailURL:  v.ThumbnailURL,
		Duration:      v.Duration,
		MiniStatement: v.MiniStatement,
		Location:      v.Location,
		Views:         v.Views,
		Likes:         v.Likes,
		Categories:    v.Categories,
		Mood:          v.Mood,
		CreatedAt:     v.CreatedAt,
		User:          owner,
	}
}

// Entities holds the structured attributes extracted from a transcript.
type Entities struct {
	Technologies []string `json:"technologies"`
	Challenges   []string `json:"challenges"`
	Emotions     []string `json:"emotions"`
	TimeOfDay    string   `json:"timeOfDay,omitempty"`
	Stage        string   `json:"stage,omitempty"`
}

// MiniStatement is the denormalized, searchable summary of a video.
// Records are append-only aside from the searchHits counter.
type MiniStatement struct {
	ID           string
	UserID       string
	VideoID      string
	Statement    string
	Embedding    []float32
	Entities     Entities
	Keywords     []string
	SearchHits   int
	QualityScore float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SearchResult is a ranked statement joined with its video and owner.
type SearchResult struct {
	Video      PublicVideo  `json:"video"`
	User       OwnerSummary `json:"user"`
	Statement  string       `json:"miniStatement"`
	Similarity float64      `json:"similarity,omitempty"`
	Entities   Entities     `json:"entities"`

	// StatementID is carried for search-hit accounting, not serialized.
	StatementID string `json:"-"`
}
