package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/BYMO9/griboul/internal/ai"
	"github.com/BYMO9/griboul/internal/auth"
	"github.com/BYMO9/griboul/internal/db"
	"github.com/BYMO9/griboul/internal/models"
	"github.com/BYMO9/griboul/internal/repositories"
)

type stubUserStore struct {
	users     map[string]models.User
	counts    map[string]int
	createErr error
	updateErr error

	touched     []string
	deactivated []string
	nearby      []models.User
}

func newStubUserStore(users ...models.User) *stubUserStore {
	s := &stubUserStore{users: map[string]models.User{}, counts: map[string]int{}}
	for _, u := range users {
		s.users[u.UID] = u
	}
	return s
}

func (s *stubUserStore) Create(_ context.Context, user models.User) (models.User, error) {
	if s.createErr != nil {
		return models.User{}, s.createErr
	}
	if _, ok := s.users[user.UID]; ok {
		return models.User{}, repositories.ErrConflict
	}
	user.IsActive = true
	s.users[user.UID] = user
	return user, nil
}

func (s *stubUserStore) FindByUID(_ context.Context, uid string) (models.User, error) {
	user, ok := s.users[uid]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *stubUserStore) Update(_ context.Context, uid string, update repositories.ProfileUpdate) (models.User, error) {
	if s.updateErr != nil {
		return models.User{}, s.updateErr
	}
	user, ok := s.users[uid]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Age != nil {
		user.Age = *update.Age
	}
	if update.Location != nil {
		user.Location = *update.Location
	}
	if update.Building != nil {
		user.Building = *update.Building
	}
	if update.MiniStatement != nil {
		user.MiniStatement = *update.MiniStatement
	}
	if update.IsPrivate != nil {
		user.IsPrivate = *update.IsPrivate
	}
	if update.Notifications != nil {
		user.Notifications = *update.Notifications
	}
	if update.HasCompletedOnboarding != nil {
		user.HasCompletedOnboarding = *update.HasCompletedOnboarding
	}
	s.users[uid] = user
	return user, nil
}

func (s *stubUserStore) Touch(_ context.Context, uid string) (models.User, error) {
	user, ok := s.users[uid]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	user.LastActiveAt = time.Now().UTC()
	s.users[uid] = user
	s.touched = append(s.touched, uid)
	return user, nil
}

func (s *stubUserStore) CompleteOnboarding(_ context.Context, uid, introVideoURL string) (models.User, error) {
	user, ok := s.users[uid]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	user.HasCompletedOnboarding = true
	user.ProfileVideoURL = introVideoURL
	s.users[uid] = user
	return user, nil
}

func (s *stubUserStore) AdjustVideoCount(_ context.Context, uid string, delta int) error {
	if _, ok := s.users[uid]; !ok {
		return repositories.ErrNotFound
	}
	s.counts[uid] += delta
	if s.counts[uid] < 0 {
		s.counts[uid] = 0
	}
	return nil
}

func (s *stubUserStore) FindNearby(_ context.Context, location string, limit int) ([]models.User, error) {
	if s.nearby != nil {
		return s.nearby, nil
	}
	var matches []models.User
	for _, user := range s.users {
		if len(matches) == limit {
			break
		}
		if user.IsActive && !user.IsPrivate && strings.Contains(strings.ToLower(user.Location), strings.ToLower(location)) {
			matches = append(matches, user)
		}
	}
	return matches, nil
}

func (s *stubUserStore) Deactivate(_ context.Context, uid string) error {
	user, ok := s.users[uid]
	if !ok {
		return repositories.ErrNotFound
	}
	user.IsActive = false
	s.users[uid] = user
	s.deactivated = append(s.deactivated, uid)
	return nil
}

type stubVideoStore struct {
	videos    map[string]repositories.VideoWithOwner
	feed      []repositories.VideoWithOwner
	feedTotal int
	feedOpts  repositories.FeedOptions
	createErr error

	lastStatusID string
	lastStatus   repositories.VideoStatusUpdate
	views        map[string]int
	deactivated  []string
}

func newStubVideoStore(videos ...repositories.VideoWithOwner) *stubVideoStore {
	s := &stubVideoStore{videos: map[string]repositories.VideoWithOwner{}, views: map[string]int{}}
	for _, v := range videos {
		s.videos[v.ID] = v
	}
	return s
}

func (s *stubVideoStore) Create(_ context.Context, video models.Video) (models.Video, error) {
	if s.createErr != nil {
		return models.Video{}, s.createErr
	}
	if video.Status == "" {
		video.Status = models.StatusProcessing
	}
	s.videos[video.ID] = repositories.VideoWithOwner{Video: video}
	return video, nil
}

func (s *stubVideoStore) FindByID(_ context.Context, id string) (repositories.VideoWithOwner, error) {
	video, ok := s.videos[id]
	if !ok {
		return repositories.VideoWithOwner{}, repositories.ErrNotFound
	}
	return video, nil
}

func (s *stubVideoStore) Feed(_ context.Context, opts repositories.FeedOptions) ([]repositories.VideoWithOwner, int, error) {
	s.feedOpts = opts
	return s.feed, s.feedTotal, nil
}

func (s *stubVideoStore) ListByUser(_ context.Context, userID string, includePrivate bool, page, limit int) ([]models.Video, int, error) {
	var matches []models.Video
	for _, v := range s.videos {
		if v.UserID != userID || !v.IsActive || v.Status != models.StatusReady {
			continue
		}
		if v.IsPrivate && !includePrivate {
			continue
		}
		matches = append(matches, v.Video)
	}
	return matches, len(matches), nil
}

func (s *stubVideoStore) ApplyStatus(_ context.Context, id string, update repositories.VideoStatusUpdate) (models.Video, error) {
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	s.lastStatusID = id
	s.lastStatus = update
	if update.Status != nil {
		video.Status = *update.Status
	}
	if update.MiniStatement != nil {
		video.MiniStatement = *update.MiniStatement
	}
	if update.Mood != nil {
		video.Mood = *update.Mood
	}
	if update.ProcessingError != nil {
		video.ProcessingError = *update.ProcessingError
	}
	s.videos[id] = video
	return video.Video, nil
}

func (s *stubVideoStore) IncrementViews(_ context.Context, id string) error {
	if _, ok := s.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	s.views[id]++
	return nil
}

func (s *stubVideoStore) Deactivate(_ context.Context, id string) error {
	video, ok := s.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.IsActive = false
	s.videos[id] = video
	s.deactivated = append(s.deactivated, id)
	return nil
}

func (s *stubVideoStore) ListByCategory(_ context.Context, category string, page, limit int) ([]repositories.VideoWithOwner, int, error) {
	var matches []repositories.VideoWithOwner
	for _, v := range s.videos {
		for _, c := range v.Categories {
			if c == category {
				matches = append(matches, v)
				break
			}
		}
	}
	return matches, len(matches), nil
}

func (s *stubVideoStore) ListByLocation(_ context.Context, location string, page, limit int) ([]repositories.VideoWithOwner, int, error) {
	var matches []repositories.VideoWithOwner
	for _, v := range s.videos {
		if strings.Contains(strings.ToLower(v.Location), strings.ToLower(location)) {
			matches = append(matches, v)
		}
	}
	return matches, len(matches), nil
}

type stubProcessor struct {
	result ai.Result
	err    error

	gotVideo      models.Video
	gotTranscript string
}

func (s *stubProcessor) Process(_ context.Context, video models.Video, owner models.User, transcript string) (ai.Result, error) {
	s.gotVideo = video
	s.gotTranscript = transcript
	return s.result, s.err
}

type stubExtractor struct {
	profile ai.Profile
	err     error
}

func (s stubExtractor) ExtractProfile(context.Context, string) (ai.Profile, error) {
	return s.profile, s.err
}

type stubTranscriber struct {
	transcript string
	err        error
}

func (s stubTranscriber) Transcribe(context.Context, string) (string, error) {
	return s.transcript, s.err
}

type stubSigner struct {
	url string
	err error

	gotKey         string
	gotContentType string
	gotExpires     time.Duration
}

func (s *stubSigner) PresignUpload(_ context.Context, key, contentType string, expires time.Duration) (string, error) {
	s.gotKey = key
	s.gotContentType = contentType
	s.gotExpires = expires
	return s.url, s.err
}

func (s *stubSigner) ObjectURL(key string) string {
	return "https://cdn.example.com/" + key
}

type stubSearchService struct {
	results     []models.SearchResult
	suggestions []string
	err         error

	gotQuery string
	gotLimit int
}

func (s *stubSearchService) Descriptive(_ context.Context, query string, limit int) ([]models.SearchResult, error) {
	s.gotQuery = query
	s.gotLimit = limit
	return s.results, s.err
}

func (s *stubSearchService) Text(_ context.Context, query string, limit int) ([]models.SearchResult, error) {
	s.gotQuery = query
	s.gotLimit = limit
	return s.results, s.err
}

func (s *stubSearchService) Suggestions(_ context.Context, prefix string) ([]string, error) {
	s.gotQuery = prefix
	return s.suggestions, s.err
}

type stubHealthChecker struct {
	status db.Status
}

func (s stubHealthChecker) Check(context.Context) db.Status {
	return s.status
}

// newRequest builds a request with optional identity and mux path vars.
func newRequest(method, target, body string, identity *auth.Identity, vars map[string]string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if identity != nil {
		req = req.WithContext(auth.WithIdentity(req.Context(), *identity))
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}
