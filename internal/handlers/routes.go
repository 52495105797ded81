package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/BYMO9/griboul/internal/auth"
	"github.com/BYMO9/griboul/internal/middleware"
)

// RouterDeps bundles everything the route table needs.
type RouterDeps struct {
	Logger    *slog.Logger
	Verifier  auth.Verifier
	AILimiter middleware.RateLimiter

	Auth   AuthHandler
	Users  UserHandler
	Videos VideoHandler
	AI     AIHandler
	Search SearchHandler
	Health HealthHandler
}

// NewRouter wires the full route table. Every response, including
// unknown paths, carries the JSON error envelope.
func NewRouter(d RouterDeps) http.Handler {
	requireAuth := middleware.RequireAuth(d.Verifier)
	optionalAuth := middleware.OptionalAuth(d.Verifier)
	aiLimit := middleware.Limit(d.AILimiter, "ai")

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(d.Logger))
	r.NotFoundHandler = middleware.RequestLogger(d.Logger)(http.HandlerFunc(notFound))
	r.MethodNotAllowedHandler = middleware.RequestLogger(d.Logger)(http.HandlerFunc(notFound))

	r.HandleFunc("/health", d.Health.Health).Methods(http.MethodGet)

	authRouter := r.PathPrefix("/api/auth").Subrouter()
	authRouter.Use(requireAuth)
	authRouter.HandleFunc("/users", d.Auth.CreateUser).Methods(http.MethodPost)
	authRouter.HandleFunc("/me", d.Auth.Me).Methods(http.MethodGet)
	authRouter.HandleFunc("/me", d.Auth.UpdateMe).Methods(http.MethodPut)
	authRouter.HandleFunc("/onboarding/complete", d.Auth.CompleteOnboarding).Methods(http.MethodPost)

	users := r.PathPrefix("/api/users").Subrouter()
	users.Handle("/nearby/{location}", requireAuth(http.HandlerFunc(d.Users.Nearby))).Methods(http.MethodGet)
	users.Handle("/{uid}", optionalAuth(http.HandlerFunc(d.Users.Get))).Methods(http.MethodGet)
	users.Handle("/{uid}", requireAuth(http.HandlerFunc(d.Users.Update))).Methods(http.MethodPut)
	users.Handle("/{uid}", requireAuth(http.HandlerFunc(d.Users.Delete))).Methods(http.MethodDelete)
	users.Handle("/{uid}/videos", optionalAuth(http.HandlerFunc(d.Users.ListVideos))).Methods(http.MethodGet)

	videos := r.PathPrefix("/api/videos").Subrouter()
	videos.Handle("/presigned-url", requireAuth(http.HandlerFunc(d.Videos.PresignedURL))).Methods(http.MethodPost)
	videos.Handle("/upload-complete", requireAuth(http.HandlerFunc(d.Videos.UploadComplete))).Methods(http.MethodPost)
	videos.Handle("/feed", optionalAuth(http.HandlerFunc(d.Videos.Feed))).Methods(http.MethodGet)
	videos.Handle("/prompt/daily", requireAuth(http.HandlerFunc(d.Videos.DailyPrompt))).Methods(http.MethodGet)
	videos.Handle("/{videoId}", optionalAuth(http.HandlerFunc(d.Videos.Get))).Methods(http.MethodGet)
	videos.Handle("/{videoId}/status", requireAuth(http.HandlerFunc(d.Videos.UpdateStatus))).Methods(http.MethodPut)
	videos.Handle("/{videoId}", requireAuth(http.HandlerFunc(d.Videos.Delete))).Methods(http.MethodDelete)

	aiRouter := r.PathPrefix("/api/ai").Subrouter()
	aiRouter.Use(requireAuth, aiLimit)
	aiRouter.HandleFunc("/generate-statement", d.AI.GenerateStatement).Methods(http.MethodPost)
	aiRouter.HandleFunc("/extract-user-info", d.AI.ExtractUserInfo).Methods(http.MethodPost)
	aiRouter.HandleFunc("/transcribe", d.AI.Transcribe).Methods(http.MethodPost)
	aiRouter.HandleFunc("/process-video", d.AI.ProcessVideo).Methods(http.MethodPost)

	searchRouter := r.PathPrefix("/api/search").Subrouter()
	searchRouter.Handle("/descriptive",
		optionalAuth(middleware.Limit(d.AILimiter, "search")(http.HandlerFunc(d.Search.Descriptive)))).Methods(http.MethodGet)
	searchRouter.Handle("/text", optionalAuth(http.HandlerFunc(d.Search.Text))).Methods(http.MethodGet)
	searchRouter.Handle("/category", optionalAuth(http.HandlerFunc(d.Search.Category))).Methods(http.MethodGet)
	searchRouter.Handle("/location", optionalAuth(http.HandlerFunc(d.Search.Location))).Methods(http.MethodGet)
	searchRouter.HandleFunc("/trending", d.Search.Trending).Methods(http.MethodGet)
	searchRouter.HandleFunc("/suggestions", d.Search.Suggestions).Methods(http.MethodGet)

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondError(r.Context(), w, http.StatusNotFound, "Not Found",
		"The requested resource does not exist")
}
