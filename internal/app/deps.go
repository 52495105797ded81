package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BYMO9/griboul/internal/ai"
	"github.com/BYMO9/griboul/internal/auth"
	"github.com/BYMO9/griboul/internal/config"
	"github.com/BYMO9/griboul/internal/db"
	"github.com/BYMO9/griboul/internal/handlers"
	"github.com/BYMO9/griboul/internal/middleware"
	"github.com/BYMO9/griboul/internal/repositories"
	"github.com/BYMO9/griboul/internal/search"
	"github.com/BYMO9/griboul/internal/storage"
)

// buildDependencies wires together the concrete implementations behind
// the HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, health *db.Health, cfg config.Config, logger *slog.Logger) (handlers.RouterDeps, error) {
	users := repositories.NewPostgresUserRepository(pool)
	videos := repositories.NewPostgresVideoRepository(pool)
	statements := repositories.NewPostgresStatementRepository(pool)

	verifier, err := buildVerifier(cfg)
	if err != nil {
		return handlers.RouterDeps{}, err
	}

	s3Storage, err := storage.NewS3Storage(ctx, cfg)
	if err != nil {
		return handlers.RouterDeps{}, fmt.Errorf("configure object storage: %w", err)
	}

	aiClient := ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.ChatModel, cfg.EmbeddingModel)
	transcriber := ai.NewStaticTranscriber()
	pipeline := &ai.Pipeline{
		Provider:   aiClient,
		Videos:     videos,
		Statements: statements,
	}

	searchService := search.NewService(aiClient, statements, cfg.SimilarityThreshold)

	aiLimiter := middleware.NewRateLimiter(cfg.AIRateLimit, cfg.AIRateWindow, cfg.AIRateLimit, 10*time.Minute)

	return handlers.RouterDeps{
		Logger:    logger,
		Verifier:  verifier,
		AILimiter: aiLimiter,

		Auth: handlers.AuthHandler{Users: users, NowFunc: time.Now},
		Users: handlers.UserHandler{
			Users:  users,
			Videos: videos,
		},
		Videos: handlers.VideoHandler{
			Users:     users,
			Videos:    videos,
			Storage:   s3Storage,
			UploadTTL: cfg.UploadURLTTL,
			NowFunc:   time.Now,
		},
		AI: handlers.AIHandler{
			Users:       users,
			Videos:      videos,
			Processor:   pipeline,
			Extractor:   aiClient,
			Transcriber: transcriber,
		},
		Search: handlers.SearchHandler{
			Search: searchService,
			Videos: videos,
		},
		Health: handlers.HealthHandler{Checker: health},
	}, nil
}

func buildVerifier(cfg config.Config) (auth.Verifier, error) {
	switch cfg.AuthMode {
	case "jwt":
		return auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	case "mock", "":
		return auth.NewMockVerifier(), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}
}
