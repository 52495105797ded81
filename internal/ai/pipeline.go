package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/BYMO9/griboul/internal/logging"
	"github.com/BYMO9/griboul/internal/models"
	"github.com/BYMO9/griboul/internal/repositories"
)

// Pipeline stages, in order. A video ends in ready or failed; failure is
// terminal until a client-initiated retry restarts from submitted.
const (
	StageSubmitted  = "submitted"
	StageSummarized = "summarized"
	StageAnalyzed   = "analyzed"
	StageEmbedded   = "embedded"
	StageReady      = "ready"
	StageFailed     = "failed"
)

// VideoFinalizer persists the processing outcome onto the video.
type VideoFinalizer interface {
	ApplyStatus(ctx context.Context, id string, update repositories.VideoStatusUpdate) (models.Video, error)
}

// StatementCreator persists the searchable mini-statement.
type StatementCreator interface {
	Create(ctx context.Context, statement models.MiniStatement) (models.MiniStatement, error)
}

// Result reports what the pipeline produced for a video.
type Result struct {
	Statement     string
	Analysis      Analysis
	MiniStatement models.MiniStatement
	Video         models.Video
}

// Pipeline sequences the summary, extraction, and embedding calls for a
// transcript, then persists the results. Steps are independent network
// calls with no automatic retry.
type Pipeline struct {
	Provider   Provider
	Videos     VideoFinalizer
	Statements StatementCreator
}

// Process runs the pipeline for a video owned by owner. On any step
// error other than a tolerated extraction parse failure, the video is
// marked failed with the error message and the error is returned.
func (p *Pipeline) Process(ctx context.Context, video models.Video, owner models.User, transcript string) (Result, error) {
	logger := logging.FromContext(ctx)
	stage := StageSubmitted

	fail := func(err error) (Result, error) {
		wrapped := fmt.Errorf("%s: %w", stage, err)
		message := wrapped.Error()
		status := models.StatusFailed
		if _, applyErr := p.Videos.ApplyStatus(ctx, video.ID, repositories.VideoStatusUpdate{
			Status:          &status,
			ProcessingError: &message,
		}); applyErr != nil {
			logger.Error("failed to record processing failure", "videoId", video.ID, "error", applyErr)
		}
		return Result{}, wrapped
	}

	spanCtx, span := logging.StartSpan(ctx, "pipeline.summarize")
	statement, err := p.Provider.GenerateStatement(spanCtx, transcript)
	span.End()
	if err != nil {
		return fail(err)
	}
	stage = StageSummarized

	spanCtx, span = logging.StartSpan(ctx, "pipeline.analyze")
	analysis, err := p.Provider.Analyze(spanCtx, transcript)
	span.End()
	if err != nil {
		if !errors.Is(err, ErrUnparseable) {
			return fail(err)
		}
		// A malformed extraction degrades to defaults rather than
		// failing the whole pipeline.
		logger.Warn("analysis unparseable, using defaults", "videoId", video.ID, "error", err)
		analysis = Analysis{}
	}
	if analysis.Stage == "" {
		analysis.Stage = "building"
	}
	if analysis.Mood == "" {
		analysis.Mood = "neutral"
	}
	stage = StageAnalyzed

	spanCtx, span = logging.StartSpan(ctx, "pipeline.embed")
	embedding, err := p.Provider.Embed(spanCtx, statement+" "+transcript)
	span.End()
	if err != nil {
		return fail(err)
	}
	stage = StageEmbedded

	miniStatement, err := p.Statements.Create(ctx, models.MiniStatement{
		ID:        uuid.NewString(),
		UserID:    owner.ID,
		VideoID:   video.ID,
		Statement: statement,
		Embedding: embedding,
		Entities: models.Entities{
			Technologies: analysis.Technologies,
			Challenges:   analysis.Challenges,
			Emotions:     analysis.Emotions,
			TimeOfDay:    analysis.TimeOfDay,
			Stage:        analysis.Stage,
		},
		Keywords:     Keywords(statement, owner.Location, owner.Name),
		QualityScore: 1.0,
	})
	if err != nil {
		return fail(err)
	}

	status := models.StatusReady
	categories := analysis.Challenges
	updated, err := p.Videos.ApplyStatus(ctx, video.ID, repositories.VideoStatusUpdate{
		Status:        &status,
		MiniStatement: &statement,
		Transcript:    &transcript,
		Categories:    &categories,
		Mood:          &analysis.Mood,
	})
	if err != nil {
		return fail(err)
	}
	stage = StageReady

	logger.Info("video processed", "videoId", video.ID, "stage", stage)

	return Result{
		Statement:     statement,
		Analysis:      analysis,
		MiniStatement: miniStatement,
		Video:         updated,
	}, nil
}

// Keywords derives the lowercase search keywords stored alongside a
// statement: statement words, owner location words, and the owner name,
// keeping entries longer than two characters.
func Keywords(statement, location, name string) []string {
	var candidates []string
	candidates = append(candidates, strings.Fields(strings.ToLower(statement))...)
	candidates = append(candidates, strings.Fields(strings.ToLower(location))...)
	if name != "" {
		candidates = append(candidates, strings.ToLower(name))
	}

	seen := make(map[string]struct{}, len(candidates))
	var keywords []string
	for _, candidate := range candidates {
		candidate = strings.Trim(candidate, `.,!?"'`)
		if len(candidate) <= 2 {
			continue
		}
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		keywords = append(keywords, candidate)
	}

	return keywords
}
