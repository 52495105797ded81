package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/BYMO9/griboul/internal/db"
	"github.com/BYMO9/griboul/internal/models"
)

const videoColumns = `v.id, v.user_id, v.video_url, v.thumbnail_url, v.duration,
        v.mini_statement, v.transcript, v.prompt, v.is_private, v.location,
        v.views, v.likes, v.recorded_at, v.status, v.processing_error,
        v.is_reported, v.is_active, v.categories, v.mood, v.created_at, v.updated_at`

// visibleVideos restricts rows to what the public feed may show.
const visibleVideos = `v.is_private = FALSE AND v.status = 'ready' AND v.is_active = TRUE`

// PostgresVideoRepository provides PostgreSQL-backed persistence for video updates.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// Create stores a new video record in processing state.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	status := video.Status
	if strings.TrimSpace(status) == "" {
		status = models.StatusProcessing
	}

	row := conn.QueryRow(ctx, `
        INSERT INTO videos (
                id, user_id, video_url, thumbnail_url, duration, prompt,
                is_private, location, recorded_at, status, created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
        RETURNING `+bareVideoColumns(),
		video.ID, video.UserID, video.VideoURL, video.ThumbnailURL,
		video.Duration, video.Prompt, video.IsPrivate, video.Location,
		video.RecordedAt, status)

	created, err := scanVideo(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return models.Video{}, ErrConflict
			case "23503", "23514":
				// Missing owner or violated duration bound.
				return models.Video{}, ErrNotFound
			}
		}
		return models.Video{}, fmt.Errorf("insert video: %w", err)
	}

	return created, nil
}

// FindByID fetches a video together with its owner summary.
func (r *PostgresVideoRepository) FindByID(ctx context.Context, id string) (VideoWithOwner, error) {
	if _, err := uuid.Parse(id); err != nil {
		return VideoWithOwner{}, ErrInvalidID
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return VideoWithOwner{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT `+videoColumns+`, u.uid, u.name, u.location, u.building, u.mini_statement
        FROM videos v
        JOIN users u ON u.id = v.user_id
        WHERE v.id = $1`, id)

	result, err := scanVideoWithOwner(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VideoWithOwner{}, ErrNotFound
		}
		return VideoWithOwner{}, fmt.Errorf("select video: %w", err)
	}

	return result, nil
}

// Feed returns the reverse-chronological public feed page plus the total
// count matching the filter.
func (r *PostgresVideoRepository) Feed(ctx context.Context, opts FeedOptions) ([]VideoWithOwner, int, error) {
	where := visibleVideos
	args := []any{}

	if opts.Filter == "near" && opts.Location != "" {
		args = append(args, opts.Location)
		where += fmt.Sprintf(" AND v.location ILIKE '%%' || $%d || '%%'", len(args))
	}
	if opts.ExcludeUserID != "" {
		args = append(args, opts.ExcludeUserID)
		where += fmt.Sprintf(" AND v.user_id <> $%d", len(args))
	}

	return r.queryPage(ctx, where, args, opts.Page, opts.Limit)
}

// ListByUser returns a user's active videos, newest first, with the total.
// Private videos are included only when the caller owns the profile.
func (r *PostgresVideoRepository) ListByUser(ctx context.Context, userID string, includePrivate bool, page, limit int) ([]models.Video, int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	where := `v.user_id = $1 AND v.is_active = TRUE AND v.status = 'ready'`
	if !includePrivate {
		where += ` AND v.is_private = FALSE`
	}

	skip := pageOffset(page, limit)

	rows, err := conn.Query(ctx, `
        SELECT `+videoColumns+`
        FROM videos v
        WHERE `+where+`
        ORDER BY v.created_at DESC
        OFFSET $2 LIMIT $3`, userID, skip, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query user videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user video: %w", err)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate user videos: %w", err)
	}

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM videos v WHERE `+where, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count user videos: %w", err)
	}

	return videos, total, nil
}

// ApplyStatus updates the processing outcome fields present in the update.
func (r *PostgresVideoRepository) ApplyStatus(ctx context.Context, id string, update VideoStatusUpdate) (models.Video, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Video{}, ErrInvalidID
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var categories any
	if update.Categories != nil {
		categories = *update.Categories
	}

	row := conn.QueryRow(ctx, `
        UPDATE videos v SET
                status = COALESCE($2, status),
                mini_statement = COALESCE($3, mini_statement),
                transcript = COALESCE($4, transcript),
                categories = COALESCE($5, categories),
                mood = COALESCE($6, mood),
                processing_error = COALESCE($7, processing_error),
                updated_at = NOW()
        WHERE v.id = $1
        RETURNING `+bareVideoColumns(),
		id, update.Status, update.MiniStatement, update.Transcript,
		categories, update.Mood, update.ProcessingError)

	video, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("update video status: %w", err)
	}

	return video, nil
}

// IncrementViews bumps the display counter. Lost updates under racing
// requests are tolerated; views are not ledger data.
func (r *PostgresVideoRepository) IncrementViews(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Deactivate soft-deletes a video.
func (r *PostgresVideoRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE videos SET is_active = FALSE, updated_at = NOW()
        WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListByCategory pages through visible videos carrying the category.
func (r *PostgresVideoRepository) ListByCategory(ctx context.Context, category string, page, limit int) ([]VideoWithOwner, int, error) {
	where := visibleVideos + ` AND $1 = ANY(v.categories)`
	return r.queryPage(ctx, where, []any{category}, page, limit)
}

// ListByLocation pages through visible videos posted from the location.
func (r *PostgresVideoRepository) ListByLocation(ctx context.Context, location string, page, limit int) ([]VideoWithOwner, int, error) {
	where := visibleVideos + ` AND v.location ILIKE '%' || $1 || '%'`
	return r.queryPage(ctx, where, []any{location}, page, limit)
}

func (r *PostgresVideoRepository) queryPage(ctx context.Context, where string, args []any, page, limit int) ([]VideoWithOwner, int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	skip := pageOffset(page, limit)
	pageArgs := append(append([]any{}, args...), skip, limit)

	rows, err := conn.Query(ctx, fmt.Sprintf(`
        SELECT `+videoColumns+`, u.uid, u.name, u.location, u.building, u.mini_statement
        FROM videos v
        JOIN users u ON u.id = v.user_id
        WHERE %s
        ORDER BY v.created_at DESC
        OFFSET $%d LIMIT $%d`, where, len(args)+1, len(args)+2), pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	var results []VideoWithOwner
	for rows.Next() {
		result, err := scanVideoWithOwner(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan video: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate videos: %w", err)
	}

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM videos v WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	return results, total, nil
}

func pageOffset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// bareVideoColumns strips the table alias for INSERT/UPDATE RETURNING clauses.
func bareVideoColumns() string {
	return strings.ReplaceAll(videoColumns, "v.", "")
}

func scanVideo(row rowScanner) (models.Video, error) {
	var video models.Video
	err := row.Scan(
		&video.ID, &video.UserID, &video.VideoURL, &video.ThumbnailURL,
		&video.Duration, &video.MiniStatement, &video.Transcript, &video.Prompt,
		&video.IsPrivate, &video.Location, &video.Views, &video.Likes,
		&video.RecordedAt, &video.Status, &video.ProcessingError,
		&video.IsReported, &video.IsActive, &video.Categories, &video.Mood,
		&video.CreatedAt, &video.UpdatedAt,
	)
	if err != nil {
		return models.Video{}, err
	}
	return video, nil
}

func scanVideoWithOwner(row rowScanner) (VideoWithOwner, error) {
	var result VideoWithOwner
	err := row.Scan(
		&result.Video.ID, &result.Video.UserID, &result.Video.VideoURL, &result.Video.ThumbnailURL,
		&result.Video.Duration, &result.Video.MiniStatement, &result.Video.Transcript, &result.Video.Prompt,
		&result.Video.IsPrivate, &result.Video.Location, &result.Video.Views, &result.Video.Likes,
		&result.Video.RecordedAt, &result.Video.Status, &result.Video.ProcessingError,
		&result.Video.IsReported, &result.Video.IsActive, &result.Video.Categories, &result.Video.Mood,
		&result.Video.CreatedAt, &result.Video.UpdatedAt,
		&result.OwnerUID, &result.Owner.Name, &result.Owner.Location, &result.Owner.Building, &result.Owner.MiniStatement,
	)
	if err != nil {
		return VideoWithOwner{}, err
	}
	return result, nil
}

var _ VideoRepository = (*PostgresVideoRepository)(nil)
