package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/BYMO9/griboul/internal/db"
	"github.com/BYMO9/griboul/internal/models"
)

// PostgresStatementRepository provides PostgreSQL-backed persistence for
// mini-statements, including pgvector similarity ranking.
type PostgresStatementRepository struct {
	pool db.Pool
}

// NewPostgresStatementRepository constructs a statement repository backed by PostgreSQL.
func NewPostgresStatementRepository(pool db.Pool) *PostgresStatementRepository {
	return &PostgresStatementRepository{pool: pool}
}

// Create persists a new mini-statement with its embedding.
func (r *PostgresStatementRepository) Create(ctx context.Context, statement models.MiniStatement) (models.MiniStatement, error) {
	if len(statement.Embedding) != models.EmbeddingDim {
		return models.MiniStatement{}, fmt.Errorf("embedding must have %d dimensions, got %d", models.EmbeddingDim, len(statement.Embedding))
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.MiniStatement{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO mini_statements (
                id, user_id, video_id, statement, embedding,
                technologies, challenges, emotions, time_of_day, stage,
                keywords, quality_score, created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())`,
		statement.ID, statement.UserID, statement.VideoID, statement.Statement,
		pgvector.NewVector(statement.Embedding),
		statement.Entities.Technologies, statement.Entities.Challenges,
		statement.Entities.Emotions, statement.Entities.TimeOfDay, statement.Entities.Stage,
		statement.Keywords, statement.QualityScore)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return models.MiniStatement{}, ErrConflict
			case "23503":
				return models.MiniStatement{}, ErrNotFound
			}
		}
		return models.MiniStatement{}, fmt.Errorf("insert mini statement: %w", err)
	}

	return statement, nil
}

// SemanticSearch scores every statement by cosine similarity against the
// query embedding and returns the ranked slice above the threshold.
// There is no vector index; the store scans all rows per query.
func (r *PostgresStatementRepository) SemanticSearch(ctx context.Context, embedding []float32, threshold float64, limit int) ([]models.SearchResult, error) {
	if len(embedding) != models.EmbeddingDim {
		return nil, fmt.Errorf("embedding must have %d dimensions, got %d", models.EmbeddingDim, len(embedding))
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT s.id, s.statement,
               1 - (s.embedding <=> $1) AS similarity,
               s.technologies, s.challenges, s.emotions, s.time_of_day, s.stage,
               v.id, v.video_url, v.thumbnail_url, v.duration, v.views, v.likes, v.created_at,
               u.name, u.location, u.building
        FROM mini_statements s
        JOIN videos v ON v.id = s.video_id
        JOIN users u ON u.id = s.user_id
        WHERE v.is_active = TRUE AND v.is_private = FALSE
          AND 1 - (s.embedding <=> $1) >= $2
        ORDER BY similarity DESC
        LIMIT $3`,
		pgvector.NewVector(embedding), threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("query semantic search: %w", err)
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var res models.SearchResult
		if err := rows.Scan(
			&res.StatementID, &res.Statement, &res.Similarity,
			&res.Entities.Technologies, &res.Entities.Challenges, &res.Entities.Emotions,
			&res.Entities.TimeOfDay, &res.Entities.Stage,
			&res.Video.ID, &res.Video.VideoURL, &res.Video.ThumbnailURL,
			&res.Video.Duration, &res.Video.Views, &res.Video.Likes, &res.Video.CreatedAt,
			&res.User.Name, &res.User.Location, &res.User.Building,
		); err != nil {
			return nil, fmt.Errorf("scan semantic result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate semantic results: %w", err)
	}

	return results, nil
}

// TextSearch is the lexical fallback over statement text, relevance ranked.
func (r *PostgresStatementRepository) TextSearch(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT s.id, s.statement,
               s.technologies, s.challenges, s.emotions, s.time_of_day, s.stage,
               v.id, v.video_url, v.thumbnail_url, v.duration, v.views, v.likes, v.created_at,
               u.name, u.location, u.building
        FROM mini_statements s
        JOIN videos v ON v.id = s.video_id
        JOIN users u ON u.id = s.user_id
        WHERE v.is_active = TRUE AND v.is_private = FALSE
          AND to_tsvector('english', s.statement) @@ plainto_tsquery('english', $1)
        ORDER BY ts_rank(to_tsvector('english', s.statement), plainto_tsquery('english', $1)) DESC
        LIMIT $2`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query text search: %w", err)
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var res models.SearchResult
		if err := rows.Scan(
			&res.StatementID, &res.Statement,
			&res.Entities.Technologies, &res.Entities.Challenges, &res.Entities.Emotions,
			&res.Entities.TimeOfDay, &res.Entities.Stage,
			&res.Video.ID, &res.Video.VideoURL, &res.Video.ThumbnailURL,
			&res.Video.Duration, &res.Video.Views, &res.Video.Likes, &res.Video.CreatedAt,
			&res.User.Name, &res.User.Location, &res.User.Building,
		); err != nil {
			return nil, fmt.Errorf("scan text result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate text results: %w", err)
	}

	return results, nil
}

// Suggest returns statements starting with the prefix and the keyword
// lists of statements whose keywords match it.
func (r *PostgresStatementRepository) Suggest(ctx context.Context, prefix string, limit int) ([]string, []string, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT statement FROM mini_statements
        WHERE statement ILIKE $1 || '%'
        LIMIT $2`, prefix, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("query statement suggestions: %w", err)
	}
	defer rows.Close()

	var statements []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, nil, fmt.Errorf("scan statement suggestion: %w", err)
		}
		statements = append(statements, s)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate statement suggestions: %w", err)
	}

	keywordRows, err := conn.Query(ctx, `
        SELECT keywords FROM mini_statements
        WHERE EXISTS (
                SELECT 1 FROM unnest(keywords) AS k WHERE k LIKE lower($1) || '%'
        )
        LIMIT $2`, prefix, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("query keyword suggestions: %w", err)
	}
	defer keywordRows.Close()

	var keywords []string
	for keywordRows.Next() {
		var ks []string
		if err := keywordRows.Scan(&ks); err != nil {
			return nil, nil, fmt.Errorf("scan keyword suggestion: %w", err)
		}
		keywords = append(keywords, ks...)
	}
	if err := keywordRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate keyword suggestions: %w", err)
	}

	return statements, keywords, nil
}

// IncrementSearchHits bumps the usage counter on the matched statements.
// Best-effort; callers may ignore the error.
func (r *PostgresStatementRepository) IncrementSearchHits(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        UPDATE mini_statements
        SET search_hits = search_hits + 1, updated_at = NOW()
        WHERE id = ANY($1::uuid[])`, ids); err != nil {
		return fmt.Errorf("increment search hits: %w", err)
	}

	return nil
}

var _ StatementRepository = (*PostgresStatementRepository)(nil)
