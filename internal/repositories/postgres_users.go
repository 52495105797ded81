package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/BYMO9/griboul/internal/db"
	"github.com/BYMO9/griboul/internal/models"
)

const userColumns = `id, uid, email, name, age, location, building, profile_video_url,
        mini_statement, provider, has_completed_onboarding, is_private,
        video_count, total_views, connection_count,
        notify_daily_reminder, notify_messages, notify_email_updates,
        is_active, last_active_at, created_at, updated_at`

// PostgresUserRepository provides PostgreSQL-backed persistence for builder accounts.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user record.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        INSERT INTO users (
                id, uid, email, name, age, location, building, profile_video_url,
                mini_statement, provider, has_completed_onboarding, is_private,
                notify_daily_reminder, notify_messages, notify_email_updates,
                last_active_at, created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16, $16)
        RETURNING `+userColumns,
		user.ID, user.UID, user.Email, user.Name, user.Age, user.Location,
		user.Building, user.ProfileVideoURL, user.MiniStatement, user.Provider,
		user.HasCompletedOnboarding, user.IsPrivate,
		user.Notifications.DailyReminder, user.Notifications.Messages, user.Notifications.EmailUpdates,
		user.LastActiveAt)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, ErrConflict
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	return created, nil
}

// FindByUID fetches a user by their external provider UID.
func (r *PostgresUserRepository) FindByUID(ctx context.Context, uid string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE uid = $1`, uid)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user by uid: %w", err)
	}

	return user, nil
}

// Update applies the whitelisted profile fields. Nil fields keep their
// stored value; nothing outside ProfileUpdate can ever be written here.
func (r *PostgresUserRepository) Update(ctx context.Context, uid string, update ProfileUpdate) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var dailyReminder, messages, emailUpdates *bool
	if update.Notifications != nil {
		dailyReminder = &update.Notifications.DailyReminder
		messages = &update.Notifications.Messages
		emailUpdates = &update.Notifications.EmailUpdates
	}

	row := conn.QueryRow(ctx, `
        UPDATE users SET
                name = COALESCE($2, name),
                age = COALESCE($3, age),
                location = COALESCE($4, location),
                building = COALESCE($5, building),
                mini_statement = COALESCE($6, mini_statement),
                is_private = COALESCE($7, is_private),
                notify_daily_reminder = COALESCE($8, notify_daily_reminder),
                notify_messages = COALESCE($9, notify_messages),
                notify_email_updates = COALESCE($10, notify_email_updates),
                has_completed_onboarding = COALESCE($11, has_completed_onboarding),
                updated_at = NOW()
        WHERE uid = $1
        RETURNING `+userColumns,
		uid, update.Name, update.Age, update.Location, update.Building,
		update.MiniStatement, update.IsPrivate,
		dailyReminder, messages, emailUpdates, update.HasCompletedOnboarding)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// Touch refreshes the user's last-active timestamp.
func (r *PostgresUserRepository) Touch(ctx context.Context, uid string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        UPDATE users SET last_active_at = NOW(), updated_at = NOW()
        WHERE uid = $1
        RETURNING `+userColumns, uid)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("touch user: %w", err)
	}

	return user, nil
}

// CompleteOnboarding records the intro video and flips the onboarding flag.
func (r *PostgresUserRepository) CompleteOnboarding(ctx context.Context, uid, introVideoURL string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        UPDATE users SET profile_video_url = $2, has_completed_onboarding = TRUE, updated_at = NOW()
        WHERE uid = $1
        RETURNING `+userColumns, uid, introVideoURL)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("complete onboarding: %w", err)
	}

	return user, nil
}

// AdjustVideoCount shifts the display counter, never below zero. The
// update is best-effort and not atomic with the related video write.
func (r *PostgresUserRepository) AdjustVideoCount(ctx context.Context, uid string, delta int) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users SET video_count = GREATEST(0, video_count + $2), updated_at = NOW()
        WHERE uid = $1`, uid, delta)
	if err != nil {
		return fmt.Errorf("adjust video count: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// FindNearby returns active, public builders whose location matches.
func (r *PostgresUserRepository) FindNearby(ctx context.Context, location string, limit int) ([]models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+userColumns+`
        FROM users
        WHERE location ILIKE '%' || $1 || '%' AND is_active = TRUE AND is_private = FALSE
        ORDER BY last_active_at DESC
        LIMIT $2`, location, limit)
	if err != nil {
		return nil, fmt.Errorf("query nearby users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan nearby user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nearby users: %w", err)
	}

	return users, nil
}

// Deactivate soft-deletes the account and all of its videos in one
// transaction so both flips are observable once the call returns.
func (r *PostgresUserRepository) Deactivate(ctx context.Context, uid string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin deactivate transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID string
	err = tx.QueryRow(ctx, `
        UPDATE users SET is_active = FALSE, updated_at = NOW()
        WHERE uid = $1
        RETURNING id`, uid).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("deactivate user: %w", err)
	}

	if _, err := tx.Exec(ctx, `
        UPDATE videos SET is_active = FALSE, updated_at = NOW()
        WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("deactivate user videos: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit deactivate transaction: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.UID, &user.Email, &user.Name, &user.Age,
		&user.Location, &user.Building, &user.ProfileVideoURL,
		&user.MiniStatement, &user.Provider, &user.HasCompletedOnboarding,
		&user.IsPrivate, &user.VideoCount, &user.TotalViews, &user.ConnectionCount,
		&user.Notifications.DailyReminder, &user.Notifications.Messages, &user.Notifications.EmailUpdates,
		&user.IsActive, &user.LastActiveAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
