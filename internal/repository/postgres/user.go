package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"plaza/internal/domain"
	"plaza/internal/domain/models"
	"plaza/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Upsert creates the profile row on first sight of a verified identity and
// refreshes the display name on subsequent logins.
func (r *PostgresUserRepository) Upsert(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, display_name, avatar_url, bio, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (id) DO UPDATE
		SET display_name = EXCLUDED.display_name, updated_at = now()
		RETURNING display_name, avatar_url, bio, created_at, updated_at
	`, r.tables.Users)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		user.ID,
		user.DisplayName,
		user.AvatarURL,
		user.Bio,
	).Scan(
		&user.DisplayName,
		&user.AvatarURL,
		&user.Bio,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, display_name, avatar_url, bio, created_at, updated_at
		FROM %s
		WHERE id = $1 AND deleted_at IS NULL
	`, r.tables.Users)

	var user models.User
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.DisplayName,
		&user.AvatarURL,
		&user.Bio,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// UpdateProfile applies a partial profile update. Nil fields are left as
// they are; the updated row is returned.
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, id string, displayName, bio, avatarURL *string) (*models.User, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET display_name = COALESCE($2, display_name),
		    bio = COALESCE($3, bio),
		    avatar_url = COALESCE($4, avatar_url),
		    updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id, display_name, avatar_url, bio, created_at, updated_at
	`, r.tables.Users)

	var user models.User
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, displayName, bio, avatarURL).Scan(
		&user.ID,
		&user.DisplayName,
		&user.AvatarURL,
		&user.Bio,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return &user, nil
}
