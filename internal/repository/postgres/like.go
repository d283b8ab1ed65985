package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"plaza/internal/domain/models"
	"plaza/internal/domain/repositories"
)

// PostgresLikeRepository implements the LikeRepository interface
type PostgresLikeRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(config *RepositoryConfig) repositories.LikeRepository {
	return &PostgresLikeRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Insert records a like. Returns false when the (subject, user) pair was
// already present, so repeated likes stay idempotent without an error.
func (r *PostgresLikeRepository) Insert(ctx context.Context, like *models.Like) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (subject_type, subject_id, user_id, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (subject_type, subject_id, user_id) DO NOTHING
	`, r.tables.Likes)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		like.SubjectType,
		like.SubjectID,
		like.UserID,
	)
	if err != nil {
		return false, fmt.Errorf("insert like: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// Delete removes a like. Returns false when there was nothing to remove.
func (r *PostgresLikeRepository) Delete(ctx context.Context, subjectType models.SubjectType, subjectID, userID string) (bool, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE subject_type = $1 AND subject_id = $2 AND user_id = $3
	`, r.tables.Likes)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, subjectType, subjectID, userID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// Exists reports whether the user has liked the subject
func (r *PostgresLikeRepository) Exists(ctx context.Context, subjectType models.SubjectType, subjectID, userID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE subject_type = $1 AND subject_id = $2 AND user_id = $3
		)
	`, r.tables.Likes)

	var exists bool
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, subjectType, subjectID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}

	return exists, nil
}
