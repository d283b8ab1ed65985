package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"plaza/internal/domain"
	"plaza/internal/domain/models"
	"plaza/internal/domain/repositories"
)

// PostgresCommentRepository implements the CommentRepository interface
type PostgresCommentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(config *RepositoryConfig) repositories.CommentRepository {
	return &PostgresCommentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const commentColumns = `id, post_id, parent_id, author_id, document_tree, rendered_html,
		plain_text, image_urls, like_count, created_at, updated_at`

func scanComment(row interface{ Scan(...interface{}) error }, c *models.Comment) error {
	return row.Scan(
		&c.ID,
		&c.PostID,
		&c.ParentID,
		&c.AuthorID,
		&c.Content.DocumentTree,
		&c.Content.RenderedHTML,
		&c.Content.PlainText,
		&c.Content.ImageURLs,
		&c.LikeCount,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

// Create creates a new comment
func (r *PostgresCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, post_id, parent_id, author_id, document_tree, rendered_html, plain_text, image_urls, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING created_at, updated_at
	`, r.tables.Comments)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		comment.ID,
		comment.PostID,
		comment.ParentID,
		comment.AuthorID,
		comment.Content.DocumentTree,
		comment.Content.RenderedHTML,
		comment.Content.PlainText,
		comment.Content.ImageURLs,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("post %s: %w", comment.PostID, domain.ErrNotFound)
		}
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

// GetByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND deleted_at IS NULL
	`, commentColumns, r.tables.Comments)

	var comment models.Comment
	err := scanComment(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id), &comment)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}

	return &comment, nil
}

// Update replaces the content of an existing comment
func (r *PostgresCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET document_tree = $2, rendered_html = $3, plain_text = $4, image_urls = $5, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`, r.tables.Comments)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		comment.ID,
		comment.Content.DocumentTree,
		comment.Content.RenderedHTML,
		comment.Content.PlainText,
		comment.Content.ImageURLs,
	).Scan(&comment.UpdatedAt)

	if err != nil {
		if isPgNoRowsError(err) {
			return fmt.Errorf("comment %s: %w", comment.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update comment: %w", err)
	}

	return nil
}

// SoftDelete marks a comment deleted when the actor owns it
func (r *PostgresCommentRepository) SoftDelete(ctx context.Context, id, actorID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND author_id = $2 AND deleted_at IS NULL
	`, r.tables.Comments)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, actorID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByPost lists a post's comments oldest first, so threads read top-down
func (r *PostgresCommentRepository) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE post_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC, id ASC
	`, commentColumns, r.tables.Comments)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var comment models.Comment
		if err := scanComment(rows, &comment); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

// AdjustLikeCount moves the denormalized like counter by delta
func (r *PostgresCommentRepository) AdjustLikeCount(ctx context.Context, id string, delta int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET like_count = greatest(like_count + $2, 0)
		WHERE id = $1 AND deleted_at IS NULL
	`, r.tables.Comments)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("adjust like_count: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
