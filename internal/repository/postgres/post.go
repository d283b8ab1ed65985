package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"plaza/internal/domain"
	"plaza/internal/domain/models"
	"plaza/internal/domain/repositories"
)

// PostgresPostRepository implements the PostRepository interface
type PostgresPostRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewPostRepository creates a new post repository
func NewPostRepository(config *RepositoryConfig) repositories.PostRepository {
	return &PostgresPostRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const postColumns = `id, author_id, document_tree, rendered_html, plain_text, image_urls,
		like_count, comment_count, created_at, updated_at`

func scanPost(row interface{ Scan(...interface{}) error }, post *models.Post) error {
	return row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.Content.DocumentTree,
		&post.Content.RenderedHTML,
		&post.Content.PlainText,
		&post.Content.ImageURLs,
		&post.LikeCount,
		&post.CommentCount,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
}

// Create creates a new post
func (r *PostgresPostRepository) Create(ctx context.Context, post *models.Post) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, author_id, document_tree, rendered_html, plain_text, image_urls, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING created_at, updated_at
	`, r.tables.Posts)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		post.ID,
		post.AuthorID,
		post.Content.DocumentTree,
		post.Content.RenderedHTML,
		post.Content.PlainText,
		post.Content.ImageURLs,
	).Scan(&post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("author %s: %w", post.AuthorID, domain.ErrNotFound)
		}
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by ID
func (r *PostgresPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND deleted_at IS NULL
	`, postColumns, r.tables.Posts)

	var post models.Post
	err := scanPost(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id), &post)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &post, nil
}

// Update replaces the content of an existing post
func (r *PostgresPostRepository) Update(ctx context.Context, post *models.Post) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET document_tree = $2, rendered_html = $3, plain_text = $4, image_urls = $5, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`, r.tables.Posts)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		post.ID,
		post.Content.DocumentTree,
		post.Content.RenderedHTML,
		post.Content.PlainText,
		post.Content.ImageURLs,
	).Scan(&post.UpdatedAt)

	if err != nil {
		if isPgNoRowsError(err) {
			return fmt.Errorf("post %s: %w", post.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update post: %w", err)
	}

	return nil
}

// SoftDelete marks a post deleted when the actor owns it. A missing row and
// a row owned by someone else are indistinguishable to the caller.
func (r *PostgresPostRepository) SoftDelete(ctx context.Context, id, actorID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND author_id = $2 AND deleted_at IS NULL
	`, r.tables.Posts)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, actorID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListFeed returns one page of the global feed, newest first, using keyset
// pagination on (created_at, id). An empty cursor starts at the newest post;
// the returned cursor is empty on the last page.
func (r *PostgresPostRepository) ListFeed(ctx context.Context, beforeCursor string, limit int) ([]models.Post, string, error) {
	var query string
	var args []interface{}

	if beforeCursor == "" {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE deleted_at IS NULL
			ORDER BY created_at DESC, id DESC
			LIMIT $1
		`, postColumns, r.tables.Posts)
		args = append(args, limit+1)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE deleted_at IS NULL
			  AND (created_at, id) < (SELECT created_at, id FROM %s WHERE id = $1)
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		`, postColumns, r.tables.Posts, r.tables.Posts)
		args = append(args, beforeCursor, limit+1)
	}

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("list feed: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var post models.Post
		if err := scanPost(rows, &post); err != nil {
			return nil, "", fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("iterate posts: %w", err)
	}

	// The extra row only signals that another page exists.
	var nextCursor string
	if len(posts) > limit {
		posts = posts[:limit]
		nextCursor = posts[limit-1].ID
	}

	return posts, nextCursor, nil
}

// ListByAuthor lists an author's posts, newest first
func (r *PostgresPostRepository) ListByAuthor(ctx context.Context, authorID string, limit int) ([]models.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE author_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, postColumns, r.tables.Posts)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, authorID, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var post models.Post
		if err := scanPost(rows, &post); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, nil
}

// AdjustCommentCount moves the denormalized comment counter by delta
func (r *PostgresPostRepository) AdjustCommentCount(ctx context.Context, id string, delta int) error {
	return r.adjustCounter(ctx, "comment_count", id, delta)
}

// AdjustLikeCount moves the denormalized like counter by delta
func (r *PostgresPostRepository) AdjustLikeCount(ctx context.Context, id string, delta int) error {
	return r.adjustCounter(ctx, "like_count", id, delta)
}

func (r *PostgresPostRepository) adjustCounter(ctx context.Context, column, id string, delta int) error {
	// greatest() guards against racing decrements pushing counters negative
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = greatest(%s + $2, 0)
		WHERE id = $1 AND deleted_at IS NULL
	`, r.tables.Posts, column, column)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("adjust %s: %w", column, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
