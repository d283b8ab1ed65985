package services

import (
	"context"

	"plaza/internal/domain/models"
)

// PostService handles post business logic
type PostService interface {
	// CreatePost runs the content pipeline on the request and persists the post
	CreatePost(ctx context.Context, actor models.Actor, req *ComposeRequest) (*models.Post, error)

	// GetPost retrieves a post by ID
	GetPost(ctx context.Context, id string) (*models.Post, error)

	// UpdatePost replaces a post's content, re-running the content pipeline.
	// Only the author may edit.
	UpdatePost(ctx context.Context, actor models.Actor, id string, req *ComposeRequest) (*models.Post, error)

	// DeletePost soft-deletes the actor's own post
	DeletePost(ctx context.Context, actor models.Actor, id string) error

	// Feed returns one cursor-paginated page of the global feed, newest first
	Feed(ctx context.Context, cursor string, limit int) (*models.FeedPage, error)

	// ListByAuthor lists an author's recent posts
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]models.Post, error)

	// ExportMarkdown renders a post's content as Markdown
	ExportMarkdown(ctx context.Context, id string) (string, error)
}
