package services

import (
	"context"

	"plaza/internal/domain/models"
)

// CommentService handles comment business logic
type CommentService interface {
	// CreateComment runs the content pipeline and attaches the comment to a
	// post, optionally as a reply to a parent comment. Notifies the post
	// author (or parent comment author for replies).
	CreateComment(ctx context.Context, actor models.Actor, postID string, parentID *string, req *ComposeRequest) (*models.Comment, error)

	// GetComment retrieves a comment by ID
	GetComment(ctx context.Context, id string) (*models.Comment, error)

	// UpdateComment replaces a comment's content. Only the author may edit.
	UpdateComment(ctx context.Context, actor models.Actor, id string, req *ComposeRequest) (*models.Comment, error)

	// DeleteComment soft-deletes the actor's own comment
	DeleteComment(ctx context.Context, actor models.Actor, id string) error

	// ListComments lists a post's comments oldest first
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
}
