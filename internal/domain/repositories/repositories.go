// Package repositories declares the persistence ports the services depend
// on. Implementations live under internal/repository/postgres.
package repositories

import (
	"context"

	"plaza/internal/domain/models"
)

// UserRepository persists profiles.
type UserRepository interface {
	Upsert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, displayName, bio, avatarURL *string) (*models.User, error)
}

// PostRepository persists posts and serves the feed.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	// SoftDelete removes a post if and only if actorID owns it; a missing
	// or foreign post both surface as domain.ErrNotFound so existence is
	// not leaked.
	SoftDelete(ctx context.Context, id, actorID string) error
	ListFeed(ctx context.Context, beforeCursor string, limit int) ([]models.Post, string, error)
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]models.Post, error)
	AdjustCommentCount(ctx context.Context, id string, delta int) error
	AdjustLikeCount(ctx context.Context, id string, delta int) error
}

// CommentRepository persists threaded comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	SoftDelete(ctx context.Context, id, actorID string) error
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)
	AdjustLikeCount(ctx context.Context, id string, delta int) error
}

// LikeRepository persists likes. Insert reports whether a row was actually
// created, so double-likes stay idempotent.
type LikeRepository interface {
	Insert(ctx context.Context, like *models.Like) (bool, error)
	Delete(ctx context.Context, subjectType models.SubjectType, subjectID, userID string) (bool, error)
	Exists(ctx context.Context, subjectType models.SubjectType, subjectID, userID string) (bool, error)
}

// NotificationRepository persists in-app notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) error
}
