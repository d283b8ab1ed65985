package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"plaza/internal/config"
	"plaza/internal/domain"
	"plaza/internal/domain/models"
	"plaza/internal/domain/repositories"
	"plaza/internal/domain/services"
)

// commentService implements the CommentService interface
type commentService struct {
	commentRepo      repositories.CommentRepository
	postRepo         repositories.PostRepository
	notificationRepo repositories.NotificationRepository
	txManager        repositories.TransactionManager
	logger           *slog.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	notificationRepo repositories.NotificationRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.CommentService {
	return &commentService{
		commentRepo:      commentRepo,
		postRepo:         postRepo,
		notificationRepo: notificationRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// CreateComment attaches a comment to a post, optionally as a reply. The
// comment insert and the post's counter move commit together; the
// notification is written afterwards and is allowed to fail.
func (s *commentService) CreateComment(ctx context.Context, actor models.Actor, postID string, parentID *string, req *services.ComposeRequest) (*models.Comment, error) {
	content, err := buildContent(req, config.MaxCommentImages)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	// A reply's parent must belong to the same post.
	var parent *models.Comment
	if parentID != nil {
		parent, err = s.commentRepo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, &domain.ValidationError{
				Message: fmt.Sprintf("parent comment %s belongs to another post", *parentID),
			}
		}
	}

	comment := &models.Comment{
		ID:       uuid.NewString(),
		PostID:   postID,
		ParentID: parentID,
		AuthorID: actor.ID,
		Content:  content,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.commentRepo.Create(txCtx, comment); err != nil {
			return err
		}
		return s.postRepo.AdjustCommentCount(txCtx, postID, 1)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, actor, post, parent, comment)

	s.logger.Info("comment created",
		"id", comment.ID,
		"post_id", postID,
		"author_id", actor.ID,
		"reply", parentID != nil,
	)

	return comment, nil
}

// notify writes the like/comment/reply notification row. Self-notifications
// are skipped, and a failed write never fails the comment.
func (s *commentService) notify(ctx context.Context, actor models.Actor, post *models.Post, parent *models.Comment, comment *models.Comment) {
	recipient := post.AuthorID
	kind := models.NotificationComment
	subjectType := models.SubjectPost
	subjectID := post.ID

	if parent != nil {
		recipient = parent.AuthorID
		kind = models.NotificationReply
		subjectType = models.SubjectComment
		subjectID = parent.ID
	}

	if recipient == actor.ID {
		return
	}

	n := &models.Notification{
		ID:          uuid.NewString(),
		RecipientID: recipient,
		ActorID:     actor.ID,
		Kind:        kind,
		SubjectType: subjectType,
		SubjectID:   subjectID,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.Warn("notification write failed",
			"recipient_id", recipient,
			"kind", kind,
			"error", err,
		)
	}
}

// GetComment retrieves a comment by ID
func (s *commentService) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

// UpdateComment replaces a comment's content. Only the author may edit.
func (s *commentService) UpdateComment(ctx context.Context, actor models.Actor, id string, req *services.ComposeRequest) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != actor.ID {
		return nil, fmt.Errorf("comment %s is not yours: %w", id, domain.ErrForbidden)
	}

	content, err := buildContent(req, config.MaxCommentImages)
	if err != nil {
		return nil, err
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment updated", "id", id, "author_id", actor.ID)

	return comment, nil
}

// DeleteComment soft-deletes the actor's own comment and moves the post's
// counter down in the same transaction.
func (s *commentService) DeleteComment(ctx context.Context, actor models.Actor, id string) error {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.commentRepo.SoftDelete(txCtx, id, actor.ID); err != nil {
			return err
		}
		return s.postRepo.AdjustCommentCount(txCtx, comment.PostID, -1)
	})
	if err != nil {
		return err
	}

	s.logger.Info("comment deleted", "id", id, "author_id", actor.ID)

	return nil
}

// ListComments lists a post's comments oldest first
func (s *commentService) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	// Surface a 404 for unknown posts instead of an empty list.
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}
