package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"plaza/internal/domain/models"
	"plaza/internal/domain/repositories"
	"plaza/internal/domain/services"
)

// likeService implements the LikeService interface
type likeService struct {
	likeRepo         repositories.LikeRepository
	postRepo         repositories.PostRepository
	commentRepo      repositories.CommentRepository
	notificationRepo repositories.NotificationRepository
	txManager        repositories.TransactionManager
	logger           *slog.Logger
}

// NewLikeService creates a new like service
func NewLikeService(
	likeRepo repositories.LikeRepository,
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	notificationRepo repositories.NotificationRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.LikeService {
	return &likeService{
		likeRepo:         likeRepo,
		postRepo:         postRepo,
		commentRepo:      commentRepo,
		notificationRepo: notificationRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// Like records the actor liking a post or comment. The like row and the
// counter move commit together; double-likes are a no-op.
func (s *likeService) Like(ctx context.Context, actor models.Actor, subjectType models.SubjectType, subjectID string) (bool, error) {
	authorID, err := s.subjectAuthor(ctx, subjectType, subjectID)
	if err != nil {
		return false, err
	}

	var inserted bool
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		like := &models.Like{
			SubjectType: subjectType,
			SubjectID:   subjectID,
			UserID:      actor.ID,
		}
		var err error
		inserted, err = s.likeRepo.Insert(txCtx, like)
		if err != nil || !inserted {
			return err
		}
		return s.adjustLikeCount(txCtx, subjectType, subjectID, 1)
	})
	if err != nil {
		return false, err
	}

	if inserted && authorID != actor.ID {
		n := &models.Notification{
			ID:          uuid.NewString(),
			RecipientID: authorID,
			ActorID:     actor.ID,
			Kind:        models.NotificationLike,
			SubjectType: subjectType,
			SubjectID:   subjectID,
		}
		if err := s.notificationRepo.Create(ctx, n); err != nil {
			s.logger.Warn("notification write failed", "recipient_id", authorID, "error", err)
		}
	}

	return true, nil
}

// Unlike removes the actor's like. Idempotent.
func (s *likeService) Unlike(ctx context.Context, actor models.Actor, subjectType models.SubjectType, subjectID string) (bool, error) {
	if _, err := s.subjectAuthor(ctx, subjectType, subjectID); err != nil {
		return false, err
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		deleted, err := s.likeRepo.Delete(txCtx, subjectType, subjectID, actor.ID)
		if err != nil || !deleted {
			return err
		}
		return s.adjustLikeCount(txCtx, subjectType, subjectID, -1)
	})
	if err != nil {
		return true, err
	}

	return false, nil
}

// subjectAuthor resolves the subject's author and doubles as the existence
// check for the liked post or comment.
func (s *likeService) subjectAuthor(ctx context.Context, subjectType models.SubjectType, subjectID string) (string, error) {
	switch subjectType {
	case models.SubjectComment:
		comment, err := s.commentRepo.GetByID(ctx, subjectID)
		if err != nil {
			return "", err
		}
		return comment.AuthorID, nil
	default:
		post, err := s.postRepo.GetByID(ctx, subjectID)
		if err != nil {
			return "", err
		}
		return post.AuthorID, nil
	}
}

func (s *likeService) adjustLikeCount(ctx context.Context, subjectType models.SubjectType, subjectID string, delta int) error {
	if subjectType == models.SubjectComment {
		return s.commentRepo.AdjustLikeCount(ctx, subjectID, delta)
	}
	return s.postRepo.AdjustLikeCount(ctx, subjectID, delta)
}
