package services

import (
	"context"

	"plaza/internal/domain/models"
)

// LikeService handles like business logic
type LikeService interface {
	// Like records the actor liking a post or comment. Idempotent: liking
	// something already liked changes nothing. Returns whether the actor now
	// likes the subject.
	Like(ctx context.Context, actor models.Actor, subjectType models.SubjectType, subjectID string) (bool, error)

	// Unlike removes the actor's like. Idempotent.
	Unlike(ctx context.Context, actor models.Actor, subjectType models.SubjectType, subjectID string) (bool, error)
}
