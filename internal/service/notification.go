package service

import (
	"context"
	"log/slog"

	"plaza/internal/config"
	"plaza/internal/domain/models"
	"plaza/internal/domain/repositories"
	"plaza/internal/domain/services"
)

// notificationService implements the NotificationService interface
type notificationService struct {
	notificationRepo repositories.NotificationRepository
	logger           *slog.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo repositories.NotificationRepository, logger *slog.Logger) services.NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// List returns the actor's notifications, newest first
func (s *notificationService) List(ctx context.Context, actor models.Actor, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = config.DefaultFeedPageSize
	}
	if limit > config.MaxFeedPageSize {
		limit = config.MaxFeedPageSize
	}
	return s.notificationRepo.ListByRecipient(ctx, actor.ID, unreadOnly, limit)
}

// MarkRead stamps one of the actor's notifications read
func (s *notificationService) MarkRead(ctx context.Context, actor models.Actor, id string) error {
	return s.notificationRepo.MarkRead(ctx, id, actor.ID)
}
