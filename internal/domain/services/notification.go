package services

import (
	"context"

	"plaza/internal/domain/models"
)

// NotificationService handles notification business logic
type NotificationService interface {
	// List returns the actor's notifications, newest first
	List(ctx context.Context, actor models.Actor, unreadOnly bool, limit int) ([]models.Notification, error)

	// MarkRead stamps one of the actor's notifications read
	MarkRead(ctx context.Context, actor models.Actor, id string) error
}
