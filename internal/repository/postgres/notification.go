package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"plaza/internal/domain"
	"plaza/internal/domain/models"
	"plaza/internal/domain/repositories"
)

// PostgresNotificationRepository implements the NotificationRepository interface
type PostgresNotificationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(config *RepositoryConfig) repositories.NotificationRepository {
	return &PostgresNotificationRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a notification row
func (r *PostgresNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, recipient_id, actor_id, kind, subject_type, subject_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING created_at
	`, r.tables.Notifications)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		n.ID,
		n.RecipientID,
		n.ActorID,
		n.Kind,
		n.SubjectType,
		n.SubjectID,
	).Scan(&n.CreatedAt)

	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

// ListByRecipient lists a user's notifications, newest first
func (r *PostgresNotificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	query := fmt.Sprintf(`
		SELECT id, recipient_id, actor_id, kind, subject_type, subject_id, read_at, created_at
		FROM %s
		WHERE recipient_id = $1 AND ($2 = false OR read_at IS NULL)
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, r.tables.Notifications)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, recipientID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.ActorID,
			&n.Kind,
			&n.SubjectType,
			&n.SubjectID,
			&n.ReadAt,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead stamps a notification read for its recipient
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET read_at = now()
		WHERE id = $1 AND recipient_id = $2 AND read_at IS NULL
	`, r.tables.Notifications)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, recipientID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
