package repository

import (
	"context"
	"fmt"

	"daily-vibes-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository handles database operations for per-user inboxes
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Insert appends a notification to the recipient's inbox
func (r *NotificationRepository) Insert(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient, title, body, type, origin, extra, created_at, read)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		n.ID, n.Recipient, n.Title, n.Body, n.Type, n.Origin, n.Extra, n.Timestamp, n.Read)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListByRecipient returns the recipient's newest notifications, capped at limit
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipient string, limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, recipient, title, body, type, origin, extra, created_at, read
		FROM notifications
		WHERE recipient = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, recipient, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*models.Notification{}
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(&n.ID, &n.Recipient, &n.Title, &n.Body, &n.Type,
			&n.Origin, &n.Extra, &n.Timestamp, &n.Read)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flags one of the recipient's notifications as read. A foreign or
// unknown id is a silent no-op.
func (r *NotificationRepository) MarkRead(ctx context.Context, recipient, id string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND recipient = $2`, id, recipient)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// Clear deletes all of the recipient's notifications
func (r *NotificationRepository) Clear(ctx context.Context, recipient string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE recipient = $1`, recipient)
	if err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}
