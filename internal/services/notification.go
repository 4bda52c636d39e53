package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"daily-vibes-backend/internal/apperrors"
	"daily-vibes-backend/internal/models"
	"daily-vibes-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const inboxPageLimit = 50

// NotificationService is the append-only per-user inbox plus the best-effort
// live-delivery path (WebSocket hint, then push to a registered device).
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	devices          *repository.DeviceRegistry
	hub              *WSHub
	pusher           *Pusher // nil when push delivery is not configured
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	devices *repository.DeviceRegistry,
	hub *WSHub,
	pusher *Pusher,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		devices:          devices,
		hub:              hub,
		pusher:           pusher,
	}
}

// Append stores a notification in the recipient's inbox and triggers a
// best-effort live delivery. The append is the operation that matters: a
// failed live delivery never surfaces to the caller.
func (s *NotificationService) Append(ctx context.Context, recipient, title, body, typ, origin string, extra any) (*models.Notification, error) {
	n := &models.Notification{
		ID:        uuid.New().String(),
		Recipient: recipient,
		Title:     title,
		Body:      body,
		Type:      typ,
		Origin:    origin,
		Timestamp: time.Now(),
	}
	if extra != nil {
		raw, err := json.Marshal(extra)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal notification extra: %w", err)
		}
		n.Extra = raw
	}

	if err := s.notificationRepo.Insert(ctx, n); err != nil {
		return nil, err
	}

	go s.deliverLive(n)

	return n, nil
}

// deliverLive attempts the WebSocket hint and the device push. Both are
// fire-and-forget; failures are logged and swallowed.
func (s *NotificationService) deliverLive(n *models.Notification) {
	s.hub.HintNotification(n)

	if s.pusher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	device, err := s.devices.Get(ctx, n.Recipient)
	if err != nil {
		log.Warn().Err(err).Str("recipient", n.Recipient).Msg("Device registry lookup failed")
		return
	}
	if device == nil {
		return
	}

	if err := s.pusher.Push(device, n.Title, n.Body); err != nil {
		log.Warn().
			Err(err).
			Str("recipient", n.Recipient).
			Str("type", n.Type).
			Msg("Best-effort push delivery failed")
	}
}

// Inbox is one page of a user's notifications. UnreadCount counts unread
// entries among the returned page, not the whole inbox.
type Inbox struct {
	Notifications []*models.Notification `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
}

// List returns the recipient's newest notifications, capped at 50
func (s *NotificationService) List(ctx context.Context, recipient string) (*Inbox, error) {
	notifications, err := s.notificationRepo.ListByRecipient(ctx, recipient, inboxPageLimit)
	if err != nil {
		return nil, err
	}

	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}
	return &Inbox{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkRead flags one notification as read; ids that do not exist or belong
// to someone else are silently ignored
func (s *NotificationService) MarkRead(ctx context.Context, recipient, id string) error {
	return s.notificationRepo.MarkRead(ctx, recipient, id)
}

// Clear deletes the recipient's entire inbox. There is no undo.
func (s *NotificationService) Clear(ctx context.Context, recipient string) error {
	return s.notificationRepo.Clear(ctx, recipient)
}

// RegisterDevice stores a live-delivery endpoint for the user
func (s *NotificationService) RegisterDevice(ctx context.Context, username string, device *models.Device) error {
	if device.Token == "" {
		return fmt.Errorf("device token required: %w", apperrors.ErrValidation)
	}
	return s.devices.Register(ctx, username, device)
}
