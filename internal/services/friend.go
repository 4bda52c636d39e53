package services

import (
	"context"
	"fmt"

	"daily-vibes-backend/internal/apperrors"
	"daily-vibes-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// friendStore is the user persistence the friend lifecycle needs
type friendStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ListFriends(ctx context.Context, username string) ([]string, error)
	AreFriends(ctx context.Context, a, b string) (bool, error)
	CreateFriendRequest(ctx context.Context, requester, recipient string) error
	HasPendingRequest(ctx context.Context, requester, recipient string) (bool, error)
	ListPendingRequests(ctx context.Context, recipient string) ([]string, error)
	AcceptFriendRequest(ctx context.Context, requester, recipient string) error
	DeleteFriendRequest(ctx context.Context, a, b string) error
	RemoveFriend(ctx context.Context, a, b string) error
}

// FriendService drives the friend-request lifecycle:
// none -> pending(requester) -> friends, or back to none before acceptance.
type FriendService struct {
	userRepo      friendStore
	notifications notifier
}

// NewFriendService creates a new friend service
func NewFriendService(userRepo friendStore, notifications notifier) *FriendService {
	return &FriendService{
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// ListFriends returns the caller's friends
func (s *FriendService) ListFriends(ctx context.Context, username string) ([]string, error) {
	return s.userRepo.ListFriends(ctx, username)
}

// ListRequests returns the usernames waiting for the caller's acceptance
func (s *FriendService) ListRequests(ctx context.Context, username string) ([]string, error) {
	return s.userRepo.ListPendingRequests(ctx, username)
}

// SendRequest records a pending friend request and notifies the recipient
func (s *FriendService) SendRequest(ctx context.Context, requester, recipient string) error {
	if recipient == "" {
		return fmt.Errorf("username required: %w", apperrors.ErrValidation)
	}
	if recipient == requester {
		return fmt.Errorf("cannot add yourself as a friend: %w", apperrors.ErrValidation)
	}
	if _, err := s.userRepo.GetByUsername(ctx, recipient); err != nil {
		return err
	}

	friends, err := s.userRepo.AreFriends(ctx, requester, recipient)
	if err != nil {
		return err
	}
	if friends {
		return fmt.Errorf("already friends: %w", apperrors.ErrConflict)
	}

	// Only the same direction is rejected as a duplicate; a crossing request
	// from the other side stays pending on its own row.
	if err := s.userRepo.CreateFriendRequest(ctx, requester, recipient); err != nil {
		return err
	}

	_, err = s.notifications.Append(ctx, recipient,
		"👋 Neue Freundschaftsanfrage!",
		fmt.Sprintf("%s möchte dein Freund sein", requester),
		models.NotificationFriendRequest, requester,
		models.FriendRequestExtra{Requester: requester})
	if err != nil {
		log.Error().Err(err).Str("recipient", recipient).Msg("Failed to append friend request notification")
	}
	return nil
}

// AcceptRequest turns a pending request into a symmetric friendship. The
// pending row is removed and the friendship inserted in one transaction.
func (s *FriendService) AcceptRequest(ctx context.Context, accepter, requester string) error {
	if requester == "" {
		return fmt.Errorf("username required: %w", apperrors.ErrValidation)
	}
	if _, err := s.userRepo.GetByUsername(ctx, requester); err != nil {
		return err
	}

	pending, err := s.userRepo.HasPendingRequest(ctx, requester, accepter)
	if err != nil {
		return err
	}
	if !pending {
		return fmt.Errorf("no pending request from %q: %w", requester, apperrors.ErrValidation)
	}

	return s.userRepo.AcceptFriendRequest(ctx, requester, accepter)
}

// RemoveFriend ends a friendship symmetrically and immediately. Removing the
// requester of a still-pending request cancels it. No notification is sent.
func (s *FriendService) RemoveFriend(ctx context.Context, username, friend string) error {
	if friend == "" {
		return fmt.Errorf("username required: %w", apperrors.ErrValidation)
	}
	if _, err := s.userRepo.GetByUsername(ctx, friend); err != nil {
		return err
	}
	if err := s.userRepo.RemoveFriend(ctx, username, friend); err != nil {
		return err
	}
	// Drop any not-yet-accepted request between the two as well.
	return s.userRepo.DeleteFriendRequest(ctx, username, friend)
}
