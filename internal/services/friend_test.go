package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-vibes-backend/internal/apperrors"
	"daily-vibes-backend/internal/models"
)

func newFriendFixture(usernames ...string) (*FriendService, *fakeUserStore, *fakeNotifier) {
	users := newFakeUserStore(usernames...)
	inbox := &fakeNotifier{}
	return NewFriendService(users, inbox), users, inbox
}

func TestSendRequest_Validation(t *testing.T) {
	svc, _, _ := newFriendFixture("alice", "bob")
	ctx := context.Background()

	assert.ErrorIs(t, svc.SendRequest(ctx, "alice", ""), apperrors.ErrValidation)
	assert.ErrorIs(t, svc.SendRequest(ctx, "alice", "alice"), apperrors.ErrValidation)
	assert.ErrorIs(t, svc.SendRequest(ctx, "alice", "nobody"), apperrors.ErrNotFound)
}

func TestFriendRequest_Lifecycle(t *testing.T) {
	svc, _, inbox := newFriendFixture("alice", "bob")
	ctx := context.Background()

	require.NoError(t, svc.SendRequest(ctx, "bob", "alice"))

	pending, err := svc.ListRequests(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, pending)

	notifications := inbox.forRecipient("alice")
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationFriendRequest, notifications[0].Type)
	assert.Contains(t, string(notifications[0].Extra), "bob")

	// Same direction again is a duplicate.
	assert.ErrorIs(t, svc.SendRequest(ctx, "bob", "alice"), apperrors.ErrConflict)

	require.NoError(t, svc.AcceptRequest(ctx, "alice", "bob"))

	// The friendship is symmetric and the pending row is gone.
	for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		friends, err := svc.ListFriends(ctx, pair[0])
		require.NoError(t, err)
		assert.Equal(t, []string{pair[1]}, friends)
	}
	pending, err = svc.ListRequests(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Friends cannot request each other again.
	assert.ErrorIs(t, svc.SendRequest(ctx, "alice", "bob"), apperrors.ErrConflict)
}

func TestAcceptRequest_WithoutPending(t *testing.T) {
	svc, _, _ := newFriendFixture("alice", "bob")
	err := svc.AcceptRequest(context.Background(), "alice", "bob")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRemoveFriend(t *testing.T) {
	svc, users, _ := newFriendFixture("alice", "bob")
	ctx := context.Background()
	users.befriend("alice", "bob")

	require.NoError(t, svc.RemoveFriend(ctx, "alice", "bob"))

	friends, err := svc.ListFriends(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, friends)
	friends, err = svc.ListFriends(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, friends)
}

// Removing the counterpart of a still-pending request cancels the request.
func TestRemoveFriend_CancelsPendingRequest(t *testing.T) {
	svc, _, _ := newFriendFixture("alice", "bob")
	ctx := context.Background()

	require.NoError(t, svc.SendRequest(ctx, "bob", "alice"))
	require.NoError(t, svc.RemoveFriend(ctx, "alice", "bob"))

	pending, err := svc.ListRequests(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.ErrorIs(t, svc.AcceptRequest(ctx, "alice", "bob"), apperrors.ErrValidation)
}
