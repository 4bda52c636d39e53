package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-vibes-backend/internal/models"
)

type fakeWSConn struct {
	closed   bool
	messages [][]byte
	writeErr error
}

func (c *fakeWSConn) WriteMessage(messageType int, data []byte) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeWSConn) Close() error {
	c.closed = true
	return nil
}

func TestWSHub_RegisterReplacesConnection(t *testing.T) {
	hub := NewWSHub()
	first := &fakeWSConn{}
	second := &fakeWSConn{}

	hub.Register("alice", first)
	hub.Register("alice", second)

	assert.True(t, first.closed)
	assert.False(t, second.closed)
	assert.True(t, hub.IsOnline("alice"))
}

// A handler whose connection was replaced by a reconnect still runs its
// deferred Unregister; that must not tear down the replacement.
func TestWSHub_UnregisterIgnoresStaleConnection(t *testing.T) {
	hub := NewWSHub()
	stale := &fakeWSConn{}
	fresh := &fakeWSConn{}

	hub.Register("alice", stale)
	hub.Register("alice", fresh)
	hub.Unregister("alice", stale)

	assert.True(t, hub.IsOnline("alice"))
	require.NoError(t, hub.SendToUser("alice", WSMessage{Type: "ping"}))
	assert.Len(t, fresh.messages, 1)

	hub.Unregister("alice", fresh)
	assert.False(t, hub.IsOnline("alice"))
	assert.True(t, fresh.closed)
}

func TestWSHub_SendToUser_NotConnected(t *testing.T) {
	hub := NewWSHub()
	assert.Error(t, hub.SendToUser("alice", WSMessage{Type: "ping"}))
}

func TestWSHub_WriteFailureEvictsConnection(t *testing.T) {
	hub := NewWSHub()
	conn := &fakeWSConn{writeErr: errors.New("broken pipe")}

	hub.Register("alice", conn)
	assert.Error(t, hub.SendToUser("alice", WSMessage{Type: "ping"}))
	assert.False(t, hub.IsOnline("alice"))
}

func TestWSHub_HintNotification(t *testing.T) {
	hub := NewWSHub()
	conn := &fakeWSConn{}
	hub.Register("alice", conn)

	hub.HintNotification(&models.Notification{ID: "n1", Recipient: "alice", Type: "like"})
	require.Len(t, conn.messages, 1)
	assert.Contains(t, string(conn.messages[0]), `"n1"`)

	// Nobody connected: the hint is silently dropped.
	hub.HintNotification(&models.Notification{ID: "n2", Recipient: "bob"})
}
