package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Friendship rows are stored with user_a < user_b, so both orderings of a
// pair must normalize to the same key.
func TestPairKey(t *testing.T) {
	a, b := pairKey("alice", "bob")
	assert.Equal(t, "alice", a)
	assert.Equal(t, "bob", b)

	a, b = pairKey("bob", "alice")
	assert.Equal(t, "alice", a)
	assert.Equal(t, "bob", b)

	a, b = pairKey("alice", "alice")
	assert.Equal(t, "alice", a)
	assert.Equal(t, "alice", b)
}
