package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPublic_StripsCredentials(t *testing.T) {
	u := &User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$abcdef",
		Streak:       7,
		Achievements: []string{"streak_7"},
		IsAdmin:      true,
	}

	body, err := json.Marshal(u.Public())
	require.NoError(t, err)

	assert.NotContains(t, string(body), "abcdef")
	assert.NotContains(t, string(body), "admin")
	assert.Contains(t, string(body), `"streak":7`)
}

func TestUserPublic_NilAchievements(t *testing.T) {
	body, err := json.Marshal((&User{Username: "bob"}).Public())
	require.NoError(t, err)
	assert.Contains(t, string(body), `"achievements":[]`)
}

func TestNotificationExtra_Tagged(t *testing.T) {
	extra, err := json.Marshal(DailyChallengeExtra{ChallengeID: 3, Title: "Dein Lieblingsplatz"})
	require.NoError(t, err)

	n := Notification{
		Type:   NotificationDailyChallenge,
		Origin: OriginSystem,
		Extra:  extra,
	}
	body, err := json.Marshal(n)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Contains(t, decoded, "extra")
	assert.NotContains(t, decoded, "recipient")
}
