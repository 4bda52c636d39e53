package models

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire and storage format for vibe days.
const DateLayout = "2006-01-02"

// User represents a user in the system
type User struct {
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	ProfileImage   *string   `json:"profile_image,omitempty"`
	Streak         int       `json:"streak"`
	LastPostDate   *string   `json:"last_post_date,omitempty"` // vibe day, DateLayout
	Achievements   []string  `json:"achievements"`
	MemoriesPublic bool      `json:"memories_public"`
	IsAdmin        bool      `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// PublicUser is the profile shape exposed over the API
type PublicUser struct {
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	ProfileImage   *string   `json:"profile_image"`
	Streak         int       `json:"streak"`
	Achievements   []string  `json:"achievements"`
	MemoriesPublic bool      `json:"memories_public"`
	CreatedAt      time.Time `json:"created_at"`
}

// Public strips credential and internal fields from a user
func (u *User) Public() *PublicUser {
	achievements := u.Achievements
	if achievements == nil {
		achievements = []string{}
	}
	return &PublicUser{
		Username:       u.Username,
		Email:          u.Email,
		ProfileImage:   u.ProfileImage,
		Streak:         u.Streak,
		Achievements:   achievements,
		MemoriesPublic: u.MemoriesPublic,
		CreatedAt:      u.CreatedAt,
	}
}

// Photo represents a daily photo bound to the challenge active at capture time
type Photo struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	VibeDate       string    `json:"date"` // calendar date, not upload instant
	ImageURL       string    `json:"image_url"`
	Caption        string    `json:"caption"`
	ChallengeTitle string    `json:"challenge"` // frozen, never recomputed
	Likes          []string  `json:"likes"`
	Comments       []Comment `json:"comments"`
	CreatedAt      time.Time `json:"created_at"`
}

// Comment is a single entry in a photo's ordered comment list
type Comment struct {
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Challenge is one entry of the rotating challenge catalogue
type Challenge struct {
	ID          int    `json:"id"`
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ChallengeDay is the challenge resolved for one calendar date together with
// its observation window. The window is informational metadata only; uploads
// are never gated on it.
type ChallengeDay struct {
	Challenge
	Date      string    `json:"date"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// Notification type tags
const (
	NotificationNewPhoto       = "new_photo"
	NotificationLike           = "like"
	NotificationComment        = "comment"
	NotificationFriendRequest  = "friend_request"
	NotificationDailyChallenge = "daily_challenge"
)

// OriginSystem marks notifications not attributable to a user action
const OriginSystem = "system"

// Notification is an entry in a user's inbox. Extra is a payload variant
// keyed by Type; see the *Extra types below.
type Notification struct {
	ID        string          `json:"id"`
	Recipient string          `json:"-"`
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	Type      string          `json:"type"`
	Origin    string          `json:"from"`
	Extra     json.RawMessage `json:"extra,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Read      bool            `json:"read"`
}

// CommentExtra carries the full comment text on "comment" notifications
type CommentExtra struct {
	Text string `json:"text"`
}

// FriendRequestExtra carries the requester on "friend_request" notifications
type FriendRequestExtra struct {
	Requester string `json:"requester"`
}

// DailyChallengeExtra identifies the challenge on "daily_challenge" notifications
type DailyChallengeExtra struct {
	ChallengeID int    `json:"challenge_id"`
	Title       string `json:"title"`
}

// Device is a live-delivery endpoint registered for a user
type Device struct {
	Token    string `json:"device_token"`
	Platform string `json:"platform"`
}

// StreakResult reports the streak state after a user's first post of a day
type StreakResult struct {
	Streak          int      `json:"streak"`
	NewAchievements []string `json:"new_achievements"`
}
