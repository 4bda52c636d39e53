package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"daily-vibes-backend/internal/apperrors"
	"daily-vibes-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const commentPreviewRunes = 50

// photoStore is the photo persistence the engagement service needs
type photoStore interface {
	Insert(ctx context.Context, photo *models.Photo) (int, error)
	GetByID(ctx context.Context, id string) (*models.Photo, error)
	Delete(ctx context.Context, id, username string) error
	ListForDay(ctx context.Context, owners []string, date string) ([]*models.Photo, error)
	ListMemories(ctx context.Context, owner, excludeDate string) ([]*models.Photo, error)
	ListMemoryDates(ctx context.Context, owner string) ([]string, error)
	ListForOwnerAndDay(ctx context.Context, owner, date string) ([]*models.Photo, error)
	ToggleLike(ctx context.Context, photoID, username string) (bool, error)
	AddComment(ctx context.Context, photoID string, comment *models.Comment) error
}

// friendReader is the slice of the user store consulted for feeds and gates
type friendReader interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ListFriends(ctx context.Context, username string) ([]string, error)
	AreFriends(ctx context.Context, a, b string) (bool, error)
}

// imageStore holds the photo payloads themselves
type imageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// notifier appends to a recipient's inbox
type notifier interface {
	Append(ctx context.Context, recipient, title, body, typ, origin string, extra any) (*models.Notification, error)
}

// EngagementService orchestrates uploads, likes and comments: it enforces
// the daily cap, freezes the active challenge into each photo, advances the
// streak on a user's first post of the day and fans notifications out to
// friends.
type EngagementService struct {
	photoRepo  photoStore
	userRepo   friendReader
	challenges *ChallengeService
	streaks    *StreakService
	inbox      notifier
	store      imageStore

	now func() time.Time
}

// NewEngagementService creates a new engagement service
func NewEngagementService(
	photoRepo photoStore,
	userRepo friendReader,
	challenges *ChallengeService,
	streaks *StreakService,
	inbox notifier,
	store imageStore,
) *EngagementService {
	return &EngagementService{
		photoRepo:  photoRepo,
		userRepo:   userRepo,
		challenges: challenges,
		streaks:    streaks,
		inbox:      inbox,
		store:      store,
		now:        time.Now,
	}
}

// UploadResult is the response payload of a photo upload
type UploadResult struct {
	Photo  *models.Photo        `json:"photo"`
	Streak *models.StreakResult `json:"streak,omitempty"`
}

// decodeImage accepts a raw or data-URL base64 payload
func decodeImage(imageData string) ([]byte, error) {
	if imageData == "" {
		return nil, fmt.Errorf("image required: %w", apperrors.ErrValidation)
	}
	if idx := strings.Index(imageData, ","); idx >= 0 && strings.HasPrefix(imageData, "data:") {
		imageData = imageData[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		return nil, fmt.Errorf("invalid image encoding: %w", apperrors.ErrValidation)
	}
	return data, nil
}

// UploadPhoto runs the upload pipeline for the caller's current vibe day.
func (s *EngagementService) UploadPhoto(ctx context.Context, username, imageData, caption string) (*UploadResult, error) {
	data, err := decodeImage(imageData)
	if err != nil {
		return nil, err
	}

	now := s.now()
	date := s.challenges.DateOf(now)

	// The challenge title is frozen into the photo at capture time; a later
	// override for this date does not rewrite photos already taken.
	day, err := s.challenges.SelectChallenge(ctx, date)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s/%s.jpg", username, date, uuid.New().String())
	imageURL, err := s.store.Put(ctx, key, data, "image/jpeg")
	if err != nil {
		return nil, err
	}

	photo := &models.Photo{
		Username:       username,
		VibeDate:       date,
		ImageURL:       imageURL,
		Caption:        caption,
		ChallengeTitle: day.Title,
		Likes:          []string{},
		Comments:       []models.Comment{},
		CreatedAt:      now,
	}
	seq, err := s.photoRepo.Insert(ctx, photo)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("Failed to clean up orphaned photo object")
		}
		return nil, err
	}

	result := &UploadResult{Photo: photo}

	// Streak advances only on the 0 -> 1 transition of the day's post count.
	if seq == 1 {
		streak, err := s.streaks.RecordFirstPostOfDay(ctx, username, date)
		if err != nil {
			log.Error().Err(err).Str("username", username).Msg("Failed to record first post of day")
		} else {
			result.Streak = streak
		}
	}

	s.notifyFriendsAboutPhoto(ctx, username)

	return result, nil
}

// notifyFriendsAboutPhoto fans a new_photo notification out to every friend.
// Per-friend failures are logged and skipped; the upload already succeeded.
func (s *EngagementService) notifyFriendsAboutPhoto(ctx context.Context, username string) {
	friends, err := s.userRepo.ListFriends(ctx, username)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to list friends for photo fan-out")
		return
	}
	for _, friend := range friends {
		_, err := s.inbox.Append(ctx, friend,
			"📸 Neues Foto!",
			fmt.Sprintf("%s hat ein neues Foto hochgeladen!", username),
			models.NotificationNewPhoto, username, nil)
		if err != nil {
			log.Error().Err(err).Str("recipient", friend).Msg("Failed to append new photo notification")
		}
	}
}

// TodayFeed returns today's photos posted by the caller's friends
func (s *EngagementService) TodayFeed(ctx context.Context, username string) ([]*models.Photo, error) {
	friends, err := s.userRepo.ListFriends(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.photoRepo.ListForDay(ctx, friends, s.challenges.DateOf(s.now()))
}

// MyToday returns the caller's own photos for the current vibe day
func (s *EngagementService) MyToday(ctx context.Context, username string) ([]*models.Photo, error) {
	return s.photoRepo.ListForOwnerAndDay(ctx, username, s.challenges.DateOf(s.now()))
}

// DeletePhoto removes one of the caller's own photos
func (s *EngagementService) DeletePhoto(ctx context.Context, username, photoID string) error {
	return s.photoRepo.Delete(ctx, photoID, username)
}

// canViewMemories gates a user's memory archive: the owner always may, other
// users need an existing friendship plus the owner's memories_public flag.
func (s *EngagementService) canViewMemories(ctx context.Context, viewer, owner string) error {
	if viewer == owner {
		return nil
	}
	user, err := s.userRepo.GetByUsername(ctx, owner)
	if err != nil {
		return err
	}
	friends, err := s.userRepo.AreFriends(ctx, viewer, owner)
	if err != nil {
		return err
	}
	if !friends || !user.MemoriesPublic {
		return fmt.Errorf("memories of %q are private: %w", owner, apperrors.ErrForbidden)
	}
	return nil
}

// Memories returns owner's past photos, newest vibe day first
func (s *EngagementService) Memories(ctx context.Context, viewer, owner string) ([]*models.Photo, error) {
	if err := s.canViewMemories(ctx, viewer, owner); err != nil {
		return nil, err
	}
	return s.photoRepo.ListMemories(ctx, owner, s.challenges.DateOf(s.now()))
}

// MemoryCalendar returns the distinct vibe days owner has posted on
func (s *EngagementService) MemoryCalendar(ctx context.Context, viewer, owner string) ([]string, error) {
	if err := s.canViewMemories(ctx, viewer, owner); err != nil {
		return nil, err
	}
	return s.photoRepo.ListMemoryDates(ctx, owner)
}

// MemoriesForDate returns owner's photos for one vibe day
func (s *EngagementService) MemoriesForDate(ctx context.Context, viewer, owner, date string) ([]*models.Photo, error) {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, apperrors.ErrValidation)
	}
	if err := s.canViewMemories(ctx, viewer, owner); err != nil {
		return nil, err
	}
	return s.photoRepo.ListForOwnerAndDay(ctx, owner, date)
}

// ToggleLike flips the caller's like on a photo. Only the unliked -> liked
// transition notifies the owner, and never for self-likes.
func (s *EngagementService) ToggleLike(ctx context.Context, username, photoID string) (bool, error) {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return false, err
	}

	liked, err := s.photoRepo.ToggleLike(ctx, photoID, username)
	if err != nil {
		return false, err
	}

	if liked && photo.Username != username {
		_, err := s.inbox.Append(ctx, photo.Username,
			"❤️ Neuer Like!",
			fmt.Sprintf("%s hat dein Foto geliked!", username),
			models.NotificationLike, username, nil)
		if err != nil {
			log.Error().Err(err).Str("recipient", photo.Username).Msg("Failed to append like notification")
		}
	}
	return liked, nil
}

// commentPreview shortens a comment for a notification body
func commentPreview(text string) string {
	runes := []rune(text)
	if len(runes) <= commentPreviewRunes {
		return text
	}
	return string(runes[:commentPreviewRunes]) + "..."
}

// Comment appends a comment to a photo and notifies its owner with a
// truncated preview (never for self-comments)
func (s *EngagementService) Comment(ctx context.Context, username, photoID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("comment must not be empty: %w", apperrors.ErrValidation)
	}

	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Username:  username,
		Text:      text,
		Timestamp: s.now(),
	}
	if err := s.photoRepo.AddComment(ctx, photoID, comment); err != nil {
		return nil, err
	}

	if photo.Username != username {
		_, err := s.inbox.Append(ctx, photo.Username,
			"💬 Neuer Kommentar!",
			fmt.Sprintf("%s: %s", username, commentPreview(text)),
			models.NotificationComment, username,
			models.CommentExtra{Text: text})
		if err != nil {
			log.Error().Err(err).Str("recipient", photo.Username).Msg("Failed to append comment notification")
		}
	}
	return comment, nil
}
