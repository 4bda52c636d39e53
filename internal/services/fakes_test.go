package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"daily-vibes-backend/internal/apperrors"
	"daily-vibes-backend/internal/models"
	"daily-vibes-backend/internal/repository"

	"github.com/google/uuid"
)

// In-memory stand-ins for the repositories. They mirror the persistence
// contracts (cap semantics, id derivation, pair normalization) so the
// services can be exercised without a database.

type fakeChallengeStore struct {
	catalogue []models.Challenge
	overrides map[string]int
}

func newFakeChallengeStore(n int) *fakeChallengeStore {
	s := &fakeChallengeStore{overrides: map[string]int{}}
	for i := 1; i <= n; i++ {
		s.catalogue = append(s.catalogue, models.Challenge{
			ID:          i,
			Title:       fmt.Sprintf("Challenge %d", i),
			Description: fmt.Sprintf("Beschreibung %d", i),
		})
	}
	return s
}

func (s *fakeChallengeStore) List(ctx context.Context) ([]models.Challenge, error) {
	return s.catalogue, nil
}

func (s *fakeChallengeStore) GetByID(ctx context.Context, id int) (*models.Challenge, error) {
	for _, c := range s.catalogue {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, fmt.Errorf("challenge %d: %w", id, apperrors.ErrNotFound)
}

func (s *fakeChallengeStore) Add(ctx context.Context, icon, title, description string) (*models.Challenge, error) {
	c := models.Challenge{ID: len(s.catalogue) + 1, Icon: icon, Title: title, Description: description}
	s.catalogue = append(s.catalogue, c)
	return &c, nil
}

func (s *fakeChallengeStore) SetOverride(ctx context.Context, date string, challengeID int) error {
	s.overrides[date] = challengeID
	return nil
}

func (s *fakeChallengeStore) GetOverride(ctx context.Context, date string) (int, bool, error) {
	id, ok := s.overrides[date]
	return id, ok, nil
}

func (s *fakeChallengeStore) Seed(ctx context.Context) error { return nil }

type fakePhotoRepo struct {
	photos map[string]*models.Photo
	likes  map[string]map[string]bool
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{
		photos: map[string]*models.Photo{},
		likes:  map[string]map[string]bool{},
	}
}

// Insert mirrors the single-statement insert: the cap counts surviving rows,
// the id disambiguator is the highest existing suffix plus one.
func (f *fakePhotoRepo) Insert(ctx context.Context, photo *models.Photo) (int, error) {
	n, maxSeq := 0, 0
	for id, p := range f.photos {
		if p.Username != photo.Username || p.VibeDate != photo.VibeDate {
			continue
		}
		n++
		if seq, err := strconv.Atoi(id[strings.LastIndex(id, "_")+1:]); err == nil && seq > maxSeq {
			maxSeq = seq
		}
	}
	if n >= repository.DailyPhotoLimit {
		return 0, fmt.Errorf("daily photo limit of %d reached: %w", repository.DailyPhotoLimit, apperrors.ErrQuotaExceeded)
	}
	photo.ID = fmt.Sprintf("%s_%s_%d", photo.Username, photo.VibeDate, maxSeq+1)
	if _, exists := f.photos[photo.ID]; exists {
		return 0, fmt.Errorf("duplicate key value violates unique constraint: %q", photo.ID)
	}
	f.photos[photo.ID] = photo
	return n + 1, nil
}

func (f *fakePhotoRepo) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	photo, ok := f.photos[id]
	if !ok {
		return nil, fmt.Errorf("photo %q: %w", id, apperrors.ErrNotFound)
	}
	return photo, nil
}

func (f *fakePhotoRepo) Delete(ctx context.Context, id, username string) error {
	photo, ok := f.photos[id]
	if !ok || photo.Username != username {
		return fmt.Errorf("photo %q: %w", id, apperrors.ErrNotFound)
	}
	delete(f.photos, id)
	return nil
}

func (f *fakePhotoRepo) ListForDay(ctx context.Context, owners []string, date string) ([]*models.Photo, error) {
	photos := []*models.Photo{}
	for _, p := range f.photos {
		for _, owner := range owners {
			if p.Username == owner && p.VibeDate == date {
				photos = append(photos, p)
			}
		}
	}
	return photos, nil
}

func (f *fakePhotoRepo) ListMemories(ctx context.Context, owner, excludeDate string) ([]*models.Photo, error) {
	photos := []*models.Photo{}
	for _, p := range f.photos {
		if p.Username == owner && p.VibeDate != excludeDate {
			photos = append(photos, p)
		}
	}
	return photos, nil
}

func (f *fakePhotoRepo) ListMemoryDates(ctx context.Context, owner string) ([]string, error) {
	seen := map[string]bool{}
	dates := []string{}
	for _, p := range f.photos {
		if p.Username == owner && !seen[p.VibeDate] {
			seen[p.VibeDate] = true
			dates = append(dates, p.VibeDate)
		}
	}
	return dates, nil
}

func (f *fakePhotoRepo) ListForOwnerAndDay(ctx context.Context, owner, date string) ([]*models.Photo, error) {
	return f.ListForDay(ctx, []string{owner}, date)
}

func (f *fakePhotoRepo) ToggleLike(ctx context.Context, photoID, username string) (bool, error) {
	if f.likes[photoID] == nil {
		f.likes[photoID] = map[string]bool{}
	}
	if f.likes[photoID][username] {
		delete(f.likes[photoID], username)
		return false, nil
	}
	f.likes[photoID][username] = true
	return true, nil
}

func (f *fakePhotoRepo) AddComment(ctx context.Context, photoID string, comment *models.Comment) error {
	photo, ok := f.photos[photoID]
	if !ok {
		return fmt.Errorf("photo %q: %w", photoID, apperrors.ErrNotFound)
	}
	photo.Comments = append(photo.Comments, *comment)
	return nil
}

type fakeUserStore struct {
	users   map[string]*models.User
	friends map[string]bool // normalized "a|b"
	pending map[string]bool // "requester>recipient"
}

func newFakeUserStore(usernames ...string) *fakeUserStore {
	s := &fakeUserStore{
		users:   map[string]*models.User{},
		friends: map[string]bool{},
		pending: map[string]bool{},
	}
	for _, u := range usernames {
		s.users[u] = &models.User{Username: u, Achievements: []string{}, CreatedAt: time.Now()}
	}
	return s
}

func friendKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

func (s *fakeUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, ok := s.users[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, apperrors.ErrNotFound)
	}
	return user, nil
}

func (s *fakeUserStore) UpdateStreak(ctx context.Context, username string, streak int, lastPostDate string, achievements []string) error {
	user, ok := s.users[username]
	if !ok {
		return fmt.Errorf("user %q: %w", username, apperrors.ErrNotFound)
	}
	date := lastPostDate
	user.Streak = streak
	user.LastPostDate = &date
	user.Achievements = achievements
	return nil
}

func (s *fakeUserStore) ListFriends(ctx context.Context, username string) ([]string, error) {
	friends := []string{}
	for other := range s.users {
		if other != username && s.friends[friendKey(username, other)] {
			friends = append(friends, other)
		}
	}
	return friends, nil
}

func (s *fakeUserStore) AreFriends(ctx context.Context, a, b string) (bool, error) {
	return s.friends[friendKey(a, b)], nil
}

func (s *fakeUserStore) CreateFriendRequest(ctx context.Context, requester, recipient string) error {
	key := requester + ">" + recipient
	if s.pending[key] {
		return fmt.Errorf("request already pending: %w", apperrors.ErrConflict)
	}
	s.pending[key] = true
	return nil
}

func (s *fakeUserStore) HasPendingRequest(ctx context.Context, requester, recipient string) (bool, error) {
	return s.pending[requester+">"+recipient], nil
}

func (s *fakeUserStore) ListPendingRequests(ctx context.Context, recipient string) ([]string, error) {
	requesters := []string{}
	for key := range s.pending {
		parts := strings.SplitN(key, ">", 2)
		if parts[1] == recipient {
			requesters = append(requesters, parts[0])
		}
	}
	return requesters, nil
}

func (s *fakeUserStore) AcceptFriendRequest(ctx context.Context, requester, recipient string) error {
	key := requester + ">" + recipient
	if !s.pending[key] {
		return fmt.Errorf("no pending request: %w", apperrors.ErrNotFound)
	}
	delete(s.pending, key)
	s.friends[friendKey(requester, recipient)] = true
	return nil
}

func (s *fakeUserStore) DeleteFriendRequest(ctx context.Context, a, b string) error {
	delete(s.pending, a+">"+b)
	delete(s.pending, b+">"+a)
	return nil
}

func (s *fakeUserStore) RemoveFriend(ctx context.Context, a, b string) error {
	delete(s.friends, friendKey(a, b))
	return nil
}

func (s *fakeUserStore) befriend(a, b string) {
	s.friends[friendKey(a, b)] = true
}

type fakeImageStore struct {
	objects map[string][]byte
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{objects: map[string][]byte{}}
}

func (s *fakeImageStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	s.objects[key] = data
	return "https://photos.test/" + key, nil
}

func (s *fakeImageStore) Delete(ctx context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

type fakeNotifier struct {
	appended []*models.Notification
}

func (f *fakeNotifier) Append(ctx context.Context, recipient, title, body, typ, origin string, extra any) (*models.Notification, error) {
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
			return nil, err
		}
		n.Extra = raw
	}
	f.appended = append(f.appended, n)
	return n, nil
}

func (f *fakeNotifier) forRecipient(recipient string) []*models.Notification {
	out := []*models.Notification{}
	for _, n := range f.appended {
		if n.Recipient == recipient {
			out = append(out, n)
		}
	}
	return out
}
