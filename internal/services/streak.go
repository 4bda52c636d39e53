package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"daily-vibes-backend/internal/models"
)

// Streak achievement thresholds. Unlocking is monotonic: a tag is added the
// first time its threshold is reached and never removed.
var achievementThresholds = []struct {
	Streak int
	Tag    string
}{
	{7, "streak_7"},
	{30, "streak_30"},
}

// streakStore is the user persistence the streak service needs
type streakStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateStreak(ctx context.Context, username string, streak int, lastPostDate string, achievements []string) error
}

// StreakService tracks consecutive-day posting streaks and the achievements
// they unlock
type StreakService struct {
	userRepo streakStore
}

// NewStreakService creates a new streak service
func NewStreakService(userRepo streakStore) *StreakService {
	return &StreakService{userRepo: userRepo}
}

// advanceStreak computes the streak after a first post on date. Posting on
// the day after lastPostDate extends the streak; a gap or a first-ever post
// resets it to 1; a repeat of the same day keeps it unchanged.
func advanceStreak(lastPostDate *string, streak int, date string) (int, error) {
	if lastPostDate == nil {
		return 1, nil
	}
	if *lastPostDate == date {
		return streak, nil
	}
	last, err := time.Parse(models.DateLayout, *lastPostDate)
	if err != nil {
		return 0, fmt.Errorf("invalid stored last post date %q: %w", *lastPostDate, err)
	}
	if last.AddDate(0, 0, 1).Format(models.DateLayout) == date {
		return streak + 1, nil
	}
	return 1, nil
}

// newlyUnlocked returns the achievement tags crossed by streak that are not
// already held
func newlyUnlocked(held []string, streak int) []string {
	unlocked := []string{}
	for _, threshold := range achievementThresholds {
		if streak >= threshold.Streak && !slices.Contains(held, threshold.Tag) {
			unlocked = append(unlocked, threshold.Tag)
		}
	}
	return unlocked
}

// RecordFirstPostOfDay advances the user's streak for date. Callers must
// invoke it only when the user's photo count for date transitions from 0 to
// 1; re-entry for the same day is a no-op, so a double invocation cannot
// inflate the streak.
func (s *StreakService) RecordFirstPostOfDay(ctx context.Context, username, date string) (*models.StreakResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		// The caller has already authenticated this identity, so a miss here
		// is a programming-contract violation, not a user-facing condition.
		return nil, fmt.Errorf("streak for unknown user: %w", err)
	}

	if user.LastPostDate != nil && *user.LastPostDate == date {
		return &models.StreakResult{Streak: user.Streak, NewAchievements: []string{}}, nil
	}

	streak, err := advanceStreak(user.LastPostDate, user.Streak, date)
	if err != nil {
		return nil, err
	}
	unlocked := newlyUnlocked(user.Achievements, streak)
	achievements := append(user.Achievements, unlocked...)

	if err := s.userRepo.UpdateStreak(ctx, username, streak, date, achievements); err != nil {
		return nil, err
	}
	return &models.StreakResult{Streak: streak, NewAchievements: unlocked}, nil
}
