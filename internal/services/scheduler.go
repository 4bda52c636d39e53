package services

import (
	"context"
	"fmt"
	"time"

	"daily-vibes-backend/internal/models"
	"daily-vibes-backend/internal/repository"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the daily challenge-rotation job. The job is idempotent: a
// re-run recomputes the same challenge and re-notifies, which is redundant
// but safe. A failed run is logged and retried on the next tick.
type Scheduler struct {
	cron          *cron.Cron
	spec          string
	userRepo      *repository.UserRepository
	challenges    *ChallengeService
	notifications *NotificationService
}

// NewScheduler creates the daily job runner in the given timezone
func NewScheduler(
	loc *time.Location,
	spec string,
	userRepo *repository.UserRepository,
	challenges *ChallengeService,
	notifications *NotificationService,
) *Scheduler {
	return &Scheduler{
		cron:          cron.New(cron.WithLocation(loc)),
		spec:          spec,
		userRepo:      userRepo,
		challenges:    challenges,
		notifications: notifications,
	}
}

// Start registers and starts the daily job
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunDaily); err != nil {
		return fmt.Errorf("failed to schedule daily challenge job: %w", err)
	}
	s.cron.Start()
	log.Info().Str("spec", s.spec).Msg("Daily challenge job scheduled")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunDaily resolves today's challenge and fans a daily_challenge notification
// out to every user. Per-user failures are logged and skipped so one bad
// inbox cannot abort the batch.
func (s *Scheduler) RunDaily() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	date := s.challenges.DateOf(time.Now())
	day, err := s.challenges.SelectChallenge(ctx, date)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("Daily challenge job failed, will retry next tick")
		return
	}

	usernames, err := s.userRepo.ListUsernames(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Daily challenge job failed to list users, will retry next tick")
		return
	}

	sent := 0
	for _, username := range usernames {
		_, err := s.notifications.Append(ctx, username,
			"📸 VibeTime!",
			fmt.Sprintf("Neue Challenge: %s %s", day.Icon, day.Title),
			models.NotificationDailyChallenge, models.OriginSystem,
			models.DailyChallengeExtra{ChallengeID: day.ID, Title: day.Title})
		if err != nil {
			log.Error().Err(err).Str("recipient", username).Msg("Failed to append daily challenge notification")
			continue
		}
		sent++
	}

	log.Info().
		Str("date", date).
		Str("challenge", day.Title).
		Int("sent", sent).
		Int("users", len(usernames)).
		Msg("Daily challenge notifications sent")
}
