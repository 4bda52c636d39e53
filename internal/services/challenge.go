package services

import (
	"context"
	"fmt"
	"time"

	"daily-vibes-backend/internal/apperrors"
	"daily-vibes-backend/internal/models"
)

// challengeStore is the catalogue and override persistence the service needs
type challengeStore interface {
	List(ctx context.Context) ([]models.Challenge, error)
	GetByID(ctx context.Context, id int) (*models.Challenge, error)
	Add(ctx context.Context, icon, title, description string) (*models.Challenge, error)
	SetOverride(ctx context.Context, date string, challengeID int) error
	GetOverride(ctx context.Context, date string) (int, bool, error)
	Seed(ctx context.Context) error
}

// ChallengeService resolves the challenge active on a calendar date
type ChallengeService struct {
	challengeRepo challengeStore
	loc           *time.Location
}

// NewChallengeService creates a new challenge service
func NewChallengeService(challengeRepo challengeStore, loc *time.Location) *ChallengeService {
	return &ChallengeService{
		challengeRepo: challengeRepo,
		loc:           loc,
	}
}

// Location returns the deployment's reference timezone
func (s *ChallengeService) Location() *time.Location {
	return s.loc
}

// DateOf maps a wall-clock instant to its vibe day in the reference timezone
func (s *ChallengeService) DateOf(t time.Time) string {
	return t.In(s.loc).Format(models.DateLayout)
}

// rotationIndex maps a date to its position in the catalogue rotation:
// days elapsed since January 1 of the date's year, modulo the catalogue size.
func rotationIndex(date time.Time, catalogueSize int) int {
	return (date.YearDay() - 1) % catalogueSize
}

// dayWindow returns the full 24h span of a vibe day in loc. Earlier revisions
// of this feature used a fixed 2-hour capture window; the window is now the
// whole day and the start/end fields are informational only — nothing gates
// uploads on them.
func dayWindow(date string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(models.DateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: %w", date, apperrors.ErrValidation)
	}
	return day, day.AddDate(0, 0, 1), nil
}

// SelectChallenge resolves the challenge for a vibe day: the rotation formula
// over the catalogue ordered by id, unless an override pins that date. The
// result is deterministic for a given date and override-store state.
func (s *ChallengeService) SelectChallenge(ctx context.Context, date string) (*models.ChallengeDay, error) {
	start, end, err := dayWindow(date, s.loc)
	if err != nil {
		return nil, err
	}

	catalogue, err := s.challengeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(catalogue) == 0 {
		return nil, fmt.Errorf("challenge catalogue is empty: %w", apperrors.ErrNotFound)
	}

	selected := catalogue[rotationIndex(start, len(catalogue))]

	if overrideID, ok, err := s.challengeRepo.GetOverride(ctx, date); err != nil {
		return nil, err
	} else if ok {
		pinned, err := s.challengeRepo.GetByID(ctx, overrideID)
		if err != nil {
			return nil, err
		}
		selected = *pinned
	}

	return &models.ChallengeDay{
		Challenge: selected,
		Date:      date,
		StartTime: start,
		EndTime:   end,
	}, nil
}

// SetOverride pins a catalogue entry to one date. The pin affects that date
// only and never rewrites the challenge titles frozen into past photos.
func (s *ChallengeService) SetOverride(ctx context.Context, date string, challengeID int) error {
	if _, _, err := dayWindow(date, s.loc); err != nil {
		return err
	}
	if _, err := s.challengeRepo.GetByID(ctx, challengeID); err != nil {
		return err
	}
	return s.challengeRepo.SetOverride(ctx, date, challengeID)
}

// AddChallenge appends a new entry to the catalogue
func (s *ChallengeService) AddChallenge(ctx context.Context, icon, title, description string) (*models.Challenge, error) {
	if title == "" || description == "" {
		return nil, fmt.Errorf("title and description are required: %w", apperrors.ErrValidation)
	}
	return s.challengeRepo.Add(ctx, icon, title, description)
}

// Seed installs the default catalogue on an empty store
func (s *ChallengeService) Seed(ctx context.Context) error {
	return s.challengeRepo.Seed(ctx)
}
