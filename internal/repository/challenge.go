package repository

import (
	"context"
	"errors"
	"fmt"

	"daily-vibes-backend/internal/apperrors"
	"daily-vibes-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChallengeRepository handles database operations for the challenge
// catalogue and per-date overrides
type ChallengeRepository struct {
	db *pgxpool.Pool
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db *pgxpool.Pool) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// defaultChallenges is the seed catalogue, inserted only into an empty table.
var defaultChallenges = []models.Challenge{
	{ID: 1, Icon: "😊", Title: "Lächeln", Description: "Zeige dein schönstes Lächeln!"},
	{ID: 2, Icon: "✌️", Title: "Peace", Description: "Zeig das Peace-Zeichen!"},
	{ID: 3, Icon: "💼", Title: "Arbeitsplatz", Description: "Zeig deinen Arbeitsplatz ohne aufzuräumen"},
	{ID: 4, Icon: "🌅", Title: "Morgenblick", Description: "Das Erste nach dem Aufwachen"},
	{ID: 5, Icon: "🍿", Title: "Snack-Time", Description: "Dein aktueller Snack"},
	{ID: 6, Icon: "🪟", Title: "Fensterblick", Description: "Foto aus deinem Fenster"},
	{ID: 7, Icon: "👟", Title: "Schuhe", Description: "Die Schuhe die du gerade trägst"},
	{ID: 8, Icon: "🎧", Title: "Musik", Description: "Was hörst du gerade?"},
	{ID: 9, Icon: "☕", Title: "Getränk", Description: "Dein aktuelles Getränk"},
	{ID: 10, Icon: "📱", Title: "Handy", Description: "Dein Handy-Bildschirm"},
}

// Seed inserts the default catalogue if the table is empty. Safe to call on
// every startup.
func (r *ChallengeRepository) Seed(ctx context.Context) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM challenges`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count challenges: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, challenge := range defaultChallenges {
		_, err := tx.Exec(ctx,
			`INSERT INTO challenges (id, icon, title, description) VALUES ($1, $2, $3, $4)`,
			challenge.ID, challenge.Icon, challenge.Title, challenge.Description)
		if err != nil {
			return fmt.Errorf("failed to seed challenge %d: %w", challenge.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit challenge seed: %w", err)
	}
	return nil
}

// List returns the full catalogue ordered by id
func (r *ChallengeRepository) List(ctx context.Context) ([]models.Challenge, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, icon, title, description FROM challenges ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer rows.Close()

	var challenges []models.Challenge
	for rows.Next() {
		var challenge models.Challenge
		if err := rows.Scan(&challenge.ID, &challenge.Icon, &challenge.Title, &challenge.Description); err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, challenge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating challenges: %w", err)
	}
	return challenges, nil
}

// GetByID retrieves a single catalogue entry
func (r *ChallengeRepository) GetByID(ctx context.Context, id int) (*models.Challenge, error) {
	var challenge models.Challenge
	err := r.db.QueryRow(ctx,
		`SELECT id, icon, title, description FROM challenges WHERE id = $1`, id).
		Scan(&challenge.ID, &challenge.Icon, &challenge.Title, &challenge.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("challenge %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return &challenge, nil
}

// Add appends a new entry to the catalogue with the next free id
func (r *ChallengeRepository) Add(ctx context.Context, icon, title, description string) (*models.Challenge, error) {
	query := `
		INSERT INTO challenges (id, icon, title, description)
		SELECT COALESCE(MAX(id), 0) + 1, $1, $2, $3 FROM challenges
		RETURNING id
	`
	challenge := models.Challenge{Icon: icon, Title: title, Description: description}
	if err := r.db.QueryRow(ctx, query, icon, title, description).Scan(&challenge.ID); err != nil {
		return nil, fmt.Errorf("failed to add challenge: %w", err)
	}
	return &challenge, nil
}

// SetOverride pins a challenge to one date, replacing any previous pin
func (r *ChallengeRepository) SetOverride(ctx context.Context, date string, challengeID int) error {
	query := `
		INSERT INTO challenge_overrides (for_date, challenge_id)
		VALUES ($1, $2)
		ON CONFLICT (for_date) DO UPDATE SET challenge_id = EXCLUDED.challenge_id
	`
	if _, err := r.db.Exec(ctx, query, date, challengeID); err != nil {
		return fmt.Errorf("failed to set challenge override: %w", err)
	}
	return nil
}

// GetOverride returns the pinned challenge id for a date, if any
func (r *ChallengeRepository) GetOverride(ctx context.Context, date string) (int, bool, error) {
	var id int
	err := r.db.QueryRow(ctx,
		`SELECT challenge_id FROM challenge_overrides WHERE for_date = $1`, date).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get challenge override: %w", err)
	}
	return id, true, nil
}
