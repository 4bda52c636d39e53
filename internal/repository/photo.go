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

// DailyPhotoLimit is the maximum number of photos one user may hold for a
// single vibe day.
const DailyPhotoLimit = 3

// PhotoRepository handles database operations for photos
type PhotoRepository struct {
	db *pgxpool.Pool
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Insert creates a photo for (owner, date), deriving the id from the owner,
// the date and a numeric disambiguator. The disambiguator is the highest
// existing suffix for that day plus one, not the row count: after a delete
// the freed id is never reissued, so a later upload cannot collide with a
// surviving row. The daily cap check and the insert are one statement, so
// concurrent uploads from the same user cannot exceed the cap. Returns
// QuotaExceeded when the cap is reached and the photo's position in the
// day's count otherwise (1 = first post of the day).
func (r *PhotoRepository) Insert(ctx context.Context, photo *models.Photo) (int, error) {
	query := `
		WITH existing AS (
			SELECT COUNT(*) AS n,
				COALESCE(MAX(substring(id from '([0-9]+)$')::int), 0) AS max_seq
			FROM photos WHERE username = $1 AND vibe_date = $2
		)
		INSERT INTO photos (id, username, vibe_date, image_url, caption, challenge_title, created_at)
		SELECT $1 || '_' || $2 || '_' || (existing.max_seq + 1)::text,
			$1, $2, $3, $4, $5, $6
		FROM existing
		WHERE existing.n < $7
		RETURNING id, (SELECT n + 1 FROM existing)
	`
	var seq int
	err := r.db.QueryRow(ctx, query,
		photo.Username, photo.VibeDate, photo.ImageURL, photo.Caption,
		photo.ChallengeTitle, photo.CreatedAt, DailyPhotoLimit,
	).Scan(&photo.ID, &seq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("daily photo limit of %d reached: %w", DailyPhotoLimit, apperrors.ErrQuotaExceeded)
		}
		return 0, fmt.Errorf("failed to create photo: %w", err)
	}
	return seq, nil
}

// CountForDay returns the number of photos a user holds for a vibe day
func (r *PhotoRepository) CountForDay(ctx context.Context, username, date string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM photos WHERE username = $1 AND vibe_date = $2`,
		username, date,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count photos: %w", err)
	}
	return n, nil
}

const photoColumns = `id, username, vibe_date, image_url, caption, challenge_title, created_at`

// GetByID retrieves a photo with its likes and comments
func (r *PhotoRepository) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE id = $1`
	var photo models.Photo
	err := r.db.QueryRow(ctx, query, id).Scan(
		&photo.ID, &photo.Username, &photo.VibeDate, &photo.ImageURL,
		&photo.Caption, &photo.ChallengeTitle, &photo.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("photo %q: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	if err := r.hydrate(ctx, []*models.Photo{&photo}); err != nil {
		return nil, err
	}
	return &photo, nil
}

// Delete removes a photo owned by username. Returns NotFound when the photo
// does not exist or belongs to someone else.
func (r *PhotoRepository) Delete(ctx context.Context, id, username string) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM photos WHERE id = $1 AND username = $2`, id, username)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("photo %q: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// ListForDay retrieves the photos posted by any of owners on a vibe day
func (r *PhotoRepository) ListForDay(ctx context.Context, owners []string, date string) ([]*models.Photo, error) {
	if len(owners) == 0 {
		return []*models.Photo{}, nil
	}
	query := `
		SELECT ` + photoColumns + `
		FROM photos
		WHERE username = ANY($1) AND vibe_date = $2
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, owners, date)
}

// ListMemories retrieves an owner's photos from every vibe day except
// excludeDate, newest day first
func (r *PhotoRepository) ListMemories(ctx context.Context, owner, excludeDate string) ([]*models.Photo, error) {
	query := `
		SELECT ` + photoColumns + `
		FROM photos
		WHERE username = $1 AND vibe_date <> $2
		ORDER BY vibe_date DESC, created_at DESC
	`
	return r.list(ctx, query, owner, excludeDate)
}

// ListMemoryDates returns the distinct vibe days an owner has posted on
func (r *PhotoRepository) ListMemoryDates(ctx context.Context, owner string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT vibe_date FROM photos WHERE username = $1 ORDER BY vibe_date DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list memory dates: %w", err)
	}
	defer rows.Close()

	dates := []string{}
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("failed to scan memory date: %w", err)
		}
		dates = append(dates, date)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memory dates: %w", err)
	}
	return dates, nil
}

// ListForOwnerAndDay retrieves an owner's photos for one vibe day
func (r *PhotoRepository) ListForOwnerAndDay(ctx context.Context, owner, date string) ([]*models.Photo, error) {
	query := `
		SELECT ` + photoColumns + `
		FROM photos
		WHERE username = $1 AND vibe_date = $2
		ORDER BY created_at
	`
	return r.list(ctx, query, owner, date)
}

// ToggleLike flips username's membership in the photo's like-set. Both
// directions are single atomic statements, so a double-tap cannot
// double-count. Returns true when the transition was unliked -> liked.
func (r *PhotoRepository) ToggleLike(ctx context.Context, photoID, username string) (bool, error) {
	result, err := r.db.Exec(ctx,
		`DELETE FROM photo_likes WHERE photo_id = $1 AND username = $2`, photoID, username)
	if err != nil {
		return false, fmt.Errorf("failed to remove like: %w", err)
	}
	if result.RowsAffected() > 0 {
		return false, nil
	}

	result, err = r.db.Exec(ctx,
		`INSERT INTO photo_likes (photo_id, username) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		photoID, username)
	if err != nil {
		return false, fmt.Errorf("failed to add like: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// AddComment appends a comment to the photo's ordered comment list
func (r *PhotoRepository) AddComment(ctx context.Context, photoID string, comment *models.Comment) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO photo_comments (photo_id, username, body, created_at) VALUES ($1, $2, $3, $4)`,
		photoID, comment.Username, comment.Text, comment.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	return nil
}

func (r *PhotoRepository) list(ctx context.Context, query string, args ...any) ([]*models.Photo, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	photos := []*models.Photo{}
	for rows.Next() {
		var photo models.Photo
		err := rows.Scan(
			&photo.ID, &photo.Username, &photo.VibeDate, &photo.ImageURL,
			&photo.Caption, &photo.ChallengeTitle, &photo.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, &photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}
	if err := r.hydrate(ctx, photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// hydrate loads likes and comments for a batch of photos
func (r *PhotoRepository) hydrate(ctx context.Context, photos []*models.Photo) error {
	if len(photos) == 0 {
		return nil
	}
	byID := make(map[string]*models.Photo, len(photos))
	ids := make([]string, 0, len(photos))
	for _, photo := range photos {
		photo.Likes = []string{}
		photo.Comments = []models.Comment{}
		byID[photo.ID] = photo
		ids = append(ids, photo.ID)
	}

	rows, err := r.db.Query(ctx,
		`SELECT photo_id, username FROM photo_likes WHERE photo_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("failed to load likes: %w", err)
	}
	for rows.Next() {
		var photoID, username string
		if err := rows.Scan(&photoID, &username); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan like: %w", err)
		}
		byID[photoID].Likes = append(byID[photoID].Likes, username)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating likes: %w", err)
	}

	rows, err = r.db.Query(ctx,
		`SELECT photo_id, username, body, created_at FROM photo_comments WHERE photo_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("failed to load comments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var photoID string
		var comment models.Comment
		if err := rows.Scan(&photoID, &comment.Username, &comment.Text, &comment.Timestamp); err != nil {
			return fmt.Errorf("failed to scan comment: %w", err)
		}
		byID[photoID].Comments = append(byID[photoID].Comments, comment)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating comments: %w", err)
	}
	return nil
}
