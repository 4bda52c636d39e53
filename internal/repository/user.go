package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"daily-vibes-backend/internal/apperrors"
	"daily-vibes-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles database operations for users, friendships and
// friend requests
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, profile_image, streak,
			last_post_date, achievements, memories_public, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.ProfileImage,
		user.Streak, user.LastPostDate, user.Achievements,
		user.MemoriesPublic, user.IsAdmin, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT username, email, password_hash, profile_image, streak,
			last_post_date, achievements, memories_public, is_admin, created_at
		FROM users
		WHERE username = $1
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.Username, &user.Email, &user.PasswordHash, &user.ProfileImage,
		&user.Streak, &user.LastPostDate, &user.Achievements,
		&user.MemoriesPublic, &user.IsAdmin, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UsernameExists checks if a username is already taken
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return exists, nil
}

// EmailExists checks if an email is registered to a user other than exclude
func (r *UserRepository) EmailExists(ctx context.Context, email, exclude string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND username <> $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, email, exclude).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// ListUsernames returns every registered username
func (r *UserRepository) ListUsernames(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT username FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to list usernames: %w", err)
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("failed to scan username: %w", err)
		}
		usernames = append(usernames, username)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usernames: %w", err)
	}
	return usernames, nil
}

// UpdateProfileImage updates the profile image for a user
func (r *UserRepository) UpdateProfileImage(ctx context.Context, username string, image *string) error {
	return r.updateField(ctx, username, `UPDATE users SET profile_image = $1 WHERE username = $2`, image)
}

// UpdateEmail updates the email for a user
func (r *UserRepository) UpdateEmail(ctx context.Context, username, email string) error {
	return r.updateField(ctx, username, `UPDATE users SET email = $1 WHERE username = $2`, email)
}

// UpdatePasswordHash updates the credential hash for a user
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	return r.updateField(ctx, username, `UPDATE users SET password_hash = $1 WHERE username = $2`, hash)
}

// UpdateMemoriesVisibility updates the memories-visibility flag for a user
func (r *UserRepository) UpdateMemoriesVisibility(ctx context.Context, username string, public bool) error {
	return r.updateField(ctx, username, `UPDATE users SET memories_public = $1 WHERE username = $2`, public)
}

func (r *UserRepository) updateField(ctx context.Context, username, query string, value any) error {
	result, err := r.db.Exec(ctx, query, value, username)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %q: %w", username, apperrors.ErrNotFound)
	}
	return nil
}

// UpdateStreak writes the streak state after a first post of a day. The
// achievements array replaces the stored one; unlocking is monotonic, so the
// caller only ever appends.
func (r *UserRepository) UpdateStreak(ctx context.Context, username string, streak int, lastPostDate string, achievements []string) error {
	query := `
		UPDATE users
		SET streak = $1, last_post_date = $2, achievements = $3
		WHERE username = $4
	`
	result, err := r.db.Exec(ctx, query, streak, lastPostDate, achievements, username)
	if err != nil {
		return fmt.Errorf("failed to update streak: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %q: %w", username, apperrors.ErrNotFound)
	}
	return nil
}

// pairKey normalizes a friendship pair so user_a < user_b
func pairKey(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

// AreFriends checks whether two users share a friendship
func (r *UserRepository) AreFriends(ctx context.Context, a, b string) (bool, error) {
	ua, ub := pairKey(a, b)
	query := `SELECT EXISTS(SELECT 1 FROM friendships WHERE user_a = $1 AND user_b = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, ua, ub).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return exists, nil
}

// ListFriends returns the usernames of a user's friends
func (r *UserRepository) ListFriends(ctx context.Context, username string) ([]string, error) {
	query := `
		SELECT CASE WHEN user_a = $1 THEN user_b ELSE user_a END
		FROM friendships
		WHERE user_a = $1 OR user_b = $1
		ORDER BY 1
	`
	rows, err := r.db.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	friends := []string{}
	for rows.Next() {
		var friend string
		if err := rows.Scan(&friend); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, friend)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating friends: %w", err)
	}
	return friends, nil
}

// CreateFriendRequest records a pending request from requester to recipient
func (r *UserRepository) CreateFriendRequest(ctx context.Context, requester, recipient string) error {
	query := `
		INSERT INTO friend_requests (requester, recipient, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`
	result, err := r.db.Exec(ctx, query, requester, recipient, time.Now())
	if err != nil {
		return fmt.Errorf("failed to create friend request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("friend request already sent: %w", apperrors.ErrConflict)
	}
	return nil
}

// HasPendingRequest checks for a pending request from requester to recipient
func (r *UserRepository) HasPendingRequest(ctx context.Context, requester, recipient string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM friend_requests WHERE requester = $1 AND recipient = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, requester, recipient).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending request: %w", err)
	}
	return exists, nil
}

// ListPendingRequests returns the usernames that have requested recipient's
// friendship, oldest first
func (r *UserRepository) ListPendingRequests(ctx context.Context, recipient string) ([]string, error) {
	query := `SELECT requester FROM friend_requests WHERE recipient = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}
	defer rows.Close()

	requests := []string{}
	for rows.Next() {
		var requester string
		if err := rows.Scan(&requester); err != nil {
			return nil, fmt.Errorf("failed to scan friend request: %w", err)
		}
		requests = append(requests, requester)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating friend requests: %w", err)
	}
	return requests, nil
}

// AcceptFriendRequest deletes the pending request and inserts the symmetric
// friendship in a single transaction. Returns NotFound if no request from
// requester to recipient is pending.
func (r *UserRepository) AcceptFriendRequest(ctx context.Context, requester, recipient string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		`DELETE FROM friend_requests WHERE requester = $1 AND recipient = $2`,
		requester, recipient,
	)
	if err != nil {
		return fmt.Errorf("failed to delete friend request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("no pending request from %q: %w", requester, apperrors.ErrNotFound)
	}

	ua, ub := pairKey(requester, recipient)
	_, err = tx.Exec(ctx,
		`INSERT INTO friendships (user_a, user_b, created_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
		ua, ub, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to create friendship: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit friend acceptance: %w", err)
	}
	return nil
}

// DeleteFriendRequest removes any pending request between two users, in
// either direction. Deleting nothing is not an error.
func (r *UserRepository) DeleteFriendRequest(ctx context.Context, a, b string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM friend_requests
		 WHERE (requester = $1 AND recipient = $2) OR (requester = $2 AND recipient = $1)`,
		a, b,
	)
	if err != nil {
		return fmt.Errorf("failed to delete friend request: %w", err)
	}
	return nil
}

// RemoveFriend deletes the friendship between two users. Deleting a
// non-existent friendship is not an error.
func (r *UserRepository) RemoveFriend(ctx context.Context, a, b string) error {
	ua, ub := pairKey(a, b)
	_, err := r.db.Exec(ctx, `DELETE FROM friendships WHERE user_a = $1 AND user_b = $2`, ua, ub)
	if err != nil {
		return fmt.Errorf("failed to remove friend: %w", err)
	}
	return nil
}
