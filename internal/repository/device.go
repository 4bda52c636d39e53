package repository

import (
	"context"
	"fmt"
	"time"

	"daily-vibes-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// DeviceRegistry maps identities to their last-known delivery endpoints. It
// lives in redis rather than process memory so registrations survive restarts
// and are shared across instances; entries expire after ttl unless refreshed
// by a re-register.
type DeviceRegistry struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewDeviceRegistry creates a new device registry
func NewDeviceRegistry(rdb *redis.Client, ttl time.Duration) *DeviceRegistry {
	return &DeviceRegistry{rdb: rdb, ttl: ttl}
}

func deviceKey(username string) string {
	return "device:" + username
}

// Register stores the delivery endpoint for a user and refreshes its TTL
func (r *DeviceRegistry) Register(ctx context.Context, username string, device *models.Device) error {
	key := deviceKey(username)
	err := r.rdb.HSet(ctx, key, "token", device.Token, "platform", device.Platform).Err()
	if err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}
	if err := r.rdb.Expire(ctx, key, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set device ttl: %w", err)
	}
	return nil
}

// Get returns the registered endpoint for a user, or nil if none is known
func (r *DeviceRegistry) Get(ctx context.Context, username string) (*models.Device, error) {
	fields, err := r.rdb.HGetAll(ctx, deviceKey(username)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to look up device: %w", err)
	}
	if len(fields) == 0 || fields["token"] == "" {
		return nil, nil
	}
	return &models.Device{Token: fields["token"], Platform: fields["platform"]}, nil
}

// Unregister drops the endpoint for a user
func (r *DeviceRegistry) Unregister(ctx context.Context, username string) error {
	if err := r.rdb.Del(ctx, deviceKey(username)).Err(); err != nil {
		return fmt.Errorf("failed to unregister device: %w", err)
	}
	return nil
}
