package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	appErrors "github.com/noah-isme/mentor-availability-api/pkg/errors"
)

// releaseLock deletes the lock only when it still carries the caller's token.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// SessionRepository keeps editing-session snapshots and save locks in Redis.
type SessionRepository struct {
	client *redis.Client
	prefix string
}

// NewSessionRepository constructs a session repository.
func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client, prefix: "availability"}
}

func (r *SessionRepository) sessionKey(mentorID string) string {
	return fmt.Sprintf("%s:session:%s", r.prefix, mentorID)
}

func (r *SessionRepository) lockKey(mentorID string) string {
	return fmt.Sprintf("%s:save-lock:%s", r.prefix, mentorID)
}

// Get loads the snapshot of mentorID into dest. It returns
// appErrors.ErrSessionNotFound when no session is open.
func (r *SessionRepository) Get(ctx context.Context, mentorID string, dest interface{}) error {
	raw, err := r.client.Get(ctx, r.sessionKey(mentorID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return appErrors.ErrSessionNotFound
		}
		return fmt.Errorf("redis get session %s: %w", mentorID, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal session %s: %w", mentorID, err)
	}
	return nil
}

// Put stores the snapshot and refreshes its TTL.
func (r *SessionRepository) Put(ctx context.Context, mentorID string, snapshot interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", mentorID, err)
	}
	if err := r.client.Set(ctx, r.sessionKey(mentorID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session %s: %w", mentorID, err)
	}
	return nil
}

// Delete closes the session.
func (r *SessionRepository) Delete(ctx context.Context, mentorID string) error {
	if err := r.client.Del(ctx, r.sessionKey(mentorID)).Err(); err != nil {
		return fmt.Errorf("redis delete session %s: %w", mentorID, err)
	}
	return nil
}

// AcquireSaveLock takes the per-mentor save lock. The returned token must be
// passed to ReleaseSaveLock; ok is false while another save holds the lock.
func (r *SessionRepository) AcquireSaveLock(ctx context.Context, mentorID string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, r.lockKey(mentorID), token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("redis acquire save lock %s: %w", mentorID, err)
	}
	return token, ok, nil
}

// ReleaseSaveLock drops the lock if token still owns it.
func (r *SessionRepository) ReleaseSaveLock(ctx context.Context, mentorID, token string) error {
	if err := releaseLock.Run(ctx, r.client, []string{r.lockKey(mentorID)}, token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("redis release save lock %s: %w", mentorID, err)
	}
	return nil
}
