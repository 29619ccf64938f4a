package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// UploadLock guards the materialization of a session so two reviewers
// cannot upload the same session concurrently across instances.
type UploadLock struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewUploadLock(rdb *redis.Client) *UploadLock {
	return &UploadLock{
		rdb: rdb,
		ttl: 5 * time.Minute,
	}
}

func (l *UploadLock) key(sessionId uuid.UUID) string {
	return fmt.Sprintf("coursegen:upload_lock:%s", sessionId)
}

// Acquire takes the lock for the session. Returns false when another
// upload holds it. Without Redis the lock degrades to a no-op.
func (l *UploadLock) Acquire(ctx context.Context, sessionId uuid.UUID) (bool, error) {
	if l.rdb == nil {
		return true, nil
	}
	ok, err := l.rdb.SetNX(ctx, l.key(sessionId), time.Now().Unix(), l.ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (l *UploadLock) Release(ctx context.Context, sessionId uuid.UUID) error {
	if l.rdb == nil {
		return nil
	}
	return l.rdb.Del(ctx, l.key(sessionId)).Err()
}
