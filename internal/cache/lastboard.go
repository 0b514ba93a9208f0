package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// LastBoard remembers the most recently selected board per user so a fresh
// shell session can reopen it. It is backed by Redis; a nil client (no
// Redis configured) degrades to permanent cache misses rather than errors.
type LastBoard struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewLastBoard creates the cache. A ttl of zero keeps entries forever.
func NewLastBoard(client *redis.Client, ttl time.Duration) *LastBoard {
	if ttl < 0 {
		ttl = 0
	}
	return &LastBoard{redis: client, ttl: ttl}
}

// Get returns the last selected board id for the user, if one is cached.
func (l *LastBoard) Get(ctx context.Context, userID string) (uuid.UUID, bool) {
	if l == nil || l.redis == nil {
		return uuid.Nil, false
	}
	val, err := l.redis.Get(ctx, lastBoardKey(userID)).Result()
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(val)
	if err != nil {
		// Unreadable entry; drop it so it cannot keep failing.
		_ = l.redis.Del(ctx, lastBoardKey(userID)).Err()
		return uuid.Nil, false
	}
	return id, true
}

// Set records the last selected board id for the user. Failures are
// ignored: the cache is a convenience, never a source of truth.
func (l *LastBoard) Set(ctx context.Context, userID string, boardID uuid.UUID) {
	if l == nil || l.redis == nil {
		return
	}
	_ = l.redis.Set(ctx, lastBoardKey(userID), boardID.String(), l.ttl).Err()
}

func lastBoardKey(userID string) string {
	return "lastboard:" + userID
}
