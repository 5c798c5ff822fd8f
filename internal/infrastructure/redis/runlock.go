package redisstore

import (
	"context"
	"time"

	"notion-price-sync/internal/application"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var _ application.RunLock = (*RunLock)(nil)

// releaseScript deletes the key only if this holder still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RunLock is a SET NX lease shared by every process pointed at the same Redis.
// The TTL bounds how long a crashed holder blocks other runs.
type RunLock struct {
	Client *redis.Client
	TTL    time.Duration
	token  string
}

func New(client *redis.Client, ttl time.Duration) *RunLock {
	return &RunLock{Client: client, TTL: ttl, token: uuid.NewString()}
}

func (l *RunLock) TryAcquire(ctx context.Context, key string) (bool, error) {
	ok, err := l.Client.SetNX(ctx, key, l.token, l.TTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (l *RunLock) Release(ctx context.Context, key string) error {
	return releaseScript.Run(ctx, l.Client, []string{key}, l.token).Err()
}

func (l *RunLock) Ping(ctx context.Context) error {
	return l.Client.Ping(ctx).Err()
}
