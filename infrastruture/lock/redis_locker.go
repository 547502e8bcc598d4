package lock

import (
	"context"
	"errors"
	"time"

	"github.com/beka-birhanu/mazeflood/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "mazeflood:lock:"
	defaultTries  = 64
	retryDelay    = 50 * time.Millisecond
)

var ErrLockLost = errors.New("lock: released after it had expired")

// RedisLocker hands out redsync mutexes. A holder that outlives the expiry loses the lock.
type RedisLocker struct {
	locker *redsync.Redsync
	expiry time.Duration
	prefix string
}

var _ i.Locker = &RedisLocker{}

// NewRedisLocker initializes a RedisLocker on the provided Redis client.
func NewRedisLocker(client *redis.Client, expirySeconds int) *RedisLocker {
	pool := goredis.NewPool(client)
	return &RedisLocker{
		locker: redsync.New(pool),
		expiry: time.Duration(expirySeconds) * time.Second,
		prefix: defaultPrefix,
	}
}

// Lock acquires the named mutex, retrying until it is free, the tries run out or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, name string) (i.UnlockFunc, error) {
	mutex := l.locker.NewMutex(
		l.prefix+name,
		redsync.WithExpiry(l.expiry),
		redsync.WithTries(defaultTries),
		redsync.WithRetryDelay(retryDelay),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, err
	}

	return func(ctx context.Context) error {
		ok, err := mutex.UnlockContext(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return ErrLockLost
		}
		return nil
	}, nil
}
