// Package lock serializes submissions against one table. Each accepted action
// runs to completion before the next one for the same table is considered;
// different tables never contend.
package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	appErr "github.com/niqqow96/Backend-PKROnchain/pkg/errors"
	"github.com/niqqow96/Backend-PKROnchain/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Locker interface {
	// TryLock returns appErr.ErrTableBusy when another submission holds key.
	TryLock(ctx context.Context, key string) (unlock func(), err error)
}

func TableKey(tableID string) string {
	return fmt.Sprintf("pkr:table:lock:%s", tableID)
}

// LocalLocker is a process-local Locker.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]struct{})}
}

func (l *LocalLocker) TryLock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return nil, appErr.ErrTableBusy
	}
	l.held[key] = struct{}{}
	return func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}, nil
}

// RedisLocker holds keys with SET NX PX so replicas of the service share
// one writer per table. The TTL bounds how long a crashed holder blocks.
type RedisLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &RedisLocker{rdb: rdb, ttl: ttl}
}

// release deletes the key only if it still carries our token.
var release = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (l *RedisLocker) TryLock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErr.ErrTableBusy
	}
	return func() {
		if err := release.Run(context.Background(), l.rdb, []string{key}, token).Err(); err != nil {
			logger.Log.Warn("failed to release table lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}
