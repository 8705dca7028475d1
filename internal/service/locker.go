package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alejandrobg101/Syllabus-Chatbot/pkg/redis"
)

// ErrBucketBusy another writer held the bucket for longer than the lock wait.
var ErrBucketBusy = errors.New("another change to the same room or course pair is in progress")

// BucketLocker serializes writers that touch the same bucket (a room and
// term, or a course pair). Unlock must be called exactly once.
type BucketLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// lockAll takes every distinct key in sorted order and returns one unlock.
func lockAll(ctx context.Context, l BucketLocker, keys ...string) (func(), error) {
	uniq := sortedUnique(keys)
	unlocks := make([]func(), 0, len(uniq))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, k := range uniq {
		unlock, err := l.Lock(ctx, k)
		if err != nil {
			release()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}

func sortedUnique(keys []string) []string {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			uniq = append(uniq, k)
		}
	}
	sort.Strings(uniq)
	return uniq
}

// ────────────────────── in-process ──────────────────────

type localLocker struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
}

type lockSlot struct {
	ch   chan struct{}
	refs int
}

// NewLocalLocker returns a keyed mutex for a single process.
func NewLocalLocker() BucketLocker {
	return &localLocker{slots: make(map[string]*lockSlot)}
}

func (l *localLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[key]
	if !ok {
		slot = &lockSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.ch <- struct{}{}:
	case <-ctx.Done():
		l.drop(key, slot)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.ch
			l.drop(key, slot)
		})
	}, nil
}

func (l *localLocker) drop(key string, slot *lockSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, key)
	}
}

// ────────────────────── Redis ──────────────────────

type redisLocker struct {
	client   *redis.Client
	ttl      time.Duration
	wait     time.Duration
	fallback BucketLocker
	logger   *zap.Logger
}

// NewRedisLocker locks buckets across processes through Redis. When Redis
// fails (other than a wait timeout) it falls back to an in-process lock;
// the database advisory lock taken during the write still serializes
// processes in that case.
func NewRedisLocker(client *redis.Client, ttl, wait time.Duration, logger *zap.Logger) BucketLocker {
	return &redisLocker{
		client:   client,
		ttl:      ttl,
		wait:     wait,
		fallback: NewLocalLocker(),
		logger:   logger,
	}
}

func (l *redisLocker) Lock(ctx context.Context, key string) (func(), error) {
	unlock, err := l.client.Lock(ctx, key, l.ttl, l.wait)
	if err == nil {
		return unlock, nil
	}
	if errors.Is(err, redis.ErrLockTimeout) {
		return nil, ErrBucketBusy
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	l.logger.Warn("redis lock unavailable, using local lock", zap.String("key", key), zap.Error(err))
	return l.fallback.Lock(ctx, key)
}
