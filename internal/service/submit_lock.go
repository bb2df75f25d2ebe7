package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// submitLockTTL bounds how long a crashed submission can hold its lock.
const submitLockTTL = 30 * time.Second

// SubmitLocker guards one checkout submission per session at a time.
// A double-click or concurrent retry fails to acquire and is rejected
// instead of placing a duplicate order.
type SubmitLocker interface {
	// Acquire reports whether the session's submit lock was taken.
	Acquire(ctx context.Context, sessionID string) (bool, error)
	Release(ctx context.Context, sessionID string) error
}

type redisSubmitLocker struct {
	client *redis.Client
}

// NewRedisSubmitLocker creates a SubmitLocker backed by Redis SETNX.
func NewRedisSubmitLocker(client *redis.Client) SubmitLocker {
	return &redisSubmitLocker{client: client}
}

func submitLockKey(sessionID string) string {
	return "checkout_lock:" + sessionID
}

func (l *redisSubmitLocker) Acquire(ctx context.Context, sessionID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, submitLockKey(sessionID), 1, submitLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire submit lock: %w", err)
	}
	return ok, nil
}

func (l *redisSubmitLocker) Release(ctx context.Context, sessionID string) error {
	if err := l.client.Del(ctx, submitLockKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to release submit lock: %w", err)
	}
	return nil
}

type memorySubmitLocker struct {
	mu    sync.Mutex
	locks map[string]struct{}
}

// NewMemorySubmitLocker creates an in-process SubmitLocker for tests and
// single-instance deployments without Redis.
func NewMemorySubmitLocker() SubmitLocker {
	return &memorySubmitLocker{locks: make(map[string]struct{})}
}

func (l *memorySubmitLocker) Acquire(_ context.Context, sessionID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, held := l.locks[sessionID]; held {
		return false, nil
	}
	l.locks[sessionID] = struct{}{}
	return true, nil
}

func (l *memorySubmitLocker) Release(_ context.Context, sessionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, sessionID)
	return nil
}
