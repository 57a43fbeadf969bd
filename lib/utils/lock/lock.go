package lock

import (
	"context"
	"sync"
	"time"
)

const defaultPollInterval = 50 * time.Millisecond

var keys = NewKeyLock(defaultPollInterval)

// KeyLock serializes code blocks sharing a key inside one process.
type KeyLock struct {
	held         sync.Map
	pollInterval time.Duration
}

func NewKeyLock(pollInterval time.Duration) *KeyLock {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &KeyLock{
		pollInterval: pollInterval,
	}
}

// WithDelay waits up to wait for the key and runs safeCode while holding it.
// success is false when the key stayed busy or ctx ended first.
func (l *KeyLock) WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	timeout := time.NewTimer(wait)
	defer timeout.Stop()
	for {
		if _, loaded := l.held.LoadOrStore(key, struct{}{}); !loaded {
			break
		}
		select {
		case <-timeout.C:
			return false, nil
		case <-ctx.Done():
			return false, nil
		case <-time.After(l.pollInterval):
		}
	}
	defer l.held.Delete(key)
	return true, safeCode()
}

func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	return keys.WithDelay(ctx, key, wait, safeCode)
}
