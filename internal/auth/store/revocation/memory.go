package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryList is a process-local denylist. Suitable for single-instance
// deployments; use RedisList when multiple instances share session state.
type MemoryList struct {
	mu      sync.RWMutex
	expiry  map[string]time.Time
	clock   Clock
	lastGC  time.Time
	gcEvery time.Duration
}

// MemoryListOption configures a MemoryList.
type MemoryListOption func(*MemoryList)

// WithMemoryClock sets the clock function for testability.
func WithMemoryClock(clock Clock) MemoryListOption {
	return func(l *MemoryList) {
		if clock != nil {
			l.clock = clock
		}
	}
}

func NewMemoryList(opts ...MemoryListOption) *MemoryList {
	l := &MemoryList{
		expiry:  make(map[string]time.Time),
		clock:   time.Now,
		gcEvery: time.Minute,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	l.lastGC = l.clock()
	return l
}

func (l *MemoryList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expiry[jti] = l.clock().Add(ttl)
	l.gcLocked()
	return nil
}

func (l *MemoryList) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	l.mu.RLock()
	deadline, ok := l.expiry[jti]
	l.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return l.clock().Before(deadline), nil
}

// gcLocked drops entries whose tokens have expired anyway. Caller holds the
// write lock.
func (l *MemoryList) gcLocked() {
	now := l.clock()
	if now.Sub(l.lastGC) < l.gcEvery {
		return
	}
	for jti, deadline := range l.expiry {
		if now.After(deadline) {
			delete(l.expiry, jti)
		}
	}
	l.lastGC = now
}
