package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"guildgate/internal/auth/models"
	"guildgate/pkg/platform/sentinel"
)

// MemoryStore keeps sessions in a process-local map. O(1) access, lost on
// restart. TTL is enforced lazily on resolve, so the map never grows past one
// entry per distinct user.
type MemoryStore struct {
	mu       sync.RWMutex
	byHandle map[string]models.Session
	byUser   map[string]string // user id -> current handle
	clock    Clock
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithMemoryClock sets the clock function for testability.
func WithMemoryClock(clock Clock) MemoryStoreOption {
	return func(s *MemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		byHandle: make(map[string]models.Session),
		byUser:   make(map[string]string),
		clock:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Create stores the session under a fresh handle. A repeat login by the same
// user invalidates the previous handle: last write wins.
func (s *MemoryStore) Create(_ context.Context, session models.Session) (string, error) {
	handle := uuid.NewString()
	session.Handle = handle

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byUser[session.User.ID]; ok {
		delete(s.byHandle, old)
	}
	s.byHandle[handle] = session
	s.byUser[session.User.ID] = handle
	return handle, nil
}

func (s *MemoryStore) Resolve(_ context.Context, handle string) (models.Session, error) {
	s.mu.RLock()
	session, ok := s.byHandle[handle]
	s.mu.RUnlock()
	if !ok {
		return models.Session{}, sentinel.ErrNotFound
	}
	if session.Expired(s.clock()) {
		s.mu.Lock()
		s.evict(handle)
		s.mu.Unlock()
		return models.Session{}, sentinel.ErrExpired
	}
	return session, nil
}

func (s *MemoryStore) Destroy(_ context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evict(handle)
	return nil
}

// evict removes a handle and its user index entry. Caller holds the lock.
func (s *MemoryStore) evict(handle string) {
	session, ok := s.byHandle[handle]
	if !ok {
		return
	}
	delete(s.byHandle, handle)
	if s.byUser[session.User.ID] == handle {
		delete(s.byUser, session.User.ID)
	}
}
