package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"catalog-browser/internal/view"
)

const defaultCleanupInterval = 5 * time.Minute

// Session is one user's browsing state.
type Session struct {
	ID     string
	List   *view.ListView
	Detail *view.DetailView

	expiration int64
}

// Store keeps sessions in memory and expires them after a period of
// inactivity.
type Store struct {
	items map[string]*Session
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewStore creates a store whose sessions live for ttl after their last
// access. Expired sessions are purged in the background until Close.
func NewStore(ttl time.Duration) *Store {
	return newStore(ttl, defaultCleanupInterval)
}

func newStore(ttl, cleanupInterval time.Duration) *Store {
	s := &Store{
		items: make(map[string]*Session),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go s.cleanupExpired(cleanupInterval)
	return s
}

// Create registers a new session and returns its id.
func (s *Store) Create(list *view.ListView, detail *view.DetailView) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[id] = &Session{
		ID:         id,
		List:       list,
		Detail:     detail,
		expiration: s.now().Add(s.ttl).UnixNano(),
	}
	return id
}

// Get returns the session and extends its lifetime.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, found := s.items[id]
	if !found {
		return nil, false
	}

	now := s.now()
	if now.UnixNano() > item.expiration {
		delete(s.items, id)
		return nil, false
	}

	item.expiration = now.Add(s.ttl).UnixNano()
	return item, true
}

// Delete removes a session.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, found := s.items[id]
	delete(s.items, id)
	return found
}

// Len returns the number of stored sessions, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Close stops the background cleanup.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.purge()
		case <-s.stop:
			return
		}
	}
}

func (s *Store) purge() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UnixNano()
	for id, item := range s.items {
		if now > item.expiration {
			delete(s.items, id)
		}
	}
}
