package session

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-browser/internal/view"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := newStore(ttl, time.Hour)
	s.now = clock.Now
	t.Cleanup(s.Close)
	return s, clock
}

func TestStore_CreateAndGet(t *testing.T) {
	s, _ := newTestStore(t, time.Minute)
	list := view.NewListView(nil)
	detail := view.NewDetailView(nil)

	id := s.Create(list, detail)
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	sess, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, id, sess.ID)
	assert.Same(t, list, sess.List)
	assert.Same(t, detail, sess.Detail)
	assert.Equal(t, 1, s.Len())
}

func TestStore_GetUnknown(t *testing.T) {
	s, _ := newTestStore(t, time.Minute)

	_, ok := s.Get("missing")
	assert.False(t, ok)
}

func TestStore_Expiry(t *testing.T) {
	s, clock := newTestStore(t, time.Minute)
	id := s.Create(view.NewListView(nil), view.NewDetailView(nil))

	clock.Advance(59 * time.Second)
	_, ok := s.Get(id)
	require.True(t, ok, "access before the ttl keeps the session")

	// The previous Get extended the lifetime.
	clock.Advance(59 * time.Second)
	_, ok = s.Get(id)
	require.True(t, ok)

	clock.Advance(61 * time.Second)
	_, ok = s.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestStore_Purge(t *testing.T) {
	s, clock := newTestStore(t, time.Minute)
	old := s.Create(view.NewListView(nil), view.NewDetailView(nil))

	clock.Advance(30 * time.Second)
	fresh := s.Create(view.NewListView(nil), view.NewDetailView(nil))

	clock.Advance(45 * time.Second)
	s.purge()

	assert.Equal(t, 1, s.Len())
	_, ok := s.Get(fresh)
	assert.True(t, ok)
	_, ok = s.Get(old)
	assert.False(t, ok)
}

func TestStore_Delete(t *testing.T) {
	s, _ := newTestStore(t, time.Minute)
	id := s.Create(view.NewListView(nil), view.NewDetailView(nil))

	assert.True(t, s.Delete(id))
	assert.False(t, s.Delete(id))
	_, ok := s.Get(id)
	assert.False(t, ok)
}

func TestStore_CloseIsIdempotent(t *testing.T) {
	s := NewStore(time.Minute)
	s.Close()
	s.Close()
}
