package session

import (
	"sync"
	"testing"
	"time"

	"gdsgames/backend/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, ttl time.Duration) (*Manager, *time.Time) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(ttl, testutil.TestLogger(t))
	m.now = func() time.Time { return clock }
	return m, &clock
}

func TestCreateAndLookup(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)

	s := m.Create("user-1")
	_, err := uuid.Parse(s.ID)
	require.NoError(t, err, "session id is a uuid")
	assert.Equal(t, "user-1", s.UserID)

	got, ok := m.Lookup(s.ID)
	require.True(t, ok)
	assert.Equal(t, s, got)

	_, ok = m.Lookup("unknown")
	assert.False(t, ok)

	other := m.Create("user-1")
	assert.NotEqual(t, s.ID, other.ID)
	assert.Equal(t, 2, m.Len())
}

func TestLookup_Expired(t *testing.T) {
	m, clock := newTestManager(t, time.Hour)
	s := m.Create("user-1")

	*clock = clock.Add(59 * time.Minute)
	_, ok := m.Lookup(s.ID)
	assert.True(t, ok)

	*clock = clock.Add(time.Minute)
	_, ok = m.Lookup(s.ID)
	assert.False(t, ok)
}

func TestInvalidate(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	s := m.Create("user-1")

	m.Invalidate(s.ID)
	_, ok := m.Lookup(s.ID)
	assert.False(t, ok)

	assert.NotPanics(t, func() { m.Invalidate(s.ID) })
	assert.Zero(t, m.Len())
}

func TestInvalidateUser(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	a1 := m.Create("ana")
	a2 := m.Create("ana")
	b := m.Create("bia")

	assert.Equal(t, 2, m.InvalidateUser("ana"))
	for _, id := range []string{a1.ID, a2.ID} {
		_, ok := m.Lookup(id)
		assert.False(t, ok)
	}
	_, ok := m.Lookup(b.ID)
	assert.True(t, ok)
}

func TestSweep(t *testing.T) {
	m, clock := newTestManager(t, time.Hour)
	old := m.Create("ana")
	*clock = clock.Add(30 * time.Minute)
	fresh := m.Create("bia")

	assert.Equal(t, 0, m.Sweep(*clock))
	assert.Equal(t, 1, m.Sweep(clock.Add(45*time.Minute)))

	m.mu.RLock()
	_, oldKept := m.sessions[old.ID]
	_, freshKept := m.sessions[fresh.ID]
	m.mu.RUnlock()
	assert.False(t, oldKept)
	assert.True(t, freshKept)
}

func TestStartRunsSweep(t *testing.T) {
	m := NewManager(time.Millisecond, testutil.TestLogger(t))
	m.Create("ana")
	time.Sleep(5 * time.Millisecond)

	require.NoError(t, m.Start(10*time.Millisecond))
	t.Cleanup(func() { _ = m.Stop() })

	assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
	assert.NoError(t, m.Stop())
	assert.NoError(t, m.Stop(), "stopping twice is a no-op")
}

func TestConcurrentAccess(t *testing.T) {
	m := NewManager(time.Hour, testutil.TestLogger(t))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := m.Create("ana")
			m.Lookup(s.ID)
			m.Sweep(time.Now())
			m.Invalidate(s.ID)
		}()
	}
	wg.Wait()
	assert.Zero(t, m.Len())
}
