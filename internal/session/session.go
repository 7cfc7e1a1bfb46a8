// Package session keeps the server-side session table. Sessions live for the
// lifetime of the process and are swept on a schedule once expired.
package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
	log      *log.Logger
	sched    gocron.Scheduler
}

func NewManager(ttl time.Duration, logger *log.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
		log:      logger,
	}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create binds a new random session id to userID.
func (m *Manager) Create(userID string) Session {
	s := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: m.now().Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s
}

// Lookup returns the live session for id. Expired sessions are reported as
// missing and left for the sweeper.
func (m *Manager) Lookup(id string) (Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || s.Expired(m.now()) {
		return Session{}, false
	}
	return s, true
}

// Invalidate removes a session. Unknown ids are ignored.
func (m *Manager) Invalidate(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// InvalidateUser removes every session of userID and returns how many were
// dropped.
func (m *Manager) InvalidateUser(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Sweep removes sessions expired at now.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Start runs Sweep every interval until Stop is called.
func (m *Manager) Start(interval time.Duration) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create session scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if n := m.Sweep(m.now()); n > 0 {
				m.log.Printf("[Sessions] swept %d expired sessions", n)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("schedule session sweep: %w", err)
	}

	sched.Start()
	m.sched = sched
	return nil
}

func (m *Manager) Stop() error {
	if m.sched == nil {
		return nil
	}
	err := m.sched.Shutdown()
	m.sched = nil
	return err
}
