// Package sessions keeps per-browser state in memory. Nothing survives a restart.
package sessions

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"interview-summarizer/internal/interviews"
	"interview-summarizer/internal/llm"
)

const (
	DefaultTTL         = time.Hour
	DefaultMaxSessions = 1000
	// ResultGrace protects a session holding a result from eviction for a while
	// after its last access.
	ResultGrace = 15 * time.Minute
)

var (
	ErrNotFound = errors.New("session not found")
	// ErrBusy is returned when the session already runs an analysis.
	ErrBusy = errors.New("analysis already in progress")
)

// Session is a snapshot of one browser session.
type Session struct {
	ID           string
	APIKey       string
	Language     llm.Language
	Last         *interviews.Analysis
	InFlight     bool
	CreatedAt    time.Time
	LastAccessed time.Time
}

// HasAPIKey reports whether the user stored a key in this session.
func (s Session) HasAPIKey() bool {
	return s.APIKey != ""
}

// Manager holds sessions in memory with an idle TTL and a soft size cap.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	max      int
	now      func() time.Time
}

// NewManager creates a manager. Non-positive values fall back to defaults.
func NewManager(ttl time.Duration, maxSessions int) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		max:      maxSessions,
		now:      time.Now,
	}
}

// SetClock replaces the time source, for tests.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// TTL reports the idle lifetime of a session.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create starts a new session with the given default language.
func (m *Manager) Create(lang llm.Language) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)
	if len(m.sessions) >= m.max {
		m.evictLocked(now)
	}

	s := &Session{
		ID:           uuid.NewString(),
		Language:     lang,
		CreatedAt:    now,
		LastAccessed: now,
	}
	m.sessions[s.ID] = s
	return *s
}

// Get returns the session and refreshes its access time. Expired sessions
// are dropped and reported as missing.
func (m *Manager) Get(id string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.liveLocked(id)
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Update applies fn to the session under the manager lock.
func (m *Manager) Update(id string, fn func(*Session)) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.liveLocked(id)
	if !ok {
		return Session{}, ErrNotFound
	}
	fn(s)
	s.ID = id
	return *s, nil
}

// Begin marks an analysis as running. Only one may run per session.
func (m *Manager) Begin(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.liveLocked(id)
	if !ok {
		return ErrNotFound
	}
	if s.InFlight {
		return ErrBusy
	}
	s.InFlight = true
	return nil
}

// Finish clears the in-flight flag. A nil analysis keeps the previous result.
func (m *Manager) Finish(id string, analysis *interviews.Analysis) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return
	}
	s.InFlight = false
	s.LastAccessed = m.now()
	if analysis != nil {
		s.Last = analysis
	}
}

// Reset drops the stored result but keeps the key and language.
func (m *Manager) Reset(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.liveLocked(id)
	if !ok {
		return ErrNotFound
	}
	s.Last = nil
	return nil
}

// Sweep removes expired sessions and returns how many were dropped.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked(m.now())
}

// Len returns the number of held sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) liveLocked(id string) (*Session, bool) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	now := m.now()
	if m.expired(s, now) {
		delete(m.sessions, id)
		return nil, false
	}
	s.LastAccessed = now
	return s, true
}

func (m *Manager) expired(s *Session, now time.Time) bool {
	return !s.InFlight && now.Sub(s.LastAccessed) > m.ttl
}

func (m *Manager) sweepLocked(now time.Time) int {
	removed := 0
	for id, s := range m.sessions {
		if m.expired(s, now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// evictLocked makes room for a new session. The least recently used idle
// session without a result goes first; a session holding a result is only
// taken once it has been idle for ResultGrace. When nothing qualifies the
// cap is exceeded rather than dropping a fresh result.
func (m *Manager) evictLocked(now time.Time) {
	var (
		emptyID, heldID string
		emptyAt, heldAt time.Time
	)
	for id, s := range m.sessions {
		switch {
		case s.InFlight:
		case s.Last == nil:
			if emptyID == "" || s.LastAccessed.Before(emptyAt) {
				emptyID, emptyAt = id, s.LastAccessed
			}
		case now.Sub(s.LastAccessed) >= ResultGrace:
			if heldID == "" || s.LastAccessed.Before(heldAt) {
				heldID, heldAt = id, s.LastAccessed
			}
		}
	}
	switch {
	case emptyID != "":
		delete(m.sessions, emptyID)
	case heldID != "":
		delete(m.sessions, heldID)
	}
}
