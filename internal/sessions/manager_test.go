package sessions

import (
	"errors"
	"sync"
	"testing"
	"time"

	"interview-summarizer/internal/interviews"
	"interview-summarizer/internal/llm"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestManager(ttl time.Duration, maxSessions int) (*Manager, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManager(ttl, maxSessions)
	m.SetClock(clock.Now)
	return m, clock
}

func TestCreateGetUpdate(t *testing.T) {
	m, _ := newTestManager(time.Hour, 10)
	s := m.Create(llm.LanguageChinese)
	if s.ID == "" || s.Language != llm.LanguageChinese {
		t.Fatalf("unexpected session %+v", s)
	}

	updated, err := m.Update(s.ID, func(s *Session) {
		s.APIKey = "key"
		s.Language = llm.LanguageEnglish
		s.ID = "hijack"
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != s.ID || !updated.HasAPIKey() {
		t.Fatalf("unexpected update %+v", updated)
	}
	got, ok := m.Get(s.ID)
	if !ok || got.Language != llm.LanguageEnglish {
		t.Fatalf("Get = %+v, %v", got, ok)
	}
	if _, err := m.Update("missing", func(*Session) {}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestBeginFinish(t *testing.T) {
	m, _ := newTestManager(time.Hour, 10)
	s := m.Create(llm.LanguageChinese)

	if err := m.Begin(s.ID); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := m.Begin(s.ID); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Begin err = %v, want ErrBusy", err)
	}

	first := &interviews.Analysis{ID: "a1"}
	m.Finish(s.ID, first)
	got, _ := m.Get(s.ID)
	if got.InFlight || got.Last == nil || got.Last.ID != "a1" {
		t.Fatalf("unexpected session after Finish %+v", got)
	}

	if err := m.Begin(s.ID); err != nil {
		t.Fatalf("Begin after Finish: %v", err)
	}
	m.Finish(s.ID, nil)
	got, _ = m.Get(s.ID)
	if got.Last == nil || got.Last.ID != "a1" {
		t.Fatalf("failed analysis should keep previous result, got %+v", got.Last)
	}
}

func TestBeginConcurrent(t *testing.T) {
	m, _ := newTestManager(time.Hour, 10)
	s := m.Create(llm.LanguageChinese)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		started int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.Begin(s.ID) == nil {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if started != 1 {
		t.Fatalf("expected exactly one Begin to win, got %d", started)
	}
}

func TestReset(t *testing.T) {
	m, _ := newTestManager(time.Hour, 10)
	s := m.Create(llm.LanguageEnglish)
	_, _ = m.Update(s.ID, func(s *Session) { s.APIKey = "k" })
	m.Finish(s.ID, &interviews.Analysis{ID: "a"})

	if err := m.Reset(s.ID); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	got, _ := m.Get(s.ID)
	if got.Last != nil || got.APIKey != "k" {
		t.Fatalf("unexpected session after Reset %+v", got)
	}
}

func TestExpiry(t *testing.T) {
	m, clock := newTestManager(time.Minute, 10)
	idle := m.Create(llm.LanguageChinese)
	busy := m.Create(llm.LanguageChinese)
	if err := m.Begin(busy.ID); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	clock.Advance(2 * time.Minute)
	if removed := m.Sweep(); removed != 1 {
		t.Fatalf("Sweep removed %d, want 1", removed)
	}
	if _, ok := m.Get(idle.ID); ok {
		t.Fatalf("idle session should have expired")
	}
	if _, ok := m.Get(busy.ID); !ok {
		t.Fatalf("in-flight session must not expire")
	}
}

func TestGetRefreshesAccess(t *testing.T) {
	m, clock := newTestManager(time.Minute, 10)
	s := m.Create(llm.LanguageChinese)
	for i := 0; i < 3; i++ {
		clock.Advance(40 * time.Second)
		if _, ok := m.Get(s.ID); !ok {
			t.Fatalf("session expired despite activity at step %d", i)
		}
	}
}

func TestCapacityEvictsLeastRecentlyUsed(t *testing.T) {
	m, clock := newTestManager(time.Hour, 2)
	a := m.Create(llm.LanguageChinese)
	clock.Advance(time.Second)
	b := m.Create(llm.LanguageChinese)
	clock.Advance(time.Second)
	m.Get(a.ID)
	clock.Advance(time.Second)

	c := m.Create(llm.LanguageChinese)
	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
	if _, ok := m.Get(b.ID); ok {
		t.Fatalf("least recently used session should be evicted")
	}
	if _, ok := m.Get(a.ID); !ok {
		t.Fatalf("recently used session should survive")
	}
	if _, ok := m.Get(c.ID); !ok {
		t.Fatalf("new session missing")
	}
}

func TestCapacityKeepsFreshResults(t *testing.T) {
	m, clock := newTestManager(time.Hour, 3)
	user := m.Create(llm.LanguageChinese)
	if err := m.Begin(user.ID); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	m.Finish(user.ID, &interviews.Analysis{ID: "fresh"})

	for i := 0; i < 3; i++ {
		clock.Advance(time.Second)
		m.Create(llm.LanguageChinese)
	}

	s, ok := m.Get(user.ID)
	if !ok || s.Last == nil || s.Last.ID != "fresh" {
		t.Fatalf("session with a fresh result was evicted")
	}
	if m.Len() != 3 {
		t.Fatalf("Len = %d, want 3", m.Len())
	}
}

func TestCapacityEvictsStaleResultsLast(t *testing.T) {
	m, clock := newTestManager(time.Hour, 2)
	old := m.Create(llm.LanguageChinese)
	m.Finish(old.ID, &interviews.Analysis{ID: "old"})
	clock.Advance(time.Second)
	recent := m.Create(llm.LanguageChinese)
	m.Finish(recent.ID, &interviews.Analysis{ID: "recent"})

	// Both hold results inside the grace period: the cap is exceeded.
	third := m.Create(llm.LanguageChinese)
	if m.Len() != 3 {
		t.Fatalf("Len = %d, want 3", m.Len())
	}

	clock.Advance(ResultGrace)
	m.Get(recent.ID)
	fourth := m.Create(llm.LanguageChinese)
	if _, ok := m.Get(third.ID); ok {
		t.Fatalf("session without a result should be evicted first")
	}
	if m.Len() != 3 {
		t.Fatalf("Len = %d, want 3", m.Len())
	}
	m.Finish(fourth.ID, &interviews.Analysis{ID: "fourth"})

	newest := m.Create(llm.LanguageChinese)
	if _, ok := m.Get(old.ID); ok {
		t.Fatalf("result idle past the grace period should be evicted")
	}
	if _, ok := m.Get(recent.ID); !ok {
		t.Fatalf("recently used result session should survive")
	}
	if _, ok := m.Get(newest.ID); !ok {
		t.Fatalf("new session missing")
	}
}
