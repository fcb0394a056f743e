package engine

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/SicilyCialo/kannacs/internal/storage"
)

var testNow = time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)

// manualScheduler fires callbacks only when virtual time is advanced.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []manualTimer
}

type manualTimer struct {
	at time.Duration
	f  func()
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timers = append(m.timers, manualTimer{at: m.now + d, f: f})
}

func (m *manualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()
	for {
		m.mu.Lock()
		idx := -1
		for i, t := range m.timers {
			if t.at <= target && (idx < 0 || t.at < m.timers[idx].at) {
				idx = i
			}
		}
		if idx < 0 {
			m.now = target
			m.mu.Unlock()
			return
		}
		t := m.timers[idx]
		m.timers = append(m.timers[:idx], m.timers[idx+1:]...)
		m.now = t.at
		m.mu.Unlock()
		t.f()
	}
}

func newTestService(t *testing.T, opts ...Option) (*Service, *storage.MemoryJar) {
	t.Helper()
	jar := storage.NewMemoryJar().WithClock(func() time.Time { return testNow })
	base := []Option{
		WithClock(func() time.Time { return testNow }),
		WithPicker(FixedPicker(ChoiceScissors)),
		WithScheduler(ImmediateScheduler{}),
	}
	return NewService(jar, append(base, opts...)...), jar
}

func newSQLiteJar(t *testing.T, path string) *storage.CookieRepo {
	t.Helper()
	db, err := storage.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return storage.NewCookieRepo(db)
}

func testDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

func setStats(t *testing.T, svc *Service, mut func(g *GameStats)) {
	t.Helper()
	g := svc.Stats()
	mut(&g)
	svc.Store().SetStats(g)
}

func setStreak(t *testing.T, svc *Service, n int) {
	t.Helper()
	svc.Store().hydrate(func(p *Progress) { p.WinStreak = n })
}

func achievement(t *testing.T, list []Achievement, id string) Achievement {
	t.Helper()
	for _, a := range list {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %q not in catalogue", id)
	return Achievement{}
}

func eventKinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}
