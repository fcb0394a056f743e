package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryJar is an in-process Jar. Useful for tests and throwaway sessions.
type MemoryJar struct {
	mu      sync.Mutex
	now     func() time.Time
	cookies map[string]Cookie
}

func NewMemoryJar() *MemoryJar {
	return &MemoryJar{now: time.Now, cookies: map[string]Cookie{}}
}

// WithClock replaces the clock used for expiry checks.
func (j *MemoryJar) WithClock(now func() time.Time) *MemoryJar {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.now = now
	return j
}

func (j *MemoryJar) Get(_ context.Context, name string) (string, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	c, ok := j.cookies[name]
	if !ok {
		return "", false, nil
	}
	if c.Expired(j.now()) {
		delete(j.cookies, name)
		return "", false, nil
	}
	return c.Value, true, nil
}

func (j *MemoryJar) Set(_ context.Context, name, value string, expires time.Time) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies[name] = Cookie{Name: name, Value: value, ExpiresAt: expires, UpdatedAt: j.now()}
	return nil
}

func (j *MemoryJar) Remove(_ context.Context, names ...string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, name := range names {
		delete(j.cookies, name)
	}
	return nil
}

// Lookup returns the raw entry, expired or not.
func (j *MemoryJar) Lookup(name string) (Cookie, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	c, ok := j.cookies[name]
	return c, ok
}

// Len reports how many entries are stored, including expired ones.
func (j *MemoryJar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.cookies)
}
