// Package session stores in-progress quiz sessions keyed by browser session
// and quiz id.
package session

import (
	"context"
	"sync"
	"time"

	"finquiz/internal/quiz"
)

const DefaultTTL = 24 * time.Hour

type memoryEntry struct {
	session quiz.Session
	touched time.Time
}

type currentEntry struct {
	quizID  string
	touched time.Time
}

// MemoryStore keeps sessions in process memory. Entries idle longer than the
// TTL are dropped by Sweep.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[quiz.SessionKey]memoryEntry
	current  map[string]currentEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[quiz.SessionKey]memoryEntry),
		current:  make(map[string]currentEntry),
	}
}

func (m *MemoryStore) LoadSession(_ context.Context, key quiz.SessionKey) (quiz.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[key]
	if !ok || m.expired(entry.touched) {
		return quiz.Session{}, false, nil
	}
	return entry.session.Clone(), true, nil
}

func (m *MemoryStore) SaveSession(_ context.Context, key quiz.SessionKey, s quiz.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[key] = memoryEntry{session: s.Clone(), touched: m.now()}
	return nil
}

func (m *MemoryStore) DeleteSession(_ context.Context, key quiz.SessionKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, key)
	return nil
}

func (m *MemoryStore) CurrentQuiz(_ context.Context, sessionID string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.current[sessionID]
	if !ok || m.expired(entry.touched) {
		return "", false, nil
	}
	return entry.quizID, true, nil
}

func (m *MemoryStore) SetCurrentQuiz(_ context.Context, sessionID, quizID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current[sessionID] = currentEntry{quizID: quizID, touched: m.now()}
	return nil
}

// Sweep removes expired entries and reports how many were dropped.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, entry := range m.sessions {
		if m.expired(entry.touched) {
			delete(m.sessions, key)
			removed++
		}
	}
	for sessionID, entry := range m.current {
		if m.expired(entry.touched) {
			delete(m.current, sessionID)
			removed++
		}
	}
	return removed
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *MemoryStore) expired(touched time.Time) bool {
	return m.now().Sub(touched) > m.ttl
}
