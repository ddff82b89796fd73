package gameloop

import "sync"

// Progress is the advisory score and lives carried between questions of one
// play session.
type Progress struct {
	Score int `json:"score"`
	Lives int `json:"lives"`
}

// Storage scopes progress to one tab or one client run.
type Storage interface {
	Load() (Progress, bool)
	Save(Progress)
	Clear()
}

type MemoryStorage struct {
	mu       sync.Mutex
	progress Progress
	ok       bool
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load() (Progress, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progress, m.ok
}

func (m *MemoryStorage) Save(p Progress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress = p
	m.ok = true
}

func (m *MemoryStorage) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress = Progress{}
	m.ok = false
}
