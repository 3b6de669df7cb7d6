package session

import (
	"sync"

	"portfolio-be/internal/entity"

	"github.com/google/uuid"
)

// Manager creates, resumes and tracks the live sessions.
type Manager struct {
	deps Deps

	mu   sync.Mutex
	live map[uuid.UUID]*Session
}

func NewManager(deps Deps) *Manager {
	return &Manager{deps: deps, live: make(map[uuid.UUID]*Session)}
}

// Open starts a session for sink. When resumeID names a stored snapshot the
// session takes over that id and restores its dialog; a live session with
// the same id is closed first.
func (m *Manager) Open(resumeID string, sink Sink) (*Session, bool) {
	id, snapshot := m.lookup(resumeID)

	m.mu.Lock()
	previous := m.live[id]
	delete(m.live, id)
	m.mu.Unlock()
	if previous != nil {
		previous.Close()
	}

	s := New(id, m.deps, sink, snapshot)

	m.mu.Lock()
	m.live[id] = s
	m.mu.Unlock()

	if m.deps.Logger != nil {
		m.deps.Logger.Info("SESSION", "Session opened", map[string]interface{}{
			"session": id.String(),
			"resumed": snapshot != nil,
		})
	}
	return s, snapshot != nil
}

func (m *Manager) lookup(resumeID string) (uuid.UUID, *entity.SessionSnapshot) {
	if resumeID == "" || m.deps.Repo == nil {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(resumeID)
	if err != nil {
		return uuid.New(), nil
	}
	snapshot, ok := m.deps.Repo.Get(id)
	if !ok {
		return uuid.New(), nil
	}
	return id, snapshot
}

// Release closes s and forgets it unless it was already replaced.
func (m *Manager) Release(s *Session) {
	m.mu.Lock()
	if m.live[s.id] == s {
		delete(m.live, s.id)
	}
	m.mu.Unlock()
	s.Close()
}

// Active counts the live sessions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// Shutdown closes every live session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.live))
	for id, s := range m.live {
		sessions = append(sessions, s)
		delete(m.live, id)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
