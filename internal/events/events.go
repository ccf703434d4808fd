// Package events is the in-process event bus used to broadcast application
// errors to whatever alert surface is listening.
package events

import "sync"

// ErrorEvent carries an AlertError for the session that triggered it.
const ErrorEvent = "fundraiserApp.error"

type AlertError struct {
	Message string
}

type Event struct {
	Name    string
	Session string
	Content any
}

type Manager struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]func(Event)
}

func NewManager() *Manager {
	return &Manager{subs: map[string]map[int]func(Event){}}
}

// Subscribe registers fn for events called name. The returned func removes it.
func (m *Manager) Subscribe(name string, fn func(Event)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	if m.subs[name] == nil {
		m.subs[name] = map[int]func(Event){}
	}
	m.subs[name][id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs[name], id)
	}
}

// Broadcast delivers e synchronously to every subscriber of e.Name.
func (m *Manager) Broadcast(e Event) {
	m.mu.RLock()
	fns := make([]func(Event), 0, len(m.subs[e.Name]))
	for _, fn := range m.subs[e.Name] {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()
	for _, fn := range fns {
		fn(e)
	}
}

// AlertStore keeps error messages per session until the next page render
// takes them.
type AlertStore struct {
	mu      sync.Mutex
	pending map[string][]string
}

func NewAlertStore(m *Manager) *AlertStore {
	s := &AlertStore{pending: map[string][]string{}}
	m.Subscribe(ErrorEvent, s.onError)
	return s
}

func (s *AlertStore) onError(e Event) {
	msg := "An unexpected error occurred"
	switch c := e.Content.(type) {
	case AlertError:
		if c.Message != "" {
			msg = c.Message
		}
	case string:
		msg = c
	}
	s.mu.Lock()
	s.pending[e.Session] = append(s.pending[e.Session], msg)
	s.mu.Unlock()
}

func (s *AlertStore) Take(session string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending[session]
	delete(s.pending, session)
	return out
}

// Forget drops undelivered alerts of session.
func (s *AlertStore) Forget(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, session)
}
