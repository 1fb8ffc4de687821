package core

import (
	"sync"

	"github.com/google/uuid"
)

// SessionStore hands out one ChatState per session id.
// Sessions live for the lifetime of the process.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*ChatState
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*ChatState)}
}

// NewSessionID generates a fresh session identifier
func NewSessionID() string {
	return uuid.NewString()
}

// GetOrCreate returns the state for id, creating it on first use
func (s *SessionStore) GetOrCreate(id string) *ChatState {
	s.mu.RLock()
	state, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return state
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.sessions[id]; ok {
		return state
	}
	state = NewChatState(id)
	s.sessions[id] = state
	return state
}

func (s *SessionStore) Get(id string) (*ChatState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[id]
	return state, ok
}
