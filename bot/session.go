package bot

import (
	"sync"

	"github.com/niktanya/telegram-book-bot/model"
)

// SessionStore holds per-user dialog sessions. Each session is owned
// by exactly one user and the dispatch pool serializes turns per
// user, so the mutex only guards the map itself.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*model.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*model.Session),
	}
}

// Get returns the user's session, creating an idle one if absent.
func (s *SessionStore) Get(userID int64) *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		session = &model.Session{UserID: userID}
		session.Reset()
		s.sessions[userID] = session
	}
	return session
}

// Remove discards a session once its dialog reached a terminal state.
func (s *SessionStore) Remove(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Len reports how many sessions are live, used by the admin API.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
