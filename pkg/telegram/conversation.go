package telegram

import (
	"sync"

	"github.com/akarakai/imgpdf/pkg/model"
	"github.com/akarakai/imgpdf/pkg/session"
)

// SessionStore keeps one session, and so one image list, per chat.
// Handlers run concurrently, every access goes through mu.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[model.ChatID]*session.Session
	create   func() *session.Session
}

func NewSessionStore(create func() *session.Session) *SessionStore {
	return &SessionStore{
		sessions: make(map[model.ChatID]*session.Session),
		create:   create,
	}
}

// Get returns the session of the chat, creating it on first use.
func (s *SessionStore) Get(chatID model.ChatID) *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = s.create()
		s.sessions[chatID] = sess
	}
	return sess
}

// Lookup returns the session without creating one.
func (s *SessionStore) Lookup(chatID model.ChatID) (*session.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	return sess, ok
}

// Clean forgets the chat. The next Get starts a new session.
func (s *SessionStore) Clean(chatID model.ChatID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
