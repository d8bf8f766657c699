package session

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemorySize sessions kept before the least recently used is evicted
const DefaultMemorySize = 4096

// MemoryStore keeps sessions in process behind a random id cookie, they expire after MaxAge
type MemoryStore struct {
	Options
	sessions *expirable.LRU[string, Session]
}

// NewMemoryStore creates a memory store
func NewMemoryStore(options Options) *MemoryStore {
	options.defaults()
	return &MemoryStore{
		Options:  options,
		sessions: expirable.NewLRU[string, Session](DefaultMemorySize, nil, options.MaxAge),
	}
}

func (s *MemoryStore) Load(r *http.Request) (*Session, error) {
	id := cookieValue(r, s.CookieName)
	if id == "" {
		return nil, nil
	}

	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrInvalidSession
	}
	return &session, nil
}

// Save stores session under a fresh id, the id the request carried is dropped
func (s *MemoryStore) Save(w http.ResponseWriter, r *http.Request, session *Session) error {
	if old := cookieValue(r, s.CookieName); old != "" {
		s.sessions.Remove(old)
	}

	id := uuid.NewString()
	s.sessions.Add(id, *session)
	setCookie(w, s.Options, id, s.MaxAge)
	return nil
}

func (s *MemoryStore) Clear(w http.ResponseWriter, r *http.Request) error {
	if id := cookieValue(r, s.CookieName); id != "" {
		s.sessions.Remove(id)
	}
	setCookie(w, s.Options, "", 0)
	return nil
}

// Len sessions currently held
func (s *MemoryStore) Len() int {
	return s.sessions.Len()
}
