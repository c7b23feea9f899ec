package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the server-held proof of authentication bound to a client-held
// opaque token.
type Session struct {
	Token     string
	UserID    int64
	Username  string
	ExpiresAt time.Time
}

// sweepInterval is how often expired sessions are purged in the background.
// Expired sessions are also rejected lazily on Get, so the sweep only bounds
// memory growth.
const sweepInterval = 10 * time.Minute

// SessionStore holds live sessions in process memory, keyed by opaque token.
// Sessions do not survive a restart; the application assumes a single server
// process, so no cross-process synchronization exists.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewSessionStore creates a store whose sessions expire after ttl and starts
// the background sweeper. Call Close to stop it.
func NewSessionStore(ttl time.Duration) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Create issues a new session for the given account and returns it. The
// token is an opaque random identifier delivered to the client via cookie.
func (s *SessionStore) Create(userID int64, username string) Session {
	sess := Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Username:  username,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()
	return sess
}

// Get resolves a token to a live session. Expired sessions are removed and
// reported as absent.
func (s *SessionStore) Get(token string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, false
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(s.sessions, token)
		return Session{}, false
	}
	return sess, true
}

// Destroy removes the session for token. Destroying an unknown or already
// destroyed token is a no-op, so logout is idempotent.
func (s *SessionStore) Destroy(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Len reports the number of sessions currently held, expired or not.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the background sweeper. The store remains usable.
func (s *SessionStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *SessionStore) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for token, sess := range s.sessions {
				if now.After(sess.ExpiresAt) {
					delete(s.sessions, token)
				}
			}
			s.mu.Unlock()
		}
	}
}
