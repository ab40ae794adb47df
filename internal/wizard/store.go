package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"smartgrid/wattson/internal/constants"
	"smartgrid/wattson/internal/logging"
	"smartgrid/wattson/internal/providers"
)

// Session is the accumulated state of one in-progress wizard run. A
// session belongs to exactly one vendor for its entire lifetime. Data is
// private accumulated state (e.g. cached credentials); Context is echoed
// back to the caller and always carries the session id.
type Session struct {
	ID        string
	Vendor    providers.Vendor
	Data      map[string]any
	Context   map[string]any
	LastStep  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionStore keeps in-flight wizard sessions in memory, guarded by a
// single lock. Sessions idle past the TTL are swept lazily on Get and by
// the optional background sweeper; the store holds at most maxSessions
// entries, evicting the most idle one at the cap.
type SessionStore struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	ttl         time.Duration
	maxSessions int
	stopSweep   chan struct{}
}

// NewSessionStore builds a store with the given idle TTL
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = constants.DefaultWizardSessionTTL
	}
	return &SessionStore{
		sessions:    map[string]*Session{},
		ttl:         ttl,
		maxSessions: constants.DefaultWizardMaxSessions,
	}
}

// Create inserts a fresh session for the vendor. The session id is an
// unguessable uuid and is seeded into the session context.
func (s *SessionStore) Create(vendor providers.Vendor) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.maxSessions {
		s.evictOldest()
	}

	now := time.Now()
	id := uuid.NewString()
	session := &Session{
		ID:        id,
		Vendor:    vendor,
		Data:      map[string]any{},
		Context:   map[string]any{constants.WizardSessionIDContextKey: id},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[id] = session

	logging.Info("Wizard session created",
		"session_id", id,
		"vendor", string(vendor),
	)
	return session
}

// Get sweeps expired sessions, then looks up the id. A hit touches the
// session's idle timestamp. Returns nil when absent or just swept.
func (s *SessionStore) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()

	session, ok := s.sessions[id]
	if !ok {
		return nil
	}
	session.UpdatedAt = time.Now()
	return session
}

// Persist touches and overwrites the stored session
func (s *SessionStore) Persist(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session.UpdatedAt = time.Now()
	s.sessions[session.ID] = session
}

// Delete removes a session unconditionally
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of stored sessions
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartSweeper runs a periodic sweep so idle sessions are bounded in
// memory even without client traffic. Stop with StopSweeper.
func (s *SessionStore) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		interval = constants.DefaultWizardSweepEvery
	}

	s.mu.Lock()
	if s.stopSweep != nil {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	s.stopSweep = stop
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.mu.Lock()
				s.sweep()
				s.mu.Unlock()
			case <-stop:
				return
			}
		}
	}()
}

// StopSweeper stops the background sweeper if running
func (s *SessionStore) StopSweeper() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopSweep != nil {
		close(s.stopSweep)
		s.stopSweep = nil
	}
}

// sweep removes sessions idle past the TTL. Caller must hold the lock.
func (s *SessionStore) sweep() {
	now := time.Now()
	for id, session := range s.sessions {
		if now.Sub(session.UpdatedAt) > s.ttl {
			delete(s.sessions, id)
			logging.Debug("Wizard session expired", "session_id", id)
		}
	}
}

// evictOldest drops the most idle session. Caller must hold the lock.
func (s *SessionStore) evictOldest() {
	oldestID := ""
	var oldest time.Time
	for id, session := range s.sessions {
		if oldestID == "" || session.UpdatedAt.Before(oldest) {
			oldestID = id
			oldest = session.UpdatedAt
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
		logging.Warn("Wizard session evicted at capacity", "session_id", oldestID)
	}
}
