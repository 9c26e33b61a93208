package session

import (
	"context"
	"sync"
	"time"

	"github.com/linkring/linkring/internal/logger"
	"github.com/linkring/linkring/internal/notice"
	"github.com/linkring/linkring/internal/replica"
	redisstore "github.com/linkring/linkring/internal/store/redis"
	boardsync "github.com/linkring/linkring/internal/sync"
)

// Session is the application-state handle for one signed-in user: the
// profile replica, its watcher, and the user's notice center. It is
// passed explicitly to every operation instead of living in ambient
// shared state.
type Session struct {
	UserID  string
	User    *replica.UserState
	Notices *notice.Center

	watcher *boardsync.ProfileWatcher

	mu          sync.Mutex
	lastSeen    time.Time
	subscribers map[chan struct{}]struct{}
	closed      bool
}

func newSession(userID string, noticeTTL time.Duration) *Session {
	return &Session{
		UserID:      userID,
		User:        replica.NewUserState(),
		Notices:     notice.NewCenter(noticeTTL),
		subscribers: make(map[chan struct{}]struct{}),
		lastSeen:    time.Now(),
	}
}

// Touch marks the session as recently used.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

// LastSeen returns the last time the session was used.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Subscribe registers a listener for change signals. Each subscriber
// gets its own coalescing channel, so several feed connections for
// the same user all see every change. The caller must Unsubscribe
// when done.
func (s *Session) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener registered with Subscribe.
func (s *Session) Unsubscribe(ch chan struct{}) {
	s.mu.Lock()
	delete(s.subscribers, ch)
	s.mu.Unlock()
}

// NotifyChanged pokes every subscriber without blocking. A subscriber
// that already holds a pending signal is left as-is; the signal only
// means "re-read the replicas".
func (s *Session) NotifyChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Session) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	if s.watcher != nil {
		s.watcher.Stop()
	}
}

// Manager owns all live sessions. A session is opened when a userId
// is known and the store handle is up, and torn down on sign-out or
// by the idle reaper, so no watcher ever acts on stale identity.
type Manager struct {
	store     *redisstore.Store
	logger    logger.Logger
	noticeTTL time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager
func NewManager(store *redisstore.Store, log logger.Logger, noticeTTL time.Duration) *Manager {
	return &Manager{
		store:     store,
		logger:    log,
		noticeTTL: noticeTTL,
		sessions:  make(map[string]*Session),
	}
}

// Get returns the live session for a userId, if any.
func (m *Manager) Get(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if ok {
		s.Touch()
	}
	return s, ok
}

// Open returns the session for a userId, creating it and starting its
// profile watcher on first use. A watcher that fails to start leaves
// the session usable with an error notice posted, matching the
// degrade-to-visible-error bootstrap behavior.
func (m *Manager) Open(ctx context.Context, userID string) *Session {
	m.mu.Lock()
	if s, ok := m.sessions[userID]; ok {
		m.mu.Unlock()
		s.Touch()
		return s
	}

	s := newSession(userID, m.noticeTTL)
	m.sessions[userID] = s
	m.mu.Unlock()

	s.watcher = boardsync.NewProfileWatcher(
		m.store,
		userID,
		s.User,
		m.logger,
		s.NotifyChanged,
		func(err error) {
			s.Notices.Post("Failed to load user profile.", notice.Error)
			s.NotifyChanged()
		},
	)

	if err := s.watcher.Start(ctx); err != nil {
		m.logger.Error("profile watcher failed to start",
			logger.String("user_id", userID),
			logger.Error(err))
		s.Notices.Post("Failed to load user profile.", notice.Error)
	}

	m.logger.Info("session opened", logger.String("user_id", userID))
	return s
}

// Close tears down one session.
func (m *Manager) Close(userID string) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	if ok {
		delete(m.sessions, userID)
	}
	m.mu.Unlock()

	if ok {
		s.close()
		m.logger.Info("session closed", logger.String("user_id", userID))
	}
}

// CloseAll tears down every session, used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ReapIdle closes sessions unused for longer than ttl and returns how
// many were reaped.
func (m *Manager) ReapIdle(ttl time.Duration) int {
	now := time.Now()

	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if now.Sub(s.LastSeen()) > ttl {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.close()
		m.logger.Debug("idle session reaped", logger.String("user_id", s.UserID))
	}
	return len(idle)
}

// NotifyAll pokes every session's change signal, used when the shared
// board replica moves.
func (m *Manager) NotifyAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		s.NotifyChanged()
	}
}

// PostAll puts the same notice in front of every session, used for
// board-wide subscription failures.
func (m *Manager) PostAll(text string, kind notice.Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		s.Notices.Post(text, kind)
		s.NotifyChanged()
	}
}
