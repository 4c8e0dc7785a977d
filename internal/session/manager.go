package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/p-n-ai/pai-tutorials/internal/catalog"
	"github.com/p-n-ai/pai-tutorials/internal/quiz"
	"github.com/p-n-ai/pai-tutorials/internal/router"
	"github.com/p-n-ai/pai-tutorials/internal/tutorial"
)

const defaultTTL = 30 * time.Minute

// ManagerConfig holds dependencies shared by every session.
type ManagerConfig struct {
	Categories   []catalog.TechCategory
	Loader       tutorial.Loader
	AppName      string
	AssetBaseURL string
	TTL          time.Duration // idle time before a session is dropped
	Now          func() time.Time
}

// Manager creates sessions and looks them up by id.
type Manager struct {
	cfg      ManagerConfig
	sessions map[string]*Session
	mu       sync.Mutex
}

// NewManager creates an empty session manager.
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.TTL == 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session with the given id, creating a fresh one when id
// is unknown or expired. created reports whether a new session was made.
func (m *Manager) Get(id string) (s *Session, created bool) {
	now := m.cfg.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked(now)

	if s, ok := m.sessions[id]; ok {
		s.touch(now)
		return s, false
	}

	s = m.newSession()
	s.touch(now)
	m.sessions[s.ID] = s
	slog.Debug("session created", "session_id", s.ID, "sessions", len(m.sessions))
	return s, true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Reload re-navigates every session currently showing a topic of course.
// It is used when the course's asset files change on disk.
func (m *Manager) Reload(ctx context.Context, course string) int {
	m.mu.Lock()
	var targets []*Session
	for _, s := range m.sessions {
		v := s.Dispatcher.View()
		if v.Kind == router.ViewTopic && v.Course == course {
			targets = append(targets, s)
		}
	}
	m.mu.Unlock()

	for _, s := range targets {
		s.Navigate(ctx, s.LastPath())
	}
	if len(targets) > 0 {
		slog.Info("reloaded sessions", "course", course, "sessions", len(targets))
	}
	return len(targets)
}

func (m *Manager) newSession() *Session {
	resolver := tutorial.NewResolver(tutorial.ResolverConfig{
		Loader:       m.cfg.Loader,
		AssetBaseURL: m.cfg.AssetBaseURL,
	})
	s := &Session{
		ID:         uuid.NewString(),
		Categories: catalog.NewDirectory(m.cfg.Categories),
		Resolver:   resolver,
		Dispatcher: router.NewDispatcher(router.DispatcherConfig{
			Resolver: resolver,
			AppName:  m.cfg.AppName,
		}),
		Reveal: quiz.NewReveal(),
	}

	// Revealed answers belong to the quiz they were revealed on.
	resolver.Subscribe(func(tutorial.Tutorial) {
		s.Reveal.Reset()
	})
	return s
}

func (m *Manager) sweepLocked(now time.Time) {
	for id, s := range m.sessions {
		if s.idleSince(now) > m.cfg.TTL {
			delete(m.sessions, id)
			slog.Debug("session expired", "session_id", id)
		}
	}
}
