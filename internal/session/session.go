// Package session holds the per-browser application context: category
// selection, current tutorial, navigation state and quiz reveal state.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/p-n-ai/pai-tutorials/internal/catalog"
	"github.com/p-n-ai/pai-tutorials/internal/quiz"
	"github.com/p-n-ai/pai-tutorials/internal/router"
	"github.com/p-n-ai/pai-tutorials/internal/tutorial"
)

// Session is the application context of one browser.
type Session struct {
	ID         string
	Categories *catalog.Directory
	Resolver   *tutorial.Resolver
	Dispatcher *router.Dispatcher
	Reveal     *quiz.Reveal

	mu       sync.Mutex
	lastSeen time.Time
}

// Navigate moves the session to path. Navigations may run concurrently;
// the one started last decides the view.
func (s *Session) Navigate(ctx context.Context, path string) router.Result {
	return s.Dispatcher.Navigate(ctx, path)
}

// Current returns the current tutorial, if any.
func (s *Session) Current() (tutorial.Tutorial, bool) {
	return s.Resolver.Current()
}

// ToggleAnswer flips the answer visibility of a question of the current
// quiz. It reports false if the question is not part of it.
func (s *Session) ToggleAnswer(questionID string) (visible, ok bool) {
	t, has := s.Current()
	if !has {
		return false, false
	}
	if _, found := t.Quiz.Find(questionID); !found {
		return false, false
	}
	return s.Reveal.Toggle(questionID), true
}

// LastPath returns the path of the view currently shown.
func (s *Session) LastPath() string {
	return s.Dispatcher.View().Path
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
