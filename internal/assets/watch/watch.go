// Package watch reports which course of an asset directory changed on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/p-n-ai/pai-tutorials/internal/assets/layout"
)

// DefaultDebounceDuration is the quiet period before a change is reported.
const DefaultDebounceDuration = 200 * time.Millisecond

// ErrAlreadyStarted is returned by Run on a watcher that is running.
var ErrAlreadyStarted = errors.New("watcher already started")

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the debounce duration.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithOnChange sets the callback invoked with the course whose files changed.
func WithOnChange(fn func(course string)) Option {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// WithOnError sets the callback invoked on watch errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// Watcher watches the tutorials directory of an asset root. Every course
// directory is watched; new course directories are picked up as they appear.
type Watcher struct {
	root     string
	debounce time.Duration
	onChange func(string)
	onError  func(error)

	mu      sync.Mutex
	started bool
	timers  map[string]*time.Timer

	// courses is the set of watched course directories. Only Run's
	// goroutine touches it.
	courses map[string]bool
}

// New creates a watcher for the asset directory root.
func New(root string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		root:     abs,
		debounce: DefaultDebounceDuration,
		onChange: func(string) {},
		onError:  func(error) {},
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return ErrAlreadyStarted
	}
	w.started = true
	w.mu.Unlock()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fs watcher: %w", err)
	}
	defer fsw.Close()
	defer w.stopTimers()

	tutorials := filepath.Join(w.root, layout.TutorialsDir)
	if err := fsw.Add(tutorials); err != nil {
		return fmt.Errorf("watching %s: %w", tutorials, err)
	}
	entries, err := os.ReadDir(tutorials)
	if err != nil {
		return fmt.Errorf("listing %s: %w", tutorials, err)
	}
	w.courses = make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() {
			if err := fsw.Add(filepath.Join(tutorials, e.Name())); err != nil {
				return fmt.Errorf("watching course %s: %w", e.Name(), err)
			}
			w.courses[e.Name()] = true
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handle(fsw, tutorials, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) handle(fsw *fsnotify.Watcher, tutorials string, event fsnotify.Event) {
	rel, err := filepath.Rel(tutorials, event.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	if filepath.Dir(rel) == "." {
		w.handleCourseDir(fsw, rel, event)
		return
	}

	course, _, ok := layout.Split(layout.TutorialsDir + "/" + rel)
	if !ok {
		return
	}
	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.trigger(course)
	}
}

// handleCourseDir handles an entry directly under tutorials/. Only course
// directories count; plain files there belong to no course.
func (w *Watcher) handleCourseDir(fsw *fsnotify.Watcher, course string, event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err != nil || !info.IsDir() {
			return
		}
		if err := fsw.Add(event.Name); err != nil {
			w.onError(err)
			return
		}
		w.courses[course] = true
		w.trigger(course)

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if !w.courses[course] {
			return
		}
		delete(w.courses, course)
		w.trigger(course)
	}
}

func (w *Watcher) trigger(course string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[course]; ok {
		t.Stop()
	}
	w.timers[course] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, course)
		w.mu.Unlock()
		w.onChange(course)
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for course, t := range w.timers {
		t.Stop()
		delete(w.timers, course)
	}
	w.started = false
}
