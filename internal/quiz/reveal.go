package quiz

import "sync"

// Reveal tracks which answers are currently shown. Every answer starts
// hidden.
type Reveal struct {
	mu      sync.Mutex
	visible map[string]bool
}

// NewReveal creates a reveal board with every answer hidden.
func NewReveal() *Reveal {
	return &Reveal{visible: make(map[string]bool)}
}

// Toggle flips the answer visibility of a question and returns the new state.
func (r *Reveal) Toggle(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := !r.visible[id]
	if v {
		r.visible[id] = true
	} else {
		delete(r.visible, id)
	}
	return v
}

// Visible reports whether the answer of a question is shown.
func (r *Reveal) Visible(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visible[id]
}

// Reset hides every answer.
func (r *Reveal) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.visible)
}
