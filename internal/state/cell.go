// Package state provides a single-writer value cell with synchronous subscribers.
package state

import "sync"

// Cell holds the current value of a piece of shared state. Set replaces the
// value wholesale and notifies subscribers before it returns.
type Cell[T any] struct {
	mu     sync.RWMutex
	pubMu  sync.Mutex
	value  T
	set    bool
	nextID int
	subs   []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// NewCell creates an empty cell.
func NewCell[T any]() *Cell[T] {
	return &Cell[T]{}
}

// Get returns the current value and whether one has been published.
func (c *Cell[T]) Get() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, c.set
}

// Set publishes v and notifies every subscriber in subscription order.
func (c *Cell[T]) Set(v T) {
	// pubMu keeps notifications for consecutive writes from interleaving.
	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	c.mu.Lock()
	c.value = v
	c.set = true
	subs := append([]subscriber[T](nil), c.subs...)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Subscribe registers fn for future values. The returned func removes it.
func (c *Cell[T]) Subscribe(fn func(T)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, s := range c.subs {
				if s.id == id {
					c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers returns the number of registered subscribers.
func (c *Cell[T]) Subscribers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}
