// Package pending counts in-flight user operations and tracks the busy overlay.
package pending

import "sync"

// Counter is safe for concurrent use
type Counter struct {
	mu      sync.Mutex
	count   int
	overlay bool
}

// New creates an idle counter
func New() *Counter {
	return &Counter{}
}

// Begin records the start of an operation. showOverlay requests the busy overlay
// until the counter returns to zero.
func (c *Counter) Begin(showOverlay bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	if showOverlay {
		c.overlay = true
	}
}

// End records the completion of an operation. It never goes below zero.
func (c *Counter) End() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count > 0 {
		c.count--
	}
	if c.count == 0 {
		c.overlay = false
	}
}

// Track runs fn between Begin and End
func (c *Counter) Track(showOverlay bool, fn func() error) error {
	c.Begin(showOverlay)
	defer c.End()
	return fn()
}

// Busy reports whether any operation is in flight
func (c *Counter) Busy() bool {
	return c.Count() > 0
}

// Count returns the number of in-flight operations
func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// OverlayVisible reports whether the busy overlay should be shown
func (c *Counter) OverlayVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overlay && c.count > 0
}
