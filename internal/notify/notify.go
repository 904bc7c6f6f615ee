// Package notify carries transient user-facing messages to a single listener.
package notify

import "sync"

// Severity of a notification
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Info    Severity = "info"
	Warning Severity = "warning"
)

// Notification is a message shown briefly to the user
type Notification struct {
	Message  string
	Severity Severity
}

// Handler receives published notifications
type Handler func(Notification)

// Publisher is the write side of a Channel
type Publisher interface {
	Publish(message string, severity ...Severity)
}

// Subscription identifies the owner of the listener slot
type Subscription uint64

// Channel holds at most one subscriber. Subscribing replaces the current
// subscriber without notice.
type Channel struct {
	mu      sync.Mutex
	handler Handler
	owner   Subscription
	nextID  Subscription
}

// New creates an empty channel
func New() *Channel {
	return &Channel{}
}

// Subscribe installs h as the only listener and returns its subscription
func (c *Channel) Subscribe(h Handler) Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	c.handler = h
	c.owner = c.nextID
	return c.owner
}

// Unsubscribe clears the slot only if sub still owns it
func (c *Channel) Unsubscribe(sub Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.owner == sub {
		c.handler = nil
		c.owner = 0
	}
}

// Publish sends a notification to the current subscriber. Severity defaults to
// Success. Without a subscriber the message is dropped.
func (c *Channel) Publish(message string, severity ...Severity) {
	n := Notification{Message: message, Severity: Success}
	if len(severity) > 0 && severity[0] != "" {
		n.Severity = severity[0]
	}

	c.mu.Lock()
	h := c.handler
	c.mu.Unlock()

	if h != nil {
		h(n)
	}
}
