// Package notify holds the single user-facing status banner.
//
// There is no queue: each Notify overwrites the previous notification and
// makes it visible. Dismiss hides the banner but keeps the last message so
// renderers can fade it out.
package notify

import "sync"

// Severity is the banner level.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a snapshot of the banner.
type Notification struct {
	Severity Severity
	Message  string
	Visible  bool
}

// Channel is safe for concurrent use; the last writer wins.
type Channel struct {
	mu      sync.Mutex
	current Notification
	subs    map[int]func(Notification)
	nextSub int

	// publishMu keeps write+delivery atomic so subscribers observe writes
	// in the order they were made.
	publishMu sync.Mutex
}

func New() *Channel {
	return &Channel{subs: make(map[int]func(Notification))}
}

// Notify replaces the current notification and shows it.
func (c *Channel) Notify(sev Severity, message string) {
	c.set(func(n *Notification) {
		*n = Notification{Severity: sev, Message: message, Visible: true}
	})
}

func (c *Channel) Info(message string)    { c.Notify(SeverityInfo, message) }
func (c *Channel) Success(message string) { c.Notify(SeveritySuccess, message) }
func (c *Channel) Warning(message string) { c.Notify(SeverityWarning, message) }

// Error shows err as an error banner using MessageFor, so the user never
// sees raw technical text. A nil err is ignored.
func (c *Channel) Error(err error) {
	if err == nil {
		return
	}
	c.Notify(SeverityError, MessageFor(err))
}

// Dismiss hides the banner and retains the last message.
func (c *Channel) Dismiss() {
	c.set(func(n *Notification) {
		n.Visible = false
	})
}

// Current returns the current notification.
func (c *Channel) Current() Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Subscribe registers fn to receive every change. fn must not call back
// into the channel.
func (c *Channel) Subscribe(fn func(Notification)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Channel) set(mutate func(*Notification)) {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	c.mu.Lock()
	mutate(&c.current)
	n := c.current
	subs := make([]func(Notification), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
}
