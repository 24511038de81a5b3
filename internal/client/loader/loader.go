// Package loader tracks in-flight asynchronous operations so a single
// progress indicator can be shown while at least one is outstanding.
//
// The loader is reference counted: two overlapping operations keep it
// visible until both have ended. Each Begin hands out a unique Token and
// End is idempotent per token, so finalizing twice, or finalizing a token
// the loader never issued, cannot drive the count negative.
package loader

import (
	"sync"

	"github.com/google/uuid"
)

// Token identifies one in-flight operation.
type Token string

// Loader is safe for concurrent use.
type Loader struct {
	mu        sync.Mutex
	active    map[Token]struct{}
	subs      map[int]func(bool)
	nextSub   int
	published bool
	metrics   *Metrics

	// publishMu serializes subscriber delivery so transitions arrive in order.
	publishMu sync.Mutex
}

// Option configures a Loader.
type Option func(*Loader)

// WithMetrics reports in-flight counts to m.
func WithMetrics(m *Metrics) Option {
	return func(l *Loader) {
		l.metrics = m
	}
}

func New(opts ...Option) *Loader {
	l := &Loader{
		active: make(map[Token]struct{}),
		subs:   make(map[int]func(bool)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Begin registers a new in-flight operation. Call End with the returned
// token on every completion path.
func (l *Loader) Begin() Token {
	tok := Token(uuid.NewString())

	l.mu.Lock()
	l.active[tok] = struct{}{}
	l.mu.Unlock()

	l.metrics.begin()
	l.publish()
	return tok
}

// End marks the operation as finished. Unknown or already ended tokens are
// ignored.
func (l *Loader) End(tok Token) {
	l.mu.Lock()
	if _, ok := l.active[tok]; !ok {
		l.mu.Unlock()
		return
	}
	delete(l.active, tok)
	l.mu.Unlock()

	l.metrics.end()
	l.publish()
}

// Visible reports whether at least one operation is in flight.
func (l *Loader) Visible() bool {
	return l.Count() > 0
}

// Count returns the number of in-flight operations.
func (l *Loader) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.active)
}

// Subscribe registers fn to be called on visibility transitions
// (hidden→visible and visible→hidden). fn runs on the goroutine that caused
// the transition and must not call Begin or End.
func (l *Loader) Subscribe(fn func(visible bool)) (unsubscribe func()) {
	l.mu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.subs, id)
		l.mu.Unlock()
	}
}

// publish delivers the current visibility to subscribers if it differs
// from the last delivered value.
func (l *Loader) publish() {
	l.publishMu.Lock()
	defer l.publishMu.Unlock()

	l.mu.Lock()
	visible := len(l.active) > 0
	if visible == l.published {
		l.mu.Unlock()
		return
	}
	l.published = visible
	subs := make([]func(bool), 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.mu.Unlock()

	for _, fn := range subs {
		fn(visible)
	}
}
