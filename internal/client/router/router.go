// Package router names the client's screens and tracks navigation between
// them.
package router

import (
	"slices"
	"sync"
)

// Route is a screen path.
type Route string

const (
	Home          Route = "/"
	Profile       Route = "/user"
	SignUp        Route = "/user/signup"
	SignIn        Route = "/user/signin"
	ProfileUpdate Route = "/user/update"
	Alerts        Route = "/alert"
)

// Routes lists every known route in menu order.
var Routes = []Route{Home, Profile, SignUp, SignIn, ProfileUpdate, Alerts}

// Parse returns the Route for path. ok is false for an unknown path.
func Parse(path string) (r Route, ok bool) {
	r = Route(path)
	if !slices.Contains(Routes, r) {
		return "", false
	}
	return r, true
}

// Navigator is an in-memory history stack. It starts at Home.
// Safe for concurrent use.
type Navigator struct {
	mu      sync.Mutex
	history []Route
	subs    map[int]func(Route)
	nextSub int
}

func NewNavigator() *Navigator {
	return &Navigator{
		history: []Route{Home},
		subs:    make(map[int]func(Route)),
	}
}

// Push navigates to r. Pushing the current route again is a no-op.
func (n *Navigator) Push(r Route) {
	n.mu.Lock()
	if n.history[len(n.history)-1] == r {
		n.mu.Unlock()
		return
	}
	n.history = append(n.history, r)
	subs := n.snapshotSubs()
	n.mu.Unlock()

	for _, fn := range subs {
		fn(r)
	}
}

// Back pops one entry. At the root it stays on Home.
func (n *Navigator) Back() Route {
	n.mu.Lock()
	if len(n.history) > 1 {
		n.history = n.history[:len(n.history)-1]
	}
	cur := n.history[len(n.history)-1]
	subs := n.snapshotSubs()
	n.mu.Unlock()

	for _, fn := range subs {
		fn(cur)
	}
	return cur
}

func (n *Navigator) Current() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.history[len(n.history)-1]
}

// History returns a copy of the stack, oldest first.
func (n *Navigator) History() []Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.history)
}

// Subscribe calls fn with the new route after every navigation.
func (n *Navigator) Subscribe(fn func(Route)) (unsubscribe func()) {
	n.mu.Lock()
	id := n.nextSub
	n.nextSub++
	n.subs[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

func (n *Navigator) snapshotSubs() []func(Route) {
	out := make([]func(Route), 0, len(n.subs))
	for _, fn := range n.subs {
		out = append(out, fn)
	}
	return out
}
