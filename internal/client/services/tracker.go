package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/petalert/internal/client/loader"
	"github.com/dmitrijs2005/petalert/internal/client/notify"
	"github.com/dmitrijs2005/petalert/internal/logging"
)

// Progress is the part of *loader.Loader the tracker drives.
type Progress interface {
	Begin() loader.Token
	End(loader.Token)
}

// Notifier is the part of *notify.Channel the tracker reports to.
type Notifier interface {
	Success(message string)
	Error(err error)
}

// SessionEnder forces a logout when the server rejects the session. It
// reports whether token was the current session's token.
type SessionEnder interface {
	LogoutIfToken(ctx context.Context, token string) bool
}

// Tracker runs remote operations with a uniform lifecycle: the loader is
// raised before the call and lowered exactly once afterwards, failures are
// turned into one user-facing notification, and auth failures on
// authenticated operations end the session.
type Tracker struct {
	progress Progress
	notifier Notifier
	session  SessionEnder
	log      logging.Logger
}

func NewTracker(p Progress, n Notifier, s SessionEnder, log logging.Logger) *Tracker {
	if log == nil {
		log = logging.Discard()
	}
	return &Tracker{progress: p, notifier: n, session: s, log: log.With("component", "tracker")}
}

type trackOptions struct {
	success       string
	authenticated bool
	token         string
}

// TrackOption adjusts a single Track call.
type TrackOption func(*trackOptions)

// Authenticated marks the operation as carrying token, so an auth failure
// logs the user out if token still belongs to the current session.
func Authenticated(token string) TrackOption {
	return func(o *trackOptions) {
		o.authenticated = true
		o.token = token
	}
}

// WithSuccess shows message when the operation succeeds.
func WithSuccess(message string) TrackOption {
	return func(o *trackOptions) { o.success = message }
}

// Track runs fn and returns its error. A cancelled ctx is reported to the
// caller but not to the user.
func (t *Tracker) Track(ctx context.Context, name string, fn func(ctx context.Context) error, opts ...TrackOption) (err error) {
	var o trackOptions
	for _, opt := range opts {
		opt(&o)
	}

	tok := t.progress.Begin()
	started := time.Now()

	defer func() {
		defer t.progress.End(tok)

		if p := recover(); p != nil {
			t.log.Error(ctx, "operation panicked", "op", name, "panic", fmt.Sprint(p))
			panic(p)
		}
		t.finish(ctx, name, o, err, time.Since(started))
	}()

	return fn(ctx)
}

// TrackWithSuccess is Track with a success notification.
func (t *Tracker) TrackWithSuccess(ctx context.Context, name, success string, fn func(ctx context.Context) error, opts ...TrackOption) error {
	return t.Track(ctx, name, fn, append(opts, WithSuccess(success))...)
}

func (t *Tracker) finish(ctx context.Context, name string, o trackOptions, err error, took time.Duration) {
	if err == nil {
		t.log.Debug(ctx, "operation done", "op", name, "took", took)
		if o.success != "" {
			t.notifier.Success(o.success)
		}
		return
	}

	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		t.log.Debug(ctx, "operation cancelled", "op", name)
		return
	}

	kind := notify.Classify(err)
	t.log.Warn(ctx, "operation failed", "op", name, "kind", kind.String(), "error", err, "took", took)

	if kind == notify.KindAuth && o.authenticated && t.session != nil {
		if !t.session.LogoutIfToken(context.WithoutCancel(ctx), o.token) {
			t.log.Info(ctx, "rejected token is no longer current, session kept", "op", name)
		}
	}
	t.notifier.Error(err)
}
