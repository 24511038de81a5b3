// Package pages holds the screen controllers. Each controller reads the
// session, issues remote calls through the tracker and navigates on
// completion. Controllers never talk to the user directly; outcomes reach
// the user through the notification channel and the loader.
package pages

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/petalert/internal/client/client"
	"github.com/dmitrijs2005/petalert/internal/client/models"
	"github.com/dmitrijs2005/petalert/internal/client/router"
	"github.com/dmitrijs2005/petalert/internal/client/services"
)

// ErrRedirected is returned by a protected action that was invoked without
// a session. The navigator has already moved to the sign-in route.
var ErrRedirected = errors.New("redirected to sign in")

// Session is the part of *services.SessionService the pages use.
type Session interface {
	Current() *models.SessionUser
	SignIn(ctx context.Context, req models.SignInRequest) (*models.SessionUser, error)
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.SessionUser, error)
	UpdateProfile(ctx context.Context, patch models.ProfilePatch) (*models.SessionUser, error)
	Logout(ctx context.Context)
}

// Navigator is the part of *router.Navigator the pages use.
type Navigator interface {
	Push(r router.Route)
	Current() router.Route
}

// Notifier is the part of *notify.Channel the pages use directly.
type Notifier interface {
	Info(message string)
	Error(err error)
}

// Deps are the collaborators shared by all controllers.
type Deps struct {
	Session  Session
	API      client.Client
	Tracker  *services.Tracker
	Nav      Navigator
	Notifier Notifier
}

// RequireUser returns the signed-in user. Without one it pushes the
// sign-in route and returns ErrRedirected before anything else happens.
func RequireUser(s Session, nav Navigator) (*models.SessionUser, error) {
	u := s.Current()
	if u == nil {
		nav.Push(router.SignIn)
		return nil, ErrRedirected
	}
	return u, nil
}

// Pages bundles one controller per route.
type Pages struct {
	SignUp        *SignUpPage
	SignIn        *SignInPage
	Profile       *ProfilePage
	ProfileUpdate *ProfileUpdatePage
	Alerts        *AlertsPage
}

func New(d Deps) *Pages {
	return &Pages{
		SignUp:        &SignUpPage{d: d},
		SignIn:        &SignInPage{d: d},
		Profile:       &ProfilePage{d: d},
		ProfileUpdate: &ProfileUpdatePage{d: d},
		Alerts:        &AlertsPage{d: d},
	}
}

// redirectIfLoggedOut sends the user to sign in after the tracker ended
// the session because the server rejected the token.
func redirectIfLoggedOut(d Deps, err error) {
	if err != nil && d.Session.Current() == nil {
		d.Nav.Push(router.SignIn)
	}
}
