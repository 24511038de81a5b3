package pages

import (
	"context"

	"github.com/dmitrijs2005/petalert/internal/client/models"
	"github.com/dmitrijs2005/petalert/internal/client/router"
)

const (
	SignedUpMessage = "Your account has been created."
	SignedInMessage = "Welcome back!"
)

type SignUpPage struct {
	d Deps
}

// Submit registers the account and opens the profile on success.
func (p *SignUpPage) Submit(ctx context.Context, req models.SignUpRequest) error {
	return p.d.Tracker.TrackWithSuccess(ctx, "signup", SignedUpMessage, func(ctx context.Context) error {
		if _, err := p.d.Session.SignUp(ctx, req); err != nil {
			return err
		}
		p.d.Nav.Push(router.Profile)
		return nil
	})
}

type SignInPage struct {
	d Deps
}

// Submit signs in and opens the profile on success.
func (p *SignInPage) Submit(ctx context.Context, req models.SignInRequest) error {
	return p.d.Tracker.TrackWithSuccess(ctx, "signin", SignedInMessage, func(ctx context.Context) error {
		if _, err := p.d.Session.SignIn(ctx, req); err != nil {
			return err
		}
		p.d.Nav.Push(router.Profile)
		return nil
	})
}
