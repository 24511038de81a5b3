package pages

import (
	"context"

	"github.com/dmitrijs2005/petalert/internal/client/models"
	"github.com/dmitrijs2005/petalert/internal/client/router"
	"github.com/dmitrijs2005/petalert/internal/client/services"
)

const ProfileUpdatedMessage = "Your profile has been updated."

type ProfileUpdatePage struct {
	d Deps
}

// Form guards the page and returns the edit form prefilled from the
// current user.
func (p *ProfileUpdatePage) Form() (models.ProfilePatch, error) {
	u, err := RequireUser(p.d.Session, p.d.Nav)
	if err != nil {
		return models.ProfilePatch{}, err
	}
	return models.PatchFrom(u), nil
}

// Submit sends the patch and returns to the profile on success.
func (p *ProfileUpdatePage) Submit(ctx context.Context, patch models.ProfilePatch) error {
	u, err := RequireUser(p.d.Session, p.d.Nav)
	if err != nil {
		return err
	}

	err = p.d.Tracker.TrackWithSuccess(ctx, "update profile", ProfileUpdatedMessage, func(ctx context.Context) error {
		if _, err := p.d.Session.UpdateProfile(ctx, patch); err != nil {
			return err
		}
		p.d.Nav.Push(router.Profile)
		return nil
	}, services.Authenticated(u.AccessToken))
	redirectIfLoggedOut(p.d, err)
	return err
}
