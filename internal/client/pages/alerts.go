package pages

import (
	"context"

	"github.com/dmitrijs2005/petalert/internal/client/models"
	"github.com/dmitrijs2005/petalert/internal/client/services"
)

type AlertsPage struct {
	d Deps
}

// Load returns the signed-in user's alerts.
func (p *AlertsPage) Load(ctx context.Context) ([]models.Alert, error) {
	u, err := RequireUser(p.d.Session, p.d.Nav)
	if err != nil {
		return nil, err
	}

	var alerts []models.Alert
	err = p.d.Tracker.Track(ctx, "alerts", func(ctx context.Context) error {
		var err error
		alerts, err = p.d.API.UserAlerts(ctx, u.AccessToken, u.ID)
		return err
	}, services.Authenticated(u.AccessToken))
	if err != nil {
		redirectIfLoggedOut(p.d, err)
		return nil, err
	}
	return alerts, nil
}

// Comments returns the signed-in user's comments.
func (p *AlertsPage) Comments(ctx context.Context) ([]models.Comment, error) {
	u, err := RequireUser(p.d.Session, p.d.Nav)
	if err != nil {
		return nil, err
	}

	var comments []models.Comment
	err = p.d.Tracker.Track(ctx, "comments", func(ctx context.Context) error {
		var err error
		comments, err = p.d.API.UserComments(ctx, u.AccessToken, u.ID)
		return err
	}, services.Authenticated(u.AccessToken))
	if err != nil {
		redirectIfLoggedOut(p.d, err)
		return nil, err
	}
	return comments, nil
}
