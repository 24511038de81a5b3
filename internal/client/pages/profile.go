package pages

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/petalert/internal/client/models"
	"github.com/dmitrijs2005/petalert/internal/client/router"
	"github.com/dmitrijs2005/petalert/internal/client/services"
	"golang.org/x/sync/errgroup"
)

const LoggedOutMessage = "You have been logged out."

// ProfileView is what the profile screen shows. A nil list has not been
// loaded yet; an empty one was loaded and had no items.
type ProfileView struct {
	User         *models.SessionUser
	AlertsOpen   bool
	CommentsOpen bool
	Alerts       []models.Alert
	Comments     []models.Comment
}

// ProfilePage shows the signed-in user with collapsible alert and comment
// sections. Opening a section loads its list and replaces the previous one.
// Loads that complete after Unmount are dropped.
type ProfilePage struct {
	d Deps

	mu       sync.Mutex
	mount    int // bumped on Mount and Unmount; stale loads compare against it
	ctx      context.Context
	cancel   context.CancelFunc
	view     ProfileView
	inFlight sync.WaitGroup
}

// Mount guards the page and resets its state.
func (p *ProfilePage) Mount(ctx context.Context) error {
	u, err := RequireUser(p.d.Session, p.d.Nav)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mount++
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.view = ProfileView{User: u}
	return nil
}

// Unmount cancels outstanding loads. Their results are ignored.
func (p *ProfilePage) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mount++
}

// Wait blocks until loads started by this page have finished.
func (p *ProfilePage) Wait() {
	p.inFlight.Wait()
}

// View returns a copy of the current state.
func (p *ProfilePage) View() ProfileView {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := p.view
	v.User = v.User.Clone()
	v.Alerts = slices.Clone(v.Alerts)
	v.Comments = slices.Clone(v.Comments)
	return v
}

// ToggleAlerts opens or closes the alerts section. Opening loads the list.
func (p *ProfilePage) ToggleAlerts() error {
	p.mu.Lock()
	p.view.AlertsOpen = !p.view.AlertsOpen
	open := p.view.AlertsOpen
	p.mu.Unlock()

	if !open {
		return nil
	}
	return p.loadAlerts()
}

// ToggleComments opens or closes the comments section. Opening loads the list.
func (p *ProfilePage) ToggleComments() error {
	p.mu.Lock()
	p.view.CommentsOpen = !p.view.CommentsOpen
	open := p.view.CommentsOpen
	p.mu.Unlock()

	if !open {
		return nil
	}
	return p.loadComments()
}

// LoadAll opens both sections and loads them concurrently. The loader stays
// visible until both loads finish.
func (p *ProfilePage) LoadAll() error {
	p.mu.Lock()
	p.view.AlertsOpen = true
	p.view.CommentsOpen = true
	p.mu.Unlock()

	var g errgroup.Group
	g.Go(p.loadAlerts)
	g.Go(p.loadComments)
	return g.Wait()
}

// Logout ends the session and returns home.
func (p *ProfilePage) Logout(ctx context.Context) {
	p.Unmount()
	p.d.Session.Logout(ctx)
	p.d.Nav.Push(router.Home)
	p.d.Notifier.Info(LoggedOutMessage)
}

// begin snapshots what a load needs. ok is false when the page is not
// mounted.
func (p *ProfilePage) begin() (ctx context.Context, u *models.SessionUser, mount int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel == nil || p.view.User == nil {
		return nil, nil, 0, false
	}
	p.inFlight.Add(1)
	return p.ctx, p.view.User, p.mount, true
}

// commit applies fn to the view unless the page was remounted or unmounted
// since the load started.
func (p *ProfilePage) commit(mount int, fn func(v *ProfileView)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if mount != p.mount {
		return
	}
	fn(&p.view)
}

func (p *ProfilePage) loadAlerts() error {
	ctx, u, mount, ok := p.begin()
	if !ok {
		return nil
	}
	defer p.inFlight.Done()

	err := p.d.Tracker.Track(ctx, "user alerts", func(ctx context.Context) error {
		alerts, err := p.d.API.UserAlerts(ctx, u.AccessToken, u.ID)
		if err != nil {
			return err
		}
		p.commit(mount, func(v *ProfileView) { v.Alerts = alerts })
		return nil
	}, services.Authenticated(u.AccessToken))
	redirectIfLoggedOut(p.d, err)
	return err
}

func (p *ProfilePage) loadComments() error {
	ctx, u, mount, ok := p.begin()
	if !ok {
		return nil
	}
	defer p.inFlight.Done()

	err := p.d.Tracker.Track(ctx, "user comments", func(ctx context.Context) error {
		comments, err := p.d.API.UserComments(ctx, u.AccessToken, u.ID)
		if err != nil {
			return err
		}
		p.commit(mount, func(v *ProfileView) { v.Comments = comments })
		return nil
	}, services.Authenticated(u.AccessToken))
	redirectIfLoggedOut(p.d, err)
	return err
}
