package pages

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/petalert/internal/client/client"
	"github.com/dmitrijs2005/petalert/internal/client/loader"
	"github.com/dmitrijs2005/petalert/internal/client/models"
	"github.com/dmitrijs2005/petalert/internal/client/notify"
	"github.com/dmitrijs2005/petalert/internal/client/router"
	"github.com/dmitrijs2005/petalert/internal/client/services"
	"github.com/dmitrijs2005/petalert/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

/*************
 * fakes
 *************/

// memRepo is an in-memory metadata.Repository. failDelete makes Delete
// fail.
type memRepo struct {
	mu         sync.Mutex
	m          map[string][]byte
	failDelete bool
}

func (r *memRepo) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.m[key], nil
}

func (r *memRepo) Set(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.m == nil {
		r.m = make(map[string][]byte)
	}
	r.m[key] = value
	return nil
}

func (r *memRepo) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failDelete {
		return errors.New("storage unavailable")
	}
	delete(r.m, key)
	return nil
}

func (r *memRepo) List(ctx context.Context) (map[string][]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string][]byte, len(r.m))
	for k, v := range r.m {
		out[k] = v
	}
	return out, nil
}

func (r *memRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m = nil
	return nil
}

// fakeAPI implements client.Client with overridable behavior per call.
type fakeAPI struct {
	calls atomic.Int32

	mu         sync.Mutex
	alertToken string

	signIn   func(models.SignInRequest) (*models.SessionUser, error)
	signUp   func(models.SignUpRequest) (*models.SessionUser, error)
	update   func(models.ProfilePatch) (*models.SessionUser, error)
	alerts   func(ctx context.Context) ([]models.Alert, error)
	comments func(ctx context.Context) ([]models.Comment, error)
}

func (f *fakeAPI) SignIn(ctx context.Context, req models.SignInRequest) (*models.SessionUser, error) {
	f.calls.Add(1)
	return f.signIn(req)
}

func (f *fakeAPI) SignUp(ctx context.Context, req models.SignUpRequest) (*models.SessionUser, error) {
	f.calls.Add(1)
	return f.signUp(req)
}

func (f *fakeAPI) UpdateProfile(ctx context.Context, token, userID string, patch models.ProfilePatch) (*models.SessionUser, error) {
	f.calls.Add(1)
	return f.update(patch)
}

func (f *fakeAPI) UserAlerts(ctx context.Context, token, owner string) ([]models.Alert, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.alertToken = token
	f.mu.Unlock()
	return f.alerts(ctx)
}

func (f *fakeAPI) UserComments(ctx context.Context, token, userID string) ([]models.Comment, error) {
	f.calls.Add(1)
	return f.comments(ctx)
}

func ann() *models.SessionUser {
	return &models.SessionUser{ID: "u1", Name: "Ann", Email: "ann@example.com", Phone: "123456", Viber: "annv", AccessToken: "tok"}
}

/*************
 * harness
 *************/

type harness struct {
	api     *fakeAPI
	repo    *memRepo
	session *services.SessionService
	loader  *loader.Loader
	notes   *notify.Channel
	nav     *router.Navigator
	pages   *Pages
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		api: &fakeAPI{
			signIn: func(models.SignInRequest) (*models.SessionUser, error) { return ann(), nil },
			signUp: func(models.SignUpRequest) (*models.SessionUser, error) { return ann(), nil },
			update: func(models.ProfilePatch) (*models.SessionUser, error) { return ann(), nil },
			alerts: func(context.Context) ([]models.Alert, error) {
				return []models.Alert{{ID: "a1", PetName: "Rex"}}, nil
			},
			comments: func(context.Context) ([]models.Comment, error) {
				return []models.Comment{{ID: "c1", Text: "seen"}}, nil
			},
		},
		repo:   &memRepo{},
		loader: loader.New(),
		notes:  notify.New(),
		nav:    router.NewNavigator(),
	}
	h.session = services.NewSessionService(h.api, h.repo, nil)
	tracker := services.NewTracker(h.loader, h.notes, h.session, nil)
	h.pages = New(Deps{Session: h.session, API: h.api, Tracker: tracker, Nav: h.nav, Notifier: h.notes})
	return h
}

func (h *harness) signIn(t *testing.T) {
	t.Helper()
	_, err := h.session.SignIn(context.Background(), models.SignInRequest{Email: "ann@example.com", Password: "pw"})
	require.NoError(t, err)
	h.api.calls.Store(0)
}

/*************
 * guard
 *************/

func TestGuard_RedirectsBeforeAnyCall(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.ErrorIs(t, h.pages.Profile.Mount(ctx), ErrRedirected)
	assert.Equal(t, router.SignIn, h.nav.Current())

	_, err := h.pages.Alerts.Load(ctx)
	require.ErrorIs(t, err, ErrRedirected)

	_, err = h.pages.ProfileUpdate.Form()
	require.ErrorIs(t, err, ErrRedirected)

	err = h.pages.ProfileUpdate.Submit(ctx, models.ProfilePatch{Name: "B", Email: "b@example.com"})
	require.ErrorIs(t, err, ErrRedirected)

	assert.Zero(t, h.api.calls.Load())
	assert.Zero(t, h.loader.Count())
}

/*************
 * sign in / sign up
 *************/

func TestSignIn_SuccessNavigatesToProfile(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.pages.SignIn.Submit(context.Background(), models.SignInRequest{Email: "ann@example.com", Password: "pw"}))

	assert.Equal(t, router.Profile, h.nav.Current())
	assert.Equal(t, notify.Notification{Severity: notify.SeveritySuccess, Message: SignedInMessage, Visible: true}, h.notes.Current())
	assert.False(t, h.loader.Visible())
}

func TestSignIn_ServerMessageIsShown(t *testing.T) {
	h := newHarness(t)
	h.api.signIn = func(models.SignInRequest) (*models.SessionUser, error) {
		return nil, &client.APIError{StatusCode: http.StatusUnauthorized, Message: "Wrong password"}
	}

	err := h.pages.SignIn.Submit(context.Background(), models.SignInRequest{Email: "ann@example.com", Password: "pw"})
	require.Error(t, err)

	assert.Equal(t, router.Home, h.nav.Current())
	assert.Equal(t, "Wrong password", h.notes.Current().Message)
	assert.Equal(t, notify.SeverityError, h.notes.Current().Severity)
	assert.Nil(t, h.session.Current())
	assert.False(t, h.loader.Visible())
}

func TestSignUp_ValidationNeverCallsServer(t *testing.T) {
	h := newHarness(t)

	err := h.pages.SignUp.Submit(context.Background(), models.SignUpRequest{Email: "ann@example.com"})
	require.ErrorIs(t, err, common.ErrValidation)

	assert.Zero(t, h.api.calls.Load())
	assert.Contains(t, h.notes.Current().Message, "Name is required")
}

func TestSignUp_TransportErrorShowsGenericMessage(t *testing.T) {
	h := newHarness(t)
	h.api.signUp = func(models.SignUpRequest) (*models.SessionUser, error) {
		return nil, &client.TransportError{Op: "POST /auth/signup", Err: context.DeadlineExceeded}
	}

	err := h.pages.SignUp.Submit(context.Background(), models.SignUpRequest{
		Name: "Ann", Email: "ann@example.com", Phone: "123456", Password: "secret1",
	})
	require.Error(t, err)
	assert.Equal(t, common.GenericErrorMessage, h.notes.Current().Message)
}

/*************
 * profile
 *************/

func TestProfile_ToggleLoadsAndReplaces(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	p := h.pages.Profile
	require.NoError(t, p.Mount(context.Background()))

	require.NoError(t, p.ToggleAlerts())
	v := p.View()
	assert.True(t, v.AlertsOpen)
	require.Len(t, v.Alerts, 1)

	h.api.alerts = func(context.Context) ([]models.Alert, error) {
		return []models.Alert{{ID: "a2"}, {ID: "a3"}}, nil
	}
	require.NoError(t, p.ToggleAlerts()) // close: no load
	assert.Equal(t, int32(1), h.api.calls.Load())

	require.NoError(t, p.ToggleAlerts())
	v = p.View()
	require.Len(t, v.Alerts, 2)
	assert.Equal(t, "a2", v.Alerts[0].ID)
	assert.Nil(t, v.Comments, "comments section never opened")
}

func TestProfile_LoadAllKeepsLoaderUntilBothFinish(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	p := h.pages.Profile
	require.NoError(t, p.Mount(context.Background()))

	releaseAlerts, releaseComments := make(chan struct{}), make(chan struct{})
	h.api.alerts = func(context.Context) ([]models.Alert, error) {
		<-releaseAlerts
		return []models.Alert{}, nil
	}
	h.api.comments = func(context.Context) ([]models.Comment, error) {
		<-releaseComments
		return []models.Comment{{ID: "c9"}}, nil
	}

	done := make(chan error, 1)
	go func() { done <- p.LoadAll() }()

	require.Eventually(t, func() bool { return h.loader.Count() == 2 }, timeout, tick)

	close(releaseAlerts)
	require.Eventually(t, func() bool { return h.loader.Count() == 1 }, timeout, tick)
	assert.True(t, h.loader.Visible())

	close(releaseComments)
	require.NoError(t, <-done)
	assert.False(t, h.loader.Visible())

	v := p.View()
	assert.NotNil(t, v.Alerts)
	assert.Empty(t, v.Alerts)
	require.Len(t, v.Comments, 1)
}

func TestProfile_CompletionAfterUnmountIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	p := h.pages.Profile
	require.NoError(t, p.Mount(context.Background()))

	started, release := make(chan struct{}), make(chan struct{})
	h.api.alerts = func(context.Context) ([]models.Alert, error) {
		close(started)
		<-release
		return []models.Alert{{ID: "late"}}, nil
	}

	go func() { _ = p.ToggleAlerts() }()
	<-started
	p.Unmount()
	close(release)

	require.Eventually(t, func() bool { return !h.loader.Visible() }, timeout, tick)
	p.Wait()
	assert.Nil(t, p.View().Alerts)
	assert.False(t, h.notes.Current().Visible, "late completion must not notify")
}

func TestProfile_RejectedTokenLogsOutAndRedirects(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	p := h.pages.Profile
	require.NoError(t, p.Mount(context.Background()))

	h.api.alerts = func(context.Context) ([]models.Alert, error) {
		return nil, &client.APIError{StatusCode: http.StatusUnauthorized, Message: "Token expired"}
	}

	require.Error(t, p.ToggleAlerts())
	assert.Nil(t, h.session.Current())
	assert.Equal(t, router.SignIn, h.nav.Current())
	assert.Equal(t, "Token expired", h.notes.Current().Message)
}

func TestProfile_Logout(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.nav.Push(router.Profile)
	p := h.pages.Profile
	require.NoError(t, p.Mount(context.Background()))

	p.Logout(context.Background())
	p.Logout(context.Background())

	assert.Nil(t, h.session.Current())
	assert.Equal(t, router.Home, h.nav.Current())
	assert.Equal(t, LoggedOutMessage, h.notes.Current().Message)
}

func TestProfile_LogoutWithStorageFailureStillGoesHome(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.nav.Push(router.Profile)
	h.repo.mu.Lock()
	h.repo.failDelete = true
	h.repo.mu.Unlock()

	h.pages.Profile.Logout(context.Background())

	assert.Nil(t, h.session.Current())
	assert.Equal(t, router.Home, h.nav.Current())
	assert.Equal(t, notify.Notification{Severity: notify.SeverityInfo, Message: LoggedOutMessage, Visible: true}, h.notes.Current())
}

func TestAlerts_RejectedOldTokenKeepsNewSession(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.nav.Push(router.Alerts)

	started, release := make(chan struct{}), make(chan struct{})
	h.api.alerts = func(context.Context) ([]models.Alert, error) {
		close(started)
		<-release
		return nil, &client.APIError{StatusCode: http.StatusUnauthorized, Message: "Token expired"}
	}

	done := make(chan error, 1)
	go func() {
		_, err := h.pages.Alerts.Load(context.Background())
		done <- err
	}()
	<-started

	h.api.signIn = func(models.SignInRequest) (*models.SessionUser, error) {
		u := ann()
		u.AccessToken = "fresh"
		return u, nil
	}
	h.signIn(t)
	close(release)

	require.Error(t, <-done)
	h.api.mu.Lock()
	assert.Equal(t, "tok", h.api.alertToken, "the load went out with the old token")
	h.api.mu.Unlock()

	cur := h.session.Current()
	require.NotNil(t, cur, "a rejection of the old token must not end the new session")
	assert.Equal(t, "fresh", cur.AccessToken)
	assert.Equal(t, router.Alerts, h.nav.Current())

	raw, err := h.repo.Get(context.Background(), common.SessionStorageKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"fresh"`)
	assert.False(t, h.loader.Visible())
}

/*************
 * update
 *************/

func TestProfileUpdate_FormAndSubmit(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	form, err := h.pages.ProfileUpdate.Form()
	require.NoError(t, err)
	assert.Equal(t, "Ann", form.Name)
	assert.Equal(t, "annv", form.Viber)

	h.api.update = func(p models.ProfilePatch) (*models.SessionUser, error) {
		return &models.SessionUser{ID: "u1", Name: p.Name, Email: p.Email}, nil
	}
	form.Name = "Anna"
	form.Viber = ""
	require.NoError(t, h.pages.ProfileUpdate.Submit(context.Background(), form))

	u := h.session.Current()
	assert.Equal(t, "Anna", u.Name)
	assert.Empty(t, u.Viber)
	assert.Empty(t, u.Phone, "fields missing from the response are not merged back")
	assert.Equal(t, "tok", u.AccessToken)
	assert.Equal(t, router.Profile, h.nav.Current())
	assert.Equal(t, ProfileUpdatedMessage, h.notes.Current().Message)
}

/*************
 * alerts
 *************/

func TestAlertsPage_LoadAndComments(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	alerts, err := h.pages.Alerts.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Rex", alerts[0].PetName)

	comments, err := h.pages.Alerts.Comments(context.Background())
	require.NoError(t, err)
	require.Len(t, comments, 1)
}
