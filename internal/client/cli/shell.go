package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/petalert/internal/client/app"
	"github.com/dmitrijs2005/petalert/internal/client/models"
	"github.com/dmitrijs2005/petalert/internal/client/notify"
	"github.com/dmitrijs2005/petalert/internal/client/pages"
	"github.com/dmitrijs2005/petalert/internal/client/router"
	"github.com/dmitrijs2005/petalert/internal/common"
)

const (
	tokenExpiredMessage     = "Your session token has expired. Sign in again if requests fail."
	localDataRemovedMessage = "Local data has been removed."
)

var errUnknownRoute = errors.New("unknown route")

// getSimpleText, getTextWithDefault and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText      = GetSimpleText
	getTextWithDefault = GetTextWithDefault
	getPassword        = GetPassword
)

// shell runs page controllers on behalf of one command or the REPL.
// Failures have already been reported through the notification channel by
// the time a method returns its error.
type shell struct {
	app     *app.App
	in      *bufio.Reader
	out     io.Writer
	jsonOut bool
}

// whoamiView is the public part of the session user.
type whoamiView struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	Viber          string     `json:"viber,omitempty"`
	Address        string     `json:"address,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
}

func newWhoamiView(u *models.SessionUser) whoamiView {
	v := whoamiView{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Viber: u.Viber, Address: u.Address}
	if exp, ok := u.TokenExpiry(); ok {
		v.TokenExpiresAt = &exp
	}
	return v
}

func (s *shell) isLoggedIn() bool {
	return s.app.Session.LoggedIn()
}

func (s *shell) status() string {
	if u := s.app.Session.Current(); u != nil {
		return u.Email
	}
	return "guest"
}

// redirected reports a guard redirect to the user.
func (s *shell) redirected(err error) error {
	if errors.Is(err, pages.ErrRedirected) {
		fmt.Fprintln(s.out, notify.SignInRequiredMessage)
	}
	return err
}

func (s *shell) SignUp(ctx context.Context) error {
	var req models.SignUpRequest
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Enter name", &req.Name},
		{"Enter email", &req.Email},
		{"Enter phone", &req.Phone},
		{"Enter viber (optional)", &req.Viber},
		{"Enter address (optional)", &req.Address},
	}
	for _, f := range fields {
		v, err := getSimpleText(s.in, f.prompt, s.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	password, err := getPassword(s.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	req.Password = string(password)

	return s.app.Pages.SignUp.Submit(ctx, req)
}

// SignIn prompts for whatever of email and password is missing.
func (s *shell) SignIn(ctx context.Context) error {
	return s.signIn(ctx, "")
}

func (s *shell) signIn(ctx context.Context, email string) error {
	if email == "" {
		v, err := getSimpleText(s.in, "Enter email", s.out)
		if err != nil {
			return err
		}
		email = v
	}

	password, err := getPassword(s.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return s.app.Pages.SignIn.Submit(ctx, models.SignInRequest{Email: email, Password: string(password)})
}

func (s *shell) Logout(ctx context.Context) error {
	s.app.Pages.Profile.Logout(ctx)
	return nil
}

func (s *shell) WhoAmI(ctx context.Context) error {
	u := s.app.Session.Current()
	if u == nil {
		fmt.Fprintln(s.out, "Not signed in.")
		return common.ErrNotLoggedIn
	}

	view := newWhoamiView(u)

	if s.jsonOut {
		return printJSON(s.out, view)
	}
	printUser(s.out, u)
	if view.TokenExpiresAt != nil {
		fmt.Fprintf(s.out, "Token expires: %s\n", view.TokenExpiresAt.Local().Format(time.DateTime))
		if view.TokenExpiresAt.Before(time.Now()) {
			s.app.Notifier.Warning(tokenExpiredMessage)
		}
	}
	return nil
}

// Profile mounts the profile page and loads both sections at once.
func (s *shell) Profile(ctx context.Context) error {
	p := s.app.Pages.Profile
	if err := p.Mount(ctx); err != nil {
		return s.redirected(err)
	}
	defer p.Unmount()

	if err := p.LoadAll(); err != nil {
		return s.redirected(err)
	}

	v := p.View()
	if s.jsonOut {
		return printJSON(s.out, struct {
			User     whoamiView       `json:"user"`
			Alerts   []models.Alert   `json:"alerts"`
			Comments []models.Comment `json:"comments"`
		}{
			User:     newWhoamiView(v.User),
			Alerts:   v.Alerts,
			Comments: v.Comments,
		})
	}
	printProfile(s.out, v)
	return nil
}

// Update walks through the profile form. Empty answers keep the current
// value; "-" clears an optional field.
func (s *shell) Update(ctx context.Context) error {
	page := s.app.Pages.ProfileUpdate
	form, err := page.Form()
	if err != nil {
		return s.redirected(err)
	}

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Name", &form.Name},
		{"Email", &form.Email},
		{"Phone", &form.Phone},
		{"Viber", &form.Viber},
		{"Address", &form.Address},
	}
	for _, f := range fields {
		v, err := getTextWithDefault(s.in, f.prompt, *f.dst, s.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	return s.redirected(page.Submit(ctx, form))
}

func (s *shell) Alerts(ctx context.Context) error {
	alerts, err := s.app.Pages.Alerts.Load(ctx)
	if err != nil {
		return s.redirected(err)
	}
	if s.jsonOut {
		return printJSON(s.out, alerts)
	}
	printAlerts(s.out, alerts)
	return nil
}

func (s *shell) Comments(ctx context.Context) error {
	comments, err := s.app.Pages.Alerts.Comments(ctx)
	if err != nil {
		return s.redirected(err)
	}
	if s.jsonOut {
		return printJSON(s.out, comments)
	}
	printComments(s.out, comments)
	return nil
}

// Dismiss hides the current banner.
func (s *shell) Dismiss(context.Context) error {
	s.app.Notifier.Dismiss()
	return nil
}

// Goto navigates to path and opens the screen behind it.
func (s *shell) Goto(ctx context.Context, path string) error {
	route, ok := router.Parse(path)
	if !ok {
		fmt.Fprintln(s.out, "Unknown route:", path)
		return fmt.Errorf("%w: %s", errUnknownRoute, path)
	}
	s.app.Nav.Push(route)

	switch route {
	case router.Profile:
		return s.Profile(ctx)
	case router.SignUp:
		return s.SignUp(ctx)
	case router.SignIn:
		return s.SignIn(ctx)
	case router.ProfileUpdate:
		return s.Update(ctx)
	case router.Alerts:
		return s.Alerts(ctx)
	}
	return nil
}

// Back returns to the previous screen without reopening it.
func (s *shell) Back(context.Context) error {
	fmt.Fprintln(s.out, "Now at", s.app.Nav.Back())
	return nil
}

func (s *shell) History(context.Context) error {
	routes := s.app.Nav.History()
	parts := make([]string, len(routes))
	for i, r := range routes {
		parts[i] = string(r)
	}
	fmt.Fprintln(s.out, strings.Join(parts, " > "))
	return nil
}

// Storage lists the locally stored keys with their sizes. Values are never
// printed; the session entry holds the access token.
func (s *shell) Storage(ctx context.Context) error {
	entries, err := s.app.Store.Metadata.List(ctx)
	if err != nil {
		s.app.Notifier.Error(err)
		return err
	}

	sizes := make(map[string]int, len(entries))
	for k, v := range entries {
		sizes[k] = len(v)
	}
	if s.jsonOut {
		return printJSON(s.out, sizes)
	}
	if len(sizes) == 0 {
		fmt.Fprintln(s.out, noData)
		return nil
	}
	keys := make([]string, 0, len(sizes))
	for k := range sizes {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(s.out, "%s (%d bytes)\n", k, sizes[k])
	}
	return nil
}

// Reset signs out and wipes local storage.
func (s *shell) Reset(ctx context.Context) error {
	s.app.Pages.Profile.Unmount()
	if err := s.app.Session.Reset(ctx); err != nil {
		s.app.Notifier.Error(err)
		return err
	}
	s.app.Nav.Push(router.Home)
	s.app.Notifier.Info(localDataRemovedMessage)
	return nil
}
