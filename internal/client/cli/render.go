package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/petalert/internal/client/app"
	"github.com/dmitrijs2005/petalert/internal/client/models"
	"github.com/dmitrijs2005/petalert/internal/client/notify"
	"github.com/dmitrijs2005/petalert/internal/client/pages"
	"github.com/dmitrijs2005/petalert/internal/client/router"
)

const (
	loadingLine = "Loading..."
	noData      = "No data found..."
)

// Renderer writes loader and notification changes to w as they happen.
type Renderer struct {
	mu sync.Mutex
	w  io.Writer
}

// Attach subscribes a Renderer to a's loader, notifier and navigator.
// Call detach to stop rendering.
func Attach(a *app.App, w io.Writer) (detach func()) {
	r := &Renderer{w: w}
	unsubs := []func(){
		a.Loader.Subscribe(r.loader),
		a.Notifier.Subscribe(r.notification),
		a.Nav.Subscribe(func(route router.Route) {
			a.Log.Debug(context.Background(), "navigated", "route", string(route))
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func (r *Renderer) loader(visible bool) {
	if !visible {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, loadingLine)
}

func (r *Renderer) notification(n notify.Notification) {
	if !n.Visible || n.Message == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "[%s] %s\n", n.Severity, n.Message)
}

func orNoData(s string) string {
	if s == "" {
		return noData
	}
	return s
}

func printUser(w io.Writer, u *models.SessionUser) {
	fmt.Fprintf(w, "Name:    %s\n", u.Name)
	fmt.Fprintf(w, "E-mail:  %s\n", u.Email)
	fmt.Fprintf(w, "Phone:   %s\n", orNoData(u.Phone))
	fmt.Fprintf(w, "Viber:   %s\n", orNoData(u.Viber))
	fmt.Fprintf(w, "Address: %s\n", orNoData(u.Address))
}

func printAlerts(w io.Writer, alerts []models.Alert) {
	if len(alerts) == 0 {
		fmt.Fprintln(w, noData)
		return
	}
	for _, a := range alerts {
		fmt.Fprintf(w, "- [%s] %s", orNoData(a.Type), orNoData(a.PetName))
		if a.Location != "" {
			fmt.Fprintf(w, " @ %s", a.Location)
		}
		if a.Description != "" {
			fmt.Fprintf(w, ": %s", a.Description)
		}
		fmt.Fprintln(w)
	}
}

func printComments(w io.Writer, comments []models.Comment) {
	if len(comments) == 0 {
		fmt.Fprintln(w, noData)
		return
	}
	for _, c := range comments {
		fmt.Fprintf(w, "- %s", c.Text)
		if !c.CreatedAt.IsZero() {
			fmt.Fprintf(w, " (%s)", c.CreatedAt.Local().Format(time.DateTime))
		}
		fmt.Fprintln(w)
	}
}

func printProfile(w io.Writer, v pages.ProfileView) {
	fmt.Fprintln(w, "PERSONAL DATA")
	printUser(w, v.User)
	if v.AlertsOpen {
		fmt.Fprintln(w, "\nYour alerts:")
		printAlerts(w, v.Alerts)
	}
	if v.CommentsOpen {
		fmt.Fprintln(w, "\nYour comments:")
		printComments(w, v.Comments)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
