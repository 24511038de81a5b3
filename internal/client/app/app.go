// Package app assembles the client: one App value owns every long-lived
// component and is passed explicitly to whoever needs it.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/petalert/internal/client/client"
	"github.com/dmitrijs2005/petalert/internal/client/config"
	"github.com/dmitrijs2005/petalert/internal/client/loader"
	"github.com/dmitrijs2005/petalert/internal/client/notify"
	"github.com/dmitrijs2005/petalert/internal/client/pages"
	"github.com/dmitrijs2005/petalert/internal/client/router"
	"github.com/dmitrijs2005/petalert/internal/client/services"
	"github.com/dmitrijs2005/petalert/internal/client/storage"
	"github.com/dmitrijs2005/petalert/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	Config   *config.Config
	Log      logging.Logger
	Store    *storage.Store
	API      client.Client
	Session  *services.SessionService
	Loader   *loader.Loader
	Notifier *notify.Channel
	Tracker  *services.Tracker
	Nav      *router.Navigator
	Pages    *pages.Pages
	Registry *prometheus.Registry
}

type options struct {
	api client.Client
}

// Option overrides a component built by New.
type Option func(*options)

// WithAPI replaces the HTTP API client.
func WithAPI(c client.Client) Option {
	return func(o *options) { o.api = c }
}

// New builds the App from cfg, opens storage and restores a persisted
// session. Logs go to logw.
func New(ctx context.Context, cfg *config.Config, logw io.Writer, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	log := logging.New(logw, cfg.Log.Level)

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	api := o.api
	if api == nil {
		hc := client.NewHTTPClient(cfg.Server.URL,
			client.WithTimeout(cfg.Server.Timeout),
			client.WithLogger(log.With("component", "api")))
		log.Debug(ctx, "api client ready", "base_url", hc.BaseURL(), "timeout", cfg.Server.Timeout)
		api = hc
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	a := &App{
		Config:   cfg,
		Log:      log,
		Store:    store,
		API:      api,
		Loader:   loader.New(loader.WithMetrics(loader.NewMetrics(reg))),
		Notifier: notify.New(),
		Nav:      router.NewNavigator(),
		Registry: reg,
	}
	a.Session = services.NewSessionService(api, store.Metadata, log)
	a.Tracker = services.NewTracker(a.Loader, a.Notifier, a.Session, log)
	a.Pages = pages.New(pages.Deps{
		Session:  a.Session,
		API:      api,
		Tracker:  a.Tracker,
		Nav:      a.Nav,
		Notifier: a.Notifier,
	})

	if _, err := a.Session.Restore(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	return a, nil
}

// Close releases storage. Safe to call on a nil App.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return a.Store.Close()
}
