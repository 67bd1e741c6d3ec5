package main

import (
	"context"

	"github.com/fixdesk/fixdesk/internal/bridge"
	"github.com/fixdesk/fixdesk/internal/catalog"
	"github.com/fixdesk/fixdesk/internal/config"
	"github.com/fixdesk/fixdesk/internal/relation"
	"github.com/fixdesk/fixdesk/internal/remote"
	"github.com/fixdesk/fixdesk/internal/store"
	"github.com/fixdesk/fixdesk/internal/syncer"
	"github.com/fixdesk/fixdesk/internal/ticket"
	"github.com/fixdesk/fixdesk/internal/view"
)

// app wires the client engine the commands run against: remote catalog
// client, in-memory store, sync orchestrator, view machine, and ticket
// service, all sharing the configured user identity.
type app struct {
	cfg      config.Config
	store    *store.Store
	remote   *remote.Client
	sync     *syncer.Orchestrator
	resolver *relation.Resolver
	machine  *view.Machine
	host     *bridge.Console
	tickets  *ticket.Service
}

// newApp is a var so tests can substitute a fake engine.
var newApp = func() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return buildApp(cfg), nil
}

func buildApp(cfg config.Config) *app {
	st := store.New()
	client := remote.New(cfg.Remote.BaseURL, cfg.Remote.Timeout)

	host := &bridge.Console{
		User:    bridge.User{ID: cfg.User.ID, Username: cfg.User.Username},
		HasUser: cfg.User.ID != 0,
	}
	identity := func() (int64, bool) {
		u, ok := host.Identity()
		return u.ID, ok
	}

	orch := syncer.New(client, st, identity)
	return &app{
		cfg:      cfg,
		store:    st,
		remote:   client,
		sync:     orch,
		resolver: relation.New(st),
		machine:  view.New(st),
		host:     host,
		tickets:  ticket.NewService(client, orch, host),
	}
}

// open syncs the catalogs a tab needs and lands the view machine on it.
func (a *app) open(ctx context.Context, tab view.Tab) view.Snapshot {
	if a.machine.SelectTab(tab) {
		res := a.sync.Sync(ctx, tab.Kind())
		reportSync(res)
	}
	// Device rows show guide counts, so the devices tab pulls the guide
	// catalogs alongside its own.
	if tab == view.TabDevices {
		for _, kind := range []catalog.Kind{catalog.KindInstructions, catalog.KindRecipes} {
			if !a.store.Loaded(kind) {
				reportSync(a.sync.Sync(ctx, kind))
			}
		}
	}
	a.machine.FinishBootstrap()
	return a.machine.Snapshot()
}

func reportSync(res syncer.Result) {
	switch res.Source {
	case syncer.SourceFallback:
		if res.Kind == catalog.KindTickets {
			printWarning("Could not load tickets, showing none")
		} else {
			printWarning("Could not load %s, showing sample data", res.Kind)
		}
	case syncer.SourceSkipped:
		printWarning("No user configured, tickets unavailable (set FIXDESK_USER_ID)")
	}
}
