// Package syncer replaces the store's catalog collections from the remote
// service, recovering from any failure with built-in placeholder data.
package syncer

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/fixdesk/fixdesk/internal/catalog"
	"github.com/fixdesk/fixdesk/internal/store"
)

// API is the subset of the remote client the syncer needs.
type API interface {
	Devices(ctx context.Context) ([]catalog.Device, error)
	Instructions(ctx context.Context) ([]catalog.Guide, error)
	Recipes(ctx context.Context) ([]catalog.Guide, error)
	Tickets(ctx context.Context, userID int64) ([]catalog.Ticket, error)
}

// Source says where a sync's data came from.
type Source string

const (
	// SourceServer: the collection was replaced with server data.
	SourceServer Source = "server"
	// SourceFallback: the remote call failed and the collection was
	// replaced with the built-in placeholder data (empty for tickets).
	SourceFallback Source = "fallback"
	// SourceSkipped: ticket sync without a user identity; the collection
	// was replaced with empty.
	SourceSkipped Source = "skipped"
)

// Result is the outcome of a single sync. A sync never fails: the store is
// always left holding either server data or fallback data. Err records the
// absorbed cause when Source is SourceFallback.
type Result struct {
	Kind   catalog.Kind
	Source Source
	Count  int
	Err    error
}

// Recovered reports whether the sync fell back to placeholder data.
func (r Result) Recovered() bool { return r.Source == SourceFallback }

// Orchestrator drives catalog synchronization into a store.
type Orchestrator struct {
	api      API
	store    *store.Store
	identity func() (int64, bool)

	// Concurrent syncs of the same catalog share one remote call.
	group singleflight.Group
}

// New returns an Orchestrator. identity yields the current user's id for
// ticket sync; it may report absence, in which case ticket sync is skipped.
func New(api API, st *store.Store, identity func() (int64, bool)) *Orchestrator {
	if identity == nil {
		identity = func() (int64, bool) { return 0, false }
	}
	return &Orchestrator{api: api, store: st, identity: identity}
}

// Sync refreshes one catalog. It always terminates with the store replaced
// and never returns an error; transport failures, bad statuses, and
// malformed payloads are absorbed into a fallback replacement.
func (o *Orchestrator) Sync(ctx context.Context, kind catalog.Kind) Result {
	v, _, _ := o.group.Do(string(kind), func() (any, error) {
		return o.syncOne(ctx, kind), nil
	})
	return v.(Result)
}

func (o *Orchestrator) syncOne(ctx context.Context, kind catalog.Kind) Result {
	res := Result{Kind: kind}

	switch kind {
	case catalog.KindDevices:
		devices, err := o.api.Devices(ctx)
		if err != nil {
			devices = fallbackDevices()
			res.Source, res.Err = SourceFallback, err
		} else {
			res.Source = SourceServer
		}
		o.store.ReplaceDevices(devices)
		res.Count = len(devices)

	case catalog.KindInstructions:
		guides, err := o.api.Instructions(ctx)
		if err != nil {
			guides = fallbackInstructions()
			res.Source, res.Err = SourceFallback, err
		} else {
			res.Source = SourceServer
		}
		o.store.ReplaceInstructions(guides)
		res.Count = len(guides)

	case catalog.KindRecipes:
		guides, err := o.api.Recipes(ctx)
		if err != nil {
			guides = fallbackRecipes()
			res.Source, res.Err = SourceFallback, err
		} else {
			res.Source = SourceServer
		}
		o.store.ReplaceRecipes(guides)
		res.Count = len(guides)

	case catalog.KindTickets:
		userID, ok := o.identity()
		if !ok {
			o.store.ReplaceTickets(nil)
			res.Source = SourceSkipped
			slog.Debug("ticket sync skipped, no user identity")
			return res
		}
		tickets, err := o.api.Tickets(ctx, userID)
		if err != nil {
			tickets = nil
			res.Source, res.Err = SourceFallback, err
		} else {
			res.Source = SourceServer
		}
		o.store.ReplaceTickets(tickets)
		res.Count = len(tickets)
	}

	if res.Recovered() {
		slog.Warn("catalog sync recovered with fallback data",
			"kind", kind, "count", res.Count, "cause", res.Err)
	} else {
		slog.Debug("catalog synced", "kind", kind, "count", res.Count, "source", res.Source)
	}
	return res
}

// SyncAll bootstraps all four catalogs concurrently. Every branch is waited
// on regardless of outcome; one catalog's failure never cancels or fails the
// others, so the bootstrap always completes. Results are ordered as
// catalog.Kinds().
func (o *Orchestrator) SyncAll(ctx context.Context) []Result {
	kinds := catalog.Kinds()
	results := make([]Result, len(kinds))

	var wg sync.WaitGroup
	for i, kind := range kinds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = o.Sync(ctx, kind)
		}()
	}
	wg.Wait()
	return results
}
