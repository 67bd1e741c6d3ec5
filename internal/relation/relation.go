// Package relation resolves the many-to-many links between devices and
// guides. The links live on the guide side as weak id references; scanning
// them is the single source of truth for what belongs to a device, not the
// device's own forward list.
package relation

import (
	"github.com/fixdesk/fixdesk/internal/catalog"
	"github.com/fixdesk/fixdesk/internal/store"
)

// Resolver answers device-to-guide queries against the current store
// snapshots. Scans are O(n); the catalogs are small.
type Resolver struct {
	store *store.Store
}

// New returns a Resolver reading from st.
func New(st *store.Store) *Resolver {
	return &Resolver{store: st}
}

// InstructionsForDevice returns the instructions whose Models list
// references deviceID. An id referenced by nothing yields an empty list.
func (r *Resolver) InstructionsForDevice(deviceID int) []catalog.Guide {
	return guidesFor(r.store.Instructions(), deviceID)
}

// RecipesForDevice returns the recipes whose Models list references deviceID.
func (r *Resolver) RecipesForDevice(deviceID int) []catalog.Guide {
	return guidesFor(r.store.Recipes(), deviceID)
}

// GuideCounts returns the instruction and recipe counts for a device,
// derived from the reverse scan. Device cards display these, never the
// device's possibly stale Instructions field.
func (r *Resolver) GuideCounts(deviceID int) (instructions, recipes int) {
	return len(r.InstructionsForDevice(deviceID)), len(r.RecipesForDevice(deviceID))
}

func guidesFor(guides []catalog.Guide, deviceID int) []catalog.Guide {
	matched := []catalog.Guide{}
	for _, g := range guides {
		if g.References(deviceID) {
			matched = append(matched, g)
		}
	}
	return matched
}
