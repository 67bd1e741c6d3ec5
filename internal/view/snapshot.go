package view

import (
	"github.com/fixdesk/fixdesk/internal/catalog"
	"github.com/fixdesk/fixdesk/internal/search"
)

// EmptyState says why a tab shows no rows, so the renderer can pick the
// right placeholder.
type EmptyState int

const (
	// NotEmpty: the tab has rows.
	NotEmpty EmptyState = iota
	// NeverLoaded: the catalog has not been synced this session.
	NeverLoaded
	// EmptyCollection: synced, and the server-side catalog is empty.
	EmptyCollection
	// NoResults: the catalog has entries but the search query matched none.
	NoResults
)

// DeviceRow pairs a device with its authoritative guide counts.
type DeviceRow struct {
	Device           catalog.Device
	InstructionCount int
	RecipeCount      int
}

// DeviceDetail is the content of an open device modal.
type DeviceDetail struct {
	Device       catalog.Device
	Instructions []catalog.Guide
	Recipes      []catalog.Guide
}

// ModalContent carries the resolved entity behind the open modal. Exactly
// one of the pointers is set, matching Kind.
type ModalContent struct {
	Kind   catalog.Kind
	Device *DeviceDetail
	Guide  *catalog.Guide
	Ticket *catalog.Ticket
}

// Snapshot is everything the renderer needs for one frame of the active tab.
type Snapshot struct {
	Tab   Tab
	Phase Phase
	Query string
	Empty EmptyState

	// Rows of the active tab; only the slice matching Tab is populated.
	Devices []DeviceRow
	Guides  []catalog.Guide
	Tickets []catalog.Ticket

	Modal *ModalContent
}

// Snapshot resolves the active tab's filtered view plus the open modal.
// Per-device counts come from the relation resolver's reverse scan, not the
// device's own forward list.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	tab := m.tab
	phase := m.phase
	query := m.queries[tab]
	modal := m.modal
	m.mu.Unlock()

	snap := Snapshot{Tab: tab, Phase: phase, Query: query}

	switch tab {
	case TabDevices:
		all := m.store.Devices()
		filtered := search.Devices(all, query)
		snap.Devices = make([]DeviceRow, len(filtered))
		for i, d := range filtered {
			instructions, recipes := m.resolver.GuideCounts(d.ID)
			snap.Devices[i] = DeviceRow{Device: d, InstructionCount: instructions, RecipeCount: recipes}
		}
		snap.Empty = m.emptyState(tab, len(all), len(filtered))
	case TabInstructions:
		all := m.store.Instructions()
		snap.Guides = search.Guides(all, query)
		snap.Empty = m.emptyState(tab, len(all), len(snap.Guides))
	case TabRecipes:
		all := m.store.Recipes()
		snap.Guides = search.Guides(all, query)
		snap.Empty = m.emptyState(tab, len(all), len(snap.Guides))
	case TabSupport:
		all := m.store.Tickets()
		snap.Tickets = search.Tickets(all, query)
		snap.Empty = m.emptyState(tab, len(all), len(snap.Tickets))
	}

	if modal != nil {
		snap.Modal = m.modalContent(*modal)
	}
	return snap
}

func (m *Machine) emptyState(tab Tab, total, shown int) EmptyState {
	switch {
	case shown > 0:
		return NotEmpty
	case !m.store.Loaded(tab.Kind()):
		return NeverLoaded
	case total == 0:
		return EmptyCollection
	}
	return NoResults
}

func (m *Machine) modalContent(modal Modal) *ModalContent {
	content := &ModalContent{Kind: modal.Kind}
	switch modal.Kind {
	case catalog.KindDevices:
		device, ok := m.store.DeviceByID(modal.ID)
		if !ok {
			// The backing entity vanished in a later sync; render nothing.
			return nil
		}
		content.Device = &DeviceDetail{
			Device:       device,
			Instructions: m.resolver.InstructionsForDevice(device.ID),
			Recipes:      m.resolver.RecipesForDevice(device.ID),
		}
	case catalog.KindInstructions:
		guide, ok := m.store.InstructionByID(modal.ID)
		if !ok {
			return nil
		}
		content.Guide = &guide
	case catalog.KindRecipes:
		guide, ok := m.store.RecipeByID(modal.ID)
		if !ok {
			return nil
		}
		content.Guide = &guide
	case catalog.KindTickets:
		ticket, ok := m.store.TicketByID(modal.ID)
		if !ok {
			return nil
		}
		content.Ticket = &ticket
	}
	return content
}
