// Package view holds the tab, modal, and loading state of the client and
// the transitions user actions drive it through. The machine decides what
// to show and when it changed; it never renders anything itself.
package view

import (
	"sync"

	"github.com/fixdesk/fixdesk/internal/catalog"
	"github.com/fixdesk/fixdesk/internal/relation"
	"github.com/fixdesk/fixdesk/internal/store"
)

// Tab is one of the four navigation tabs.
type Tab string

const (
	TabDevices      Tab = "devices"
	TabInstructions Tab = "instructions"
	TabRecipes      Tab = "recipes"
	TabSupport      Tab = "support"
)

// Kind maps a tab to the catalog it displays.
func (t Tab) Kind() catalog.Kind {
	if t == TabSupport {
		return catalog.KindTickets
	}
	return catalog.Kind(t)
}

// Phase is the bootstrap loading state.
type Phase int

const (
	// Bootstrapping holds until the first SyncAll settles. A hung remote
	// call leaves the machine here indefinitely; there is no timeout.
	Bootstrapping Phase = iota
	Ready
)

// Modal identifies the entity shown in the open detail modal.
type Modal struct {
	Kind catalog.Kind
	ID   int
}

// Machine is the view state machine. Initial state: devices tab, modal
// closed, bootstrapping.
type Machine struct {
	mu sync.Mutex

	store    *store.Store
	resolver *relation.Resolver

	tab     Tab
	modal   *Modal
	phase   Phase
	queries map[Tab]string
}

// New returns a Machine in its initial state, reading from st.
func New(st *store.Store) *Machine {
	return &Machine{
		store:    st,
		resolver: relation.New(st),
		tab:      TabDevices,
		queries:  make(map[Tab]string, 4),
	}
}

// Tab returns the active tab.
func (m *Machine) Tab() Tab {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tab
}

// Phase returns the loading phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Modal returns the open modal, or nil when closed.
func (m *Machine) Modal() *Modal {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.modal == nil {
		return nil
	}
	modal := *m.modal
	return &modal
}

// Query returns the transient search query of the given tab.
func (m *Machine) Query(tab Tab) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queries[tab]
}

// FinishBootstrap flips the machine to Ready after the first full sync.
func (m *Machine) FinishBootstrap() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phase = Ready
}

// SelectTab activates a tab. It reports whether the tab's catalog has never
// been synced this session, in which case the caller should trigger a sync.
func (m *Machine) SelectTab(tab Tab) (needsSync bool) {
	m.mu.Lock()
	m.tab = tab
	m.mu.Unlock()
	return !m.store.Loaded(tab.Kind())
}

// SetQuery updates a tab's transient search query. It changes neither the
// active tab nor the modal.
func (m *Machine) SetQuery(tab Tab, query string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries[tab] = query
}

// OpenDetail opens the modal for the given entity. The transition is
// refused, leaving the modal closed and returning false, when the id does
// not resolve in the store. A stale reference is not an error the user
// should see.
func (m *Machine) OpenDetail(kind catalog.Kind, id int) bool {
	if !m.resolves(kind, id) {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modal = &Modal{Kind: kind, ID: id}
	return true
}

// CloseModal closes the modal. Legal from any state.
func (m *Machine) CloseModal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modal = nil
}

func (m *Machine) resolves(kind catalog.Kind, id int) bool {
	switch kind {
	case catalog.KindDevices:
		_, ok := m.store.DeviceByID(id)
		return ok
	case catalog.KindInstructions:
		_, ok := m.store.InstructionByID(id)
		return ok
	case catalog.KindRecipes:
		_, ok := m.store.RecipeByID(id)
		return ok
	case catalog.KindTickets:
		_, ok := m.store.TicketByID(id)
		return ok
	}
	return false
}
